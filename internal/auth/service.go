package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ferchini45-svg/carrito/internal/domain"
	"github.com/ferchini45-svg/carrito/internal/session"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const DefaultCost = 10

type UserRepository interface {
	CreateUser(ctx context.Context, u *domain.User) error
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

type Service struct {
	users    UserRepository
	sessions session.Store
	cost     int
}

func NewService(users UserRepository, sessions session.Store) *Service {
	return &Service{users: users, sessions: sessions, cost: DefaultCost}
}

func (s *Service) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	name, email = strings.TrimSpace(name), normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, domain.ErrMissingFields
	}

	_, err := s.users.FindUserByEmail(ctx, email)
	if err == nil {
		return nil, domain.ErrEmailTaken
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.NewPersistenceError("find user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		return nil, domain.NewPersistenceError("create user", err)
	}

	zerolog.Ctx(ctx).Info().Int64("user_id", u.ID).Msg("user registered")
	return u, nil
}

// Login binds the user to the session. A session without a cart gets an
// empty one; an existing cart is kept.
func (s *Service) Login(ctx context.Context, sessionID, email, password string) (*domain.SessionUser, error) {
	u, err := s.users.FindUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, domain.NewPersistenceError("find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrWrongPassword
	}

	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, domain.NewPersistenceError("load session", err)
	}
	sess.User = u.SessionUser()
	sess.EnsureCart()
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, domain.NewPersistenceError("save session", err)
	}

	zerolog.Ctx(ctx).Info().Int64("user_id", u.ID).Msg("user logged in")
	return sess.User, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		return domain.NewPersistenceError("destroy session", err)
	}
	return nil
}

// CurrentUser returns nil when nobody is logged in on the session.
func (s *Service) CurrentUser(ctx context.Context, sessionID string) (*domain.SessionUser, error) {
	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, domain.NewPersistenceError("load session", err)
	}
	return sess.User, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
