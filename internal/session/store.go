package session

import (
	"context"
	"errors"

	"github.com/ferchini45-svg/carrito/internal/domain"
	"github.com/google/uuid"
)

var ErrInvalidID = errors.New("invalid session id")

// Store keeps one slot per session id. Load never fails for an unknown id:
// it returns a fresh session with no user and no cart.
type Store interface {
	Load(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, s *domain.Session) error
	Destroy(ctx context.Context, id string) error
}

func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an id produced by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && id != ""
}

func newSession(id string) *domain.Session {
	return &domain.Session{ID: id}
}
