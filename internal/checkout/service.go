package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/ferchini45-svg/carrito/internal/domain"
	"github.com/ferchini45-svg/carrito/internal/session"
	"github.com/rs/zerolog"
)

// OrderWriter persists an order header, its lines and its outbox event
// atomically, setting order.ID on success.
type OrderWriter interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
}

type CartClearer interface {
	Clear(ctx context.Context, sessionID string) error
}

type Service struct {
	sessions session.Store
	orders   OrderWriter
	carts    CartClearer
	now      func() time.Time
}

func NewService(sessions session.Store, orders OrderWriter, carts CartClearer) *Service {
	return &Service{
		sessions: sessions,
		orders:   orders,
		carts:    carts,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Checkout converts the session's cart into an order and returns its id.
// The cart is cleared only after the order is committed; on any failure it
// is left exactly as it was.
func (s *Service) Checkout(ctx context.Context, sessionID string) (int64, error) {
	logger := zerolog.Ctx(ctx)

	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrInvalidID) {
			return 0, err
		}
		return 0, domain.NewPersistenceError("load session", err)
	}

	if sess.User == nil {
		return 0, domain.ErrNotAuthenticated
	}
	if sess.Cart.IsEmpty() {
		return 0, domain.ErrEmptyCart
	}

	order := domain.OrderFromCart(sess.User.ID, sess.Cart, s.now())
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		logger.Error().Err(err).Int64("user_id", sess.User.ID).Msg("checkout failed, cart kept")
		return 0, domain.NewPersistenceError("create order", err)
	}

	// the order is durable; a failed clear must not turn this into an error
	if err := s.carts.Clear(ctx, sessionID); err != nil {
		logger.Warn().Err(err).Int64("order_id", order.ID).Msg("order placed but cart not cleared")
	}

	logger.Info().
		Int64("order_id", order.ID).
		Int64("user_id", order.UserID).
		Str("total", order.Total.String()).
		Int("lines", len(order.Lines)).
		Msg("order placed")
	return order.ID, nil
}
