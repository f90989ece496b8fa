package orders

import (
	"context"
	"errors"

	"github.com/ferchini45-svg/carrito/internal/domain"
	"github.com/ferchini45-svg/carrito/internal/receipt"
	"github.com/rs/zerolog"
)

type OrderRepository interface {
	GetOrderForUser(ctx context.Context, userID, orderID int64) (*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID int64) ([]*domain.Order, error)
}

type UserFinder interface {
	FindUserByID(ctx context.Context, id int64) (*domain.User, error)
}

// Service serves ownership-scoped order reads. Totals are always recomputed
// from the order lines; the stored header total is not trusted.
type Service struct {
	repo  OrderRepository
	users UserFinder
}

func NewService(repo OrderRepository, users UserFinder) *Service {
	return &Service{repo: repo, users: users}
}

// GetOrder returns domain.ErrOrderNotFound both for a missing order and for
// one that belongs to another user.
func (s *Service) GetOrder(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	order, err := s.repo.GetOrderForUser(ctx, userID, orderID)
	if errors.Is(err, domain.ErrOrderNotFound) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("order_id", orderID).Msg("order lookup failed")
		return nil, domain.NewPersistenceError("get order", err)
	}

	order.Total = domain.LinesTotal(order.Lines)
	return order, nil
}

// ListOrders returns the user's orders newest first.
func (s *Service) ListOrders(ctx context.Context, userID int64) ([]domain.OrderSummary, error) {
	orders, err := s.repo.ListOrdersByUserID(ctx, userID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", userID).Msg("order listing failed")
		return nil, domain.NewPersistenceError("list orders", err)
	}

	out := make([]domain.OrderSummary, 0, len(orders))
	for _, o := range orders {
		out = append(out, domain.NewOrderSummary(o))
	}
	return out, nil
}

func (s *Service) Receipt(ctx context.Context, userID, orderID int64) (receipt.Receipt, error) {
	order, err := s.GetOrder(ctx, userID, orderID)
	if err != nil {
		return receipt.Receipt{}, err
	}

	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return receipt.Receipt{}, domain.NewPersistenceError("find receipt user", err)
	}

	lines := make([]receipt.Line, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, receipt.Line{
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal(),
		})
	}

	return receipt.Receipt{
		OrderID:       order.ID,
		CustomerName:  user.Name,
		CustomerEmail: user.Email,
		CreatedAt:     order.CreatedAt,
		Lines:         lines,
		Total:         order.Total,
	}, nil
}
