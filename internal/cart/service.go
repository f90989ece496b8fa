package cart

import (
	"context"
	"errors"

	"github.com/ferchini45-svg/carrito/internal/domain"
	"github.com/ferchini45-svg/carrito/internal/session"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type ProductFinder interface {
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
}

// Service mutates the cart held in a session slot. Each operation loads the
// slot, applies the change and saves it back.
type Service struct {
	sessions session.Store
	catalog  ProductFinder
}

func NewService(sessions session.Store, catalog ProductFinder) *Service {
	return &Service{
		sessions: sessions,
		catalog:  catalog,
	}
}

// Total is the exact cart total.
func Total(c domain.Cart) decimal.Decimal {
	return c.Total()
}

func (s *Service) Get(ctx context.Context, sessionID string) (domain.Cart, decimal.Decimal, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	c := sess.EnsureCart()
	return c, Total(c), nil
}

// Add increases the quantity of an existing line without refreshing its
// snapshot, or snapshots the product into a new line. A line never grows
// past MaxQuantity.
func (s *Service) Add(ctx context.Context, sessionID string, productID int64, rawQuantity string) (domain.Cart, error) {
	quantity, err := ParseAddQuantity(rawQuantity)
	if err != nil {
		return nil, err
	}

	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c := sess.EnsureCart()

	if line, ok := c[productID]; ok {
		if line.Quantity > MaxQuantity-quantity {
			return nil, domain.ErrInvalidQuantity
		}
		line.Quantity += quantity
		c[productID] = line
	} else {
		product, err := s.catalog.FindByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		c[productID] = domain.NewCartLine(product, quantity)
	}

	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Int64("product_id", productID).
		Int("quantity", c[productID].Quantity).
		Msg("cart line added")
	return c, nil
}

// Update sets the quantity of an existing line; a quantity <= 0 removes it.
func (s *Service) Update(ctx context.Context, sessionID string, productID int64, rawQuantity string) (domain.Cart, decimal.Decimal, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	c := sess.EnsureCart()

	line, ok := c[productID]
	if !ok {
		return nil, decimal.Zero, domain.ErrLineNotFound
	}

	quantity, err := ParseQuantity(rawQuantity)
	if err != nil {
		return nil, decimal.Zero, err
	}

	if quantity <= 0 {
		delete(c, productID)
	} else {
		line.Quantity = quantity
		c[productID] = line
	}

	if err := s.save(ctx, sess); err != nil {
		return nil, decimal.Zero, err
	}
	return c, Total(c), nil
}

// Remove is a no-op for a product that is not in the cart.
func (s *Service) Remove(ctx context.Context, sessionID string, productID int64) (domain.Cart, decimal.Decimal, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	c := sess.EnsureCart()

	if _, ok := c[productID]; ok {
		delete(c, productID)
		if err := s.save(ctx, sess); err != nil {
			return nil, decimal.Zero, err
		}
	}
	return c, Total(c), nil
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	sess.Cart = domain.NewCart()
	return s.save(ctx, sess)
}

func (s *Service) load(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrInvalidID) {
			return nil, err
		}
		zerolog.Ctx(ctx).Error().Err(err).Msg("session load failed")
		return nil, domain.NewPersistenceError("load session", err)
	}
	return sess, nil
}

func (s *Service) save(ctx context.Context, sess *domain.Session) error {
	if err := s.sessions.Save(ctx, sess); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("session save failed")
		return domain.NewPersistenceError("save session", err)
	}
	return nil
}
