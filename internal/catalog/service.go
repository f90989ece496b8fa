package catalog

import (
	"context"
	"errors"
	"strconv"

	"github.com/ferchini45-svg/carrito/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

type ProductRepository interface {
	FindProductByID(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
}

type Service struct {
	repo ProductRepository
	sfg  singleflight.Group // collapses concurrent lookups of the same product
}

func NewService(repo ProductRepository) *Service {
	return &Service{repo: repo}
}

// FindByID returns domain.ErrProductNotFound for unknown ids and a
// *domain.PersistenceError for storage faults.
func (s *Service) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	v, err, _ := s.sfg.Do(strconv.FormatInt(id, 10), func() (interface{}, error) {
		return s.repo.FindProductByID(ctx, id)
	})
	if errors.Is(err, domain.ErrProductNotFound) {
		return nil, err
	}
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("product_id", id).Msg("product lookup failed")
		return nil, domain.NewPersistenceError("find product", err)
	}

	// shared between callers of the same flight
	p := *v.(*domain.Product)
	return &p, nil
}

func (s *Service) List(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("product listing failed")
		return nil, domain.NewPersistenceError("list products", err)
	}
	return products, nil
}
