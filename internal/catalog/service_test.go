package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ferchini45-svg/carrito/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	products map[int64]*domain.Product
	err      error
	delay    time.Duration
	calls    atomic.Int32
}

func (m *mockRepository) FindProductByID(_ context.Context, id int64) (*domain.Product, error) {
	m.calls.Add(1)
	time.Sleep(m.delay)
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func (m *mockRepository) ListProducts(context.Context) ([]*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Product
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func newMockRepository() *mockRepository {
	return &mockRepository{products: map[int64]*domain.Product{
		1: {ID: 1, Name: "Classic T-Shirt", Price: decimal.RequireFromString("9.99"), Image: "tshirt.jpg"},
	}}
}

func TestFindByID_Success(t *testing.T) {
	svc := NewService(newMockRepository())

	p, err := svc.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Classic T-Shirt", p.Name)
}

func TestFindByID_NotFound(t *testing.T) {
	svc := NewService(newMockRepository())

	p, err := svc.FindByID(context.Background(), 42)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.NotErrorIs(t, err, domain.ErrPersistence)
}

func TestFindByID_StorageFault(t *testing.T) {
	repo := newMockRepository()
	repo.err = errors.New("connection refused")
	svc := NewService(repo)

	_, err := svc.FindByID(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestFindByID_ConcurrentLookupsCollapse(t *testing.T) {
	repo := newMockRepository()
	repo.delay = 50 * time.Millisecond
	svc := NewService(repo)

	var wg sync.WaitGroup
	results := make([]*domain.Product, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := svc.FindByID(context.Background(), 1)
			assert.NoError(t, err)
			results[i] = p
		}(i)
	}
	wg.Wait()

	assert.Less(t, repo.calls.Load(), int32(10))
	// every caller gets its own copy
	results[0].Name = "changed"
	assert.Equal(t, "Classic T-Shirt", results[1].Name)
}

func TestList_StorageFault(t *testing.T) {
	repo := newMockRepository()
	repo.err = errors.New("boom")
	svc := NewService(repo)

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, domain.ErrPersistence)
}
