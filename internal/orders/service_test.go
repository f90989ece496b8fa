package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ferchini45-svg/carrito/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	orders []*domain.Order
	err    error
}

func (m *mockRepository) GetOrderForUser(_ context.Context, userID, orderID int64) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, o := range m.orders {
		if o.ID == orderID && o.UserID == userID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (m *mockRepository) ListOrdersByUserID(_ context.Context, userID int64) ([]*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Order
	for i := len(m.orders) - 1; i >= 0; i-- {
		if m.orders[i].UserID == userID {
			out = append(out, m.orders[i])
		}
	}
	return out, nil
}

type mockUsers map[int64]*domain.User

func (m mockUsers) FindUserByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := m[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup() (*Service, *mockRepository) {
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	repo := &mockRepository{orders: []*domain.Order{
		{ID: 1, UserID: 7, Total: dec("19.98"), CreatedAt: created, Lines: []domain.OrderLine{
			{OrderID: 1, ProductID: 1, ProductName: "Tee", Quantity: 2, UnitPrice: dec("9.99")},
		}},
		{ID: 2, UserID: 7, Total: dec("1000"), CreatedAt: created.Add(time.Hour), Lines: []domain.OrderLine{
			{OrderID: 2, ProductID: 2, ProductName: "Jeans", Quantity: 1, UnitPrice: dec("39.90")},
			{OrderID: 2, ProductID: 4, ProductName: "Cap", Quantity: 3, UnitPrice: dec("12.50")},
		}},
		{ID: 3, UserID: 8, Total: dec("5"), CreatedAt: created, Lines: []domain.OrderLine{
			{OrderID: 3, ProductID: 4, ProductName: "Cap", Quantity: 1, UnitPrice: dec("5")},
		}},
	}}
	users := mockUsers{7: {ID: 7, Name: "Ana", Email: "ana@example.com"}}
	return NewService(repo, users), repo
}

func TestGetOrder_RecomputesTotal(t *testing.T) {
	svc, _ := setup()

	order, err := svc.GetOrder(context.Background(), 7, 2)
	require.NoError(t, err)
	assert.Equal(t, "77.40", order.Total.StringFixed(2))
	assert.Len(t, order.Lines, 2)
}

func TestGetOrder_NotFoundAndForeignAreIdentical(t *testing.T) {
	svc, _ := setup()

	_, errForeign := svc.GetOrder(context.Background(), 8, 1)
	_, errMissing := svc.GetOrder(context.Background(), 7, 999)

	assert.ErrorIs(t, errForeign, domain.ErrOrderNotFound)
	assert.Equal(t, errMissing, errForeign)
}

func TestGetOrder_StorageFault(t *testing.T) {
	svc, repo := setup()
	repo.err = errors.New("timeout")

	_, err := svc.GetOrder(context.Background(), 7, 1)
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestListOrders_SummariesNewestFirst(t *testing.T) {
	svc, _ := setup()

	list, err := svc.ListOrders(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, int64(2), list[0].ID)
	assert.Equal(t, 2, list[0].LineCount)
	assert.Equal(t, 4, list[0].ItemCount)
	assert.Equal(t, "77.40", list[0].Total.StringFixed(2))

	assert.Equal(t, int64(1), list[1].ID)
	assert.Equal(t, "19.98", list[1].Total.StringFixed(2))
}

func TestListOrders_Empty(t *testing.T) {
	svc, _ := setup()

	list, err := svc.ListOrders(context.Background(), 99)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestReceipt(t *testing.T) {
	svc, _ := setup()

	rc, err := svc.Receipt(context.Background(), 7, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rc.OrderID)
	assert.Equal(t, "Ana", rc.CustomerName)
	assert.Equal(t, "ana@example.com", rc.CustomerEmail)
	require.Len(t, rc.Lines, 2)
	assert.Equal(t, "Cap", rc.Lines[1].ProductName)
	assert.Equal(t, "37.50", rc.Lines[1].Subtotal.StringFixed(2))
	assert.Equal(t, "77.40", rc.Total.StringFixed(2))

	sum := decimal.Zero
	for _, l := range rc.Lines {
		sum = sum.Add(l.Subtotal)
	}
	assert.True(t, sum.Equal(rc.Total))
}

func TestReceipt_ForeignOrder(t *testing.T) {
	svc, _ := setup()

	_, err := svc.Receipt(context.Background(), 7, 3)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}
