package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const EventOrderPlaced = "order_placed"

// Order is immutable once persisted. Total is what was stored at checkout;
// readers recompute it from Lines.
type Order struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
	Lines     []OrderLine     `json:"lines,omitempty"`
}

type OrderLine struct {
	OrderID     int64           `json:"order_id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func LinesTotal(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// OrderSummary is one row of a user's order history.
type OrderSummary struct {
	ID        int64           `json:"id"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
	LineCount int             `json:"line_count"`
	ItemCount int             `json:"item_count"`
}

func NewOrderSummary(o *Order) OrderSummary {
	items := 0
	for _, l := range o.Lines {
		items += l.Quantity
	}
	return OrderSummary{
		ID:        o.ID,
		Total:     LinesTotal(o.Lines),
		CreatedAt: o.CreatedAt,
		LineCount: len(o.Lines),
		ItemCount: items,
	}
}

// OrderFromCart builds an unsaved order for userID from the cart snapshot.
func OrderFromCart(userID int64, cart Cart, now time.Time) *Order {
	lines := make([]OrderLine, 0, len(cart))
	for _, l := range cart.Lines() {
		lines = append(lines, OrderLine{
			ProductID:   l.ProductID,
			ProductName: l.Name,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}
	return &Order{
		UserID:    userID,
		Total:     cart.Total(),
		CreatedAt: now,
		Lines:     lines,
	}
}

// OrderEvent is an outbox row written in the checkout transaction.
type OrderEvent struct {
	ID          int64
	OrderID     int64
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
	PublishedAt *time.Time
}
