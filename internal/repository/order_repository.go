package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ferchini45-svg/carrito/internal/domain"
	"github.com/shopspring/decimal"
)

type orderPlacedPayload struct {
	OrderID   int64              `json:"order_id"`
	UserID    int64              `json:"user_id"`
	Total     decimal.Decimal    `json:"total"`
	Lines     []domain.OrderLine `json:"lines"`
	CreatedAt time.Time          `json:"created_at"`
}

// CreateOrder writes the order header, all of its lines and an order_placed
// outbox event in one transaction. On success order.ID and the lines'
// OrderID are set. On failure nothing is persisted.
func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) error {
	if len(order.Lines) == 0 {
		return fmt.Errorf("create order: no lines")
	}

	return r.withTx(ctx, func(tx *sql.Tx) error {
		var orderID int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO orders (user_id, total, created_at) VALUES ($1, $2, $3) RETURNING id`,
			order.UserID, order.Total.String(), order.CreatedAt,
		).Scan(&orderID)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		if err := insertOrderLines(ctx, tx, orderID, order.Lines); err != nil {
			return err
		}

		order.ID = orderID
		for i := range order.Lines {
			order.Lines[i].OrderID = orderID
		}

		payload, err := json.Marshal(orderPlacedPayload{
			OrderID:   orderID,
			UserID:    order.UserID,
			Total:     order.Total,
			Lines:     order.Lines,
			CreatedAt: order.CreatedAt,
		})
		if err != nil {
			return fmt.Errorf("marshal order event: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_events (order_id, event_type, payload, created_at) VALUES ($1, $2, $3, $4)`,
			orderID, domain.EventOrderPlaced, string(payload), order.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert order event: %w", err)
		}
		return nil
	})
}

// insertOrderLines writes every line with a single multi-row INSERT.
func insertOrderLines(ctx context.Context, tx *sql.Tx, orderID int64, lines []domain.OrderLine) error {
	var sb strings.Builder
	sb.WriteString(`INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES `)

	args := make([]any, 0, len(lines)*4)
	for i, l := range lines {
		if i > 0 {
			sb.WriteString(", ")
		}
		n := i * 4
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4)
		args = append(args, orderID, l.ProductID, l.Quantity, l.UnitPrice.String())
	}

	if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("insert order lines: %w", err)
	}
	return nil
}

// GetOrderForUser returns the order with its lines in insertion order.
// An order owned by someone else is reported exactly like a missing one.
func (r *Repository) GetOrderForUser(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	query := `SELECT o.id, o.user_id, o.total, o.created_at,
	                 oi.product_id, p.name, oi.quantity, oi.unit_price
	          FROM orders o
	          LEFT JOIN order_items oi ON oi.order_id = o.id
	          LEFT JOIN products p ON p.id = oi.product_id
	          WHERE o.id = $1 AND o.user_id = $2
	          ORDER BY oi.id`

	rows, err := r.db.QueryContext(ctx, query, orderID, userID)
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}
	defer rows.Close()

	var order *domain.Order
	for rows.Next() {
		var (
			o         domain.Order
			productID sql.NullInt64
			name      sql.NullString
			quantity  sql.NullInt64
			unitPrice decimal.NullDecimal
		)
		if err := rows.Scan(&o.ID, &o.UserID, &o.Total, &o.CreatedAt,
			&productID, &name, &quantity, &unitPrice); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		if order == nil {
			order = &o
		}
		if productID.Valid {
			order.Lines = append(order.Lines, domain.OrderLine{
				OrderID:     order.ID,
				ProductID:   productID.Int64,
				ProductName: name.String,
				Quantity:    int(quantity.Int64),
				UnitPrice:   unitPrice.Decimal,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

// ListOrdersByUserID returns the user's orders newest first, each with its
// lines (product names not loaded).
func (r *Repository) ListOrdersByUserID(ctx context.Context, userID int64) ([]*domain.Order, error) {
	query := `SELECT o.id, o.user_id, o.total, o.created_at,
	                 oi.product_id, oi.quantity, oi.unit_price
	          FROM orders o
	          LEFT JOIN order_items oi ON oi.order_id = o.id
	          WHERE o.user_id = $1
	          ORDER BY o.created_at DESC, o.id DESC, oi.id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders by user id: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	var current *domain.Order
	for rows.Next() {
		var (
			o         domain.Order
			productID sql.NullInt64
			quantity  sql.NullInt64
			unitPrice decimal.NullDecimal
		)
		if err := rows.Scan(&o.ID, &o.UserID, &o.Total, &o.CreatedAt,
			&productID, &quantity, &unitPrice); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		if current == nil || current.ID != o.ID {
			current = &o
			orders = append(orders, current)
		}
		if productID.Valid {
			current.Lines = append(current.Lines, domain.OrderLine{
				OrderID:   current.ID,
				ProductID: productID.Int64,
				Quantity:  int(quantity.Int64),
				UnitPrice: unitPrice.Decimal,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return orders, nil
}
