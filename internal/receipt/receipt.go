// Package receipt defines the data handed to receipt renderers. Every
// amount is computed by the caller; renderers only lay it out.
package receipt

import (
	"io"
	"time"

	"github.com/shopspring/decimal"
)

type Line struct {
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

type Receipt struct {
	OrderID       int64
	CustomerName  string
	CustomerEmail string
	CreatedAt     time.Time
	Lines         []Line
	Total         decimal.Decimal
}

type Renderer interface {
	Render(w io.Writer, r Receipt) error
	ContentType() string
}
