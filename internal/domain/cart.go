package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CartLine is a product snapshot taken when the product was first added.
// Name, UnitPrice and Image are never refreshed from the catalog afterwards.
type CartLine struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart maps product id to its line. A product appears at most once.
type Cart map[int64]CartLine

func NewCart() Cart {
	return make(Cart)
}

func NewCartLine(p *Product, quantity int) CartLine {
	return CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  quantity,
		Image:     p.Image,
	}
}

// Total is the exact sum of unit price times quantity over all lines.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c {
		total = total.Add(line.Subtotal())
	}
	return total
}

func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

// Lines returns the lines ordered by product id.
func (c Cart) Lines() []CartLine {
	lines := make([]CartLine, 0, len(c))
	for _, line := range c {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].ProductID < lines[j].ProductID
	})
	return lines
}

func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	for id, line := range c {
		out[id] = line
	}
	return out
}
