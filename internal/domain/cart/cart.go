package cart

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound        = errors.New("cart: line not found")
	ErrEmpty           = errors.New("cart: cart is empty")
	ErrInvalidQuantity = errors.New("cart: quantity must be greater than zero")
)

// Line is one entry in a customer's shopping cart. A customer holds at most
// one line per (product, sku) pair; repeated adds increment the quantity.
type Line struct {
	ID         string
	CustomerID string
	ProductID  string
	SKU        string
	Quantity   int
	UnitPrice  decimal.Decimal
	AddedAt    time.Time
}

func NewLine(id, customerID, productID, sku string, quantity int, unitPrice decimal.Decimal) (*Line, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return &Line{
		ID:         id,
		CustomerID: customerID,
		ProductID:  productID,
		SKU:        sku,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		AddedAt:    time.Now().UTC(),
	}, nil
}

// Subtotal is unit price times quantity, in exact decimal arithmetic.
func (l *Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Total sums the subtotals of the given lines. Currency totals never go
// through floating point.
func Total(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for i := range lines {
		total = total.Add(lines[i].Subtotal())
	}
	return total
}
