package inventory

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("inventory: product not found")
	ErrInvalidQuantity   = errors.New("inventory: quantity must be greater than zero")
	ErrInsufficientStock = errors.New("inventory: insufficient stock")
)

// Item is the stock and price view of a product. The catalog collaborator
// owns the remaining product columns.
type Item struct {
	ProductID string
	Stock     int
	Price     decimal.Decimal
	UpdatedAt time.Time
}

func NewItem(productID string, stock int, price decimal.Decimal) (*Item, error) {
	if productID == "" {
		return nil, errors.New("inventory: product id is required")
	}
	if stock < 0 {
		return nil, ErrInvalidQuantity
	}
	return &Item{
		ProductID: productID,
		Stock:     stock,
		Price:     price,
		UpdatedAt: time.Now().UTC(),
	}, nil
}

func (i *Item) Available(quantity int) bool {
	return quantity > 0 && quantity <= i.Stock
}
