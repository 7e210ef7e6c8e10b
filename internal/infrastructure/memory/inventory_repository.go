package memory

import (
	"context"
	"time"

	domain "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/inventory"
)

type inventoryRepo struct{ b backend }

func (r *inventoryRepo) Get(ctx context.Context, productID string) (*domain.Item, error) {
	_ = ctx
	var found *domain.Item
	err := r.b.read(func(st *state) error {
		item, ok := st.items[productID]
		if !ok {
			return domain.ErrNotFound
		}
		clone := *item
		found = &clone
		return nil
	})
	return found, err
}

func (r *inventoryRepo) Save(ctx context.Context, item *domain.Item) error {
	_ = ctx
	if item == nil {
		return nil
	}
	return r.b.write(func(st *state) error {
		clone := *item
		st.items[item.ProductID] = &clone
		return nil
	})
}

// Decrement performs the check and the write under the same store lock, so
// concurrent decrements on one product cannot oversell.
func (r *inventoryRepo) Decrement(ctx context.Context, productID string, quantity int) error {
	_ = ctx
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	return r.b.write(func(st *state) error {
		item, ok := st.items[productID]
		if !ok {
			return domain.ErrNotFound
		}
		if item.Stock < quantity {
			return domain.ErrInsufficientStock
		}
		item.Stock -= quantity
		item.UpdatedAt = time.Now().UTC()
		return nil
	})
}

func (r *inventoryRepo) Increment(ctx context.Context, productID string, quantity int) error {
	_ = ctx
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	return r.b.write(func(st *state) error {
		item, ok := st.items[productID]
		if !ok {
			return domain.ErrNotFound
		}
		item.Stock += quantity
		item.UpdatedAt = time.Now().UTC()
		return nil
	})
}
