package memory

import (
	"context"
	"fmt"

	domain "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/order"
)

type orderRepo struct{ b backend }

func (r *orderRepo) Insert(ctx context.Context, o *domain.Order) error {
	_ = ctx
	if o == nil || o.ID == "" {
		return fmt.Errorf("order repository: id is required")
	}
	return r.b.write(func(st *state) error {
		if _, exists := st.orders[o.ID]; exists {
			return domain.ErrConflict
		}
		st.orders[o.ID] = o.Clone()
		return nil
	})
}

func (r *orderRepo) Get(ctx context.Context, id string) (*domain.Order, error) {
	_ = ctx
	var found *domain.Order
	err := r.b.read(func(st *state) error {
		o, ok := st.orders[id]
		if !ok {
			return domain.ErrNotFound
		}
		found = o.Clone()
		return nil
	})
	return found, err
}

func (r *orderRepo) Update(ctx context.Context, o *domain.Order) error {
	_ = ctx
	if o == nil || o.ID == "" {
		return fmt.Errorf("order repository: id is required")
	}
	return r.b.write(func(st *state) error {
		if _, exists := st.orders[o.ID]; !exists {
			return domain.ErrNotFound
		}
		st.orders[o.ID] = o.Clone()
		return nil
	})
}

func (r *orderRepo) GetLine(ctx context.Context, lineID string) (*domain.Line, error) {
	_ = ctx
	var found *domain.Line
	err := r.b.read(func(st *state) error {
		for _, o := range st.orders {
			for i := range o.Lines {
				if o.Lines[i].ID == lineID {
					line := o.Lines[i]
					found = &line
					return nil
				}
			}
		}
		return domain.ErrLineNotFound
	})
	return found, err
}
