package memory

import (
	"context"
	"fmt"
	"sort"

	domain "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/cart"
)

type cartRepo struct{ b backend }

func (r *cartRepo) FindByCustomer(ctx context.Context, customerID string) ([]domain.Line, error) {
	_ = ctx
	var lines []domain.Line
	err := r.b.read(func(st *state) error {
		for _, l := range st.carts {
			if l.CustomerID == customerID {
				lines = append(lines, *l)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Deterministic order for callers and tests; insertion order is not kept.
	sort.Slice(lines, func(i, j int) bool { return lines[i].ID < lines[j].ID })
	return lines, nil
}

func (r *cartRepo) FindLine(ctx context.Context, customerID, productID, sku string) (*domain.Line, error) {
	_ = ctx
	var found *domain.Line
	err := r.b.read(func(st *state) error {
		for _, l := range st.carts {
			if l.CustomerID == customerID && l.ProductID == productID && l.SKU == sku {
				line := *l
				found = &line
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return found, err
}

func (r *cartRepo) Get(ctx context.Context, lineID string) (*domain.Line, error) {
	_ = ctx
	var found *domain.Line
	err := r.b.read(func(st *state) error {
		l, ok := st.carts[lineID]
		if !ok {
			return domain.ErrNotFound
		}
		line := *l
		found = &line
		return nil
	})
	return found, err
}

func (r *cartRepo) Insert(ctx context.Context, line *domain.Line) error {
	_ = ctx
	if line == nil || line.ID == "" {
		return fmt.Errorf("cart repository: id is required")
	}
	return r.b.write(func(st *state) error {
		l := *line
		st.carts[line.ID] = &l
		return nil
	})
}

func (r *cartRepo) Update(ctx context.Context, line *domain.Line) error {
	_ = ctx
	if line == nil || line.ID == "" {
		return fmt.Errorf("cart repository: id is required")
	}
	return r.b.write(func(st *state) error {
		if _, ok := st.carts[line.ID]; !ok {
			return domain.ErrNotFound
		}
		l := *line
		st.carts[line.ID] = &l
		return nil
	})
}

func (r *cartRepo) Delete(ctx context.Context, lineID string) error {
	_ = ctx
	return r.b.write(func(st *state) error {
		if _, ok := st.carts[lineID]; !ok {
			return domain.ErrNotFound
		}
		delete(st.carts, lineID)
		return nil
	})
}

func (r *cartRepo) Clear(ctx context.Context, customerID string) error {
	_ = ctx
	return r.b.write(func(st *state) error {
		for id, l := range st.carts {
			if l.CustomerID == customerID {
				delete(st.carts, id)
			}
		}
		return nil
	})
}
