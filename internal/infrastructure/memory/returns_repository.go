package memory

import (
	"context"
	"fmt"

	domain "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/returns"
)

type returnsRepo struct{ b backend }

func (r *returnsRepo) Insert(ctx context.Context, req *domain.Request) error {
	_ = ctx
	if req == nil || req.ID == "" {
		return fmt.Errorf("returns repository: id is required")
	}
	return r.b.write(func(st *state) error {
		clone := *req
		st.returns[req.ID] = &clone
		return nil
	})
}

func (r *returnsRepo) Get(ctx context.Context, id string) (*domain.Request, error) {
	_ = ctx
	var found *domain.Request
	err := r.b.read(func(st *state) error {
		req, ok := st.returns[id]
		if !ok {
			return domain.ErrNotFound
		}
		clone := *req
		found = &clone
		return nil
	})
	return found, err
}

func (r *returnsRepo) Update(ctx context.Context, req *domain.Request) error {
	_ = ctx
	if req == nil || req.ID == "" {
		return fmt.Errorf("returns repository: id is required")
	}
	return r.b.write(func(st *state) error {
		if _, ok := st.returns[req.ID]; !ok {
			return domain.ErrNotFound
		}
		clone := *req
		st.returns[req.ID] = &clone
		return nil
	})
}
