package returns

import "context"

type Repository interface {
	Insert(ctx context.Context, req *Request) error
	Get(ctx context.Context, id string) (*Request, error)
	Update(ctx context.Context, req *Request) error
}
