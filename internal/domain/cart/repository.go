package cart

import "context"

type Repository interface {
	FindByCustomer(ctx context.Context, customerID string) ([]Line, error)
	// FindLine looks up the single line for a (customer, product, sku) triple.
	FindLine(ctx context.Context, customerID, productID, sku string) (*Line, error)
	Get(ctx context.Context, lineID string) (*Line, error)
	Insert(ctx context.Context, line *Line) error
	Update(ctx context.Context, line *Line) error
	Delete(ctx context.Context, lineID string) error
	Clear(ctx context.Context, customerID string) error
}
