package inventory

import "context"

type Repository interface {
	Get(ctx context.Context, productID string) (*Item, error)
	Save(ctx context.Context, item *Item) error
	// Decrement reserves stock with a conditional update: it fails with
	// ErrInsufficientStock when current stock is below quantity, and the
	// check-and-write is atomic with respect to concurrent decrements on the
	// same product.
	Decrement(ctx context.Context, productID string, quantity int) error
	// Increment restores stock released by a cancellation or payment failure.
	// Increments mirror earlier decrements, so no upper bound is enforced.
	Increment(ctx context.Context, productID string, quantity int) error
}
