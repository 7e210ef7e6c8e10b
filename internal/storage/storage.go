// Package storage defines the transaction boundary shared by the workflow
// services. A backend hands out its repositories as a Stores bundle and runs
// multi-store mutations inside a single transaction.
package storage

import (
	"context"

	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/cart"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/inventory"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/order"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/returns"
)

// Stores bundles the repositories that participate in the order workflow.
// Inside RunInTx every repository is scoped to the same transaction.
type Stores struct {
	Orders    order.Repository
	Carts     cart.Repository
	Inventory inventory.Repository
	Returns   returns.Repository
}

// TxRunner executes fn atomically: either every write made through the
// supplied Stores commits, or none do.
type TxRunner interface {
	Stores() Stores
	RunInTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}
