// Package memory provides an in-memory storage backend. It backs the unit
// tests and the out-of-the-box development mode; the mysql package is the
// production backend.
package memory

import (
	"context"
	"sync"

	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/cart"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/inventory"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/order"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/returns"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/storage"
	"github.com/shopspring/decimal"
)

// state is the whole dataset. Transactions stage a deep copy and swap it in
// on commit, so a failed transaction leaves no trace.
type state struct {
	orders  map[string]*order.Order
	carts   map[string]*cart.Line
	items   map[string]*inventory.Item
	returns map[string]*returns.Request
}

func newState() *state {
	return &state{
		orders:  make(map[string]*order.Order),
		carts:   make(map[string]*cart.Line),
		items:   make(map[string]*inventory.Item),
		returns: make(map[string]*returns.Request),
	}
}

func (st *state) clone() *state {
	c := newState()
	for k, v := range st.orders {
		c.orders[k] = v.Clone()
	}
	for k, v := range st.carts {
		line := *v
		c.carts[k] = &line
	}
	for k, v := range st.items {
		item := *v
		c.items[k] = &item
	}
	for k, v := range st.returns {
		req := *v
		c.returns[k] = &req
	}
	return c
}

// backend gives repositories access to state either through the store lock
// (direct calls) or directly against a staged copy (inside a transaction).
type backend interface {
	read(fn func(*state) error) error
	write(fn func(*state) error) error
}

type Store struct {
	mu sync.RWMutex
	st *state
}

func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) read(fn func(*state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.st)
}

func (s *Store) write(fn func(*state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

func (s *Store) Stores() storage.Stores {
	return storesOn(s)
}

// RunInTx holds the store lock for the whole transaction, runs fn against a
// staged deep copy and swaps the copy in only when fn succeeds. Holding the
// lock also serialises conditional stock decrements across transactions.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, st storage.Stores) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.st.clone()
	if err := fn(ctx, storesOn(txBackend{staged})); err != nil {
		return err
	}
	s.st = staged
	return nil
}

// txBackend operates on a staged state without locking; the transaction holds
// the store lock already.
type txBackend struct{ st *state }

func (b txBackend) read(fn func(*state) error) error  { return fn(b.st) }
func (b txBackend) write(fn func(*state) error) error { return fn(b.st) }

func storesOn(b backend) storage.Stores {
	return storage.Stores{
		Orders:    &orderRepo{b: b},
		Carts:     &cartRepo{b: b},
		Inventory: &inventoryRepo{b: b},
		Returns:   &returnsRepo{b: b},
	}
}

// SeedProduct registers a product with its stock and price, overwriting any
// previous entry. Used by tests and the development wiring.
func (s *Store) SeedProduct(productID string, stock int, price decimal.Decimal) {
	item, err := inventory.NewItem(productID, stock, price)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.items[productID] = item
}
