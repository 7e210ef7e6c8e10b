package cart

import (
	"context"
	"fmt"
	"testing"

	domain "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/cart"
	dominv "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/inventory"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seqIDGenerator struct{ n int }

func (g *seqIDGenerator) NewID() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

func newService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.SeedProduct("p-1", 5, decimal.RequireFromString("10.00"))
	return NewService(store.Stores(), &seqIDGenerator{}), store
}

func TestAddLine_InsertsNewLine(t *testing.T) {
	svc, _ := newService(t)

	line, err := svc.AddLine(context.Background(), "cust-1", "p-1", "SKU-RED-M", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, "10.00", line.UnitPrice.StringFixed(2))
}

// Adding the same (customer, product, sku) twice must yield one line with the
// summed quantity, never two lines.
func TestAddLine_IdempotentIncrement(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.AddLine(context.Background(), "cust-1", "p-1", "SKU-RED-M", 2)
	require.NoError(t, err)
	_, err = svc.AddLine(context.Background(), "cust-1", "p-1", "SKU-RED-M", 3)
	require.NoError(t, err)

	lines, total, err := svc.List(context.Background(), "cust-1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, "50.00", total.StringFixed(2))
}

func TestAddLine_DifferentSKUsAreSeparateLines(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.AddLine(context.Background(), "cust-1", "p-1", "SKU-RED-M", 1)
	require.NoError(t, err)
	_, err = svc.AddLine(context.Background(), "cust-1", "p-1", "SKU-BLUE-L", 1)
	require.NoError(t, err)

	lines, _, err := svc.List(context.Background(), "cust-1")
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestAddLine_UnknownProduct(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.AddLine(context.Background(), "cust-1", "missing", "SKU-1", 1)
	assert.ErrorIs(t, err, dominv.ErrNotFound)
}

// The add-time stock check is advisory; it still rejects carts that already
// exceed current stock.
func TestAddLine_SoftStockCheck(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.AddLine(context.Background(), "cust-1", "p-1", "SKU-RED-M", 4)
	require.NoError(t, err)

	_, err = svc.AddLine(context.Background(), "cust-1", "p-1", "SKU-RED-M", 2)
	assert.ErrorIs(t, err, dominv.ErrInsufficientStock)

	// The existing line is untouched by the rejected increment.
	lines, _, err := svc.List(context.Background(), "cust-1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 4, lines[0].Quantity)
}

func TestRemoveLine_NotFound(t *testing.T) {
	svc, _ := newService(t)
	assert.ErrorIs(t, svc.RemoveLine(context.Background(), "missing"), domain.ErrNotFound)
}

func TestRemoveLine(t *testing.T) {
	svc, _ := newService(t)

	line, err := svc.AddLine(context.Background(), "cust-1", "p-1", "SKU-RED-M", 1)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveLine(context.Background(), line.ID))

	lines, total, err := svc.List(context.Background(), "cust-1")
	require.NoError(t, err)
	assert.Empty(t, lines)
	assert.True(t, total.IsZero())
}
