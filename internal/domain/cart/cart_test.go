package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLine_RejectsNonPositiveQuantity(t *testing.T) {
	_, err := NewLine("l-1", "cust-1", "p-1", "SKU-RED-M", 0, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestSubtotal(t *testing.T) {
	line, err := NewLine("l-1", "cust-1", "p-1", "SKU-RED-M", 3, decimal.RequireFromString("19.99"))
	require.NoError(t, err)
	assert.Equal(t, "59.97", line.Subtotal().StringFixed(2))
}

func TestTotal_ExactDecimal(t *testing.T) {
	lines := []Line{
		{Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		{Quantity: 3, UnitPrice: decimal.RequireFromString("0.10")},
	}
	// 0.1 is not representable in binary floating point; decimal keeps the
	// total exact.
	assert.Equal(t, "20.30", Total(lines).StringFixed(2))
}

func TestTotal_EmptyCart(t *testing.T) {
	assert.True(t, Total(nil).IsZero())
}
