package order

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 7, 14, 5, 0, 0, time.UTC)

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	lines := []Line{{
		ID:              "line-1",
		ProductID:       "p-1",
		Quantity:        2,
		PriceAtPurchase: decimal.RequireFromString("10.00"),
	}}
	o, err := New("11112222-3333-4444-5555-666677778888", "cust-1", lines, decimal.RequireFromString("20.00"), testNow)
	require.NoError(t, err)
	return o
}

func TestNew_Defaults(t *testing.T) {
	o := newTestOrder(t)

	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, PaymentPending, o.PaymentStatus)
	assert.Equal(t, "11112222-3333-4444-5555-666677778888", o.Lines[0].OrderID)
	assert.True(t, o.CanProcessPayment())
}

func TestNew_RequiresLines(t *testing.T) {
	_, err := New("id-1", "cust-1", nil, decimal.Zero, time.Now())
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestNewNumber_Format(t *testing.T) {
	createdAt := time.Date(2024, 3, 7, 14, 5, 0, 0, time.UTC)
	number := NewNumber(createdAt, "abcdef12-0000-0000-0000-000000000000")
	assert.Equal(t, "ORD-202403071405-abcd", number)
}

func TestNewNumber_ShortID(t *testing.T) {
	createdAt := time.Date(2024, 3, 7, 14, 5, 0, 0, time.UTC)
	assert.Equal(t, "ORD-202403071405-ab", NewNumber(createdAt, "ab"))
}

func TestMarkPaid(t *testing.T) {
	o := newTestOrder(t)
	paidAt := testNow.Add(time.Minute)

	require.NoError(t, o.MarkPaid(paidAt))
	assert.Equal(t, StatusPaid, o.Status)
	assert.Equal(t, PaymentPaid, o.PaymentStatus)
	assert.Equal(t, paidAt, o.UpdatedAt)

	// Payment can only be attempted once.
	assert.ErrorIs(t, o.MarkPaid(paidAt), ErrInvalidState)
}

func TestMarkPaymentFailed_LeavesOrderPending(t *testing.T) {
	o := newTestOrder(t)

	failedAt := testNow.Add(10 * time.Second)
	require.NoError(t, o.MarkPaymentFailed(failedAt))
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, PaymentFailed, o.PaymentStatus)
	assert.Equal(t, failedAt, o.UpdatedAt)

	// A resolved payment cannot be re-attempted through the state machine.
	assert.ErrorIs(t, o.MarkPaid(failedAt), ErrInvalidState)
	assert.ErrorIs(t, o.MarkPaymentFailed(failedAt), ErrInvalidState)
}

func TestMarkCancelled(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.MarkCancelled(testNow.Add(time.Minute)))
	assert.Equal(t, StatusCancelled, o.Status)
	assert.Equal(t, testNow.Add(time.Minute), o.UpdatedAt)
	assert.True(t, o.Terminal())
}

func TestMarkCancelled_RejectsPaidOrder(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.MarkPaid(testNow))
	assert.ErrorIs(t, o.MarkCancelled(testNow), ErrInvalidState)
}

func TestMarkDelivered_Transitions(t *testing.T) {
	cases := []struct {
		name    string
		prepare func(o *Order)
		wantErr bool
	}{
		{"from pending", func(o *Order) {}, true},
		{"from paid", func(o *Order) { _ = o.MarkPaid(testNow) }, false},
		{"from shipped", func(o *Order) { _ = o.MarkPaid(testNow); _ = o.MarkShipped(testNow) }, false},
		{"from cancelled", func(o *Order) { _ = o.MarkCancelled(testNow) }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := newTestOrder(t)
			tc.prepare(o)
			err := o.MarkDelivered(testNow)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidState)
			} else {
				require.NoError(t, err)
				assert.Equal(t, StatusDelivered, o.Status)
			}
		})
	}
}

func TestMarkReturned(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.MarkPaid(testNow))
	require.NoError(t, o.MarkShipped(testNow))
	require.NoError(t, o.MarkDelivered(testNow))

	require.NoError(t, o.MarkReturned(testNow))
	assert.Equal(t, StatusReturned, o.Status)

	// Payment status is untouched; refund settlement is separate.
	assert.Equal(t, PaymentPaid, o.PaymentStatus)
}

func TestMarkReturned_RejectsPendingOrder(t *testing.T) {
	o := newTestOrder(t)
	assert.ErrorIs(t, o.MarkReturned(testNow), ErrInvalidState)
}

func TestClone_Isolated(t *testing.T) {
	o := newTestOrder(t)
	clone := o.Clone()
	clone.Lines[0].Quantity = 99

	assert.Equal(t, 2, o.Lines[0].Quantity)
}
