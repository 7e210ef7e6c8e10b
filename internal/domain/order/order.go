package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("order: not found")
	ErrLineNotFound = errors.New("order: line not found")
	ErrConflict     = errors.New("order: conflict")
	ErrInvalidState = errors.New("order: invalid state for operation")
	ErrEmptyOrder   = errors.New("order: at least one line is required")
)

// Status is the fulfilment state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusReturned  Status = "returned"
	StatusCancelled Status = "cancelled"
)

// PaymentStatus tracks the payment outcome separately from fulfilment.
// Both fields move only through the transition methods below.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type Order struct {
	ID            string
	CustomerID    string
	Number        string
	Status        Status
	PaymentStatus PaymentStatus
	TotalAmount   decimal.Decimal
	Lines         []Line
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Line is an immutable snapshot of a cart line taken at checkout time.
// Price history survives later catalog changes.
type Line struct {
	ID              string
	OrderID         string
	ProductID       string
	Quantity        int
	PriceAtPurchase decimal.Decimal
	DiscountApplied decimal.Decimal
}

func New(id, customerID string, lines []Line, total decimal.Decimal, now time.Time) (*Order, error) {
	if id == "" {
		return nil, errors.New("order: id is required")
	}
	if customerID == "" {
		return nil, errors.New("order: customer id is required")
	}
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	for i := range lines {
		lines[i].OrderID = id
	}
	now = now.UTC()
	return &Order{
		ID:            id,
		CustomerID:    customerID,
		Number:        NewNumber(now, id),
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		TotalAmount:   total,
		Lines:         lines,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// NewNumber derives the human-readable order number from the creation
// timestamp and a fragment of the order id: ORD-<YYYYMMddHHmm>-<4 chars>.
func NewNumber(createdAt time.Time, orderID string) string {
	frag := orderID
	if len(frag) > 4 {
		frag = frag[:4]
	}
	return fmt.Sprintf("ORD-%s-%s", createdAt.UTC().Format("200601021504"), frag)
}

// CanProcessPayment reports whether a payment attempt is allowed. Payment may
// only be attempted while both fields are still pending.
func (o *Order) CanProcessPayment() bool {
	return o.Status == StatusPending && o.PaymentStatus == PaymentPending
}

// MarkPaid records a successful payment. Allowed only from (pending, pending).
func (o *Order) MarkPaid(now time.Time) error {
	if !o.CanProcessPayment() {
		return ErrInvalidState
	}
	o.Status = StatusPaid
	o.PaymentStatus = PaymentPaid
	o.touch(now)
	return nil
}

// MarkPaymentFailed records a failed payment attempt. The order itself stays
// pending so the customer can retry or cancel.
func (o *Order) MarkPaymentFailed(now time.Time) error {
	if !o.CanProcessPayment() {
		return ErrInvalidState
	}
	o.PaymentStatus = PaymentFailed
	o.touch(now)
	return nil
}

// MarkCancelled cancels an order. Only unpaid, unshipped orders qualify; a
// paid order goes through the return flow instead.
func (o *Order) MarkCancelled(now time.Time) error {
	if o.Status != StatusPending {
		return ErrInvalidState
	}
	o.Status = StatusCancelled
	o.touch(now)
	return nil
}

func (o *Order) MarkShipped(now time.Time) error {
	if o.Status != StatusPaid {
		return ErrInvalidState
	}
	o.Status = StatusShipped
	o.touch(now)
	return nil
}

// MarkDelivered accepts the transition from paid or shipped. Delivery
// confirmation for an unpaid or already-terminal order is rejected.
func (o *Order) MarkDelivered(now time.Time) error {
	if o.Status != StatusPaid && o.Status != StatusShipped {
		return ErrInvalidState
	}
	o.Status = StatusDelivered
	o.touch(now)
	return nil
}

// MarkReturned moves a shipped or delivered order to returned. Payment status
// is untouched; refund settlement is a separate step.
func (o *Order) MarkReturned(now time.Time) error {
	if o.Status != StatusShipped && o.Status != StatusDelivered {
		return ErrInvalidState
	}
	o.Status = StatusReturned
	o.touch(now)
	return nil
}

// Terminal reports whether the order reached a final fulfilment state.
func (o *Order) Terminal() bool {
	switch o.Status {
	case StatusDelivered, StatusReturned, StatusCancelled:
		return true
	}
	return false
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Lines = make([]Line, len(o.Lines))
	copy(clone.Lines, o.Lines)
	return &clone
}

func (o *Order) touch(now time.Time) {
	o.UpdatedAt = now.UTC()
}
