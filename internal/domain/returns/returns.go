package returns

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("returns: request not found")
	ErrUnauthorized = errors.New("returns: order does not belong to caller")
)

// Status is the lifecycle state of a return request. Approval and exchange
// handling belong to the staff flow; this core only creates requests and
// denies ineligible ones.
type Status string

const (
	StatusRequested Status = "requested"
	StatusApproved  Status = "approved"
	StatusDenied    Status = "denied"
	StatusRefunded  Status = "refunded"
	StatusExchange  Status = "exchange"
)

type Request struct {
	ID          string
	OrderLineID string
	Reason      string
	Status      Status
	CreatedAt   time.Time
}

func NewRequest(id, orderLineID, reason string, status Status) (*Request, error) {
	if id == "" {
		return nil, errors.New("returns: id is required")
	}
	if orderLineID == "" {
		return nil, errors.New("returns: order line id is required")
	}
	return &Request{
		ID:          id,
		OrderLineID: orderLineID,
		Reason:      reason,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
	}, nil
}
