package returns

import (
	"context"
	"errors"
	"time"

	domain "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/returns"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/infrastructure/id"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/pkg/clock"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/pkg/logging"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/storage"
	"go.uber.org/zap"
)

// Service handles customer return requests: ownership check, eligibility
// window, and the parent order's transition to returned.
type Service struct {
	tx         storage.TxRunner
	idGen      id.Generator
	clk        clock.Clock
	windowDays int
}

func NewService(tx storage.TxRunner, idGen id.Generator, clk clock.Clock, windowDays int) *Service {
	if windowDays <= 0 {
		windowDays = 30
	}
	return &Service{tx: tx, idGen: idGen, clk: clk, windowDays: windowDays}
}

type RequestReturnResult struct {
	ReturnID string
	Status   domain.Status
	// Eligible is false when the order fell outside the return window; the
	// request is then recorded as denied. This is a normal outcome, not an
	// error.
	Eligible bool
}

// RequestReturn files a return for one order line. The line must belong to an
// order owned by customerID. Orders older than the window get a denied
// request; eligible ones get a requested one and the parent order moves to
// returned. Payment refund settlement is a separate step and is not touched.
func (s *Service) RequestReturn(ctx context.Context, customerID, orderLineID, reason string) (*RequestReturnResult, error) {
	logger := logging.FromContext(ctx).With(zap.String("component", "returns_service"))

	if customerID == "" {
		return nil, errors.New("returns: customer id is required")
	}
	if orderLineID == "" {
		return nil, errors.New("returns: order line id is required")
	}

	var result *RequestReturnResult
	err := s.tx.RunInTx(ctx, func(ctx context.Context, st storage.Stores) error {
		line, err := st.Orders.GetLine(ctx, orderLineID)
		if err != nil {
			return err
		}
		parent, err := st.Orders.Get(ctx, line.OrderID)
		if err != nil {
			return err
		}
		if parent.CustomerID != customerID {
			return domain.ErrUnauthorized
		}

		window := time.Duration(s.windowDays) * 24 * time.Hour
		if s.clk.Now().Sub(parent.CreatedAt) > window {
			denied, err := domain.NewRequest(s.idGen.NewID(), orderLineID, reason, domain.StatusDenied)
			if err != nil {
				return err
			}
			if err := st.Returns.Insert(ctx, denied); err != nil {
				return err
			}
			result = &RequestReturnResult{ReturnID: denied.ID, Status: denied.Status, Eligible: false}
			return nil
		}

		req, err := domain.NewRequest(s.idGen.NewID(), orderLineID, reason, domain.StatusRequested)
		if err != nil {
			return err
		}
		if err := st.Returns.Insert(ctx, req); err != nil {
			return err
		}
		if err := parent.MarkReturned(s.clk.Now()); err != nil {
			return err
		}
		if err := st.Orders.Update(ctx, parent); err != nil {
			return err
		}
		result = &RequestReturnResult{ReturnID: req.ID, Status: req.Status, Eligible: true}
		return nil
	})
	if err != nil {
		logger.Warn("request_return_failed",
			zap.String("customer_id", customerID),
			zap.String("order_line_id", orderLineID),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Info("request_return_done",
		zap.String("customer_id", customerID),
		zap.String("order_line_id", orderLineID),
		zap.String("return_status", string(result.Status)),
		zap.Bool("eligible", result.Eligible),
	)
	return result, nil
}
