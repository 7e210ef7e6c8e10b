package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/order"
	dompay "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/payment"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/pkg/clock"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/pkg/logging"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "payment-workflow"

// Config bounds the verification poll loop. Defaults model an asynchronous
// gateway polled once per second for ten attempts, with a generous hard
// ceiling over the whole operation.
type Config struct {
	PollInterval time.Duration
	PollAttempts int
	HardTimeout  time.Duration
}

func DefaultConfig() Config {
	return Config{
		PollInterval: time.Second,
		PollAttempts: 10,
		HardTimeout:  65 * time.Second,
	}
}

// Service runs payment verification for pending orders. It blocks the caller
// for up to the poll budget; the loop is cancellable through the caller's
// context so an aborted request does not strand a worker.
type Service struct {
	tx       storage.TxRunner
	verifier dompay.Verifier
	clk      clock.Clock
	cfg      Config
	tracer   trace.Tracer
	requests *prometheus.CounterVec // workflow_requests_total{operation,outcome}; may be nil
	attempts prometheus.Histogram   // payment_poll_attempts; may be nil
}

func NewService(tx storage.TxRunner, verifier dompay.Verifier, clk clock.Clock, cfg Config,
	requests *prometheus.CounterVec, attempts prometheus.Histogram) *Service {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.PollAttempts <= 0 {
		cfg.PollAttempts = 10
	}
	if cfg.HardTimeout <= 0 {
		cfg.HardTimeout = 65 * time.Second
	}
	return &Service{
		tx:       tx,
		verifier: verifier,
		clk:      clk,
		cfg:      cfg,
		tracer:   otel.Tracer(tracerName),
		requests: requests,
		attempts: attempts,
	}
}

// ProcessPayment polls the verifier until it confirms capture or the budget
// runs out. Success moves the order to (paid, paid). Failure, timeout and
// unexpected verifier errors all converge on the same bookkeeping: payment
// status becomes failed, the order stays pending for a later retry or
// cancellation, and every decrement made at creation is restored.
func (s *Service) ProcessPayment(ctx context.Context, orderID string) (_ bool, err error) {
	logger := logging.FromContext(ctx).With(zap.String("component", "payment_service"))

	ctx, span := s.tracer.Start(ctx, "UC.ProcessPayment",
		trace.WithAttributes(attribute.String("order.id", orderID)),
	)
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
		if s.requests != nil {
			s.requests.WithLabelValues("process_payment", outcome).Inc()
		}
	}()

	if orderID == "" {
		return false, errors.New("payment: order id is required")
	}

	entity, err := s.tx.Stores().Orders.Get(ctx, orderID)
	if err != nil {
		return false, err
	}
	if !entity.CanProcessPayment() {
		logger.Warn("process_payment_rejected",
			zap.String("order_id", orderID),
			zap.String("order_status", string(entity.Status)),
			zap.String("payment_status", string(entity.PaymentStatus)),
		)
		return false, domain.ErrInvalidState
	}

	pollCtx, cancel := context.WithTimeout(ctx, s.cfg.HardTimeout)
	defer cancel()

	confirmed, attempts := s.poll(pollCtx, logger, orderID)
	span.SetAttributes(attribute.Int("payment.attempts", attempts))
	if s.attempts != nil {
		s.attempts.Observe(float64(attempts))
	}

	if confirmed {
		if err := s.settleSuccess(ctx, orderID); err != nil {
			return false, err
		}
		logger.Info("payment_success",
			zap.String("order_id", orderID),
			zap.Int("attempts", attempts),
		)
		return true, nil
	}

	// The failure bookkeeping must run even when the caller's request was
	// aborted mid-poll; the decrements made at creation have to be undone.
	if err := s.settleFailure(context.WithoutCancel(ctx), orderID); err != nil {
		return false, err
	}
	logger.Info("payment_failed",
		zap.String("order_id", orderID),
		zap.Int("attempts", attempts),
	)
	return false, nil
}

// poll asks the verifier up to PollAttempts times, sleeping PollInterval
// between attempts and short-circuiting on the first confirmation. A verifier
// error counts as a failed attempt.
func (s *Service) poll(ctx context.Context, logger *zap.Logger, orderID string) (bool, int) {
	attempts := 0
	for attempts < s.cfg.PollAttempts {
		if ctx.Err() != nil {
			logger.Warn("payment_poll_aborted",
				zap.String("order_id", orderID),
				zap.Int("attempts", attempts),
				zap.Error(ctx.Err()),
			)
			return false, attempts
		}

		attempts++
		ok, err := s.verifier.Verify(ctx, orderID)
		if err != nil {
			logger.Warn("payment_verify_error",
				zap.String("order_id", orderID),
				zap.Int("attempt", attempts),
				zap.Error(err),
			)
		} else if ok {
			return true, attempts
		}

		if attempts < s.cfg.PollAttempts {
			if err := s.clk.Sleep(ctx, s.cfg.PollInterval); err != nil {
				return false, attempts
			}
		}
	}
	return false, attempts
}

func (s *Service) settleSuccess(ctx context.Context, orderID string) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context, st storage.Stores) error {
		entity, err := st.Orders.Get(ctx, orderID)
		if err != nil {
			return err
		}
		if err := entity.MarkPaid(s.clk.Now()); err != nil {
			return err
		}
		return st.Orders.Update(ctx, entity)
	})
}

func (s *Service) settleFailure(ctx context.Context, orderID string) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context, st storage.Stores) error {
		entity, err := st.Orders.Get(ctx, orderID)
		if err != nil {
			return err
		}
		if err := entity.MarkPaymentFailed(s.clk.Now()); err != nil {
			return err
		}
		if err := st.Orders.Update(ctx, entity); err != nil {
			return err
		}
		for i := range entity.Lines {
			l := &entity.Lines[i]
			if err := st.Inventory.Increment(ctx, l.ProductID, l.Quantity); err != nil {
				return fmt.Errorf("restore product %s: %w", l.ProductID, err)
			}
		}
		return nil
	})
}
