package order

import (
	"context"
	"errors"
	"fmt"

	domcart "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/cart"
	dominv "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/inventory"
	domain "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/order"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/infrastructure/id"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/pkg/clock"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/pkg/logging"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "order-workflow"

// Service orchestrates checkout, cancellation and delivery confirmation. All
// multi-store mutations run through the storage transaction boundary.
type Service struct {
	tx       storage.TxRunner
	idGen    id.Generator
	clk      clock.Clock
	tracer   trace.Tracer
	requests *prometheus.CounterVec // workflow_requests_total{operation,outcome}; may be nil
}

func NewService(tx storage.TxRunner, idGen id.Generator, clk clock.Clock, requests *prometheus.CounterVec) *Service {
	return &Service{
		tx:       tx,
		idGen:    idGen,
		clk:      clk,
		tracer:   otel.Tracer(tracerName),
		requests: requests,
	}
}

type CreateOrderResult struct {
	OrderID     string
	OrderNumber string
	Status      domain.Status
	TotalAmount decimal.Decimal
}

// CreateOrder converts the customer's cart into a durable order: it
// re-validates stock with conditional decrements, snapshots the lines at
// their current prices, and clears the cart. Everything runs in one
// transaction, so a failed decrement leaves cart and inventory untouched.
func (s *Service) CreateOrder(ctx context.Context, customerID string) (_ *CreateOrderResult, err error) {
	logger := logging.FromContext(ctx).With(zap.String("component", "order_service"))

	ctx, span := s.tracer.Start(ctx, "UC.CreateOrder",
		trace.WithAttributes(attribute.String("order.customer_id", customerID)),
	)
	defer func() { s.finish(span, "create_order", err) }()

	if customerID == "" {
		return nil, errors.New("order: customer id is required")
	}

	var result *CreateOrderResult
	err = s.tx.RunInTx(ctx, func(ctx context.Context, st storage.Stores) error {
		lines, err := st.Carts.FindByCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return domcart.ErrEmpty
		}

		orderLines := make([]domain.Line, 0, len(lines))
		for i := range lines {
			l := &lines[i]
			if err := st.Inventory.Decrement(ctx, l.ProductID, l.Quantity); err != nil {
				if errors.Is(err, dominv.ErrInsufficientStock) || errors.Is(err, dominv.ErrNotFound) {
					return fmt.Errorf("product %s: %w", l.ProductID, err)
				}
				return err
			}
			orderLines = append(orderLines, domain.Line{
				ID:              s.idGen.NewID(),
				ProductID:       l.ProductID,
				Quantity:        l.Quantity,
				PriceAtPurchase: l.UnitPrice,
				DiscountApplied: decimal.Zero,
			})
		}

		total := domcart.Total(lines)
		entity, err := domain.New(s.idGen.NewID(), customerID, orderLines, total, s.clk.Now())
		if err != nil {
			return err
		}
		if err := st.Orders.Insert(ctx, entity); err != nil {
			return err
		}
		if err := st.Carts.Clear(ctx, customerID); err != nil {
			return err
		}

		result = &CreateOrderResult{
			OrderID:     entity.ID,
			OrderNumber: entity.Number,
			Status:      entity.Status,
			TotalAmount: entity.TotalAmount,
		}
		return nil
	})
	if err != nil {
		logger.Warn("create_order_failed",
			zap.String("customer_id", customerID),
			zap.Error(err),
		)
		return nil, err
	}

	span.SetAttributes(attribute.String("order.id", result.OrderID))
	logger.Info("create_order_success",
		zap.String("customer_id", customerID),
		zap.String("order_id", result.OrderID),
		zap.String("order_number", result.OrderNumber),
		zap.String("total_amount", result.TotalAmount.String()),
	)
	return result, nil
}

// CancelOrder cancels a still-pending order and releases its reserved stock.
// Anything past pending is rejected with ErrInvalidState; paid orders go
// through the return flow instead.
func (s *Service) CancelOrder(ctx context.Context, orderID string) (_ *domain.Order, err error) {
	logger := logging.FromContext(ctx).With(zap.String("component", "order_service"))

	ctx, span := s.tracer.Start(ctx, "UC.CancelOrder",
		trace.WithAttributes(attribute.String("order.id", orderID)),
	)
	defer func() { s.finish(span, "cancel_order", err) }()

	var cancelled *domain.Order
	err = s.tx.RunInTx(ctx, func(ctx context.Context, st storage.Stores) error {
		entity, err := st.Orders.Get(ctx, orderID)
		if err != nil {
			return err
		}
		if err := entity.MarkCancelled(s.clk.Now()); err != nil {
			return err
		}
		if err := st.Orders.Update(ctx, entity); err != nil {
			return err
		}
		if err := restoreInventory(ctx, st, entity); err != nil {
			return err
		}
		cancelled = entity
		return nil
	})
	if err != nil {
		logger.Warn("cancel_order_failed", zap.String("order_id", orderID), zap.Error(err))
		return nil, err
	}

	logger.Info("cancel_order_success", zap.String("order_id", orderID))
	return cancelled, nil
}

// ConfirmDelivery marks a paid or shipped order as delivered.
func (s *Service) ConfirmDelivery(ctx context.Context, orderID string) (_ *domain.Order, err error) {
	logger := logging.FromContext(ctx).With(zap.String("component", "order_service"))

	ctx, span := s.tracer.Start(ctx, "UC.ConfirmDelivery",
		trace.WithAttributes(attribute.String("order.id", orderID)),
	)
	defer func() { s.finish(span, "confirm_delivery", err) }()

	var delivered *domain.Order
	err = s.tx.RunInTx(ctx, func(ctx context.Context, st storage.Stores) error {
		entity, err := st.Orders.Get(ctx, orderID)
		if err != nil {
			return err
		}
		if err := entity.MarkDelivered(s.clk.Now()); err != nil {
			return err
		}
		if err := st.Orders.Update(ctx, entity); err != nil {
			return err
		}
		delivered = entity
		return nil
	})
	if err != nil {
		logger.Warn("confirm_delivery_failed", zap.String("order_id", orderID), zap.Error(err))
		return nil, err
	}

	logger.Info("confirm_delivery_success", zap.String("order_id", orderID))
	return delivered, nil
}

// Get returns the order for read-only status queries.
func (s *Service) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	if orderID == "" {
		return nil, errors.New("order: id is required")
	}
	return s.tx.Stores().Orders.Get(ctx, orderID)
}

func (s *Service) finish(span trace.Span, operation string, err error) {
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
		s.requests.WithLabelValues(operation, outcome).Inc()
	}
}

// restoreInventory mirrors the decrements made at order creation. Shared by
// cancellation and the payment failure path.
func restoreInventory(ctx context.Context, st storage.Stores, o *domain.Order) error {
	for i := range o.Lines {
		l := &o.Lines[i]
		if err := st.Inventory.Increment(ctx, l.ProductID, l.Quantity); err != nil {
			return fmt.Errorf("restore product %s: %w", l.ProductID, err)
		}
	}
	return nil
}
