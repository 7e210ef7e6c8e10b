// Package payment provides the simulated gateway verifier. It stands in for a
// real payment gateway behind the domain Verifier port.
package payment

import (
	"context"
	"math/rand"
	"sync"
	"time"

	domorder "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/order"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/pkg/logging"
	"go.uber.org/zap"
)

type Simulator struct {
	mu          sync.Mutex
	random      *rand.Rand
	successRate float64
	orders      domorder.Repository
}

func NewSimulator(orders domorder.Repository, successRate float64) *Simulator {
	return &Simulator{
		random:      rand.New(rand.NewSource(time.Now().UnixNano())),
		successRate: successRate,
		orders:      orders,
	}
}

// Verify reports whether funds were captured for the order. A non-pending
// order is an automatic failure: payment may only settle while both status
// fields are still pending.
func (s *Simulator) Verify(ctx context.Context, orderID string) (bool, error) {
	logger := logging.FromContext(ctx).With(zap.String("component", "payment_verifier"))

	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return false, err
	}
	if order.Status != domorder.StatusPending {
		logger.Warn("verify_rejected",
			zap.String("order_id", orderID),
			zap.String("order_status", string(order.Status)),
		)
		return false, nil
	}
	if order.PaymentStatus != domorder.PaymentPending {
		logger.Warn("verify_rejected",
			zap.String("order_id", orderID),
			zap.String("payment_status", string(order.PaymentStatus)),
		)
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.random.Float64() <= s.successRate, nil
}
