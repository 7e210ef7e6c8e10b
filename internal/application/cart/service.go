package cart

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/cart"
	dominv "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/inventory"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/infrastructure/id"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/pkg/logging"
	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/storage"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service implements the cart store operations: listing, idempotent adds,
// removal. Clearing happens inside the checkout transaction, not here.
type Service struct {
	stores storage.Stores
	idGen  id.Generator
}

func NewService(stores storage.Stores, idGen id.Generator) *Service {
	return &Service{stores: stores, idGen: idGen}
}

// AddLine inserts a new cart line or, when the customer already has a line
// for the same (product, sku), increments its quantity. The stock check here
// is advisory only; checkout re-validates inside the transaction.
func (s *Service) AddLine(ctx context.Context, customerID, productID, sku string, quantity int) (*domain.Line, error) {
	logger := logging.FromContext(ctx).With(zap.String("component", "cart_service"))

	if customerID == "" {
		return nil, errors.New("cart: customer id is required")
	}
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	product, err := s.stores.Inventory.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	existing, err := s.stores.Carts.FindLine(ctx, customerID, productID, sku)
	switch {
	case err == nil:
		requested := existing.Quantity + quantity
		if !product.Available(requested) {
			return nil, fmt.Errorf("product %s: %w", productID, dominv.ErrInsufficientStock)
		}
		existing.Quantity = requested
		existing.UnitPrice = product.Price
		if err := s.stores.Carts.Update(ctx, existing); err != nil {
			return nil, err
		}
		logger.Info("cart_line_incremented",
			zap.String("customer_id", customerID),
			zap.String("product_id", productID),
			zap.Int("quantity", existing.Quantity),
		)
		return existing, nil
	case errors.Is(err, domain.ErrNotFound):
		// fall through to insert
	default:
		return nil, err
	}

	if !product.Available(quantity) {
		return nil, fmt.Errorf("product %s: %w", productID, dominv.ErrInsufficientStock)
	}

	line, err := domain.NewLine(s.idGen.NewID(), customerID, productID, sku, quantity, product.Price)
	if err != nil {
		return nil, err
	}
	if err := s.stores.Carts.Insert(ctx, line); err != nil {
		return nil, err
	}
	logger.Info("cart_line_added",
		zap.String("customer_id", customerID),
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
	)
	return line, nil
}

// RemoveLine deletes a single line. Callers decide whether a missing line is
// worth surfacing.
func (s *Service) RemoveLine(ctx context.Context, lineID string) error {
	return s.stores.Carts.Delete(ctx, lineID)
}

// List returns the customer's lines together with the exact-decimal total.
func (s *Service) List(ctx context.Context, customerID string) ([]domain.Line, decimal.Decimal, error) {
	lines, err := s.stores.Carts.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return lines, domain.Total(lines), nil
}
