package mysql

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/order"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderRepo reads and writes the order header plus its immutable item rows.
// With lockReads set, Get issues SELECT ... FOR UPDATE: the caller is inside
// a transaction and loads the order to transition it, and the row must not
// change between the state-machine guard and the update.
type orderRepo struct {
	db        *gorm.DB
	lockReads bool
}

func (r *orderRepo) Insert(ctx context.Context, o *domain.Order) error {
	if o == nil || o.ID == "" {
		return fmt.Errorf("order repository: id is required")
	}
	row := toOrderRow(o)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrConflict
		}
		return fmt.Errorf("order repository: insert: %w", err)
	}
	return nil
}

func (r *orderRepo) Get(ctx context.Context, id string) (*domain.Order, error) {
	q := r.db.WithContext(ctx).Preload("Items")
	if r.lockReads {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row orderRow
	err := q.First(&row, "order_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("order repository: get: %w", err)
	}
	return fromOrderRow(&row), nil
}

func (r *orderRepo) Update(ctx context.Context, o *domain.Order) error {
	if o == nil || o.ID == "" {
		return fmt.Errorf("order repository: id is required")
	}
	// Lines are immutable snapshots; only the order header is updated.
	res := r.db.WithContext(ctx).Model(&orderRow{}).
		Where("order_id = ?", o.ID).
		Updates(map[string]any{
			"order_status":   string(o.Status),
			"payment_status": string(o.PaymentStatus),
			"updated_at":     o.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("order repository: update: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *orderRepo) GetLine(ctx context.Context, lineID string) (*domain.Line, error) {
	var row orderItemRow
	err := r.db.WithContext(ctx).First(&row, "order_item_id = ?", lineID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrLineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("order repository: get line: %w", err)
	}
	line := fromItemRow(&row)
	return &line, nil
}

func toOrderRow(o *domain.Order) *orderRow {
	row := &orderRow{
		OrderID:       o.ID,
		OrderNumber:   o.Number,
		CustomerID:    o.CustomerID,
		OrderStatus:   string(o.Status),
		TotalAmount:   o.TotalAmount,
		PaymentStatus: string(o.PaymentStatus),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	for i := range o.Lines {
		l := &o.Lines[i]
		row.Items = append(row.Items, orderItemRow{
			OrderItemID:     l.ID,
			OrderID:         l.OrderID,
			ProductID:       l.ProductID,
			Quantity:        l.Quantity,
			PriceAtPurchase: l.PriceAtPurchase,
			DiscountApplied: l.DiscountApplied,
		})
	}
	return row
}

func fromOrderRow(row *orderRow) *domain.Order {
	o := &domain.Order{
		ID:            row.OrderID,
		CustomerID:    row.CustomerID,
		Number:        row.OrderNumber,
		Status:        domain.Status(row.OrderStatus),
		PaymentStatus: domain.PaymentStatus(row.PaymentStatus),
		TotalAmount:   row.TotalAmount,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	for i := range row.Items {
		o.Lines = append(o.Lines, fromItemRow(&row.Items[i]))
	}
	return o
}

func fromItemRow(row *orderItemRow) domain.Line {
	return domain.Line{
		ID:              row.OrderItemID,
		OrderID:         row.OrderID,
		ProductID:       row.ProductID,
		Quantity:        row.Quantity,
		PriceAtPurchase: row.PriceAtPurchase,
		DiscountApplied: row.DiscountApplied,
	}
}
