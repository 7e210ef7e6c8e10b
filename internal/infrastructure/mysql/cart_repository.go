package mysql

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/cart"
	"gorm.io/gorm"
)

type cartRepo struct{ db *gorm.DB }

func (r *cartRepo) FindByCustomer(ctx context.Context, customerID string) ([]domain.Line, error) {
	var rows []cartRow
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("added_at, cart_id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("cart repository: find by customer: %w", err)
	}
	lines := make([]domain.Line, 0, len(rows))
	for i := range rows {
		lines = append(lines, fromCartRow(&rows[i]))
	}
	return lines, nil
}

func (r *cartRepo) FindLine(ctx context.Context, customerID, productID, sku string) (*domain.Line, error) {
	var row cartRow
	err := r.db.WithContext(ctx).
		First(&row, "customer_id = ? AND product_id = ? AND sku = ?", customerID, productID, sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cart repository: find line: %w", err)
	}
	line := fromCartRow(&row)
	return &line, nil
}

func (r *cartRepo) Get(ctx context.Context, lineID string) (*domain.Line, error) {
	var row cartRow
	err := r.db.WithContext(ctx).First(&row, "cart_id = ?", lineID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cart repository: get: %w", err)
	}
	line := fromCartRow(&row)
	return &line, nil
}

func (r *cartRepo) Insert(ctx context.Context, line *domain.Line) error {
	if line == nil || line.ID == "" {
		return fmt.Errorf("cart repository: id is required")
	}
	if err := r.db.WithContext(ctx).Create(toCartRow(line)).Error; err != nil {
		return fmt.Errorf("cart repository: insert: %w", err)
	}
	return nil
}

func (r *cartRepo) Update(ctx context.Context, line *domain.Line) error {
	if line == nil || line.ID == "" {
		return fmt.Errorf("cart repository: id is required")
	}
	res := r.db.WithContext(ctx).Model(&cartRow{}).
		Where("cart_id = ?", line.ID).
		Updates(map[string]any{
			"quantity":   line.Quantity,
			"unit_price": line.UnitPrice,
		})
	if res.Error != nil {
		return fmt.Errorf("cart repository: update: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *cartRepo) Delete(ctx context.Context, lineID string) error {
	res := r.db.WithContext(ctx).Delete(&cartRow{}, "cart_id = ?", lineID)
	if res.Error != nil {
		return fmt.Errorf("cart repository: delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *cartRepo) Clear(ctx context.Context, customerID string) error {
	if err := r.db.WithContext(ctx).Delete(&cartRow{}, "customer_id = ?", customerID).Error; err != nil {
		return fmt.Errorf("cart repository: clear: %w", err)
	}
	return nil
}

func toCartRow(l *domain.Line) *cartRow {
	return &cartRow{
		CartID:     l.ID,
		CustomerID: l.CustomerID,
		ProductID:  l.ProductID,
		SKU:        l.SKU,
		Quantity:   l.Quantity,
		UnitPrice:  l.UnitPrice,
		AddedAt:    l.AddedAt,
	}
}

func fromCartRow(row *cartRow) domain.Line {
	return domain.Line{
		ID:         row.CartID,
		CustomerID: row.CustomerID,
		ProductID:  row.ProductID,
		SKU:        row.SKU,
		Quantity:   row.Quantity,
		UnitPrice:  row.UnitPrice,
		AddedAt:    row.AddedAt,
	}
}
