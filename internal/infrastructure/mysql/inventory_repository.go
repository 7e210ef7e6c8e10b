package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/inventory"
	"gorm.io/gorm"
)

type inventoryRepo struct{ db *gorm.DB }

func (r *inventoryRepo) Get(ctx context.Context, productID string) (*domain.Item, error) {
	var row productRow
	err := r.db.WithContext(ctx).First(&row, "product_id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("inventory repository: get: %w", err)
	}
	return &domain.Item{
		ProductID: row.ProductID,
		Stock:     row.StockQuantity,
		Price:     row.Price,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func (r *inventoryRepo) Save(ctx context.Context, item *domain.Item) error {
	if item == nil {
		return nil
	}
	row := productRow{
		ProductID:     item.ProductID,
		StockQuantity: item.Stock,
		Price:         item.Price,
		UpdatedAt:     time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("inventory repository: save: %w", err)
	}
	return nil
}

// Decrement issues a single conditional UPDATE so the availability check and
// the write cannot interleave with a concurrent decrement on the same row.
func (r *inventoryRepo) Decrement(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	res := r.db.WithContext(ctx).Model(&productRow{}).
		Where("product_id = ? AND stock_quantity >= ?", productID, quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("inventory repository: decrement: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&productRow{}).
			Where("product_id = ?", productID).Count(&count).Error; err != nil {
			return fmt.Errorf("inventory repository: decrement: %w", err)
		}
		if count == 0 {
			return domain.ErrNotFound
		}
		return domain.ErrInsufficientStock
	}
	return nil
}

func (r *inventoryRepo) Increment(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	res := r.db.WithContext(ctx).Model(&productRow{}).
		Where("product_id = ?", productID).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("inventory repository: increment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
