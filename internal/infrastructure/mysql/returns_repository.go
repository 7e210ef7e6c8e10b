package mysql

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/returns"
	"gorm.io/gorm"
)

type returnsRepo struct{ db *gorm.DB }

func (r *returnsRepo) Insert(ctx context.Context, req *domain.Request) error {
	if req == nil || req.ID == "" {
		return fmt.Errorf("returns repository: id is required")
	}
	if err := r.db.WithContext(ctx).Create(toReturnRow(req)).Error; err != nil {
		return fmt.Errorf("returns repository: insert: %w", err)
	}
	return nil
}

func (r *returnsRepo) Get(ctx context.Context, id string) (*domain.Request, error) {
	var row returnRow
	err := r.db.WithContext(ctx).First(&row, "return_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("returns repository: get: %w", err)
	}
	return fromReturnRow(&row), nil
}

func (r *returnsRepo) Update(ctx context.Context, req *domain.Request) error {
	if req == nil || req.ID == "" {
		return fmt.Errorf("returns repository: id is required")
	}
	res := r.db.WithContext(ctx).Model(&returnRow{}).
		Where("return_id = ?", req.ID).
		UpdateColumn("return_status", string(req.Status))
	if res.Error != nil {
		return fmt.Errorf("returns repository: update: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func toReturnRow(req *domain.Request) *returnRow {
	return &returnRow{
		ReturnID:     req.ID,
		OrderItemID:  req.OrderLineID,
		Reason:       req.Reason,
		ReturnStatus: string(req.Status),
		CreatedAt:    req.CreatedAt,
	}
}

func fromReturnRow(row *returnRow) *domain.Request {
	return &domain.Request{
		ID:          row.ReturnID,
		OrderLineID: row.OrderItemID,
		Reason:      row.Reason,
		Status:      domain.Status(row.ReturnStatus),
		CreatedAt:   row.CreatedAt,
	}
}
