package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quds-portal/backend/internal/model"
)

// AllocationRepository 每周分房文档数据访问接口
type AllocationRepository interface {
	// Upsert 无条件覆盖，不保留历史版本
	Upsert(ctx context.Context, alloc *model.WeeklyAllocation) error
	GetByWeek(ctx context.Context, weekID string) (*model.WeeklyAllocation, error)
}

type allocationRepo struct {
	db *gorm.DB
}

// NewAllocationRepo 创建 AllocationRepository 实例
func NewAllocationRepo(db *gorm.DB) AllocationRepository {
	return &allocationRepo{db: db}
}

func (r *allocationRepo) Upsert(ctx context.Context, alloc *model.WeeklyAllocation) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "week_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at", "updated_by"}),
		}).
		Create(alloc).Error
}

func (r *allocationRepo) GetByWeek(ctx context.Context, weekID string) (*model.WeeklyAllocation, error) {
	var alloc model.WeeklyAllocation
	err := r.db.WithContext(ctx).Where("week_id = ?", weekID).First(&alloc).Error
	if err != nil {
		return nil, err
	}
	return &alloc, nil
}
