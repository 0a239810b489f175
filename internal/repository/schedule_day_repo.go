package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quds-portal/backend/internal/model"
)

// ScheduleDayRepository 月间日程数据访问接口
type ScheduleDayRepository interface {
	// Upsert 按日期整行覆盖
	Upsert(ctx context.Context, day *model.ScheduleDay) error
	GetByDate(ctx context.Context, date string) (*model.ScheduleDay, error)
	// ListRange 闭区间 [from, to]，日期键均为已校验的 YYYY-MM-DD
	ListRange(ctx context.Context, from, to string) ([]model.ScheduleDay, error)
}

type scheduleDayRepo struct {
	db *gorm.DB
}

// NewScheduleDayRepo 创建 ScheduleDayRepository 实例
func NewScheduleDayRepo(db *gorm.DB) ScheduleDayRepository {
	return &scheduleDayRepo{db: db}
}

func (r *scheduleDayRepo) Upsert(ctx context.Context, day *model.ScheduleDay) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_active", "start_time", "motion_type", "updated_at", "updated_by"}),
		}).
		Create(day).Error
}

func (r *scheduleDayRepo) GetByDate(ctx context.Context, date string) (*model.ScheduleDay, error) {
	var day model.ScheduleDay
	err := r.db.WithContext(ctx).Where("date = ?", date).First(&day).Error
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *scheduleDayRepo) ListRange(ctx context.Context, from, to string) ([]model.ScheduleDay, error) {
	var days []model.ScheduleDay
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC").
		Find(&days).Error
	return days, err
}
