package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quds-portal/backend/internal/model"
)

// AttendanceRepository 出席回答数据访问接口
type AttendanceRepository interface {
	// ReplaceWeek 在单个事务内删除 (userID, weekID) 的全部记录并写入 records。
	// 要么整组替换成功，要么保持原状。
	ReplaceWeek(ctx context.Context, userID, weekID string, records []model.AttendanceRecord) error
	ListByUserAndWeek(ctx context.Context, userID, weekID string) ([]model.AttendanceRecord, error)
	ListByWeek(ctx context.Context, weekID string) ([]model.AttendanceRecord, error)
	// CountByWeek 统计本周回答行数；slot 非空时只统计该场次
	CountByWeek(ctx context.Context, weekID string, slot *model.Slot) (int64, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo 创建 AttendanceRepository 实例
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) ReplaceWeek(ctx context.Context, userID, weekID string, records []model.AttendanceRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 同一用户的并发提交在此串行化（SQLite 本身单写者，无需行锁）
		if tx.Dialector.Name() == "postgres" {
			var owner model.User
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("user_id = ?", userID).
				First(&owner).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ? AND week_id = ?", userID, weekID).
			Delete(&model.AttendanceRecord{}).Error; err != nil {
			return err
		}

		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
}

func (r *attendanceRepo) ListByUserAndWeek(ctx context.Context, userID, weekID string) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND week_id = ?", userID, weekID).
		Find(&records).Error
	return records, err
}

func (r *attendanceRepo) ListByWeek(ctx context.Context, weekID string) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("week_id = ?", weekID).
		Order("slot ASC, user_name ASC").
		Find(&records).Error
	return records, err
}

func (r *attendanceRepo) CountByWeek(ctx context.Context, weekID string, slot *model.Slot) (int64, error) {
	var total int64
	db := r.db.WithContext(ctx).Model(&model.AttendanceRecord{}).Where("week_id = ?", weekID)
	if slot != nil {
		db = db.Where("slot = ?", *slot)
	}
	err := db.Count(&total).Error
	return total, err
}
