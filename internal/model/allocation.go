package model

// WeeklyAllocation 每周公开的分房文档，对应 weekly_allocations，一周一行
type WeeklyAllocation struct {
	WeekID  string `gorm:"type:varchar(10);primaryKey"   json:"week_id"`
	Content string `gorm:"type:text;not null;default:''" json:"content"`
	AuditedModel
}

// TableName 指定表名
func (WeeklyAllocation) TableName() string { return "weekly_allocations" }
