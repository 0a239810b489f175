package model

// ScheduleDay 月间练习日程，对应 schedule_days，一天一行，后写覆盖
type ScheduleDay struct {
	Date       string     `gorm:"type:varchar(10);primaryKey"  json:"date"` // YYYY-MM-DD
	IsActive   ActiveFlag `gorm:"type:varchar(3);not null"     json:"is_active"`
	StartTime  string     `gorm:"type:varchar(20);not null"    json:"start_time"`
	MotionType MotionType `gorm:"type:varchar(64);not null"    json:"motion_type"`
	AuditedModel
}

// TableName 指定表名
func (ScheduleDay) TableName() string { return "schedule_days" }

// Active 是否为开展练习的日子
func (d *ScheduleDay) Active() bool { return d.IsActive == ActiveYes }
