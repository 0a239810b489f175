package model

// AttendanceRecord 出席回答，对应 attendance_records
// 主键 (user_id, week_id, slot)；没有记录即表示该场次不参加
type AttendanceRecord struct {
	UserID   string `gorm:"type:varchar(64);primaryKey"  json:"user_id"`
	WeekID   string `gorm:"type:varchar(10);primaryKey"  json:"week_id"`
	Slot     Slot   `gorm:"type:varchar(10);primaryKey"  json:"slot"`
	UserName string `gorm:"type:varchar(100);not null"   json:"user_name"`
	Mode     Mode   `gorm:"type:varchar(10);not null"    json:"mode"`
	Pref     Pref   `gorm:"type:varchar(10);not null"    json:"pref"`
	Note     string `gorm:"type:text;not null;default:''" json:"note"`
	Motion   string `gorm:"type:text;not null;default:''" json:"motion"`
	BaseModel
}

// TableName 指定表名
func (AttendanceRecord) TableName() string { return "attendance_records" }
