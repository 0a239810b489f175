package dto

// ── 月间日程模块 DTO ──

// UpsertScheduleDayRequest 编辑某天日程（日期取自路径参数）
type UpsertScheduleDayRequest struct {
	IsActive   string `json:"is_active"   binding:"required,yesno"`
	StartTime  string `json:"start_time"  binding:"max=20"`
	MotionType string `json:"motion_type" binding:"required,motion_type"`
}

// MonthQuery 月视图查询参数；缺省为当前月
type MonthQuery struct {
	Year  int `form:"year"  binding:"omitempty,min=1970,max=9999"`
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
}

// ScheduleDayResponse 单日日程
type ScheduleDayResponse struct {
	Date       string `json:"date"`
	IsActive   string `json:"is_active"`
	StartTime  string `json:"start_time"`
	MotionType string `json:"motion_type"`
}

// CalendarCell 月视图单元格
// Day=0 表示空白格；Status 为 "active" / "off" / ""（无记录）
type CalendarCell struct {
	Day        int    `json:"day"`
	Date       string `json:"date,omitempty"`
	Status     string `json:"status,omitempty"`
	StartTime  string `json:"start_time,omitempty"`
	MotionType string `json:"motion_type,omitempty"`
}

// MonthViewResponse 月视图：周日为第一列
type MonthViewResponse struct {
	Year     int              `json:"year"`
	Month    int              `json:"month"`
	Weekdays []string         `json:"weekdays"`
	Weeks    [][]CalendarCell `json:"weeks"`
}
