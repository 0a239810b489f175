package dto

// ── 出席登记模块 DTO ──

// SlotAnswer 单个场次的回答
type SlotAnswer struct {
	Slot      string `json:"slot"      binding:"required,slot"`
	Attending bool   `json:"attending"`
	Mode      string `json:"mode"      binding:"omitempty,oneof=Offline Online"`
	Pref      string `json:"pref"      binding:"omitempty,oneof=Debater Judge Audience Any"`
	Note      string `json:"note"      binding:"max=500"`
	Motion    string `json:"motion"    binding:"max=1000"`
}

// SubmitAttendanceRequest 整周提交：覆盖本周全部回答
// user_name 的非空校验放在业务层，以返回统一的校验错误
type SubmitAttendanceRequest struct {
	UserName string       `json:"user_name" binding:"max=100"`
	Answers  []SlotAnswer `json:"answers"   binding:"max=5,dive"`
}

// AttendanceRecordResponse 单条出席记录
type AttendanceRecordResponse struct {
	Slot     string `json:"slot"`
	UserName string `json:"user_name"`
	Mode     string `json:"mode"`
	Pref     string `json:"pref"`
	Note     string `json:"note"`
	Motion   string `json:"motion"`
}

// WeekAttendanceResponse 本人本周回答
type WeekAttendanceResponse struct {
	WeekID  string                     `json:"week_id"`
	Records []AttendanceRecordResponse `json:"records"`
}

// RosterResponse 管理员查看的本周回答一览（不含 user_id）
type RosterResponse struct {
	WeekID  string                     `json:"week_id"`
	Total   int                        `json:"total"`
	Records []AttendanceRecordResponse `json:"records"`
}

// SlotCatalogResponse 表单选项
type SlotCatalogResponse struct {
	WeekID      string   `json:"week_id"`
	Slots       []string `json:"slots"`
	Modes       []string `json:"modes"`
	Prefs       []string `json:"prefs"`
	MotionTypes []string `json:"motion_types"`
	Formats     []string `json:"formats"`
}
