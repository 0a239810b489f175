package dto

// ── 分房模块 DTO ──

// GenerateTemplateRequest 生成分房模板
// attendee_count 缺省时取本周回答行数；slot 指定时只统计该场次
type GenerateTemplateRequest struct {
	Format        string  `json:"format"         binding:"required,alloc_format"`
	AttendeeCount *int    `json:"attendee_count" binding:"omitempty,min=0"`
	Slot          *string `json:"slot"           binding:"omitempty,slot"`
}

// TemplateResponse 模板生成结果
type TemplateResponse struct {
	WeekID        string `json:"week_id"`
	Format        string `json:"format"`
	AttendeeCount int    `json:"attendee_count"`
	Quota         int    `json:"quota"`
	RoomCount     int    `json:"room_count"`
	Content       string `json:"content"`
}

// DraftResponse 管理员当前草稿
type DraftResponse struct {
	WeekID  string `json:"week_id"`
	Exists  bool   `json:"exists"`
	Content string `json:"content"`
}

// PublishAllocationRequest 发布分房文档
type PublishAllocationRequest struct {
	Content string `json:"content" binding:"max=65536"`
}

// AllocationResponse 分房文档；未发布时 published=false、content 为空
type AllocationResponse struct {
	WeekID    string `json:"week_id"`
	Published bool   `json:"published"`
	Content   string `json:"content"`
	HTML      string `json:"html,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}
