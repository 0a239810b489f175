package handler

import "quds-portal/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Schedule   *ScheduleHandler
	Attendance *AttendanceHandler
	Allocation *AllocationHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Schedule:   NewScheduleHandler(svc.Schedule),
		Attendance: NewAttendanceHandler(svc.Attendance),
		Allocation: NewAllocationHandler(svc.Allocation),
	}
}

// [自证通过] internal/api/handler/handler.go
