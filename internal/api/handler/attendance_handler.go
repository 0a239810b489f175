package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"quds-portal/backend/internal/dto"
	"quds-portal/backend/internal/service"
	pkgerrors "quds-portal/backend/pkg/errors"
	"quds-portal/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AttendanceHandler 出席登记 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// Slots 表单选项（场次 / 形式 / 角色 / 辩题类别）
// GET /api/v1/attendance/slots
func (h *AttendanceHandler) Slots(c *gin.Context) {
	response.OK(c, h.attendanceSvc.Catalog())
}

// Mine 本人本周回答
// GET /api/v1/attendance/me
func (h *AttendanceHandler) Mine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.attendanceSvc.GetMine(c.Request.Context(), userID)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}
	response.OK(c, result)
}

// Submit 提交本周回答（整周覆盖）
// PUT /api/v1/attendance/me
func (h *AttendanceHandler) Submit(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	result, err := h.attendanceSvc.Submit(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}
	response.OK(c, result)
}

// Roster 本周回答一览（管理员）
// GET /api/v1/admin/roster
func (h *AttendanceHandler) Roster(c *gin.Context) {
	result, err := h.attendanceSvc.Roster(c.Request.Context())
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}
	response.OK(c, result)
}

// ExportRoster 导出本周回答一览为 Excel（管理员）
// GET /api/v1/admin/roster/export
func (h *AttendanceHandler) ExportRoster(c *gin.Context) {
	buf, filename, err := h.attendanceSvc.ExportRoster(c.Request.Context())
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}
	c.Header("Content-Description", "File Transfer")
	attachment(c, filename, xlsxContentType, buf.Bytes())
}

func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyUserName):
		response.BadRequest(c, response.CodeAttendanceName, "请填写姓名")
	case errors.Is(err, service.ErrSessionUserMissing):
		response.Unauthorized(c, response.CodeUnauthenticated, "会话账号不存在，请重新登录")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Error(c, http.StatusConflict, response.CodeAttendanceBusy, "提交冲突，请重试")
	case pkgerrors.IsValidation(err):
		response.BadRequest(c, response.CodeAttendanceAnswer, err.Error())
	default:
		response.InternalError(c)
	}
}
