package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"quds-portal/backend/internal/dto"
	"quds-portal/backend/internal/service"
	pkgerrors "quds-portal/backend/pkg/errors"
	"quds-portal/backend/pkg/response"
)

// ScheduleHandler 月间日程 HTTP 处理器
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// Month 月视图
// GET /api/v1/schedule/month?year=2026&month=10
func (h *ScheduleHandler) Month(c *gin.Context) {
	var q dto.MonthQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badBinding(c, err)
		return
	}

	view, err := h.scheduleSvc.MonthView(c.Request.Context(), q.Year, q.Month)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OK(c, view)
}

// ExportICS 导出某月开展练习的日子
// GET /api/v1/schedule/month.ics?year=2026&month=10
func (h *ScheduleHandler) ExportICS(c *gin.Context) {
	var q dto.MonthQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badBinding(c, err)
		return
	}

	content, filename, err := h.scheduleSvc.ExportICS(c.Request.Context(), q.Year, q.Month)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	attachment(c, filename, "text/calendar; charset=utf-8", []byte(content))
}

// GetDay 单日日程
// GET /api/v1/schedule/days/:date
func (h *ScheduleHandler) GetDay(c *gin.Context) {
	day, err := h.scheduleSvc.GetDay(c.Request.Context(), c.Param("date"))
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OK(c, day)
}

// UpsertDay 编辑某天日程（管理员）
// PUT /api/v1/schedule/days/:date
func (h *ScheduleHandler) UpsertDay(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpsertScheduleDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	day, err := h.scheduleSvc.UpsertDay(c.Request.Context(), c.Param("date"), &req, callerID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OK(c, day)
}

func (h *ScheduleHandler) handleScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, response.CodeNotFound, "该日期暂无日程")
	case pkgerrors.IsValidation(err):
		response.BadRequest(c, response.CodeScheduleInvalid, err.Error())
	default:
		response.InternalError(c)
	}
}
