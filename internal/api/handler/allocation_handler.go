package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"quds-portal/backend/internal/dto"
	"quds-portal/backend/internal/service"
	pkgerrors "quds-portal/backend/pkg/errors"
	"quds-portal/backend/pkg/response"
)

// AllocationHandler 分房 HTTP 处理器
type AllocationHandler struct {
	allocationSvc service.AllocationService
}

// NewAllocationHandler 创建 AllocationHandler
func NewAllocationHandler(allocationSvc service.AllocationService) *AllocationHandler {
	return &AllocationHandler{allocationSvc: allocationSvc}
}

// Current 本周分房
// GET /api/v1/allocations/current
func (h *AllocationHandler) Current(c *gin.Context) {
	h.read(c, "")
}

// ByWeek 指定周的分房
// GET /api/v1/allocations/:week_id
func (h *AllocationHandler) ByWeek(c *gin.Context) {
	h.read(c, c.Param("week_id"))
}

func (h *AllocationHandler) read(c *gin.Context, weekID string) {
	result, err := h.allocationSvc.Get(c.Request.Context(), weekID)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}
	response.OK(c, result)
}

// Template 按赛制生成分房骨架（管理员）
// POST /api/v1/admin/allocations/template
func (h *AllocationHandler) Template(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.GenerateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	result, err := h.allocationSvc.GenerateTemplate(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}
	response.OK(c, result)
}

// Draft 最近一次生成的草稿（管理员）
// GET /api/v1/admin/allocations/draft
func (h *AllocationHandler) Draft(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.allocationSvc.GetDraft(c.Request.Context(), callerID)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}
	response.OK(c, result)
}

// Publish 发布本周分房（管理员，整篇覆盖）
// PUT /api/v1/admin/allocations/current
func (h *AllocationHandler) Publish(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.PublishAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	result, err := h.allocationSvc.Publish(c.Request.Context(), "", req.Content, callerID)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *AllocationHandler) handleAllocationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownFormat), errors.Is(err, service.ErrNegativeAttendeeCount):
		response.BadRequest(c, response.CodeAllocFormat, err.Error())
	case errors.Is(err, service.ErrInvalidWeekID):
		response.BadRequest(c, response.CodeAllocWeek, err.Error())
	case pkgerrors.IsValidation(err):
		response.BadRequest(c, response.CodeBadParam, err.Error())
	default:
		response.InternalError(c)
	}
}
