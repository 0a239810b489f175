package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"quds-portal/backend/internal/dto"
	"quds-portal/backend/internal/model"
	"quds-portal/backend/internal/repository"
	"quds-portal/backend/pkg/clock"
	pkgerrors "quds-portal/backend/pkg/errors"
	"quds-portal/backend/pkg/metrics"
	"quds-portal/backend/pkg/week"
)

// ── 分房模块业务错误 ──

var (
	ErrInvalidWeekID = fmt.Errorf("%w: 周键无效，应为周一日期 YYYY-MM-DD", pkgerrors.ErrValidation)
)

// AllocationService 分房业务接口
//
// weekID 传空串表示当前周。发布为整篇覆盖，不保留历史。
type AllocationService interface {
	GenerateTemplate(ctx context.Context, req *dto.GenerateTemplateRequest, callerID string) (*dto.TemplateResponse, error)
	GetDraft(ctx context.Context, callerID string) (*dto.DraftResponse, error)
	Publish(ctx context.Context, weekID, content, callerID string) (*dto.AllocationResponse, error)
	Get(ctx context.Context, weekID string) (*dto.AllocationResponse, error)
}

type allocationService struct {
	repo   *repository.Repository
	drafts DraftStore
	clock  clock.Clock
	md     goldmark.Markdown
	logger *zap.Logger
}

// NewAllocationService 创建 AllocationService 实例；drafts 可为 nil
func NewAllocationService(repo *repository.Repository, drafts DraftStore, clk clock.Clock, logger *zap.Logger) AllocationService {
	return &allocationService{
		repo:   repo,
		drafts: drafts,
		clock:  clk,
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		logger: logger,
	}
}

// ────────────────────── GenerateTemplate ──────────────────────

func (s *allocationService) GenerateTemplate(ctx context.Context, req *dto.GenerateTemplateRequest, callerID string) (*dto.TemplateResponse, error) {
	format := model.Format(req.Format)
	quota, ok := format.Quota()
	if !ok {
		return nil, ErrUnknownFormat
	}

	weekID := week.Key(s.clock.Now())

	// 1. 人数：显式指定优先，否则统计本周回答行数
	count := 0
	if req.AttendeeCount != nil {
		count = *req.AttendeeCount
	} else {
		var slot *model.Slot
		if req.Slot != nil && *req.Slot != "" {
			sl := model.Slot(*req.Slot)
			if !sl.IsValid() {
				return nil, fmt.Errorf("%w: 未知场次 %q", ErrInvalidAnswer, *req.Slot)
			}
			slot = &sl
		}
		n, err := s.repo.Attendance.CountByWeek(ctx, weekID, slot)
		if err != nil {
			s.logger.Error("统计本周出席人数失败", zap.Error(err))
			return nil, err
		}
		count = int(n)
	}

	// 2. 生成骨架
	content, rooms, err := GenerateTemplate(format, count)
	if err != nil {
		return nil, err
	}

	// 3. 保存为草稿（Redis 不可用时仅返回，不影响生成）
	if s.drafts != nil {
		if err := s.drafts.SaveDraft(ctx, weekID, callerID, content); err != nil {
			s.logger.Warn("保存分房草稿失败", zap.String("user_id", callerID), zap.Error(err))
		}
	}

	return &dto.TemplateResponse{
		WeekID:        weekID,
		Format:        string(format),
		AttendeeCount: count,
		Quota:         quota,
		RoomCount:     rooms,
		Content:       content,
	}, nil
}

// ────────────────────── GetDraft ──────────────────────

func (s *allocationService) GetDraft(ctx context.Context, callerID string) (*dto.DraftResponse, error) {
	weekID := week.Key(s.clock.Now())
	resp := &dto.DraftResponse{WeekID: weekID}
	if s.drafts == nil {
		return resp, nil
	}

	content, ok, err := s.drafts.GetDraft(ctx, weekID, callerID)
	if err != nil {
		s.logger.Warn("读取分房草稿失败", zap.String("user_id", callerID), zap.Error(err))
		return resp, nil
	}
	resp.Exists = ok
	resp.Content = content
	return resp, nil
}

// ────────────────────── Publish ──────────────────────

func (s *allocationService) Publish(ctx context.Context, weekID, content, callerID string) (*dto.AllocationResponse, error) {
	weekID, err := s.resolveWeek(weekID)
	if err != nil {
		return nil, err
	}

	alloc := &model.WeeklyAllocation{
		WeekID:  weekID,
		Content: content,
	}
	alloc.CreatedBy = &callerID
	alloc.UpdatedBy = &callerID

	if err := s.repo.Allocation.Upsert(ctx, alloc); err != nil {
		s.logger.Error("发布分房文档失败", zap.String("week_id", weekID), zap.Error(err))
		return nil, err
	}

	metrics.AllocationsPublished.Inc()
	s.logger.Info("分房文档已发布",
		zap.String("week_id", weekID),
		zap.String("by", callerID),
		zap.Int("bytes", len(content)),
	)

	return s.toResponse(alloc), nil
}

// ────────────────────── Get ──────────────────────

func (s *allocationService) Get(ctx context.Context, weekID string) (*dto.AllocationResponse, error) {
	weekID, err := s.resolveWeek(weekID)
	if err != nil {
		return nil, err
	}

	alloc, err := s.repo.Allocation.GetByWeek(ctx, weekID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.AllocationResponse{WeekID: weekID}, nil
		}
		s.logger.Error("查询分房文档失败", zap.String("week_id", weekID), zap.Error(err))
		return nil, err
	}
	return s.toResponse(alloc), nil
}

// ── 辅助函数 ──

func (s *allocationService) resolveWeek(weekID string) (string, error) {
	if weekID == "" {
		return week.Key(s.clock.Now()), nil
	}
	if _, err := week.Parse(weekID); err != nil {
		return "", ErrInvalidWeekID
	}
	return weekID, nil
}

func (s *allocationService) toResponse(alloc *model.WeeklyAllocation) *dto.AllocationResponse {
	resp := &dto.AllocationResponse{
		WeekID:    alloc.WeekID,
		Published: true,
		Content:   alloc.Content,
	}
	if !alloc.UpdatedAt.IsZero() {
		resp.UpdatedAt = alloc.UpdatedAt.Format(time.RFC3339)
	}

	var buf bytes.Buffer
	if err := s.md.Convert([]byte(alloc.Content), &buf); err != nil {
		s.logger.Warn("渲染分房文档失败", zap.String("week_id", alloc.WeekID), zap.Error(err))
		return resp
	}
	resp.HTML = buf.String()
	return resp
}
