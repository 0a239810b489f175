package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
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

// ── 出席登记模块业务错误 ──

var (
	ErrEmptyUserName      = fmt.Errorf("%w: 请填写姓名", pkgerrors.ErrValidation)
	ErrInvalidAnswer      = fmt.Errorf("%w: 回答内容无效", pkgerrors.ErrValidation)
	ErrDuplicateSlot      = fmt.Errorf("%w: 同一场次不能重复回答", pkgerrors.ErrValidation)
	ErrSessionUserMissing = fmt.Errorf("%w: 会话账号不存在", pkgerrors.ErrUnauthorized)
	ErrSubmissionConflict = fmt.Errorf("%w: 提交冲突", pkgerrors.ErrOptimisticLock)
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// AttendanceService 出席登记业务接口
//
//   - 提交以"整周"为单位：本周旧回答全部删除后写入新回答，单事务完成
//   - 不参加的场次不落库；记录不存在即表示不参加
//   - 周键一律由注入的 Clock 计算，调用方不能指定
type AttendanceService interface {
	Submit(ctx context.Context, userID string, req *dto.SubmitAttendanceRequest) (*dto.WeekAttendanceResponse, error)
	GetMine(ctx context.Context, userID string) (*dto.WeekAttendanceResponse, error)
	Roster(ctx context.Context) (*dto.RosterResponse, error)
	ExportRoster(ctx context.Context) (*bytes.Buffer, string, error)
	Catalog() *dto.SlotCatalogResponse
}

type attendanceService struct {
	repo   *repository.Repository
	clock  clock.Clock
	logger *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(repo *repository.Repository, clk clock.Clock, logger *zap.Logger) AttendanceService {
	return &attendanceService{repo: repo, clock: clk, logger: logger}
}

// ────────────────────── Submit ──────────────────────

func (s *attendanceService) Submit(ctx context.Context, userID string, req *dto.SubmitAttendanceRequest) (*dto.WeekAttendanceResponse, error) {
	name := strings.TrimSpace(req.UserName)
	if name == "" {
		metrics.AttendanceSubmissions.WithLabelValues("rejected").Inc()
		return nil, ErrEmptyUserName
	}

	weekID := week.Key(s.clock.Now())

	records, err := buildRecords(userID, weekID, name, req.Answers)
	if err != nil {
		metrics.AttendanceSubmissions.WithLabelValues("rejected").Inc()
		return nil, err
	}

	if err := s.repo.Attendance.ReplaceWeek(ctx, userID, weekID, records); err != nil {
		metrics.AttendanceSubmissions.WithLabelValues("failed").Inc()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionUserMissing
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSubmissionConflict
		}
		s.logger.Error("保存出席回答失败",
			zap.String("user_id", userID),
			zap.String("week_id", weekID),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.AttendanceSubmissions.WithLabelValues("ok").Inc()
	s.logger.Info("出席回答已提交",
		zap.String("user_id", userID),
		zap.String("week_id", weekID),
		zap.Int("slots", len(records)),
	)

	return &dto.WeekAttendanceResponse{
		WeekID:  weekID,
		Records: toAttendanceResponses(records),
	}, nil
}

// buildRecords 将表单回答转换为待写入的记录：
// 只保留 attending=true 的场次；mode/pref 缺省取首项；
// motion 仅在希望担任 Judge 时保留
func buildRecords(userID, weekID, name string, answers []dto.SlotAnswer) ([]model.AttendanceRecord, error) {
	seen := make(map[model.Slot]bool, len(answers))
	records := make([]model.AttendanceRecord, 0, len(answers))

	for _, a := range answers {
		slot := model.Slot(a.Slot)
		if !slot.IsValid() {
			return nil, fmt.Errorf("%w: 未知场次 %q", ErrInvalidAnswer, a.Slot)
		}
		if seen[slot] {
			return nil, ErrDuplicateSlot
		}
		seen[slot] = true

		if !a.Attending {
			continue
		}

		mode := model.Mode(a.Mode)
		if mode == "" {
			mode = model.Modes[0]
		}
		pref := model.Pref(a.Pref)
		if pref == "" {
			pref = model.Prefs[0]
		}
		if !mode.IsValid() || !pref.IsValid() {
			return nil, fmt.Errorf("%w: %s 的参加形式或希望角色无效", ErrInvalidAnswer, slot)
		}

		motion := ""
		if pref == model.PrefJudge {
			motion = a.Motion
		}

		records = append(records, model.AttendanceRecord{
			UserID:   userID,
			WeekID:   weekID,
			Slot:     slot,
			UserName: name,
			Mode:     mode,
			Pref:     pref,
			Note:     a.Note,
			Motion:   motion,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Slot.Order() < records[j].Slot.Order()
	})
	return records, nil
}

// ────────────────────── GetMine ──────────────────────

func (s *attendanceService) GetMine(ctx context.Context, userID string) (*dto.WeekAttendanceResponse, error) {
	weekID := week.Key(s.clock.Now())
	records, err := s.repo.Attendance.ListByUserAndWeek(ctx, userID, weekID)
	if err != nil {
		s.logger.Error("查询本人出席回答失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	sortRecords(records)
	return &dto.WeekAttendanceResponse{
		WeekID:  weekID,
		Records: toAttendanceResponses(records),
	}, nil
}

// ────────────────────── Roster ──────────────────────

func (s *attendanceService) Roster(ctx context.Context) (*dto.RosterResponse, error) {
	weekID, records, err := s.currentRoster(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.RosterResponse{
		WeekID:  weekID,
		Total:   len(records),
		Records: toAttendanceResponses(records),
	}, nil
}

func (s *attendanceService) currentRoster(ctx context.Context) (string, []model.AttendanceRecord, error) {
	weekID := week.Key(s.clock.Now())
	records, err := s.repo.Attendance.ListByWeek(ctx, weekID)
	if err != nil {
		s.logger.Error("查询本周出席一览失败", zap.String("week_id", weekID), zap.Error(err))
		return "", nil, err
	}
	sortRecords(records)
	return weekID, records, nil
}

// ────────────────────── ExportRoster ──────────────────────
//
// 输出格式：
//   - 单个 Sheet "Roster"
//   - 列：Slot | Name | Mode | Pref | Note | Motion
//   - 行按场次周内顺序、再按姓名排序

func (s *attendanceService) ExportRoster(ctx context.Context) (*bytes.Buffer, string, error) {
	weekID, records, err := s.currentRoster(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Roster"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheet, "A", "A", 10)
	f.SetColWidth(sheet, "B", "B", 20)
	f.SetColWidth(sheet, "C", "D", 12)
	f.SetColWidth(sheet, "E", "F", 40)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{"Slot", "Name", "Mode", "Pref", "Note", "Motion"}
	for i, h := range headers {
		f.SetCellValue(sheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheet, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	for i, r := range records {
		row := i + 2
		values := []string{string(r.Slot), r.UserName, string(r.Mode), string(r.Pref), r.Note, r.Motion}
		for j, v := range values {
			f.SetCellValue(sheet, cell(colName(j), row), v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, fmt.Sprintf("roster_%s.xlsx", weekID), nil
}

// ────────────────────── Catalog ──────────────────────

func (s *attendanceService) Catalog() *dto.SlotCatalogResponse {
	return &dto.SlotCatalogResponse{
		WeekID:      week.Key(s.clock.Now()),
		Slots:       toStrings(model.Slots),
		Modes:       toStrings(model.Modes),
		Prefs:       toStrings(model.Prefs),
		MotionTypes: toStrings(model.MotionTypes),
		Formats:     toStrings(model.Formats),
	}
}

// ── 辅助函数 ──

// sortRecords 场次周内顺序优先，其次姓名
func sortRecords(records []model.AttendanceRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		oi, oj := records[i].Slot.Order(), records[j].Slot.Order()
		if oi != oj {
			return oi < oj
		}
		return records[i].UserName < records[j].UserName
	})
}

func toAttendanceResponses(records []model.AttendanceRecord) []dto.AttendanceRecordResponse {
	out := make([]dto.AttendanceRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.AttendanceRecordResponse{
			Slot:     string(r.Slot),
			UserName: r.UserName,
			Mode:     string(r.Mode),
			Pref:     string(r.Pref),
			Note:     r.Note,
			Motion:   r.Motion,
		})
	}
	return out
}

func toStrings[T ~string](list []T) []string {
	out := make([]string, len(list))
	for i, v := range list {
		out[i] = string(v)
	}
	return out
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
