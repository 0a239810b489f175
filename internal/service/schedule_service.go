package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"quds-portal/backend/internal/dto"
	"quds-portal/backend/internal/model"
	"quds-portal/backend/internal/repository"
	"quds-portal/backend/pkg/clock"
	pkgerrors "quds-portal/backend/pkg/errors"
	"quds-portal/backend/pkg/validate"
	"quds-portal/backend/pkg/week"
)

// ── 月间日程模块业务错误 ──

var (
	ErrInvalidDate       = fmt.Errorf("%w: 日期格式无效，应为 YYYY-MM-DD", pkgerrors.ErrValidation)
	ErrInvalidActiveFlag = fmt.Errorf("%w: is_active 只能为 Yes / No", pkgerrors.ErrValidation)
	ErrInvalidMotionType = fmt.Errorf("%w: 未知的辩题类别", pkgerrors.ErrValidation)
	ErrInvalidMonth      = fmt.Errorf("%w: 年月无效", pkgerrors.ErrValidation)
	ErrScheduleNotFound  = errors.New("该日期暂无日程")
)

// DefaultStartTime 编辑日程未填写开始时间时的默认值
const DefaultStartTime = "18:00"

// 月视图列头：周日为第一列
var weekdayHeaders = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// ScheduleService 月间日程业务接口
type ScheduleService interface {
	UpsertDay(ctx context.Context, date string, req *dto.UpsertScheduleDayRequest, callerID string) (*dto.ScheduleDayResponse, error)
	GetDay(ctx context.Context, date string) (*dto.ScheduleDayResponse, error)
	// MonthView year/month 为 0 时取当前月
	MonthView(ctx context.Context, year, month int) (*dto.MonthViewResponse, error)
	// ExportICS 导出某月开展练习的日子为 iCalendar，返回内容与建议文件名
	ExportICS(ctx context.Context, year, month int) (string, string, error)
}

type scheduleService struct {
	repo     *repository.Repository
	clock    clock.Clock
	clubName string
	logger   *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, clk clock.Clock, clubName string, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, clock: clk, clubName: clubName, logger: logger}
}

// ────────────────────── UpsertDay ──────────────────────

func (s *scheduleService) UpsertDay(ctx context.Context, date string, req *dto.UpsertScheduleDayRequest, callerID string) (*dto.ScheduleDayResponse, error) {
	if !validate.IsDate(date) {
		return nil, ErrInvalidDate
	}
	flag := model.ActiveFlag(req.IsActive)
	if !flag.IsValid() {
		return nil, ErrInvalidActiveFlag
	}
	motionType := model.MotionType(req.MotionType)
	if !motionType.IsValid() {
		return nil, ErrInvalidMotionType
	}

	startTime := strings.TrimSpace(req.StartTime)
	if startTime == "" {
		startTime = DefaultStartTime
	}

	day := &model.ScheduleDay{
		Date:       date,
		IsActive:   flag,
		StartTime:  startTime,
		MotionType: motionType,
	}
	day.CreatedBy = &callerID
	day.UpdatedBy = &callerID

	if err := s.repo.Schedule.Upsert(ctx, day); err != nil {
		s.logger.Error("保存日程失败", zap.String("date", date), zap.Error(err))
		return nil, err
	}

	s.logger.Info("日程已更新",
		zap.String("date", date),
		zap.String("is_active", string(flag)),
		zap.String("by", callerID),
	)
	return toScheduleDayResponse(day), nil
}

// ────────────────────── GetDay ──────────────────────

func (s *scheduleService) GetDay(ctx context.Context, date string) (*dto.ScheduleDayResponse, error) {
	if !validate.IsDate(date) {
		return nil, ErrInvalidDate
	}
	day, err := s.repo.Schedule.GetByDate(ctx, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return toScheduleDayResponse(day), nil
}

// ────────────────────── MonthView ──────────────────────

func (s *scheduleService) MonthView(ctx context.Context, year, month int) (*dto.MonthViewResponse, error) {
	first, last, err := s.monthBounds(year, month)
	if err != nil {
		return nil, err
	}

	days, err := s.repo.Schedule.ListRange(ctx, first.Format(week.Layout), last.Format(week.Layout))
	if err != nil {
		s.logger.Error("查询月间日程失败", zap.Error(err))
		return nil, err
	}
	byDate := make(map[string]*model.ScheduleDay, len(days))
	for i := range days {
		byDate[days[i].Date] = &days[i]
	}

	// 周日为第一列：首行前置 first.Weekday() 个空白格，末行补齐到 7 格
	var (
		weeks [][]dto.CalendarCell
		row   = make([]dto.CalendarCell, int(first.Weekday()))
	)
	for d := 1; d <= last.Day(); d++ {
		date := time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC).Format(week.Layout)
		c := dto.CalendarCell{Day: d, Date: date}
		if sd, ok := byDate[date]; ok {
			if sd.Active() {
				c.Status = "active"
				c.StartTime = sd.StartTime
				c.MotionType = string(sd.MotionType)
			} else {
				c.Status = "off"
			}
		}
		row = append(row, c)
		if len(row) == 7 {
			weeks = append(weeks, row)
			row = make([]dto.CalendarCell, 0, 7)
		}
	}
	if len(row) > 0 {
		for len(row) < 7 {
			row = append(row, dto.CalendarCell{})
		}
		weeks = append(weeks, row)
	}

	return &dto.MonthViewResponse{
		Year:     first.Year(),
		Month:    int(first.Month()),
		Weekdays: weekdayHeaders,
		Weeks:    weeks,
	}, nil
}

// ────────────────────── ExportICS ──────────────────────

func (s *scheduleService) ExportICS(ctx context.Context, year, month int) (string, string, error) {
	first, last, err := s.monthBounds(year, month)
	if err != nil {
		return "", "", err
	}

	days, err := s.repo.Schedule.ListRange(ctx, first.Format(week.Layout), last.Format(week.Layout))
	if err != nil {
		s.logger.Error("查询月间日程失败", zap.Error(err))
		return "", "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//" + s.clubName + "//Practice Schedule//EN")
	cal.SetXWRCalName(s.clubName + " Practice")

	stamp := s.clock.Now().UTC()
	for _, d := range days {
		if !d.Active() {
			continue
		}
		date, err := time.Parse(week.Layout, d.Date)
		if err != nil {
			continue
		}
		ev := cal.AddEvent(d.Date + "@" + strings.ToLower(s.clubName))
		ev.SetDtStampTime(stamp)
		ev.SetAllDayStartAt(date)
		ev.SetAllDayEndAt(date.AddDate(0, 0, 1))
		ev.SetSummary(fmt.Sprintf("%s Practice %s", s.clubName, d.StartTime))
		ev.SetDescription("Motion type: " + string(d.MotionType))
	}

	filename := fmt.Sprintf("%s_%04d-%02d.ics", s.clubName, first.Year(), int(first.Month()))
	return cal.Serialize(), filename, nil
}

// ── 辅助函数 ──

// monthBounds 返回某月首日与末日；year/month 为 0 时以当前时间补齐
func (s *scheduleService) monthBounds(year, month int) (time.Time, time.Time, error) {
	now := s.clock.Now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 || year < 1 {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last, nil
}

func toScheduleDayResponse(d *model.ScheduleDay) *dto.ScheduleDayResponse {
	return &dto.ScheduleDayResponse{
		Date:       d.Date,
		IsActive:   string(d.IsActive),
		StartTime:  d.StartTime,
		MotionType: string(d.MotionType),
	}
}
