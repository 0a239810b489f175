package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"quds-portal/backend/internal/model"
	"quds-portal/backend/internal/repository"
	"quds-portal/backend/pkg/clock"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) GetByID(_ context.Context, userID string) (*model.User, error) {
	if u, ok := m.users[userID]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) CreateIfAbsent(_ context.Context, user *model.User) (bool, error) {
	if _, ok := m.users[user.UserID]; ok {
		return false, nil
	}
	m.users[user.UserID] = user
	return true, nil
}

// ── Mock ScheduleDayRepository ──

type mockScheduleDayRepo struct {
	days map[string]*model.ScheduleDay
}

func newMockScheduleDayRepo() *mockScheduleDayRepo {
	return &mockScheduleDayRepo{days: make(map[string]*model.ScheduleDay)}
}

func (m *mockScheduleDayRepo) Upsert(_ context.Context, day *model.ScheduleDay) error {
	cp := *day
	m.days[day.Date] = &cp
	return nil
}

func (m *mockScheduleDayRepo) GetByDate(_ context.Context, date string) (*model.ScheduleDay, error) {
	if d, ok := m.days[date]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleDayRepo) ListRange(_ context.Context, from, to string) ([]model.ScheduleDay, error) {
	var result []model.ScheduleDay
	for date, d := range m.days {
		if date >= from && date <= to {
			result = append(result, *d)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	mu      sync.Mutex
	records []model.AttendanceRecord
	failErr error // 非 nil 时 ReplaceWeek 失败且不修改数据
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{}
}

func (m *mockAttendanceRepo) ReplaceWeek(_ context.Context, userID, weekID string, records []model.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	kept := m.records[:0:0]
	for _, r := range m.records {
		if r.UserID == userID && r.WeekID == weekID {
			continue
		}
		kept = append(kept, r)
	}
	m.records = append(kept, records...)
	return nil
}

func (m *mockAttendanceRepo) ListByUserAndWeek(_ context.Context, userID, weekID string) ([]model.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if r.UserID == userID && r.WeekID == weekID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockAttendanceRepo) ListByWeek(_ context.Context, weekID string) ([]model.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if r.WeekID == weekID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockAttendanceRepo) CountByWeek(ctx context.Context, weekID string, slot *model.Slot) (int64, error) {
	rows, _ := m.ListByWeek(ctx, weekID)
	var n int64
	for _, r := range rows {
		if slot == nil || r.Slot == *slot {
			n++
		}
	}
	return n, nil
}

// ── Mock AllocationRepository ──

type mockAllocationRepo struct {
	allocs map[string]*model.WeeklyAllocation
}

func newMockAllocationRepo() *mockAllocationRepo {
	return &mockAllocationRepo{allocs: make(map[string]*model.WeeklyAllocation)}
}

func (m *mockAllocationRepo) Upsert(_ context.Context, alloc *model.WeeklyAllocation) error {
	cp := *alloc
	cp.UpdatedAt = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	m.allocs[alloc.WeekID] = &cp
	return nil
}

func (m *mockAllocationRepo) GetByWeek(_ context.Context, weekID string) (*model.WeeklyAllocation, error) {
	if a, ok := m.allocs[weekID]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock Redis 存储 ──

type mockDraftStore struct {
	drafts  map[string]string
	saveErr error
}

func newMockDraftStore() *mockDraftStore {
	return &mockDraftStore{drafts: make(map[string]string)}
}

func (m *mockDraftStore) SaveDraft(_ context.Context, weekID, userID, content string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.drafts[weekID+":"+userID] = content
	return nil
}

func (m *mockDraftStore) GetDraft(_ context.Context, weekID, userID string) (string, bool, error) {
	c, ok := m.drafts[weekID+":"+userID]
	return c, ok, nil
}

type mockBlacklist struct {
	entries map[string]time.Duration
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	if m.entries == nil {
		m.entries = make(map[string]time.Duration)
	}
	m.entries[jti] = ttl
	return nil
}

// ── 测试夹具 ──

type testRepos struct {
	user       *mockUserRepo
	schedule   *mockScheduleDayRepo
	attendance *mockAttendanceRepo
	allocation *mockAllocationRepo
}

func newTestRepository() (*repository.Repository, *testRepos) {
	r := &testRepos{
		user:       newMockUserRepo(),
		schedule:   newMockScheduleDayRepo(),
		attendance: newMockAttendanceRepo(),
		allocation: newMockAllocationRepo(),
	}
	return &repository.Repository{
		User:       r.user,
		Schedule:   r.schedule,
		Attendance: r.attendance,
		Allocation: r.allocation,
	}, r
}

// 2026-10-21 为周三，所在周的周键为 2026-10-19
var testNow = time.Date(2026, 10, 21, 19, 30, 0, 0, time.UTC)

const testWeekID = "2026-10-19"

func testClock() clock.Clock { return clock.Fixed(testNow) }

func seedRecord(repo *mockAttendanceRepo, userID, weekID string, slot model.Slot, name string) {
	repo.records = append(repo.records, model.AttendanceRecord{
		UserID:   userID,
		WeekID:   weekID,
		Slot:     slot,
		UserName: name,
		Mode:     model.ModeOffline,
		Pref:     model.PrefDebater,
	})
}

var errMockDB = fmt.Errorf("mock: 数据库不可用")
