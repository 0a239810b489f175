package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"quds-portal/backend/config"
	"quds-portal/backend/internal/api/middleware"
	"quds-portal/backend/internal/dto"
	"quds-portal/backend/internal/service"
	"quds-portal/backend/pkg/response"
	"quds-portal/backend/pkg/validate"
)

func init() {
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = validate.Register(v)
	}
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult *dto.TokenResponse
	loginErr    error
	logoutErr   error
	loggedOut   string
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Logout(_ context.Context, jti string, _ time.Time) error {
	m.loggedOut = jti
	return m.logoutErr
}
func (m *mockAuthService) SeedUsers(_ context.Context, _ []config.SeedUser) error { return nil }

// ── Mock ScheduleService ──

type mockScheduleService struct {
	upsertResult *dto.ScheduleDayResponse
	upsertErr    error
	dayResult    *dto.ScheduleDayResponse
	dayErr       error
	monthResult  *dto.MonthViewResponse
	monthErr     error
	icsContent   string
	icsErr       error
}

func (m *mockScheduleService) UpsertDay(_ context.Context, _ string, _ *dto.UpsertScheduleDayRequest, _ string) (*dto.ScheduleDayResponse, error) {
	return m.upsertResult, m.upsertErr
}
func (m *mockScheduleService) GetDay(_ context.Context, _ string) (*dto.ScheduleDayResponse, error) {
	return m.dayResult, m.dayErr
}
func (m *mockScheduleService) MonthView(_ context.Context, _, _ int) (*dto.MonthViewResponse, error) {
	return m.monthResult, m.monthErr
}
func (m *mockScheduleService) ExportICS(_ context.Context, _, _ int) (string, string, error) {
	return m.icsContent, "QUDS_2026-10.ics", m.icsErr
}

// ── Mock AttendanceService ──

type mockAttendanceService struct {
	submitResult *dto.WeekAttendanceResponse
	submitErr    error
	mineResult   *dto.WeekAttendanceResponse
	rosterResult *dto.RosterResponse
	exportBuf    *bytes.Buffer
	exportErr    error
	submittedBy  string
}

func (m *mockAttendanceService) Submit(_ context.Context, userID string, _ *dto.SubmitAttendanceRequest) (*dto.WeekAttendanceResponse, error) {
	m.submittedBy = userID
	return m.submitResult, m.submitErr
}
func (m *mockAttendanceService) GetMine(_ context.Context, _ string) (*dto.WeekAttendanceResponse, error) {
	return m.mineResult, nil
}
func (m *mockAttendanceService) Roster(_ context.Context) (*dto.RosterResponse, error) {
	return m.rosterResult, nil
}
func (m *mockAttendanceService) ExportRoster(_ context.Context) (*bytes.Buffer, string, error) {
	return m.exportBuf, "roster_2026-10-19.xlsx", m.exportErr
}
func (m *mockAttendanceService) Catalog() *dto.SlotCatalogResponse {
	return &dto.SlotCatalogResponse{WeekID: "2026-10-19"}
}

// ── Mock AllocationService ──

type mockAllocationService struct {
	templateResult *dto.TemplateResponse
	templateErr    error
	draftResult    *dto.DraftResponse
	publishResult  *dto.AllocationResponse
	publishErr     error
	getResult      *dto.AllocationResponse
	getErr         error
	publishedWeek  string
	requestedWeek  string
}

func (m *mockAllocationService) GenerateTemplate(_ context.Context, _ *dto.GenerateTemplateRequest, _ string) (*dto.TemplateResponse, error) {
	return m.templateResult, m.templateErr
}
func (m *mockAllocationService) GetDraft(_ context.Context, _ string) (*dto.DraftResponse, error) {
	return m.draftResult, nil
}
func (m *mockAllocationService) Publish(_ context.Context, weekID, _, _ string) (*dto.AllocationResponse, error) {
	m.publishedWeek = weekID
	return m.publishResult, m.publishErr
}
func (m *mockAllocationService) Get(_ context.Context, weekID string) (*dto.AllocationResponse, error) {
	m.requestedWeek = weekID
	return m.getResult, m.getErr
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setAuth(c *gin.Context) {
	c.Set(middleware.CtxUserID, "admin")
	c.Set(middleware.CtxRole, "admin")
	c.Set(middleware.CtxTokenJTI, "test-jti")
	c.Set(middleware.CtxTokenExp, time.Now().Add(time.Hour))
}

// withAuth 模拟 JWTAuth 已注入会话
func withAuth(h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		setAuth(c)
		h(c)
	}
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func serve(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, status, code int) {
	t.Helper()
	if w.Code != status {
		t.Errorf("expected %d, got %d (%s)", status, w.Code, w.Body.String())
	}
	if resp := parseResponse(w); resp.Code != code {
		t.Errorf("expected code %d, got %d", code, resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{loginResult: &dto.TokenResponse{
		AccessToken: "token",
		ExpiresIn:   43200,
		Session:     dto.SessionResponse{UserID: "QUDS26", Role: "member"},
	}}
	h := NewAuthHandler(mock)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{ID: "QUDS26", Password: "EnjoyItoshimaLife"}))

	expectStatus(t, w, http.StatusOK, response.CodeOK)
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", jsonBody(map[string]string{"id": "QUDS26"}))

	expectStatus(t, w, http.StatusBadRequest, response.CodeBadParam)
	if resp := parseResponse(w); !strings.Contains(resp.Details, "password") {
		t.Errorf("details 应指出缺失字段，实际=%q", resp.Details)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{ID: "QUDS26", Password: "wrong"}))

	expectStatus(t, w, http.StatusUnauthorized, response.CodeBadCredentials)
}

func TestAuthHandler_Login_BodyTooLarge(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.Use(middleware.BodyLimit(16))
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{ID: strings.Repeat("x", 64), Password: "p"}))

	expectStatus(t, w, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge)
}

func TestAuthHandler_Logout_RevokesCurrentToken(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	r := gin.New()
	r.POST("/auth/logout", withAuth(h.Logout))
	w := serve(r, "POST", "/auth/logout", nil)

	expectStatus(t, w, http.StatusOK, response.CodeOK)
	if mock.loggedOut != "test-jti" {
		t.Errorf("应吊销当前 jti，实际=%q", mock.loggedOut)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.GET("/auth/me", h.Me)
	w := serve(r, "GET", "/auth/me", nil)

	expectStatus(t, w, http.StatusUnauthorized, response.CodeUnauthenticated)
}

// ═══════════════════════════════════════════════════════════
// ScheduleHandler Tests
// ═══════════════════════════════════════════════════════════

func TestScheduleHandler_Month_Success(t *testing.T) {
	h := NewScheduleHandler(&mockScheduleService{monthResult: &dto.MonthViewResponse{Year: 2026, Month: 10}})

	r := gin.New()
	r.GET("/schedule/month", h.Month)
	w := serve(r, "GET", "/schedule/month?year=2026&month=10", nil)

	expectStatus(t, w, http.StatusOK, response.CodeOK)
}

func TestScheduleHandler_Month_BadQuery(t *testing.T) {
	h := NewScheduleHandler(&mockScheduleService{})

	r := gin.New()
	r.GET("/schedule/month", h.Month)
	w := serve(r, "GET", "/schedule/month?month=13", nil)

	expectStatus(t, w, http.StatusBadRequest, response.CodeBadParam)
}

func TestScheduleHandler_ExportICS(t *testing.T) {
	h := NewScheduleHandler(&mockScheduleService{icsContent: "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"})

	r := gin.New()
	r.GET("/schedule/month.ics", h.ExportICS)
	w := serve(r, "GET", "/schedule/month.ics", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("unexpected content type %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "QUDS_2026-10.ics") {
		t.Errorf("unexpected content disposition %s", cd)
	}
}

func TestScheduleHandler_UpsertDay_BindingRejectsUnknownMotionType(t *testing.T) {
	h := NewScheduleHandler(&mockScheduleService{})

	r := gin.New()
	r.PUT("/schedule/days/:date", withAuth(h.UpsertDay))
	w := serve(r, "PUT", "/schedule/days/2026-10-21", jsonBody(map[string]string{
		"is_active":   "Yes",
		"motion_type": "Cooking",
	}))

	expectStatus(t, w, http.StatusBadRequest, response.CodeBadParam)
}

func TestScheduleHandler_UpsertDay_InvalidDate(t *testing.T) {
	h := NewScheduleHandler(&mockScheduleService{upsertErr: service.ErrInvalidDate})

	r := gin.New()
	r.PUT("/schedule/days/:date", withAuth(h.UpsertDay))
	w := serve(r, "PUT", "/schedule/days/2026-02-30", jsonBody(dto.UpsertScheduleDayRequest{
		IsActive:   "Yes",
		MotionType: "Art",
	}))

	expectStatus(t, w, http.StatusBadRequest, response.CodeScheduleInvalid)
}

func TestScheduleHandler_GetDay_NotFound(t *testing.T) {
	h := NewScheduleHandler(&mockScheduleService{dayErr: service.ErrScheduleNotFound})

	r := gin.New()
	r.GET("/schedule/days/:date", h.GetDay)
	w := serve(r, "GET", "/schedule/days/2026-10-21", nil)

	expectStatus(t, w, http.StatusNotFound, response.CodeNotFound)
}

// ═══════════════════════════════════════════════════════════
// AttendanceHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAttendanceHandler_Submit_Success(t *testing.T) {
	mock := &mockAttendanceService{submitResult: &dto.WeekAttendanceResponse{WeekID: "2026-10-19"}}
	h := NewAttendanceHandler(mock)

	r := gin.New()
	r.PUT("/attendance/me", withAuth(h.Submit))
	w := serve(r, "PUT", "/attendance/me", jsonBody(dto.SubmitAttendanceRequest{
		UserName: "Taro",
		Answers:  []dto.SlotAnswer{{Slot: "Wed 1", Attending: true, Pref: "Judge", Motion: "THW"}},
	}))

	expectStatus(t, w, http.StatusOK, response.CodeOK)
	if mock.submittedBy != "admin" {
		t.Errorf("应以会话 user_id 提交，实际=%q", mock.submittedBy)
	}
}

func TestAttendanceHandler_Mine(t *testing.T) {
	mock := &mockAttendanceService{mineResult: &dto.WeekAttendanceResponse{
		WeekID:  "2026-10-19",
		Records: []dto.AttendanceRecordResponse{{Slot: "Thu 1", UserName: "Taro", Mode: "Online", Pref: "Any"}},
	}}
	h := NewAttendanceHandler(mock)

	r := gin.New()
	r.GET("/attendance/me", withAuth(h.Mine))
	w := serve(r, "GET", "/attendance/me", nil)

	expectStatus(t, w, http.StatusOK, response.CodeOK)
	if !strings.Contains(w.Body.String(), `"Thu 1"`) {
		t.Errorf("响应应包含本人已回答的场次: %s", w.Body.String())
	}

	r = gin.New()
	r.GET("/attendance/me", h.Mine)
	expectStatus(t, serve(r, "GET", "/attendance/me", nil), http.StatusUnauthorized, response.CodeUnauthenticated)
}

func TestAttendanceHandler_Submit_UnknownSlot(t *testing.T) {
	h := NewAttendanceHandler(&mockAttendanceService{})

	r := gin.New()
	r.PUT("/attendance/me", withAuth(h.Submit))
	w := serve(r, "PUT", "/attendance/me", jsonBody(dto.SubmitAttendanceRequest{
		UserName: "Taro",
		Answers:  []dto.SlotAnswer{{Slot: "Fri 9", Attending: true}},
	}))

	expectStatus(t, w, http.StatusBadRequest, response.CodeBadParam)
}

func TestAttendanceHandler_Submit_ErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   int
	}{
		{service.ErrEmptyUserName, http.StatusBadRequest, response.CodeAttendanceName},
		{service.ErrDuplicateSlot, http.StatusBadRequest, response.CodeAttendanceAnswer},
		{service.ErrSubmissionConflict, http.StatusConflict, response.CodeAttendanceBusy},
		{service.ErrSessionUserMissing, http.StatusUnauthorized, response.CodeUnauthenticated},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError, response.CodeInternal},
	}
	for _, tc := range cases {
		h := NewAttendanceHandler(&mockAttendanceService{submitErr: tc.err})
		r := gin.New()
		r.PUT("/attendance/me", withAuth(h.Submit))
		w := serve(r, "PUT", "/attendance/me", jsonBody(dto.SubmitAttendanceRequest{UserName: "x"}))
		expectStatus(t, w, tc.status, tc.code)
	}
}

func TestAttendanceHandler_ExportRoster(t *testing.T) {
	h := NewAttendanceHandler(&mockAttendanceService{exportBuf: bytes.NewBufferString("xlsx")})

	r := gin.New()
	r.GET("/admin/roster/export", h.ExportRoster)
	w := serve(r, "GET", "/admin/roster/export", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("unexpected content type %s", ct)
	}
}

// ═══════════════════════════════════════════════════════════
// AllocationHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAllocationHandler_Current(t *testing.T) {
	mock := &mockAllocationService{getResult: &dto.AllocationResponse{WeekID: "2026-10-19"}}
	h := NewAllocationHandler(mock)

	r := gin.New()
	r.GET("/allocations/current", h.Current)
	r.GET("/allocations/:week_id", h.ByWeek)

	expectStatus(t, serve(r, "GET", "/allocations/current", nil), http.StatusOK, response.CodeOK)
	if mock.requestedWeek != "" {
		t.Errorf("current 应传空周键，实际=%q", mock.requestedWeek)
	}

	expectStatus(t, serve(r, "GET", "/allocations/2026-10-12", nil), http.StatusOK, response.CodeOK)
	if mock.requestedWeek != "2026-10-12" {
		t.Errorf("应传路径中的周键，实际=%q", mock.requestedWeek)
	}
}

func TestAllocationHandler_ByWeek_Invalid(t *testing.T) {
	h := NewAllocationHandler(&mockAllocationService{getErr: service.ErrInvalidWeekID})

	r := gin.New()
	r.GET("/allocations/:week_id", h.ByWeek)
	w := serve(r, "GET", "/allocations/2026-10-21", nil)

	expectStatus(t, w, http.StatusBadRequest, response.CodeAllocWeek)
}

func TestAllocationHandler_Template_UnknownFormat(t *testing.T) {
	h := NewAllocationHandler(&mockAllocationService{})

	r := gin.New()
	r.POST("/admin/allocations/template", withAuth(h.Template))
	w := serve(r, "POST", "/admin/allocations/template", jsonBody(map[string]string{"format": "WSDC"}))

	expectStatus(t, w, http.StatusBadRequest, response.CodeBadParam)
}

func TestAllocationHandler_Template_Success(t *testing.T) {
	h := NewAllocationHandler(&mockAllocationService{templateResult: &dto.TemplateResponse{RoomCount: 2}})

	r := gin.New()
	r.POST("/admin/allocations/template", withAuth(h.Template))
	w := serve(r, "POST", "/admin/allocations/template", jsonBody(map[string]string{"format": "BP opening"}))

	expectStatus(t, w, http.StatusOK, response.CodeOK)
}

func TestAllocationHandler_Publish_CurrentWeek(t *testing.T) {
	mock := &mockAllocationService{publishResult: &dto.AllocationResponse{Published: true}}
	h := NewAllocationHandler(mock)

	r := gin.New()
	r.PUT("/admin/allocations/current", withAuth(h.Publish))
	w := serve(r, "PUT", "/admin/allocations/current", jsonBody(dto.PublishAllocationRequest{Content: "### NA Allocations\n"}))

	expectStatus(t, w, http.StatusOK, response.CodeOK)
	if mock.publishedWeek != "" {
		t.Errorf("发布应针对当前周，实际=%q", mock.publishedWeek)
	}
}
