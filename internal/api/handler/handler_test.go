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

	"teamhub/backend/internal/dto"
	"teamhub/backend/internal/service"
	pkgerrors "teamhub/backend/pkg/errors"
	"teamhub/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// 인터페이스를 임베드하고 테스트에서 쓰는 메서드만 구현한다.
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	service.AuthService
	signupResult  *dto.UserResponse
	signupErr     error
	loginResult   *dto.TokenResponse
	loginErr      error
	refreshResult *dto.TokenResponse
	refreshErr    error
	logoutErr     error
	logoutJTI     string
	logoutRefresh string
}

func (m *mockAuthService) Signup(_ context.Context, _ *dto.SignupRequest) (*dto.UserResponse, error) {
	return m.signupResult, m.signupErr
}
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Refresh(_ context.Context, _ string) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, jti string, _ time.Time, refreshToken string) error {
	m.logoutJTI = jti
	m.logoutRefresh = refreshToken
	return m.logoutErr
}

// ── Mock PointService ──

type mockPointService struct {
	service.PointService
	addResult *dto.AddPointResponse
	addErr    error
	lastEntry *service.PointEntry
	logs      []dto.PointLogResponse
	logsErr   error
}

func (m *mockPointService) AddPointLog(_ context.Context, entry service.PointEntry) (*dto.AddPointResponse, error) {
	m.lastEntry = &entry
	return m.addResult, m.addErr
}
func (m *mockPointService) ListLogs(_ context.Context, _ string) ([]dto.PointLogResponse, error) {
	return m.logs, m.logsErr
}

// ── Mock StaffRequestService ──

type mockStaffRequestService struct {
	service.StaffRequestService
	result    *dto.StaffRequestResponse
	err       error
	lastNotes string
}

func (m *mockStaffRequestService) Approve(_ context.Context, _, _, notes string) (*dto.StaffRequestResponse, error) {
	m.lastNotes = notes
	return m.result, m.err
}
func (m *mockStaffRequestService) Create(_ context.Context, _ string, _ *dto.CreateStaffRequestRequest) (*dto.StaffRequestResponse, error) {
	return m.result, m.err
}
func (m *mockStaffRequestService) Withdraw(_ context.Context, _, _ string) (*dto.StaffRequestResponse, error) {
	return m.result, m.err
}

// ── Mock AttendanceService ──

type mockAttendanceService struct {
	service.AttendanceService
	voteResult *dto.AttendanceResponse
	voteErr    error
	listResult []dto.AttendanceResponse
}

func (m *mockAttendanceService) SubmitVote(_ context.Context, _, _ string, _ *dto.VoteRequest) (*dto.AttendanceResponse, error) {
	return m.voteResult, m.voteErr
}
func (m *mockAttendanceService) ListUserAttendance(_ context.Context, _ string) ([]dto.AttendanceResponse, error) {
	return m.listResult, nil
}

// ── Mock LifecycleService ──

type mockLifecycleService struct {
	service.LifecycleService
	result *dto.SweepResult
	err    error
	calls  int
}

func (m *mockLifecycleService) Sweep(_ context.Context) (*dto.SweepResult, error) {
	m.calls++
	return m.result, m.err
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	ics      []byte
	err      error
}

func (m *mockExportService) ExportRankings(_ context.Context) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) EventCalendar(_ context.Context) ([]byte, error) {
	return m.ics, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setAuth(c *gin.Context, userID, role string) {
	c.Set("user_id", userID)
	c.Set("role", role)
	c.Set("token_jti", "test-jti")
	c.Set("token_exp", time.Now().Add(15*time.Minute))
}

// withAuth 인증 정보를 넣은 뒤 핸들러를 호출한다
func withAuth(userID, role string, h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		setAuth(c, userID, role)
		h(c)
	}
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func serve(method, path, route string, h gin.HandlerFunc, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	r := gin.New()
	r.Handle(method, route, h)
	r.ServeHTTP(w, req)
	return w
}

func intPtr(n int) *int { return &n }

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    1800,
		},
	}
	h := NewAuthHandler(mock)

	w := serve("POST", "/auth/login", "/auth/login", h.Login, jsonBody(dto.LoginRequest{
		Name:   "김철수",
		Number: intPtr(10),
	}))

	if w.Code != http.StatusOK {
		t.Errorf("기대 200, 실제 %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 0 {
		t.Errorf("기대 code 0, 실제 %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := serve("POST", "/auth/login", "/auth/login", h.Login, strings.NewReader("invalid json"))

	if w.Code != http.StatusBadRequest {
		t.Errorf("기대 400, 실제 %d", w.Code)
	}
}

func TestAuthHandler_Login_MissingNumber(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := serve("POST", "/auth/login", "/auth/login", h.Login, jsonBody(map[string]string{"name": "김철수"}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("등번호 없이 로그인하면 400, 실제 %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	w := serve("POST", "/auth/login", "/auth/login", h.Login, jsonBody(dto.LoginRequest{
		Name:   "김철수",
		Number: intPtr(99),
	}))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("기대 401, 실제 %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11001 {
		t.Errorf("기대 code 11001, 실제 %d", resp.Code)
	}
}

func TestAuthHandler_Signup_NumberTaken(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{signupErr: service.ErrNumberTaken})

	w := serve("POST", "/auth/signup", "/auth/signup", h.Signup, jsonBody(dto.SignupRequest{
		Name:   "이영희",
		Number: intPtr(10),
	}))

	if w.Code != http.StatusConflict {
		t.Errorf("기대 409, 실제 %d", w.Code)
	}
}

func TestAuthHandler_Signup_Created(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{signupResult: &dto.UserResponse{ID: "u1", Name: "이영희"}})

	w := serve("POST", "/auth/signup", "/auth/signup", h.Signup, jsonBody(dto.SignupRequest{
		Name:   "이영희",
		Number: intPtr(0),
	}))

	if w.Code != http.StatusCreated {
		t.Errorf("등번호 0 도 허용, 기대 201, 실제 %d", w.Code)
	}
}

func TestAuthHandler_RefreshToken_MissingToken(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := serve("POST", "/auth/refresh", "/auth/refresh", h.RefreshToken, jsonBody(map[string]string{}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("기대 400, 실제 %d", w.Code)
	}
}

func TestAuthHandler_RefreshToken_Revoked(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{refreshErr: service.ErrTokenRevoked})

	w := serve("POST", "/auth/refresh", "/auth/refresh", h.RefreshToken, jsonBody(dto.RefreshTokenRequest{
		RefreshToken: "old-refresh",
	}))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("기대 401, 실제 %d", w.Code)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	w := serve("POST", "/auth/logout", "/auth/logout", withAuth("u1", "player", h.Logout),
		jsonBody(map[string]string{"refresh_token": "r-token"}))

	if w.Code != http.StatusOK {
		t.Errorf("기대 200, 실제 %d", w.Code)
	}
	if mock.logoutJTI != "test-jti" || mock.logoutRefresh != "r-token" {
		t.Errorf("Logout 인자 오류: jti=%s refresh=%s", mock.logoutJTI, mock.logoutRefresh)
	}
}

func TestAuthHandler_CheckNumber_Invalid(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := serve("GET", "/auth/check-number?number=abc", "/auth/check-number", h.CheckNumber, nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("기대 400, 실제 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// PointHandler Tests
// ═══════════════════════════════════════════════════════════

func TestPointHandler_AddPoint_MissingFields(t *testing.T) {
	full := map[string]interface{}{
		"userId":   "u1",
		"adminId":  "mgr",
		"category": "game",
		"reason":   "홈런",
		"points":   10,
	}

	for field := range full {
		t.Run(field, func(t *testing.T) {
			mock := &mockPointService{}
			h := NewPointHandler(mock)

			body := make(map[string]interface{}, len(full))
			for k, v := range full {
				if k != field {
					body[k] = v
				}
			}

			w := serve("POST", "/points/add", "/points/add", withAuth("mgr", "manager", h.AddPoint), jsonBody(body))

			if w.Code != http.StatusBadRequest {
				t.Errorf("%s 누락 시 기대 400, 실제 %d", field, w.Code)
			}
			if mock.lastEntry != nil {
				t.Error("검증 실패 시 Service 를 호출하면 안 됩니다")
			}
		})
	}
}

func TestPointHandler_AddPoint_AdminMismatch(t *testing.T) {
	mock := &mockPointService{}
	h := NewPointHandler(mock)

	w := serve("POST", "/points/add", "/points/add", withAuth("mgr", "manager", h.AddPoint), jsonBody(dto.AddPointRequest{
		UserID:   "u1",
		AdminID:  "other-manager",
		Category: "game",
		Reason:   "홈런",
		Points:   intPtr(10),
	}))

	if w.Code != http.StatusForbidden {
		t.Errorf("기대 403, 실제 %d", w.Code)
	}
	if mock.lastEntry != nil {
		t.Error("다른 매니저 명의로는 기록하면 안 됩니다")
	}
}

func TestPointHandler_AddPoint_Success(t *testing.T) {
	mock := &mockPointService{addResult: &dto.AddPointResponse{TotalPoints: 10}}
	h := NewPointHandler(mock)

	w := serve("POST", "/points/add", "/points/add", withAuth("mgr", "manager", h.AddPoint), jsonBody(dto.AddPointRequest{
		UserID:   "u1",
		AdminID:  "mgr",
		Category: "game",
		Reason:   "홈런",
		Points:   intPtr(10),
	}))

	if w.Code != http.StatusOK {
		t.Fatalf("기대 200, 실제 %d", w.Code)
	}
	if mock.lastEntry == nil || mock.lastEntry.Points != 10 || *mock.lastEntry.AdminID != "mgr" {
		t.Errorf("Service 호출 인자 오류: %+v", mock.lastEntry)
	}
}

func TestPointHandler_AddPoint_ZeroPoints(t *testing.T) {
	h := NewPointHandler(&mockPointService{addErr: service.ErrZeroPoints})

	w := serve("POST", "/points/add", "/points/add", withAuth("mgr", "manager", h.AddPoint), jsonBody(dto.AddPointRequest{
		UserID:   "u1",
		AdminID:  "mgr",
		Category: "game",
		Reason:   "무효",
		Points:   intPtr(0),
	}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("기대 400, 실제 %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 16003 {
		t.Errorf("기대 code 16003, 실제 %d", resp.Code)
	}
}

func TestPointHandler_ListLogs_MissingUserID(t *testing.T) {
	h := NewPointHandler(&mockPointService{})

	w := serve("GET", "/points/logs", "/points/logs", h.ListLogs, nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("기대 400, 실제 %d", w.Code)
	}
}

func TestPointHandler_ListLogs(t *testing.T) {
	h := NewPointHandler(&mockPointService{logs: []dto.PointLogResponse{{ID: "l1", Points: -7}}})

	w := serve("GET", "/points/logs?userId=u1", "/points/logs", h.ListLogs, nil)

	if w.Code != http.StatusOK {
		t.Errorf("기대 200, 실제 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// StaffRequestHandler Tests
// ═══════════════════════════════════════════════════════════

func TestStaffRequestHandler_Approve_DeniedReason(t *testing.T) {
	reason := "단장은 감독의 요청만 승인할 수 있습니다"
	h := NewStaffRequestHandler(&mockStaffRequestService{err: &service.ApprovalDeniedError{Reason: reason}})

	w := serve("POST", "/staff-requests/r1/approve", "/staff-requests/:id/approve",
		withAuth("chairman", "manager", h.Approve), nil)

	if w.Code != http.StatusForbidden {
		t.Errorf("기대 403, 실제 %d", w.Code)
	}
	if resp := parseResponse(w); resp.Message != reason {
		t.Errorf("거부 사유가 그대로 전달되어야 합니다, 실제 %q", resp.Message)
	}
}

func TestStaffRequestHandler_Approve_PassesNotes(t *testing.T) {
	mock := &mockStaffRequestService{result: &dto.StaffRequestResponse{ID: "r1", Status: "approved"}}
	h := NewStaffRequestHandler(mock)

	w := serve("POST", "/staff-requests/r1/approve", "/staff-requests/:id/approve",
		withAuth("head", "manager", h.Approve), jsonBody(dto.ReviewStaffRequestRequest{Notes: "확인"}))

	if w.Code != http.StatusOK {
		t.Errorf("기대 200, 실제 %d", w.Code)
	}
	if mock.lastNotes != "확인" {
		t.Errorf("기대 notes=확인, 실제 %q", mock.lastNotes)
	}
}

func TestStaffRequestHandler_ConflictErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"중복 요청", service.ErrRequestConflict, 15005},
		{"낙관적 잠금", pkgerrors.ErrOptimisticLock, 15006},
		{"잘못된 전이", service.ErrInvalidTransition, 15007},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewStaffRequestHandler(&mockStaffRequestService{err: tt.err})

			w := serve("POST", "/staff-requests/r1/withdraw", "/staff-requests/:id/withdraw",
				withAuth("pitch", "manager", h.Withdraw), nil)

			if w.Code != http.StatusConflict {
				t.Errorf("기대 409, 실제 %d", w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("기대 code %d, 실제 %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestStaffRequestHandler_Create_MissingField(t *testing.T) {
	h := NewStaffRequestHandler(&mockStaffRequestService{err: service.ErrMissingRequiredField})

	w := serve("POST", "/staff-requests", "/staff-requests", withAuth("pitch", "manager", h.CreateRequest),
		jsonBody(dto.CreateStaffRequestRequest{
			EventID:        "e1",
			RequestType:    "late_arrival",
			ReasonCategory: "work",
			ReasonDetail:   "야근",
		}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("기대 400, 실제 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AttendanceHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAttendanceHandler_SubmitVote_Closed(t *testing.T) {
	h := NewAttendanceHandler(&mockAttendanceService{voteErr: service.ErrVotingClosed})

	w := serve("POST", "/events/e1/vote", "/events/:id/vote", withAuth("u1", "player", h.SubmitVote),
		jsonBody(dto.VoteRequest{Vote: "attending"}))

	if w.Code != http.StatusConflict {
		t.Errorf("기대 409, 실제 %d", w.Code)
	}
}

func TestAttendanceHandler_SubmitVote_InvalidValue(t *testing.T) {
	h := NewAttendanceHandler(&mockAttendanceService{})

	w := serve("POST", "/events/e1/vote", "/events/:id/vote", withAuth("u1", "player", h.SubmitVote),
		jsonBody(map[string]string{"vote": "maybe"}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("기대 400, 실제 %d", w.Code)
	}
}

func TestAttendanceHandler_ListUserAttendance_Permission(t *testing.T) {
	h := NewAttendanceHandler(&mockAttendanceService{})

	w := serve("GET", "/users/u2/attendance", "/users/:id/attendance",
		withAuth("u1", "player", h.ListUserAttendance), nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("다른 선수 기록 조회는 403, 실제 %d", w.Code)
	}

	w = serve("GET", "/users/u2/attendance", "/users/:id/attendance",
		withAuth("mgr", "manager", h.ListUserAttendance), nil)
	if w.Code != http.StatusOK {
		t.Errorf("매니저는 조회 가능, 실제 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// CronHandler / ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestCronHandler_AutoPenalize(t *testing.T) {
	mock := &mockLifecycleService{result: &dto.SweepResult{TotalPenalized: 2}}
	h := NewCronHandler(mock)

	w := serve("POST", "/cron/auto-penalize", "/cron/auto-penalize", h.AutoPenalize, nil)

	if w.Code != http.StatusOK {
		t.Errorf("기대 200, 실제 %d", w.Code)
	}
	if mock.calls != 1 {
		t.Errorf("Sweep 은 한 번 호출되어야 합니다, 실제 %d", mock.calls)
	}
}

func TestExportHandler_ExportRankings_Headers(t *testing.T) {
	h := NewExportHandler(&mockExportService{buf: bytes.NewBufferString("xlsx"), filename: "팀_랭킹_20250510.xlsx"})

	w := serve("GET", "/export/rankings", "/export/rankings", h.ExportRankings, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("기대 200, 실제 %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("Content-Type 오류: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment; filename*=UTF-8''") {
		t.Errorf("Content-Disposition 오류: %s", cd)
	}
}

func TestExportHandler_ExportRankings_Fail(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrExportGenerateFail})

	w := serve("GET", "/export/rankings", "/export/rankings", h.ExportRankings, nil)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("기대 500, 실제 %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 17001 {
		t.Errorf("기대 code 17001, 실제 %d", resp.Code)
	}
}

func TestExportHandler_EventCalendar(t *testing.T) {
	h := NewExportHandler(&mockExportService{ics: []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")})

	w := serve("GET", "/export/calendar.ics", "/export/calendar.ics", h.EventCalendar, nil)

	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/calendar") {
		t.Errorf("Content-Type 오류: %s", w.Header().Get("Content-Type"))
	}
}
