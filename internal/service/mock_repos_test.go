package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"gorm.io/gorm"

	"teamhub/backend/internal/model"
	"teamhub/backend/internal/repository"
	pkgerrors "teamhub/backend/pkg/errors"
	redispkg "teamhub/backend/pkg/redis"
)

// 모든 mock 은 조회 시 복사본을 반환한다 (DB 와 같이 저장하기 전 변경이 반영되지 않도록).

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Number == user.Number {
			return fmt.Errorf("duplicate number %d", user.Number)
		}
	}
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%d", user.Number)
	}
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByNumber(_ context.Context, number int) (*model.User, error) {
	for _, u := range m.users {
		if u.Number == number {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByNameAndNumber(_ context.Context, name string, number int) (*model.User, error) {
	for _, u := range m.users {
		if u.Name == name && u.Number == number {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	stored, ok := m.users[user.UserID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *user
	cp.TotalPoints = stored.TotalPoints
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	if u, ok := m.users[id]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

func (m *mockUserRepo) List(_ context.Context, includeInactive bool) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if includeInactive || u.IsActive {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result, nil
}

func (m *mockUserRepo) ListActive(ctx context.Context) ([]model.User, error) {
	return m.List(ctx, false)
}

func (m *mockUserRepo) ListRanking(ctx context.Context, limit int) ([]model.User, error) {
	result, _ := m.List(ctx, false)
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].TotalPoints != result[j].TotalPoints {
			return result[i].TotalPoints > result[j].TotalPoints
		}
		return result[i].Number < result[j].Number
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockUserRepo) AddPoints(_ context.Context, id string, delta int) (int, error) {
	u, ok := m.users[id]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	u.TotalPoints += delta
	return u.TotalPoints, nil
}

// ── Mock EventRepository ──

type mockEventRepo struct {
	events map[string]*model.Event
	seq    int
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[string]*model.Event)}
}

func (m *mockEventRepo) Create(_ context.Context, event *model.Event) error {
	if event.EventID == "" {
		m.seq++
		event.EventID = fmt.Sprintf("event-%d", m.seq)
	}
	cp := *event
	m.events[event.EventID] = &cp
	return nil
}

func (m *mockEventRepo) GetByID(_ context.Context, id string) (*model.Event, error) {
	if e, ok := m.events[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) Update(_ context.Context, event *model.Event) error {
	if _, ok := m.events[event.EventID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *event
	m.events[event.EventID] = &cp
	return nil
}

func (m *mockEventRepo) UpdateStatus(_ context.Context, id string, status model.EventStatus) error {
	e, ok := m.events[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.Status = status
	return nil
}

func (m *mockEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.events[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.events, id)
	return nil
}

func (m *mockEventRepo) List(_ context.Context, statuses ...model.EventStatus) ([]model.Event, error) {
	want := make(map[model.EventStatus]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}
	var result []model.Event
	for _, e := range m.events {
		if len(want) == 0 || want[e.Status] {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return eventSortKey(&result[i]) < eventSortKey(&result[j])
	})
	return result, nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	rows   map[string]*model.Attendance
	users  *mockUserRepo
	events *mockEventRepo
	seq    int
}

func newMockAttendanceRepo(users *mockUserRepo, events *mockEventRepo) *mockAttendanceRepo {
	return &mockAttendanceRepo{
		rows:   make(map[string]*model.Attendance),
		users:  users,
		events: events,
	}
}

func (m *mockAttendanceRepo) find(userID, eventID string) *model.Attendance {
	for _, r := range m.rows {
		if r.UserID == userID && r.EventID == eventID {
			return r
		}
	}
	return nil
}

func (m *mockAttendanceRepo) insert(row *model.Attendance) {
	m.seq++
	row.AttendanceID = fmt.Sprintf("att-%d", m.seq)
	cp := *row
	cp.User, cp.Event = nil, nil
	m.rows[row.AttendanceID] = &cp
}

func (m *mockAttendanceRepo) BatchCreate(_ context.Context, rows []model.Attendance) error {
	for i := range rows {
		if m.find(rows[i].UserID, rows[i].EventID) != nil {
			continue
		}
		m.insert(&rows[i])
	}
	return nil
}

func (m *mockAttendanceRepo) GetByID(_ context.Context, id string) (*model.Attendance, error) {
	if r, ok := m.rows[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) Get(_ context.Context, userID, eventID string) (*model.Attendance, error) {
	if r := m.find(userID, eventID); r != nil {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) Upsert(_ context.Context, row *model.Attendance, columns ...string) error {
	existing := m.find(row.UserID, row.EventID)
	if existing == nil {
		m.insert(row)
		return nil
	}
	for _, col := range columns {
		switch col {
		case "voted_status":
			existing.VotedStatus = row.VotedStatus
		case "voted_at":
			existing.VotedAt = row.VotedAt
		case "actual_status":
			existing.ActualStatus = row.ActualStatus
		case "confirmed_at":
			existing.ConfirmedAt = row.ConfirmedAt
		case "absence_reason":
			existing.AbsenceReason = row.AbsenceReason
		case "notes":
			existing.Notes = row.Notes
		}
	}
	return nil
}

func (m *mockAttendanceRepo) UpdateActual(_ context.Context, id string, status model.ActualStatus, notes *string, at time.Time) error {
	r, ok := m.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.ActualStatus = status
	r.ConfirmedAt = &at
	if notes != nil {
		r.Notes = *notes
	}
	return nil
}

func (m *mockAttendanceRepo) ListByEvent(_ context.Context, eventID string) ([]model.Attendance, error) {
	var result []model.Attendance
	for _, r := range m.rows {
		if r.EventID == eventID {
			cp := *r
			if u, ok := m.users.users[r.UserID]; ok {
				uc := *u
				cp.User = &uc
			}
			result = append(result, cp)
		}
	}
	return result, nil
}

func (m *mockAttendanceRepo) ListByUser(_ context.Context, userID string) ([]model.Attendance, error) {
	var result []model.Attendance
	for _, r := range m.rows {
		if r.UserID == userID {
			cp := *r
			if e, ok := m.events.events[r.EventID]; ok {
				ec := *e
				cp.Event = &ec
			}
			result = append(result, cp)
		}
	}
	return result, nil
}

func (m *mockAttendanceRepo) ListPendingByEvent(_ context.Context, eventID string) ([]model.Attendance, error) {
	var result []model.Attendance
	for _, r := range m.rows {
		if r.EventID == eventID && r.VotedStatus == model.VotePending {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

func (m *mockAttendanceRepo) ConvertVotes(_ context.Context, eventID string, at time.Time) (int64, error) {
	var affected int64
	for _, r := range m.rows {
		if r.EventID != eventID {
			continue
		}
		switch r.ActualStatus {
		case model.ActualUnknown, model.ActualLate, model.ActualEarlyLeave:
			r.ActualStatus = model.ResolveActual(r.VotedStatus)
			r.ConfirmedAt = &at
			affected++
		}
	}
	return affected, nil
}

func (m *mockAttendanceRepo) DeleteByEvent(_ context.Context, eventID string) error {
	for id, r := range m.rows {
		if r.EventID == eventID {
			delete(m.rows, id)
		}
	}
	return nil
}

// ── Mock PointLogRepository ──

type mockPointLogRepo struct {
	logs []model.PointLog
	// failFor 에 있는 사용자의 기록은 실패시킨다
	failFor map[string]bool
	seq     int
}

func newMockPointLogRepo() *mockPointLogRepo {
	return &mockPointLogRepo{failFor: make(map[string]bool)}
}

func (m *mockPointLogRepo) Create(_ context.Context, log *model.PointLog) error {
	if m.failFor[log.UserID] {
		return fmt.Errorf("point log insert failed for %s", log.UserID)
	}
	m.seq++
	if log.LogID == "" {
		log.LogID = fmt.Sprintf("log-%d", m.seq)
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Date(2025, 1, 1, 0, 0, m.seq, 0, time.UTC)
	}
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockPointLogRepo) CreateIfAbsent(ctx context.Context, log *model.PointLog) (bool, error) {
	if log.DedupKey != nil {
		for _, l := range m.logs {
			if l.DedupKey != nil && *l.DedupKey == *log.DedupKey {
				return false, nil
			}
		}
	}
	if err := m.Create(ctx, log); err != nil {
		return false, err
	}
	return true, nil
}

func (m *mockPointLogRepo) ListByUser(_ context.Context, userID string) ([]model.PointLog, error) {
	var result []model.PointLog
	for i := len(m.logs) - 1; i >= 0; i-- {
		if m.logs[i].UserID == userID {
			result = append(result, m.logs[i])
		}
	}
	return result, nil
}

func (m *mockPointLogRepo) SumByUser(_ context.Context, userID string) (int, error) {
	sum := 0
	for _, l := range m.logs {
		if l.UserID == userID {
			sum += l.Points
		}
	}
	return sum, nil
}

func (m *mockPointLogRepo) countByReason(userID, reason string) int {
	n := 0
	for _, l := range m.logs {
		if l.UserID == userID && l.Reason == reason {
			n++
		}
	}
	return n
}

// ── Mock StaffRequestRepository ──

type mockStaffRequestRepo struct {
	reqs   map[string]*model.StaffRequest
	users  *mockUserRepo
	events *mockEventRepo
	seq    int
}

func newMockStaffRequestRepo(users *mockUserRepo, events *mockEventRepo) *mockStaffRequestRepo {
	return &mockStaffRequestRepo{
		reqs:   make(map[string]*model.StaffRequest),
		users:  users,
		events: events,
	}
}

// withRelations Requester / Event 관계를 채운 복사본
func (m *mockStaffRequestRepo) withRelations(r *model.StaffRequest) model.StaffRequest {
	cp := *r
	if u, ok := m.users.users[r.RequesterID]; ok {
		uc := *u
		cp.Requester = &uc
	}
	if e, ok := m.events.events[r.EventID]; ok {
		ec := *e
		cp.Event = &ec
	}
	return cp
}

func (m *mockStaffRequestRepo) Create(_ context.Context, req *model.StaffRequest) error {
	m.seq++
	if req.RequestID == "" {
		req.RequestID = fmt.Sprintf("req-%d", m.seq)
	}
	if req.Version == 0 {
		req.Version = 1
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Date(2025, 1, 1, 0, 0, m.seq, 0, time.UTC)
	}
	cp := *req
	cp.Requester, cp.Event, cp.Substitute = nil, nil, nil
	m.reqs[req.RequestID] = &cp
	return nil
}

func (m *mockStaffRequestRepo) GetByID(_ context.Context, id string) (*model.StaffRequest, error) {
	r, ok := m.reqs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := m.withRelations(r)
	return &cp, nil
}

func (m *mockStaffRequestRepo) FindLatest(_ context.Context, requesterID, eventID string, requestType model.RequestType) (*model.StaffRequest, error) {
	var latest *model.StaffRequest
	for _, r := range m.reqs {
		if r.RequesterID != requesterID || r.EventID != eventID || r.RequestType != requestType {
			continue
		}
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *latest
	return &cp, nil
}

func (m *mockStaffRequestRepo) Update(_ context.Context, req *model.StaffRequest) error {
	stored, ok := m.reqs[req.RequestID]
	if !ok || stored.Version != req.Version {
		return pkgerrors.ErrOptimisticLock
	}
	req.Version++
	cp := *req
	cp.Requester, cp.Event, cp.Substitute = nil, nil, nil
	m.reqs[req.RequestID] = &cp
	return nil
}

func (m *mockStaffRequestRepo) list(keep func(*model.StaffRequest) bool) []model.StaffRequest {
	var result []model.StaffRequest
	for _, r := range m.reqs {
		if keep(r) {
			result = append(result, m.withRelations(r))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result
}

func (m *mockStaffRequestRepo) ListByStatuses(_ context.Context, statuses []model.RequestStatus) ([]model.StaffRequest, error) {
	return m.list(func(r *model.StaffRequest) bool {
		for _, s := range statuses {
			if r.Status == s {
				return true
			}
		}
		return false
	}), nil
}

func (m *mockStaffRequestRepo) ListByRequester(_ context.Context, requesterID string) ([]model.StaffRequest, error) {
	return m.list(func(r *model.StaffRequest) bool {
		return r.RequesterID == requesterID && r.Status != model.RequestWithdrawn
	}), nil
}

func (m *mockStaffRequestRepo) ListByEvent(_ context.Context, eventID string) ([]model.StaffRequest, error) {
	return m.list(func(r *model.StaffRequest) bool { return r.EventID == eventID }), nil
}

func (m *mockStaffRequestRepo) ListAll(_ context.Context) ([]model.StaffRequest, error) {
	return m.list(func(*model.StaffRequest) bool { return true }), nil
}

func (m *mockStaffRequestRepo) ListExpirable(_ context.Context, now time.Time) ([]model.StaffRequest, error) {
	return m.list(func(r *model.StaffRequest) bool {
		return r.Status.IsOpen() && r.ExpiresAt != nil && !r.ExpiresAt.After(now)
	}), nil
}

func (m *mockStaffRequestRepo) DeleteByEvent(_ context.Context, eventID string) error {
	for id, r := range m.reqs {
		if r.EventID == eventID {
			delete(m.reqs, id)
		}
	}
	return nil
}

// ── Mock Cache ──

type mockCache struct {
	data        map[string][]byte
	failGet     bool
	sets        int
	invalidated int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) GetCached(_ context.Context, key string, dest interface{}) error {
	if m.failGet {
		return errors.New("redis unavailable")
	}
	raw, ok := m.data[key]
	if !ok {
		return redispkg.ErrCacheMiss
	}
	return msgpack.Unmarshal(raw, dest)
}

func (m *mockCache) SetCached(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := msgpack.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	m.sets++
	return nil
}

func (m *mockCache) Invalidate(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	m.invalidated++
	return nil
}

// ── Mock TokenBlacklist ──

type mockBlacklist struct {
	tokens map[string]time.Duration
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{tokens: make(map[string]time.Duration)}
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	if ttl > 0 {
		m.tokens[jti] = ttl
	}
	return nil
}

func (m *mockBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	_, ok := m.tokens[jti]
	return ok, nil
}

// ── 테스트 픽스처 ──

type testRepos struct {
	repo       *repository.Repository
	users      *mockUserRepo
	events     *mockEventRepo
	attendance *mockAttendanceRepo
	pointLogs  *mockPointLogRepo
	staff      *mockStaffRequestRepo
}

func newTestRepos() *testRepos {
	users := newMockUserRepo()
	events := newMockEventRepo()
	tr := &testRepos{
		users:      users,
		events:     events,
		attendance: newMockAttendanceRepo(users, events),
		pointLogs:  newMockPointLogRepo(),
		staff:      newMockStaffRequestRepo(users, events),
	}
	tr.repo = &repository.Repository{
		User:         tr.users,
		Event:        tr.events,
		Attendance:   tr.attendance,
		PointLog:     tr.pointLogs,
		StaffRequest: tr.staff,
	}
	return tr
}

// addUser 활성 사용자 추가
func (tr *testRepos) addUser(id, name string, number int, role model.Role, tag string) *model.User {
	u := &model.User{
		UserID:   id,
		Name:     name,
		Number:   number,
		Role:     role,
		Tag:      tag,
		Position: model.DefaultPosition,
		JoinDate: "2024-01-01",
		IsActive: true,
	}
	tr.users.users[id] = u
	return u
}

// addEvent upcoming 일정 추가
func (tr *testRepos) addEvent(id, date, clock string, status model.EventStatus) *model.Event {
	e := &model.Event{
		EventID:            id,
		Title:              "경기 " + id,
		Date:               date,
		Time:               clock,
		Type:               model.EventTypeRegular,
		IsMandatory:        true,
		RequiredStaffCount: model.DefaultRequiredStaffCount,
		Status:             status,
	}
	tr.events.events[id] = e
	return e
}

// addAttendance 출석 행 직접 추가
func (tr *testRepos) addAttendance(userID, eventID string, vote model.VotedStatus, actual model.ActualStatus) *model.Attendance {
	row := model.NewPendingAttendance(userID, eventID)
	row.VotedStatus = vote
	row.ActualStatus = actual
	tr.attendance.insert(&row)
	return tr.attendance.rows[row.AttendanceID]
}

var testLoc = time.FixedZone("KST", 9*60*60)

// fixedNow 테스트 기준 시각 (KST)
func fixedNow(date, clock string) func() time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, testLoc)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}
