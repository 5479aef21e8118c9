package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"teamhub/backend/internal/dto"
	"teamhub/backend/internal/model"
)

func setupTestEventService() (EventService, *testRepos) {
	tr := newTestRepos()
	logger := zap.NewNop()
	now := fixedNow("2025-05-10", "12:00")

	points := NewPointService(tr.repo, nil, logger)
	staff := NewStaffRequestService(tr.repo, logger).(*staffRequestService)
	staff.now = now
	lifecycle := NewLifecycleService(tr.repo, points, staff, testLoc, logger).(*lifecycleService)
	lifecycle.now = now

	return NewEventService(tr.repo, lifecycle, logger), tr
}

func TestEventCreate_DistributesAttendance(t *testing.T) {
	svc, tr := setupTestEventService()
	tr.addUser("u1", "김철수", 10, model.RolePlayer, "")
	tr.addUser("u2", "이영희", 20, model.RolePlayer, "")
	tr.addUser("gone", "탈퇴", 30, model.RolePlayer, "").IsActive = false

	resp, err := svc.Create(context.Background(), "u1", &dto.CreateEventRequest{
		Title: "정기전",
		Date:  "2025-05-17",
		Time:  "18:00",
		Type:  string(model.EventTypeRegular),
	})
	if err != nil {
		t.Fatalf("Create 실패: %v", err)
	}
	if resp.Status != string(model.EventUpcoming) || !resp.IsMandatory || resp.RequiredStaffCount != model.DefaultRequiredStaffCount {
		t.Errorf("기본값 오류: %+v", resp)
	}

	rows, _ := tr.attendance.ListByEvent(context.Background(), resp.ID)
	if len(rows) != 2 {
		t.Fatalf("활성 사용자 2명에게 배분되어야 합니다, 실제 %d행", len(rows))
	}
	for _, r := range rows {
		if r.VotedStatus != model.VotePending || r.ActualStatus != model.ActualUnknown {
			t.Errorf("배분 행은 pending/unknown 이어야 합니다: %+v", r)
		}
	}
}

func TestEventUpdate_OnlyUpcoming(t *testing.T) {
	svc, tr := setupTestEventService()
	tr.addEvent("e1", "2025-05-17", "18:00", model.EventUpcoming)
	tr.addEvent("e2", "2025-05-01", "18:00", model.EventCompleted)
	title := "변경"

	resp, err := svc.Update(context.Background(), "e1", &dto.UpdateEventRequest{Title: &title})
	if err != nil || resp.Title != "변경" {
		t.Fatalf("Update 실패: resp=%+v err=%v", resp, err)
	}
	if _, err := svc.Update(context.Background(), "e2", &dto.UpdateEventRequest{Title: &title}); !errors.Is(err, ErrEventNotEditable) {
		t.Errorf("기대 ErrEventNotEditable, 실제 %v", err)
	}
}

func TestEventCancel(t *testing.T) {
	svc, tr := setupTestEventService()
	tr.addEvent("e1", "2025-05-17", "18:00", model.EventUpcoming)
	tr.addEvent("e2", "2025-05-01", "18:00", model.EventCompleted)

	resp, err := svc.Cancel(context.Background(), "e1")
	if err != nil || resp.Status != string(model.EventCancelled) {
		t.Fatalf("Cancel 실패: resp=%+v err=%v", resp, err)
	}
	if _, err := svc.Cancel(context.Background(), "e2"); !errors.Is(err, ErrInvalidEventTransition) {
		t.Errorf("완료된 일정은 취소할 수 없습니다, 실제 %v", err)
	}
}

func TestEventDelete_Cascades(t *testing.T) {
	svc, tr := setupTestEventService()
	tr.addUser("u1", "김철수", 10, model.RoleManager, model.TagPitchingCoach)
	tr.addEvent("e1", "2025-05-17", "18:00", model.EventUpcoming)
	tr.addEvent("keep", "2025-05-18", "18:00", model.EventUpcoming)
	tr.addAttendance("u1", "e1", model.VotePending, model.ActualUnknown)
	tr.addAttendance("u1", "keep", model.VotePending, model.ActualUnknown)
	tr.staff.Create(context.Background(), &model.StaffRequest{RequesterID: "u1", EventID: "e1", Status: model.RequestSubmitted})

	if err := svc.Delete(context.Background(), "e1"); err != nil {
		t.Fatalf("Delete 실패: %v", err)
	}
	if _, ok := tr.events.events["e1"]; ok {
		t.Error("일정이 삭제되어야 합니다")
	}
	if len(tr.attendance.rows) != 1 || len(tr.staff.reqs) != 0 {
		t.Errorf("딸린 행이 삭제되어야 합니다: attendance=%d staff=%d", len(tr.attendance.rows), len(tr.staff.reqs))
	}

	if err := svc.Delete(context.Background(), "e1"); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("기대 ErrEventNotFound, 실제 %v", err)
	}
}

func TestEventRefreshStatus(t *testing.T) {
	svc, tr := setupTestEventService()
	tr.addEvent("e1", "2025-05-10", "08:00", model.EventUpcoming)

	resp, err := svc.RefreshStatus(context.Background(), "e1")
	if err != nil {
		t.Fatalf("RefreshStatus 실패: %v", err)
	}
	// 08:00 시작 후 3시간이 지났으므로 ongoing 을 거쳐 completed
	if resp.Status != string(model.EventCompleted) {
		t.Errorf("기대 completed, 실제 %s", resp.Status)
	}
}

func TestEventList_StatusFilter(t *testing.T) {
	svc, tr := setupTestEventService()
	tr.addEvent("e1", "2025-05-17", "18:00", model.EventUpcoming)
	tr.addEvent("e2", "2025-05-01", "18:00", model.EventCompleted)

	all, _ := svc.List(context.Background(), "")
	upcoming, _ := svc.List(context.Background(), "upcoming")
	if len(all) != 2 || len(upcoming) != 1 || upcoming[0].ID != "e1" {
		t.Errorf("목록 필터 오류: all=%d upcoming=%+v", len(all), upcoming)
	}
}
