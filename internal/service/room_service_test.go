package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"examspace/internal/calendar"
	"examspace/internal/dto"
	"examspace/internal/model"
)

func setupTestRoomService() (RoomService, *mockRepos) {
	repo, mocks := newMockRepos()
	svc := NewRoomService(repo, nil, zap.NewNop())
	return svc, mocks
}

func addTestRoom(mocks *mockRepos, id string) *model.Room {
	room := &model.Room{
		RoomID:        id,
		Name:          "机房 " + id,
		LocalTimezone: "Europe/Helsinki",
		State:         model.RoomStateActive,
	}
	mocks.rooms.rooms[id] = room
	return room
}

func onceSpec(loc *time.Location, start, end time.Time) dto.ExceptionSpecRequest {
	return dto.ExceptionSpecRequest{
		Repeats:      calendar.RepeatOnce,
		StartDate:    start.In(loc),
		EndDate:      end.In(loc),
		OutOfService: true,
	}
}

func TestRoomService_CreateExceptions_Once(t *testing.T) {
	svc, mocks := setupTestRoomService()
	addTestRoom(mocks, "room-1")
	loc := testLocation(t)

	start := time.Date(2026, 12, 1, 10, 0, 0, 0, loc)
	end := time.Date(2026, 12, 1, 12, 0, 0, 0, loc)

	result, err := svc.CreateExceptions(context.Background(), &dto.BatchCreateExceptionsRequest{
		RoomIDs:    []string{"room-1"},
		Exceptions: []dto.ExceptionSpecRequest{onceSpec(loc, start, end)},
	})
	if err != nil {
		t.Fatalf("CreateExceptions 应成功: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("期望1条例外，实际=%d", len(result))
	}
	if result[0].RoomID != "room-1" {
		t.Errorf("期望归属 room-1，实际=%s", result[0].RoomID)
	}
	if !result[0].StartDate.Equal(calendar.AdjustToStorage(start)) {
		t.Errorf("起始时刻应按存储口径换算，期望=%v，实际=%v",
			calendar.AdjustToStorage(start), result[0].StartDate)
	}
	if len(mocks.exceptions.exceptions) != 1 {
		t.Errorf("期望落库1条，实际=%d", len(mocks.exceptions.exceptions))
	}
}

func TestRoomService_CreateExceptions_BatchInternalOverlap(t *testing.T) {
	svc, mocks := setupTestRoomService()
	addTestRoom(mocks, "room-1")
	loc := testLocation(t)

	// 批内两条规则相互重叠，整批拒绝
	_, err := svc.CreateExceptions(context.Background(), &dto.BatchCreateExceptionsRequest{
		RoomIDs: []string{"room-1"},
		Exceptions: []dto.ExceptionSpecRequest{
			onceSpec(loc,
				time.Date(2026, 12, 1, 10, 0, 0, 0, loc),
				time.Date(2026, 12, 1, 12, 0, 0, 0, loc)),
			onceSpec(loc,
				time.Date(2026, 12, 1, 11, 0, 0, 0, loc),
				time.Date(2026, 12, 1, 13, 0, 0, 0, loc)),
		},
	})
	var overlapErr *calendar.OverlapError
	if !errors.As(err, &overlapErr) {
		t.Fatalf("期望 OverlapError，实际: %v", err)
	}
	if len(overlapErr.Conflicting) != 2 {
		t.Errorf("批内冲突应列出双方，期望2条，实际=%d", len(overlapErr.Conflicting))
	}
	if len(mocks.exceptions.exceptions) != 0 {
		t.Errorf("整批拒绝时不应落库，实际=%d", len(mocks.exceptions.exceptions))
	}
}

func TestRoomService_CreateExceptions_AtomicAcrossRooms(t *testing.T) {
	svc, mocks := setupTestRoomService()
	addTestRoom(mocks, "room-1")
	room2 := addTestRoom(mocks, "room-2")
	loc := testLocation(t)

	start := time.Date(2026, 12, 1, 10, 0, 0, 0, loc)
	end := time.Date(2026, 12, 1, 12, 0, 0, 0, loc)

	// room-2 已有一条与候选重叠的例外：room-1 虽可展开，整批仍放弃
	room2.Exceptions = []model.ExceptionWorkingHours{{
		ExceptionID: "exc-existing",
		RoomID:      "room-2",
		StartDate:   calendar.AdjustToStorage(start),
		EndDate:     calendar.AdjustToStorage(end),
	}}

	_, err := svc.CreateExceptions(context.Background(), &dto.BatchCreateExceptionsRequest{
		RoomIDs:    []string{"room-1", "room-2"},
		Exceptions: []dto.ExceptionSpecRequest{onceSpec(loc, start, end)},
	})
	var overlapErr *calendar.OverlapError
	if !errors.As(err, &overlapErr) {
		t.Fatalf("期望 OverlapError，实际: %v", err)
	}
	if len(overlapErr.Conflicting) != 1 || overlapErr.Conflicting[0].ExceptionID != "exc-existing" {
		t.Errorf("应列出既有冲突例外，实际=%v", overlapErr.Conflicting)
	}
	if len(mocks.exceptions.exceptions) != 0 {
		t.Errorf("任一机房冲突时整批不落库，实际=%d", len(mocks.exceptions.exceptions))
	}
}

func TestRoomService_CreateExceptions_RoomNotFound(t *testing.T) {
	svc, _ := setupTestRoomService()
	loc, _ := time.LoadLocation("Europe/Helsinki")

	_, err := svc.CreateExceptions(context.Background(), &dto.BatchCreateExceptionsRequest{
		RoomIDs: []string{"room-missing"},
		Exceptions: []dto.ExceptionSpecRequest{onceSpec(loc,
			time.Date(2026, 12, 1, 10, 0, 0, 0, loc),
			time.Date(2026, 12, 1, 12, 0, 0, 0, loc)),
		},
	})
	if !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("期望 ErrRoomNotFound，实际: %v", err)
	}
}

func TestRoomService_UpdateWorkingHours(t *testing.T) {
	svc, mocks := setupTestRoomService()
	room := addTestRoom(mocks, "room-1")
	room.WorkingHours = []model.DefaultWorkingHours{
		{Weekday: calendar.Monday, StartTime: "09:00", EndTime: "17:00"},
	}

	resp, err := svc.UpdateWorkingHours(context.Background(), "room-1", &dto.UpdateWorkingHoursRequest{
		Hours: []dto.WorkingHoursItem{
			{Weekday: calendar.Tuesday, StartTime: "08:00", EndTime: "12:00"},
			{Weekday: calendar.Tuesday, StartTime: "13:00", EndTime: "18:00"},
		},
	})
	if err != nil {
		t.Fatalf("UpdateWorkingHours 应成功: %v", err)
	}
	if len(resp.WorkingHours) != 2 {
		t.Fatalf("期望替换为2条时段，实际=%d", len(resp.WorkingHours))
	}
	if resp.WorkingHours[0].Weekday != calendar.Tuesday {
		t.Errorf("期望周二，实际=%s", resp.WorkingHours[0].Weekday)
	}
}

func TestRoomService_UpdateWorkingHours_Overlap(t *testing.T) {
	svc, mocks := setupTestRoomService()
	addTestRoom(mocks, "room-1")

	_, err := svc.UpdateWorkingHours(context.Background(), "room-1", &dto.UpdateWorkingHoursRequest{
		Hours: []dto.WorkingHoursItem{
			{Weekday: calendar.Monday, StartTime: "09:00", EndTime: "13:00"},
			{Weekday: calendar.Monday, StartTime: "12:00", EndTime: "17:00"},
		},
	})
	var verr *calendar.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("同一周序重叠时段期望 ValidationError，实际: %v", err)
	}
}

func TestRoomService_UpdateWorkingHours_EndBeforeStart(t *testing.T) {
	svc, mocks := setupTestRoomService()
	addTestRoom(mocks, "room-1")

	_, err := svc.UpdateWorkingHours(context.Background(), "room-1", &dto.UpdateWorkingHoursRequest{
		Hours: []dto.WorkingHoursItem{
			{Weekday: calendar.Monday, StartTime: "17:00", EndTime: "09:00"},
		},
	})
	var verr *calendar.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("期望 ValidationError，实际: %v", err)
	}
}

func TestRoomService_UpdateWorkingHours_RoomNotFound(t *testing.T) {
	svc, _ := setupTestRoomService()

	_, err := svc.UpdateWorkingHours(context.Background(), "room-missing", &dto.UpdateWorkingHoursRequest{
		Hours: []dto.WorkingHoursItem{
			{Weekday: calendar.Monday, StartTime: "09:00", EndTime: "17:00"},
		},
	})
	if !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("期望 ErrRoomNotFound，实际: %v", err)
	}
}

func TestRoomService_DeleteException(t *testing.T) {
	svc, mocks := setupTestRoomService()
	room := addTestRoom(mocks, "room-1")
	exc := model.ExceptionWorkingHours{
		ExceptionID: "exc-1",
		RoomID:      "room-1",
		StartDate:   time.Date(2026, 12, 1, 8, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 12, 1, 10, 0, 0, 0, time.UTC),
	}
	mocks.exceptions.exceptions["exc-1"] = &exc
	room.Exceptions = []model.ExceptionWorkingHours{exc}

	if err := svc.DeleteException(context.Background(), "room-1", "exc-1"); err != nil {
		t.Fatalf("DeleteException 应成功: %v", err)
	}
	if len(mocks.exceptions.exceptions) != 0 {
		t.Error("例外应已删除")
	}
	if len(room.Exceptions) != 0 {
		t.Error("机房上的例外缓存应同步移除")
	}
}

func TestRoomService_DeleteException_NotFound(t *testing.T) {
	svc, mocks := setupTestRoomService()
	addTestRoom(mocks, "room-1")

	err := svc.DeleteException(context.Background(), "room-1", "exc-missing")
	if !errors.Is(err, ErrExceptionNotFound) {
		t.Errorf("期望 ErrExceptionNotFound，实际: %v", err)
	}
}

func TestRoomService_GetByID_NotFound(t *testing.T) {
	svc, _ := setupTestRoomService()

	_, err := svc.GetByID(context.Background(), "room-missing")
	if !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("期望 ErrRoomNotFound，实际: %v", err)
	}
}
