package calendar

import (
	"testing"
	"time"

	"examspace/internal/model"
)

func mondayOnlyRoom() *model.Room {
	return &model.Room{
		RoomID:        "room-001",
		Name:          "测试机房",
		LocalTimezone: "Europe/Helsinki",
		WorkingHours: []model.DefaultWorkingHours{
			{Weekday: Monday, StartTime: "09:00", EndTime: "17:00"},
		},
	}
}

func TestClosedWeekdays_MondayOnly(t *testing.T) {
	loc := helsinki(t)
	room := mondayOnlyRoom()

	// 包含一个周一的一周窗口
	winStart := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)
	closed := ClosedWeekdays(room, winStart, winStart.AddDate(0, 0, 7), loc)

	if len(closed) != 6 {
		t.Fatalf("期望6个关闭周序，实际=%d", len(closed))
	}
	for _, w := range closed {
		if w == Monday {
			t.Error("周一不应出现在关闭列表中")
		}
	}
}

func TestClosedWeekdays_NoHoursNoExceptions(t *testing.T) {
	loc := helsinki(t)
	room := &model.Room{RoomID: "room-001", LocalTimezone: "Europe/Helsinki"}

	winStart := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)
	closed := ClosedWeekdays(room, winStart, winStart.AddDate(0, 0, 7), loc)

	if len(closed) != 7 {
		t.Errorf("无开放时段无例外的机房应7天全关，实际=%d", len(closed))
	}
}

func TestClosedWeekdays_OpenExceptionReopens(t *testing.T) {
	loc := helsinki(t)
	room := mondayOnlyRoom()
	// 周三 10:00-14:00 的额外开放
	room.Exceptions = []model.ExceptionWorkingHours{
		{
			ExceptionID:  "exc-001",
			StartDate:    AdjustToStorage(time.Date(2026, 3, 4, 10, 0, 0, 0, loc)),
			EndDate:      AdjustToStorage(time.Date(2026, 3, 4, 14, 0, 0, 0, loc)),
			OutOfService: false,
		},
	}

	winStart := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)
	closed := ClosedWeekdays(room, winStart, winStart.AddDate(0, 0, 7), loc)

	for _, w := range closed {
		if w == Wednesday {
			t.Error("额外开放例外应使周三从关闭列表中移除")
		}
	}
	if len(closed) != 5 {
		t.Errorf("期望5个关闭周序，实际=%d", len(closed))
	}
}

func TestClosedWeekdays_CrossMidnightOpensAll(t *testing.T) {
	loc := helsinki(t)
	room := mondayOnlyRoom()
	// 周三 22:00 到周四 02:00 的跨午夜开放
	room.Exceptions = []model.ExceptionWorkingHours{
		{
			ExceptionID:  "exc-001",
			StartDate:    AdjustToStorage(time.Date(2026, 3, 4, 22, 0, 0, 0, loc)),
			EndDate:      AdjustToStorage(time.Date(2026, 3, 5, 2, 0, 0, 0, loc)),
			OutOfService: false,
		},
	}

	winStart := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)
	closed := ClosedWeekdays(room, winStart, winStart.AddDate(0, 0, 7), loc)

	if len(closed) != 0 {
		t.Errorf("跨午夜的开放例外应打开全部周序，实际仍关闭=%v", closed)
	}
}

func TestClosedWeekdays_RestrictiveExceptionIgnored(t *testing.T) {
	loc := helsinki(t)
	room := mondayOnlyRoom()
	// 关闭类例外不影响周序的开放基线
	room.Exceptions = []model.ExceptionWorkingHours{
		{
			ExceptionID:  "exc-001",
			StartDate:    AdjustToStorage(time.Date(2026, 3, 4, 10, 0, 0, 0, loc)),
			EndDate:      AdjustToStorage(time.Date(2026, 3, 4, 14, 0, 0, 0, loc)),
			OutOfService: true,
		},
	}

	winStart := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)
	closed := ClosedWeekdays(room, winStart, winStart.AddDate(0, 0, 7), loc)
	if len(closed) != 6 {
		t.Errorf("关闭类例外不应改变关闭周序数，期望6，实际=%d", len(closed))
	}
}

func TestWorkingHoursForDate_Baseline(t *testing.T) {
	loc := helsinki(t)
	room := mondayOnlyRoom()

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)
	open, err := WorkingHoursForDate(room, monday, loc)
	if err != nil {
		t.Fatalf("WorkingHoursForDate 失败: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("周一期望1个开放区间，实际=%d", len(open))
	}
	if open[0].Start.Hour() != 9 || open[0].End.Hour() != 17 {
		t.Errorf("期望 09:00-17:00，实际=%v-%v", open[0].Start, open[0].End)
	}

	tuesday := monday.AddDate(0, 0, 1)
	open, err = WorkingHoursForDate(room, tuesday, loc)
	if err != nil {
		t.Fatalf("WorkingHoursForDate 失败: %v", err)
	}
	if len(open) != 0 {
		t.Errorf("周二无开放时段，实际=%v", open)
	}
}

func TestWorkingHoursForDate_RestrictionCutsOut(t *testing.T) {
	loc := helsinki(t)
	room := mondayOnlyRoom()
	// 周一中午 12:00-13:00 临时关闭
	room.Exceptions = []model.ExceptionWorkingHours{
		{
			StartDate:    AdjustToStorage(time.Date(2026, 3, 2, 12, 0, 0, 0, loc)),
			EndDate:      AdjustToStorage(time.Date(2026, 3, 2, 13, 0, 0, 0, loc)),
			OutOfService: true,
		},
	}

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)
	open, err := WorkingHoursForDate(room, monday, loc)
	if err != nil {
		t.Fatalf("WorkingHoursForDate 失败: %v", err)
	}
	if len(open) != 2 {
		t.Fatalf("关闭例外应把开放时段切成2段，实际=%d", len(open))
	}
	if open[0].End.Hour() != 12 || open[1].Start.Hour() != 13 {
		t.Errorf("切分边界不正确: %v", open)
	}
}

func TestWorkingHoursForDate_WholeDayClosure(t *testing.T) {
	loc := helsinki(t)
	room := mondayOnlyRoom()
	room.Exceptions = []model.ExceptionWorkingHours{
		{
			StartDate:    AdjustToStorage(time.Date(2026, 3, 1, 0, 0, 0, 0, loc)),
			EndDate:      AdjustToStorage(time.Date(2026, 3, 3, 0, 0, 0, 0, loc)),
			OutOfService: true,
		},
	}

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)
	open, err := WorkingHoursForDate(room, monday, loc)
	if err != nil {
		t.Fatalf("WorkingHoursForDate 失败: %v", err)
	}
	if len(open) != 0 {
		t.Errorf("整天关闭时不应有开放区间，实际=%v", open)
	}
}

func TestWorkingHoursForDate_ExtensionMergedIn(t *testing.T) {
	loc := helsinki(t)
	room := mondayOnlyRoom()
	// 周一 16:00-20:00 的额外开放，与常规 09:00-17:00 合并
	room.Exceptions = []model.ExceptionWorkingHours{
		{
			StartDate:    AdjustToStorage(time.Date(2026, 3, 2, 16, 0, 0, 0, loc)),
			EndDate:      AdjustToStorage(time.Date(2026, 3, 2, 20, 0, 0, 0, loc)),
			OutOfService: false,
		},
	}

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)
	open, err := WorkingHoursForDate(room, monday, loc)
	if err != nil {
		t.Fatalf("WorkingHoursForDate 失败: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("相交的额外开放应合并为1段，实际=%d", len(open))
	}
	if open[0].Start.Hour() != 9 || open[0].End.Hour() != 20 {
		t.Errorf("期望 09:00-20:00，实际=%v-%v", open[0].Start, open[0].End)
	}
}

func TestEarliestOpeningLatestClosing(t *testing.T) {
	loc := helsinki(t)
	room := mondayOnlyRoom()
	room.WorkingHours = append(room.WorkingHours, model.DefaultWorkingHours{
		Weekday: Wednesday, StartTime: "08:00", EndTime: "12:00",
	})
	room.Exceptions = []model.ExceptionWorkingHours{
		{
			StartDate:    AdjustToStorage(time.Date(2026, 3, 6, 18, 0, 0, 0, loc)),
			EndDate:      AdjustToStorage(time.Date(2026, 3, 6, 21, 30, 0, 0, loc)),
			OutOfService: false,
		},
	}

	winStart := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)
	winEnd := winStart.AddDate(0, 0, 7)

	earliest, ok := EarliestOpening(room, winStart, winEnd, loc)
	if !ok || earliest != "08:00" {
		t.Errorf("期望最早开放 08:00，实际=%q", earliest)
	}

	latest, ok := LatestClosing(room, winStart, winEnd, loc)
	if !ok || latest != "21:30" {
		t.Errorf("期望最晚关闭 21:30，实际=%q", latest)
	}
}

func TestEarliestOpeningLatestClosing_ExceptionClippedToWindow(t *testing.T) {
	loc := helsinki(t)
	room := mondayOnlyRoom()
	room.Exceptions = []model.ExceptionWorkingHours{
		// 从窗口前延伸进来：起始时刻按窗口起点算，而不是07:00
		{
			StartDate:    AdjustToStorage(time.Date(2026, 2, 28, 7, 0, 0, 0, loc)),
			EndDate:      AdjustToStorage(time.Date(2026, 3, 2, 6, 0, 0, 0, loc)),
			OutOfService: false,
		},
		// 越过窗口终点：结束时刻按窗口终点算，而不是22:00
		{
			StartDate:    AdjustToStorage(time.Date(2026, 3, 8, 18, 0, 0, 0, loc)),
			EndDate:      AdjustToStorage(time.Date(2026, 3, 9, 22, 0, 0, 0, loc)),
			OutOfService: false,
		},
	}

	winStart := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)
	winEnd := time.Date(2026, 3, 9, 0, 0, 0, 0, loc)

	earliest, ok := EarliestOpening(room, winStart, winEnd, loc)
	if !ok || earliest != "00:00" {
		t.Errorf("裁剪后的例外起点应为窗口起点 00:00，实际=%q", earliest)
	}

	latest, ok := LatestClosing(room, winStart, winEnd, loc)
	if !ok || latest != "17:00" {
		t.Errorf("裁剪后的例外终点不应晚于默认 17:00，实际=%q", latest)
	}
}

func TestEarliestOpening_NoData(t *testing.T) {
	loc := helsinki(t)
	room := &model.Room{RoomID: "room-001"}

	winStart := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)
	if _, ok := EarliestOpening(room, winStart, winStart.AddDate(0, 0, 7), loc); ok {
		t.Error("无任何开放信息时不应返回最早开放时刻")
	}
}
