package calendar

import (
	"testing"
	"time"
)

func helsinki(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Helsinki")
	if err != nil {
		t.Fatalf("加载时区失败: %v", err)
	}
	return loc
}

func TestIsDST(t *testing.T) {
	loc := helsinki(t)

	summer := time.Date(2026, 7, 15, 10, 0, 0, 0, loc)
	if !IsDST(summer) {
		t.Error("七月的赫尔辛基应处于夏令时")
	}

	winter := time.Date(2026, 1, 15, 10, 0, 0, 0, loc)
	if IsDST(winter) {
		t.Error("一月的赫尔辛基不应处于夏令时")
	}
}

func TestIsDST_SouthernHemisphere(t *testing.T) {
	loc, err := time.LoadLocation("Australia/Sydney")
	if err != nil {
		t.Fatalf("加载时区失败: %v", err)
	}

	january := time.Date(2026, 1, 15, 10, 0, 0, 0, loc)
	if !IsDST(january) {
		t.Error("一月的悉尼应处于夏令时")
	}

	july := time.Date(2026, 7, 15, 10, 0, 0, 0, loc)
	if IsDST(july) {
		t.Error("七月的悉尼不应处于夏令时")
	}
}

func TestAdjustToStorage_DSTShift(t *testing.T) {
	loc := helsinki(t)

	// 夏令时：+1h 后转 UTC（赫尔辛基夏季 UTC+3）
	summer := time.Date(2026, 7, 15, 10, 0, 0, 0, loc)
	stored := AdjustToStorage(summer)
	want := time.Date(2026, 7, 15, 8, 0, 0, 0, time.UTC)
	if !stored.Equal(want) {
		t.Errorf("期望存储时刻 %v，实际=%v", want, stored)
	}

	// 标准时：直接转 UTC（赫尔辛基冬季 UTC+2）
	winter := time.Date(2026, 1, 15, 10, 0, 0, 0, loc)
	stored = AdjustToStorage(winter)
	want = time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)
	if !stored.Equal(want) {
		t.Errorf("期望存储时刻 %v，实际=%v", want, stored)
	}
}

func TestDSTRoundTrip(t *testing.T) {
	loc := helsinki(t)

	cases := []time.Time{
		time.Date(2026, 7, 15, 10, 30, 0, 0, loc), // 夏令时
		time.Date(2026, 1, 15, 10, 30, 0, 0, loc), // 标准时
		time.Date(2026, 10, 20, 9, 0, 0, 0, loc),  // 切换前一周
		time.Date(2026, 11, 2, 9, 0, 0, 0, loc),   // 切换后一周
	}

	for _, local := range cases {
		back := NormalizeFromStorage(AdjustToStorage(local), loc)
		if !back.Equal(local) {
			t.Errorf("墙钟时刻 %v 往返后变为 %v", local, back)
		}
	}
}
