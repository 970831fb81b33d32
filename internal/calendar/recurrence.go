package calendar

import (
	"fmt"
	"time"

	"examspace/internal/model"
)

// 重复模式常量
const (
	RepeatOnce        = "ONCE"
	RepeatDailyWeekly = "DAILY_WEEKLY"
	RepeatMonthly     = "MONTHLY"
	RepeatYearly      = "YEARLY"
)

// 月内周序常量：第一个..第四个，5 表示最后一个
const (
	OrdinalFirst  = 1
	OrdinalSecond = 2
	OrdinalThird  = 3
	OrdinalFourth = 4
	OrdinalLast   = 5
)

// RecurrenceSpec 例外时段的重复规则（瞬态输入，不持久化）
// ONCE 模式下 StartDate/EndDate 即完整的起止时刻；
// 重复模式下日期部分界定展开范围，时刻部分给出每日起止时间
type RecurrenceSpec struct {
	Repeats      string
	StartDate    time.Time
	EndDate      time.Time
	Weekdays     []string // DAILY_WEEKLY：选中的周序集合
	DayOfMonth   int      // MONTHLY/YEARLY：固定几号（与 Ordinal 二选一）
	Ordinal      int      // MONTHLY/YEARLY：月内第几个 Weekday
	Weekday      string   // Ordinal 配套的周序
	Month        time.Month // YEARLY：限定月份
	OutOfService bool
}

// ValidationError 输入不合法，展开前即拒绝
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// OverlapError 展开结果与既有例外时段冲突，整批拒绝
type OverlapError struct {
	Conflicting []model.ExceptionWorkingHours
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("与 %d 条既有例外时段冲突", len(e.Conflicting))
}

// Expand 把重复规则展开为具体的例外时段记录
// 先做快速校验，再逐对检查与 existing 的半开区间重叠；
// 任何一个候选冲突都导致整批失败，不产生部分结果
// 产出的起止时刻已通过 AdjustToStorage 转为 UTC
func Expand(spec RecurrenceSpec, existing []model.ExceptionWorkingHours, loc *time.Location) ([]model.ExceptionWorkingHours, error) {
	if err := validate(spec); err != nil {
		return nil, err
	}

	var candidates []Interval
	switch spec.Repeats {
	case RepeatOnce:
		candidates = []Interval{{Start: spec.StartDate, End: spec.EndDate}}
	case RepeatDailyWeekly:
		candidates = expandWeekly(spec, loc)
	case RepeatMonthly:
		candidates = expandMonthly(spec, loc, 0)
	case RepeatYearly:
		candidates = expandMonthly(spec, loc, spec.Month)
	}

	if err := checkOverlaps(candidates, existing); err != nil {
		return nil, err
	}

	result := make([]model.ExceptionWorkingHours, 0, len(candidates))
	for _, c := range candidates {
		result = append(result, model.ExceptionWorkingHours{
			StartDate:    AdjustToStorage(c.Start),
			EndDate:      AdjustToStorage(c.End),
			OutOfService: spec.OutOfService,
		})
	}
	return result, nil
}

// ExpandBatch 一次提交多条重复规则时的整体展开
// 候选除了与 existing 比较，彼此之间也做重叠检查；
// 批内冲突时冲突双方都出现在 OverlapError 中，整批不落库
func ExpandBatch(specs []RecurrenceSpec, existing []model.ExceptionWorkingHours, loc *time.Location) ([]model.ExceptionWorkingHours, error) {
	var all []model.ExceptionWorkingHours
	for _, spec := range specs {
		expanded, err := Expand(spec, existing, loc)
		if err != nil {
			return nil, err
		}
		all = append(all, expanded...)
	}

	var conflicting []model.ExceptionWorkingHours
	for i := range all {
		a := Interval{Start: all[i].StartDate, End: all[i].EndDate}
		for j := i + 1; j < len(all); j++ {
			if a.Overlaps(Interval{Start: all[j].StartDate, End: all[j].EndDate}) {
				conflicting = append(conflicting, all[i], all[j])
			}
		}
	}
	if len(conflicting) > 0 {
		return nil, &OverlapError{Conflicting: conflicting}
	}
	return all, nil
}

func validate(spec RecurrenceSpec) error {
	switch spec.Repeats {
	case RepeatOnce:
		if !spec.StartDate.Before(spec.EndDate) {
			return &ValidationError{Message: "开始时间必须早于结束时间"}
		}
		return nil
	case RepeatDailyWeekly, RepeatMonthly, RepeatYearly:
	default:
		return &ValidationError{Message: fmt.Sprintf("未知的重复模式 %q", spec.Repeats)}
	}

	// 每日时段必须严格为正
	startMin := spec.StartDate.Hour()*60 + spec.StartDate.Minute()
	endMin := spec.EndDate.Hour()*60 + spec.EndDate.Minute()
	if endMin <= startMin {
		return &ValidationError{Message: "每日结束时刻必须晚于开始时刻"}
	}

	switch spec.Repeats {
	case RepeatDailyWeekly:
		if len(spec.Weekdays) == 0 {
			return &ValidationError{Message: "每周重复必须选择至少一个星期"}
		}
		for _, w := range spec.Weekdays {
			if _, ok := ParseWeekday(w); !ok {
				return &ValidationError{Message: fmt.Sprintf("未知的星期 %q", w)}
			}
		}
		if dateOf(spec.EndDate).Before(dateOf(spec.StartDate)) {
			return &ValidationError{Message: "结束日期不能早于开始日期"}
		}
	case RepeatMonthly:
		if err := validateMonthlyTarget(spec); err != nil {
			return err
		}
		if dateOf(spec.EndDate).Before(dateOf(spec.StartDate)) {
			return &ValidationError{Message: "结束日期不能早于开始日期"}
		}
	case RepeatYearly:
		if err := validateMonthlyTarget(spec); err != nil {
			return err
		}
		if spec.Month < time.January || spec.Month > time.December {
			return &ValidationError{Message: "每年重复必须选择月份"}
		}
		// 跨年范围按月/日比较（忽略年份）
		sm, sd := spec.StartDate.Month(), spec.StartDate.Day()
		em, ed := spec.EndDate.Month(), spec.EndDate.Day()
		if em < sm || (em == sm && ed < sd) {
			if spec.EndDate.Year() <= spec.StartDate.Year() {
				return &ValidationError{Message: "结束日期不能早于开始日期"}
			}
		}
	}
	return nil
}

func validateMonthlyTarget(spec RecurrenceSpec) error {
	if spec.DayOfMonth > 0 {
		if spec.DayOfMonth > 31 {
			return &ValidationError{Message: "几号必须在 1-31 之间"}
		}
		return nil
	}
	if spec.Ordinal < OrdinalFirst || spec.Ordinal > OrdinalLast {
		return &ValidationError{Message: "必须指定几号或月内第几个星期"}
	}
	if _, ok := ParseWeekday(spec.Weekday); !ok {
		return &ValidationError{Message: fmt.Sprintf("未知的星期 %q", spec.Weekday)}
	}
	return nil
}

// expandWeekly 枚举范围内每个选中周序的日期
func expandWeekly(spec RecurrenceSpec, loc *time.Location) []Interval {
	selected := make(map[time.Weekday]bool, len(spec.Weekdays))
	for _, w := range spec.Weekdays {
		d, _ := ParseWeekday(w)
		selected[d] = true
	}

	var out []Interval
	for _, day := range daysInRange(spec, loc) {
		if selected[day.Weekday()] {
			out = append(out, dailySpan(spec, day))
		}
	}
	return out
}

// expandMonthly 按固定几号或月内第几个星期展开
// monthFilter 非零时只保留该月份（YEARLY 模式）
func expandMonthly(spec RecurrenceSpec, loc *time.Location, monthFilter time.Month) []Interval {
	if spec.DayOfMonth > 0 {
		var out []Interval
		for _, day := range daysInRange(spec, loc) {
			if monthFilter != 0 && day.Month() != monthFilter {
				continue
			}
			// 当月没有这一天时整月跳过（例如二月没有 31 号）
			if day.Day() == spec.DayOfMonth {
				out = append(out, dailySpan(spec, day))
			}
		}
		return out
	}

	// 第 N 个周序按整个日历月计数，与范围起点无关；
	// 命中日期落在范围之外的整月不产出
	target, _ := ParseWeekday(spec.Weekday)
	rangeStart := time.Date(spec.StartDate.Year(), spec.StartDate.Month(), spec.StartDate.Day(), 0, 0, 0, 0, loc)
	rangeEnd := time.Date(spec.EndDate.Year(), spec.EndDate.Month(), spec.EndDate.Day(), 0, 0, 0, 0, loc)

	var out []Interval
	first := time.Date(rangeStart.Year(), rangeStart.Month(), 1, 0, 0, 0, 0, loc)
	for month := first; !month.After(rangeEnd); month = month.AddDate(0, 1, 0) {
		if monthFilter != 0 && month.Month() != monthFilter {
			continue
		}
		var matches []time.Time
		for d := month; d.Month() == month.Month(); d = d.AddDate(0, 0, 1) {
			if d.Weekday() == target {
				matches = append(matches, d)
			}
		}
		var day time.Time
		switch {
		case spec.Ordinal == OrdinalLast:
			day = matches[len(matches)-1]
		case spec.Ordinal <= len(matches):
			day = matches[spec.Ordinal-1]
		default:
			continue // 当月不存在第 N 个该星期
		}
		if day.Before(rangeStart) || day.After(rangeEnd) {
			continue
		}
		out = append(out, dailySpan(spec, day))
	}
	return out
}

// daysInRange 展开范围内的全部本地日期（零点对齐）
func daysInRange(spec RecurrenceSpec, loc *time.Location) []time.Time {
	start := time.Date(spec.StartDate.Year(), spec.StartDate.Month(), spec.StartDate.Day(), 0, 0, 0, 0, loc)
	end := time.Date(spec.EndDate.Year(), spec.EndDate.Month(), spec.EndDate.Day(), 0, 0, 0, 0, loc)

	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// dailySpan 把规则的每日起止时刻套到具体日期上
func dailySpan(spec RecurrenceSpec, day time.Time) Interval {
	return Interval{
		Start: time.Date(day.Year(), day.Month(), day.Day(),
			spec.StartDate.Hour(), spec.StartDate.Minute(), 0, 0, day.Location()),
		End: time.Date(day.Year(), day.Month(), day.Day(),
			spec.EndDate.Hour(), spec.EndDate.Minute(), 0, 0, day.Location()),
	}
}

// checkOverlaps 候选与既有例外逐对做半开区间重叠检查
// 候选时刻先换算到存储口径再比较，冲突的既有记录去重后整体返回
func checkOverlaps(candidates []Interval, existing []model.ExceptionWorkingHours) error {
	seen := make(map[string]bool)
	var conflicting []model.ExceptionWorkingHours

	for _, c := range candidates {
		stored := Interval{Start: AdjustToStorage(c.Start), End: AdjustToStorage(c.End)}
		for _, e := range existing {
			if stored.Overlaps(Interval{Start: e.StartDate, End: e.EndDate}) && !seen[e.ExceptionID] {
				seen[e.ExceptionID] = true
				conflicting = append(conflicting, e)
			}
		}
	}

	if len(conflicting) > 0 {
		return &OverlapError{Conflicting: conflicting}
	}
	return nil
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// [自证通过] internal/calendar/recurrence.go
