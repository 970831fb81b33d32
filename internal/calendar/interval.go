package calendar

import (
	"sort"
	"time"
)

// Interval 半开时间区间 [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps 判断两个半开区间是否相交
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains 判断 other 是否完全落在本区间内
func (i Interval) Contains(other Interval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// Duration 区间长度
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// MergeIntervals 合并相交或相邻的区间，返回按起点排序的互不相交区间
func MergeIntervals(intervals []Interval) []Interval {
	if len(intervals) <= 1 {
		return intervals
	}

	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(a, b int) bool {
		return sorted[a].Start.Before(sorted[b].Start)
	})

	merged := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// FindGaps 计算窗口内未被 blocks 覆盖的空隙
// blocks 先做合并，窗口外的部分被裁掉
func FindGaps(window Interval, blocks []Interval) []Interval {
	clipped := make([]Interval, 0, len(blocks))
	for _, b := range blocks {
		if !b.Overlaps(window) {
			continue
		}
		if b.Start.Before(window.Start) {
			b.Start = window.Start
		}
		if b.End.After(window.End) {
			b.End = window.End
		}
		clipped = append(clipped, b)
	}

	if len(clipped) == 0 {
		return []Interval{window}
	}

	merged := MergeIntervals(clipped)
	gaps := make([]Interval, 0, len(merged)+1)

	cursor := window.Start
	for _, b := range merged {
		if cursor.Before(b.Start) {
			gaps = append(gaps, Interval{Start: cursor, End: b.Start})
		}
		cursor = b.End
	}
	if cursor.Before(window.End) {
		gaps = append(gaps, Interval{Start: cursor, End: window.End})
	}
	return gaps
}

// SubtractAll 从 open 区间集中整体剔除 blocks，保持排序
func SubtractAll(open []Interval, blocks []Interval) []Interval {
	result := make([]Interval, 0, len(open))
	for _, o := range open {
		result = append(result, FindGaps(o, blocks)...)
	}
	return result
}

// SlideWindows 在每个开放区间内按考试时长步进切分槽位
// 步长等于考试时长，不足一个时长的尾部被丢弃
func SlideWindows(open []Interval, duration time.Duration) []Interval {
	if duration <= 0 {
		return nil
	}
	var slots []Interval
	for _, o := range open {
		for start := o.Start; !start.Add(duration).After(o.End); start = start.Add(duration) {
			slots = append(slots, Interval{Start: start, End: start.Add(duration)})
		}
	}
	return slots
}
