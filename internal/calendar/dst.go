package calendar

import "time"

// IsDST 判断本地时刻是否处于夏令时
// 标准偏移取一月与七月中较小的 UTC 偏移（兼容南北半球）
func IsDST(t time.Time) bool {
	_, offset := t.Zone()

	jan := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	jul := time.Date(t.Year(), time.July, 1, 0, 0, 0, 0, t.Location())
	_, janOff := jan.Zone()
	_, julOff := jul.Zone()

	std := janOff
	if julOff < std {
		std = julOff
	}
	return offset > std
}

// AdjustToStorage 把本地墙钟时刻转为持久化用的 UTC 时刻
// 机构的墙钟作息表不随夏令时平移，落在夏令时内的时刻
// 需要先前移一小时再转 UTC 补偿
func AdjustToStorage(t time.Time) time.Time {
	if IsDST(t) {
		t = t.Add(time.Hour)
	}
	return t.UTC()
}

// NormalizeFromStorage 把持久化的 UTC 时刻还原为本地墙钟时刻
// 与 AdjustToStorage 对称：落在夏令时内的本地时刻回拨一小时
// 不变量：NormalizeFromStorage(AdjustToStorage(t), t.Location()) == t
func NormalizeFromStorage(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	if IsDST(local) {
		local = local.Add(-time.Hour)
	}
	return local
}
