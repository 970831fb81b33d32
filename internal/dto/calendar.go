package dto

// ── 槽位查询模块 DTO ──

// SlotQueryRequest 槽位查询参数
// day 为机房当地日历日期 "yyyy-MM-dd"，aids 为无障碍标签 ID 列表
type SlotQueryRequest struct {
	Day  string   `form:"day"  binding:"required"`
	Aids []string `form:"aids" binding:"omitempty,dive,uuid"`
}

// SlotResponse 候选槽位
// AvailableMachines > 0 可预约；0 已满；
// -1 表示与当前用户自己的既有预约重叠（ConflictingExam=true）
type SlotResponse struct {
	Start             string   `json:"start"` // ISO-8601 UTC
	End               string   `json:"end"`
	RoomID            string   `json:"room_id,omitempty"`
	ExamID            string   `json:"exam_id"`
	OrgRef            string   `json:"org_ref,omitempty"`
	AccessibilityIDs  []string `json:"accessibility_ids,omitempty"`
	SectionIDs        []string `json:"section_ids,omitempty"`
	AvailableMachines int      `json:"available_machines"`
	ConflictingExam   bool     `json:"conflicting_exam,omitempty"`
}
