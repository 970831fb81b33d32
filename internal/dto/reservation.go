package dto

import "time"

// ── 预约模块 DTO ──

// CreateReservationRequest 预约提交
// room_id 与 org_ref/room_ref 互斥：前者走本机构路径，
// 后者走对端机构路径；collaborative 标记协作考试
type CreateReservationRequest struct {
	ExamID           string    `json:"exam_id"           binding:"required,uuid"`
	RoomID           string    `json:"room_id"           binding:"omitempty,uuid"`
	OrgRef           string    `json:"org_ref"           binding:"omitempty"`
	RoomRef          string    `json:"room_ref"          binding:"omitempty"`
	Start            time.Time `json:"start"             binding:"required"`
	End              time.Time `json:"end"               binding:"required"`
	AccessibilityIDs []string  `json:"accessibility_ids" binding:"omitempty,dive,uuid"`
	SectionIDs       []string  `json:"section_ids"       binding:"omitempty"`
	Collaborative    bool      `json:"collaborative"`
}

// ReservationResponse 预约响应
type ReservationResponse struct {
	ID          string    `json:"id"`
	ExamID      string    `json:"exam_id,omitempty"`
	ExamName    string    `json:"exam_name,omitempty"`
	RoomID      string    `json:"room_id,omitempty"`
	RoomName    string    `json:"room_name,omitempty"`
	MachineName string    `json:"machine_name,omitempty"`
	OrgRef      string    `json:"org_ref,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	External    bool      `json:"external"`
}

// ReservationWindowResponse 预约窗口设置
type ReservationWindowResponse struct {
	WindowDays int       `json:"window_days"`
	WindowEnd  time.Time `json:"window_end"`
}
