package dto

// ── 机房模块 DTO ──

// WorkingHoursItem 单条每周开放时段
type WorkingHoursItem struct {
	Weekday   string `json:"weekday"    binding:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	StartTime string `json:"start_time" binding:"required"` // "09:00"
	EndTime   string `json:"end_time"   binding:"required"` // "17:00"
}

// UpdateWorkingHoursRequest 整体替换机房的每周开放时段
type UpdateWorkingHoursRequest struct {
	Hours []WorkingHoursItem `json:"hours" binding:"required,dive"`
}

// RoomResponse 机房详情响应
type RoomResponse struct {
	ID              string                  `json:"id"`
	Name            string                  `json:"name"`
	RoomCode        string                  `json:"room_code,omitempty"`
	BuildingName    string                  `json:"building_name,omitempty"`
	Campus          string                  `json:"campus,omitempty"`
	LocalTimezone   string                  `json:"local_timezone"`
	OutOfService    bool                    `json:"out_of_service"`
	State           string                  `json:"state"`
	Instruction     string                  `json:"instruction,omitempty"`
	WorkingHours    []WorkingHoursItem      `json:"working_hours"`
	Exceptions      []ExceptionResponse     `json:"exceptions"`
	Machines        []MachineBrief          `json:"machines"`
	Accessibilities []AccessibilityResponse `json:"accessibilities"`
}

// MachineBrief 机器简要信息（嵌入机房响应）
type MachineBrief struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	OutOfService bool   `json:"out_of_service"`
	Archived     bool   `json:"archived"`
}

// AccessibilityResponse 无障碍标签响应
type AccessibilityResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
