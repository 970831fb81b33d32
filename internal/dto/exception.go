package dto

import "time"

// ── 例外时段模块 DTO ──

// ExceptionSpecRequest 一条重复规则
// ONCE 模式下 start_date/end_date 即完整起止时刻；
// 重复模式下日期部分界定范围，时刻部分给出每日起止时间
type ExceptionSpecRequest struct {
	Repeats      string    `json:"repeats"        binding:"required,oneof=ONCE DAILY_WEEKLY MONTHLY YEARLY"`
	StartDate    time.Time `json:"start_date"     binding:"required"`
	EndDate      time.Time `json:"end_date"       binding:"required"`
	Weekdays     []string  `json:"weekdays"       binding:"omitempty,dive,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	DayOfMonth   int       `json:"day_of_month"   binding:"omitempty,min=1,max=31"`
	Ordinal      int       `json:"ordinal"        binding:"omitempty,min=1,max=5"` // 1-4 第 N 个，5 最后一个
	Weekday      string    `json:"weekday"        binding:"omitempty,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	Month        int       `json:"month"          binding:"omitempty,min=1,max=12"`
	OutOfService bool      `json:"out_of_service"`
}

// BatchCreateExceptionsRequest 跨多个机房的例外批量创建
// 整批原子：任何一条规则展开失败或与既有例外冲突，全部不落库
type BatchCreateExceptionsRequest struct {
	RoomIDs    []string               `json:"room_ids"   binding:"required,min=1,dive,uuid"`
	Exceptions []ExceptionSpecRequest `json:"exceptions" binding:"required,min=1,dive"`
}

// ExceptionResponse 例外时段响应
type ExceptionResponse struct {
	ID           string    `json:"id"`
	RoomID       string    `json:"room_id"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	OutOfService bool      `json:"out_of_service"`
}
