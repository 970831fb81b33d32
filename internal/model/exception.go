package model

import "time"

// ExceptionWorkingHours 机房例外时段 — 对应 exception_working_hours
// 覆盖常规每周开放时间的日期区间：OutOfService=true 为临时关闭，
// false 为额外开放。StartDate/EndDate 为 UTC 绝对时刻（timestamptz）
// 不变量：同一机房的例外时段互不重叠（批量创建时整体校验）
type ExceptionWorkingHours struct {
	ExceptionID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"exception_id"`
	RoomID       string    `gorm:"type:uuid;not null;index"                       json:"room_id"`
	StartDate    time.Time `gorm:"type:timestamptz;not null"                      json:"start_date"`
	EndDate      time.Time `gorm:"type:timestamptz;not null"                      json:"end_date"`
	OutOfService bool      `gorm:"not null;default:true"                          json:"out_of_service"`
	BaseModel
}

// TableName 指定表名
func (ExceptionWorkingHours) TableName() string { return "exception_working_hours" }

// MaintenancePeriod 全局维护窗口 — 对应 maintenance_periods
// 区间内的槽位对所有机房不可预约
type MaintenancePeriod struct {
	MaintenancePeriodID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"maintenance_period_id"`
	StartsAt            time.Time `gorm:"type:timestamptz;not null"                      json:"starts_at"`
	EndsAt              time.Time `gorm:"type:timestamptz;not null"                      json:"ends_at"`
	Description         string    `gorm:"type:varchar(200)"                              json:"description,omitempty"`
	BaseModel
}

// TableName 指定表名
func (MaintenancePeriod) TableName() string { return "maintenance_periods" }
