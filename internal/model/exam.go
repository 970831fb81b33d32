package model

import "time"

// Exam 考试定义 — 对应 exams
// 引擎只消费排期相关字段：时长与考试期（可预约的日期范围）
type Exam struct {
	ExamID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"exam_id"`
	Name          string    `gorm:"type:varchar(200);not null"                     json:"name"`
	Duration      int       `gorm:"not null"                                       json:"duration"` // 分钟
	PeriodStart   time.Time `gorm:"type:timestamptz;not null"                      json:"period_start"`
	PeriodEnd     time.Time `gorm:"type:timestamptz;not null"                      json:"period_end"`
	State         string    `gorm:"type:varchar(20);not null;default:'PUBLISHED'"  json:"state"`
	Collaborative bool      `gorm:"not null;default:false"                         json:"collaborative"`
	Anonymous     bool      `gorm:"not null;default:false"                         json:"anonymous"`
	BaseModel
}

// TableName 指定表名
func (Exam) TableName() string { return "exams" }

// Enrolment 考生报名 — 对应 enrolments
// 一条报名至多对应一条有效预约；重新预约时旧预约被整体替换
type Enrolment struct {
	EnrolmentID   string       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"enrolment_id"`
	ExamID        string       `gorm:"type:uuid;not null;index"                       json:"exam_id"`
	UserID        string       `gorm:"type:uuid;not null;index"                       json:"user_id"`
	Exam          *Exam        `gorm:"foreignKey:ExamID"                              json:"exam,omitempty"`
	Reservation   *Reservation `gorm:"foreignKey:EnrolmentID"                         json:"reservation,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Enrolment) TableName() string { return "enrolments" }
