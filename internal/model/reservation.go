package model

import "time"

// Reservation 机器预约 — 对应 reservations
// 冲突判定的权威单位是 (machine_id, [starts_at, ends_at))，
// 由数据库事务保证同一机器同一重叠区间至多一条有效预约
type Reservation struct {
	ReservationID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"reservation_id"`
	EnrolmentID   string    `gorm:"type:uuid;not null;uniqueIndex"                 json:"enrolment_id"`
	RoomID        string    `gorm:"type:uuid;not null;index"                       json:"room_id"`
	MachineID     string    `gorm:"type:uuid;not null;index"                       json:"machine_id"`
	UserID        string    `gorm:"type:uuid;not null;index"                       json:"user_id"`
	StartsAt      time.Time `gorm:"type:timestamptz;not null"                      json:"starts_at"`
	EndsAt        time.Time `gorm:"type:timestamptz;not null"                      json:"ends_at"`
	Machine       *Machine  `gorm:"foreignKey:MachineID"                           json:"machine,omitempty"`
	Room          *Room     `gorm:"foreignKey:RoomID"                              json:"room,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Reservation) TableName() string { return "reservations" }

// ExternalReservation 对端机构预约的本地记录 — 对应 external_reservations
// 真正的机器分配发生在对端，本地只保存回执引用用于展示与取消
type ExternalReservation struct {
	ExternalReservationID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"external_reservation_id"`
	EnrolmentID           string    `gorm:"type:uuid;not null;uniqueIndex"                 json:"enrolment_id"`
	UserID                string    `gorm:"type:uuid;not null;index"                       json:"user_id"`
	OrgRef                string    `gorm:"type:varchar(64);not null"                      json:"org_ref"`
	RoomRef               string    `gorm:"type:varchar(64);not null"                      json:"room_ref"`
	RoomName              string    `gorm:"type:varchar(200)"                              json:"room_name,omitempty"`
	StartsAt              time.Time `gorm:"type:timestamptz;not null"                      json:"starts_at"`
	EndsAt                time.Time `gorm:"type:timestamptz;not null"                      json:"ends_at"`
	PeerReference         string    `gorm:"type:varchar(128)"                              json:"peer_reference,omitempty"`
	BaseModel
}

// TableName 指定表名
func (ExternalReservation) TableName() string { return "external_reservations" }
