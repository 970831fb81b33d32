package model

// Room 考场机房 — 对应 rooms
// LocalTimezone 为 IANA 时区名，所有开放时间计算均在该时区内进行
type Room struct {
	RoomID          string                 `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"room_id"`
	Name            string                 `gorm:"type:varchar(100);not null"                     json:"name"`
	RoomCode        string                 `gorm:"type:varchar(50)"                               json:"room_code,omitempty"`
	BuildingName    string                 `gorm:"type:varchar(100)"                              json:"building_name,omitempty"`
	Campus          string                 `gorm:"type:varchar(100)"                              json:"campus,omitempty"`
	LocalTimezone   string                 `gorm:"type:varchar(64);not null"                      json:"local_timezone"`
	OutOfService    bool                   `gorm:"not null;default:false"                         json:"out_of_service"`
	State           string                 `gorm:"type:varchar(20);not null;default:'ACTIVE'"     json:"state"` // ACTIVE | INACTIVE
	Instruction     string                 `gorm:"type:varchar(500)"                              json:"instruction,omitempty"`
	WorkingHours    []DefaultWorkingHours  `gorm:"foreignKey:RoomID"                              json:"working_hours,omitempty"`
	Exceptions      []ExceptionWorkingHours `gorm:"foreignKey:RoomID"                             json:"exceptions,omitempty"`
	Machines        []Machine              `gorm:"foreignKey:RoomID"                              json:"machines,omitempty"`
	Accessibilities []Accessibility        `gorm:"many2many:room_accessibilities"                 json:"accessibilities,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Room) TableName() string { return "rooms" }

// RoomActive 机房状态常量
const (
	RoomStateActive   = "ACTIVE"
	RoomStateInactive = "INACTIVE"
)

// DefaultWorkingHours 每周循环开放时段 — 对应 default_working_hours
// StartTime/EndTime 为本地时刻字符串（"08:00"），不含日期
// 不变量：同一机房同一 weekday 的时段互不重叠（RoomService 创建时校验）
type DefaultWorkingHours struct {
	WorkingHoursID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"working_hours_id"`
	RoomID         string `gorm:"type:uuid;not null;index"                       json:"room_id"`
	Weekday        string `gorm:"type:varchar(10);not null"                      json:"weekday"` // MONDAY..SUNDAY
	StartTime      string `gorm:"type:varchar(5);not null"                       json:"start_time"`
	EndTime        string `gorm:"type:varchar(5);not null"                       json:"end_time"`
	BaseModel
}

// TableName 指定表名
func (DefaultWorkingHours) TableName() string { return "default_working_hours" }

// Machine 考试机器（容量单位）— 对应 machines
// 预约冲突的权威单位是 (machine_id, [start, end))
type Machine struct {
	MachineID       string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"machine_id"`
	RoomID          string          `gorm:"type:uuid;not null;index"                       json:"room_id"`
	Name            string          `gorm:"type:varchar(100)"                              json:"name"`
	IPAddress       string          `gorm:"type:varchar(45)"                               json:"ip_address,omitempty"`
	OutOfService    bool            `gorm:"not null;default:false"                         json:"out_of_service"`
	Archived        bool            `gorm:"not null;default:false"                         json:"archived"`
	Accessible      bool            `gorm:"not null;default:false"                         json:"accessible"` // true 表示满足所有无障碍需求
	Accessibilities []Accessibility `gorm:"many2many:machine_accessibilities"              json:"accessibilities,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Machine) TableName() string { return "machines" }

// Accessibility 无障碍标签 — 对应 accessibilities
type Accessibility struct {
	AccessibilityID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"accessibility_id"`
	Name            string `gorm:"type:varchar(100);not null"                     json:"name"`
	BaseModel
}

// TableName 指定表名
func (Accessibility) TableName() string { return "accessibilities" }

// [自证通过] internal/model/room.go
