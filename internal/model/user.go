package model

// 用户角色常量
const (
	RoleStudent = "STUDENT"
	RoleAdmin   = "ADMIN"
)

// User 系统用户 — 对应 users
// 排期引擎只关心身份与角色；用户管理由外部系统负责
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Email        string `gorm:"type:varchar(200);not null;uniqueIndex"         json:"email"`
	PasswordHash string `gorm:"type:varchar(100);not null"                     json:"-"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Role         string `gorm:"type:varchar(20);not null;default:'STUDENT'"    json:"role"`
	Active       bool   `gorm:"not null;default:true"                          json:"active"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }
