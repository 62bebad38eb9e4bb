package model

import "time"

// PrincipalKind 主体类型
// 登录解析按 Admin → Student → Faculty 的固定优先级逐类匹配，
// 三类主体的标识符命名空间互相独立，理论上允许同名碰撞。
type PrincipalKind string

const (
	KindAdmin   PrincipalKind = "admin"
	KindStudent PrincipalKind = "student"
	KindFaculty PrincipalKind = "faculty"
)

// Student 学生表，对应 students
type Student struct {
	RollNo       string    `gorm:"type:varchar(20);primaryKey"  json:"roll_no"`
	Name         string    `gorm:"type:varchar(100);not null"   json:"name"`
	Dept         string    `gorm:"type:varchar(100);not null"   json:"dept"`
	TutorID      string    `gorm:"type:varchar(20);not null"    json:"tutor_id"`
	Email        string    `gorm:"type:varchar(255);not null"   json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null"   json:"-"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	// 关联
	Tutor *Faculty `gorm:"foreignKey:TutorID;references:TutorID" json:"tutor,omitempty"`
}

// TableName 指定表名
func (Student) TableName() string { return "students" }

// Faculty 导师表，对应 faculty
type Faculty struct {
	TutorID      string    `gorm:"type:varchar(20);primaryKey"  json:"tutor_id"`
	Name         string    `gorm:"type:varchar(100);not null"   json:"name"`
	Dept         string    `gorm:"type:varchar(100);not null"   json:"dept"`
	Email        string    `gorm:"type:varchar(255);not null"   json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null"   json:"-"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (Faculty) TableName() string { return "faculty" }

// Admin 管理员表，对应 admins
// 系统按单管理员假设运行：导师请假单统一路由到按 admin_id 排序的第一条记录
type Admin struct {
	AdminID      string    `gorm:"type:varchar(20);primaryKey"  json:"admin_id"`
	Name         string    `gorm:"type:varchar(100);not null"   json:"name"`
	Email        string    `gorm:"type:varchar(255);not null"   json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null"   json:"-"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (Admin) TableName() string { return "admins" }
