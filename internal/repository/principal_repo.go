package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/model"
)

// 三类主体均为只读访问：账号开通不属于核心，由种子脚本完成。

// StudentRepository 学生数据访问接口
type StudentRepository interface {
	// GetByRollNo 按学号查询，附带导师记录
	GetByRollNo(ctx context.Context, rollNo string) (*model.Student, error)
}

// FacultyRepository 导师数据访问接口
type FacultyRepository interface {
	GetByTutorID(ctx context.Context, tutorID string) (*model.Faculty, error)
}

// AdminRepository 管理员数据访问接口
type AdminRepository interface {
	GetByAdminID(ctx context.Context, adminID string) (*model.Admin, error)
	// GetDesignated 返回系统唯一指定的管理员（单管理员假设，按 admin_id 取第一条）
	GetDesignated(ctx context.Context) (*model.Admin, error)
}

// ── GORM 实现 ──

type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo 创建 StudentRepository 实例
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) GetByRollNo(ctx context.Context, rollNo string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Preload("Tutor").
		Where("roll_no = ?", rollNo).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

type facultyRepo struct {
	db *gorm.DB
}

// NewFacultyRepo 创建 FacultyRepository 实例
func NewFacultyRepo(db *gorm.DB) FacultyRepository {
	return &facultyRepo{db: db}
}

func (r *facultyRepo) GetByTutorID(ctx context.Context, tutorID string) (*model.Faculty, error) {
	var faculty model.Faculty
	err := r.db.WithContext(ctx).
		Where("tutor_id = ?", tutorID).
		First(&faculty).Error
	if err != nil {
		return nil, err
	}
	return &faculty, nil
}

type adminRepo struct {
	db *gorm.DB
}

// NewAdminRepo 创建 AdminRepository 实例
func NewAdminRepo(db *gorm.DB) AdminRepository {
	return &adminRepo{db: db}
}

func (r *adminRepo) GetByAdminID(ctx context.Context, adminID string) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.WithContext(ctx).
		Where("admin_id = ?", adminID).
		First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepo) GetDesignated(ctx context.Context) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.WithContext(ctx).
		Order("admin_id ASC").
		First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}
