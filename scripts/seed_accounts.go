// scripts/seed_accounts.go
// 开通演示账号：一名管理员、一名导师、一名挂在该导师名下的学生。
// 账号开通不属于核心服务，运维通过本脚本或 SQL 直接写入。
//
// 用法: go run scripts/seed_accounts.go [config-path]
package main

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/config"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/internal/model"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/pkg/database"
	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/pkg/logger"
)

func main() {
	configPath := ""
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	zl, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	db, err := database.NewDB(&cfg.Database, zl)
	if err != nil {
		log.Fatalf("连接数据库失败: %v", err)
	}

	seedAdmin(db, "A001", "Registrar", "registrar@college.edu", "admin123")
	seedFaculty(db, "F001", "Prof. Ramesh", "CSE", "ramesh@college.edu", "tutor123")
	seedStudent(db, "CS2021001", "Anita", "CSE", "F001", "anita@college.edu", "student123")

	fmt.Println("演示账号已就绪（密码请尽快修改）")
}

func hash(password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("密码哈希失败: %v", err)
	}
	return string(h)
}

func seedAdmin(db *gorm.DB, adminID, name, email, password string) {
	var existing model.Admin
	err := db.Where("admin_id = ?", adminID).First(&existing).Error
	if err == nil {
		fmt.Printf("管理员 %s 已存在，跳过\n", adminID)
		return
	}
	if err != gorm.ErrRecordNotFound {
		log.Fatalf("查询管理员失败: %v", err)
	}
	if err := db.Create(&model.Admin{
		AdminID: adminID, Name: name, Email: email, PasswordHash: hash(password),
	}).Error; err != nil {
		log.Fatalf("创建管理员失败: %v", err)
	}
	fmt.Printf("管理员已创建: %s / %s\n", adminID, password)
}

func seedFaculty(db *gorm.DB, tutorID, name, dept, email, password string) {
	var existing model.Faculty
	err := db.Where("tutor_id = ?", tutorID).First(&existing).Error
	if err == nil {
		fmt.Printf("导师 %s 已存在，跳过\n", tutorID)
		return
	}
	if err != gorm.ErrRecordNotFound {
		log.Fatalf("查询导师失败: %v", err)
	}
	if err := db.Create(&model.Faculty{
		TutorID: tutorID, Name: name, Dept: dept, Email: email, PasswordHash: hash(password),
	}).Error; err != nil {
		log.Fatalf("创建导师失败: %v", err)
	}
	fmt.Printf("导师已创建: %s / %s\n", tutorID, password)
}

func seedStudent(db *gorm.DB, rollNo, name, dept, tutorID, email, password string) {
	var existing model.Student
	err := db.Where("roll_no = ?", rollNo).First(&existing).Error
	if err == nil {
		fmt.Printf("学生 %s 已存在，跳过\n", rollNo)
		return
	}
	if err != gorm.ErrRecordNotFound {
		log.Fatalf("查询学生失败: %v", err)
	}
	if err := db.Create(&model.Student{
		RollNo: rollNo, Name: name, Dept: dept, TutorID: tutorID,
		Email: email, PasswordHash: hash(password),
	}).Error; err != nil {
		log.Fatalf("创建学生失败: %v", err)
	}
	fmt.Printf("学生已创建: %s / %s\n", rollNo, password)
}
