package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/spidersno1/job-accelerator/internal/logger"
	"github.com/spidersno1/job-accelerator/internal/model"
)

// AutoMigrate 自动迁移数据库表结构
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Skill{},
		&model.SkillReport{},
		&model.Job{},
		&model.JobMatch{},
		&model.LearningPath{},
		&model.LearningTask{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}

	// 创建默认用户
	if err := createDefaultUser(db); err != nil {
		logger.Error("Failed to create default user: %v", err)
		// 不返回错误，继续启动
	}

	return nil
}

// createDefaultUser 创建默认管理员用户
func createDefaultUser(db *gorm.DB) error {
	// 检查是否已存在用户
	var count int64
	if err := db.Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}

	// 如果已有用户，不创建
	if count > 0 {
		return nil
	}

	defaultUser := &model.User{
		Username: "admin",
		Email:    "admin@job-accelerator.local",
		FullName: "管理员",
		Enabled:  true,
	}

	// 设置默认密码: admin123
	if err := defaultUser.SetPassword("admin123"); err != nil {
		return fmt.Errorf("failed to set default password: %w", err)
	}

	if err := db.Create(defaultUser).Error; err != nil {
		return fmt.Errorf("failed to create default user: %w", err)
	}

	logger.Info("Default admin user created (username: admin, password: admin123)")
	return nil
}
