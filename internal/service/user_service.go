package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/spidersno1/job-accelerator/internal/database"
	"github.com/spidersno1/job-accelerator/internal/model"
)

// ErrUsernameTaken 用户名已被占用
var ErrUsernameTaken = errors.New("username already taken")

// UserService 用户服务
type UserService struct {
	db *gorm.DB
}

// NewUserService 创建用户服务实例
func NewUserService() *UserService {
	return &UserService{
		db: database.GetDB(),
	}
}

// Register 注册新用户
func (s *UserService) Register(username, password, email string) (*model.User, error) {
	var count int64
	if err := s.db.Model(&model.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	user := &model.User{
		Username: username,
		Email:    email,
		Enabled:  true,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate 校验用户名密码,失败时返回 nil
func (s *UserService) Authenticate(username, password string) (*model.User, error) {
	user, err := s.GetByUsername(username)
	if err != nil || user == nil {
		return nil, err
	}
	if !user.Enabled || !user.CheckPassword(password) {
		return nil, nil
	}
	return user, nil
}

// GetByID 按 ID 获取用户
func (s *UserService) GetByID(id uint) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername 按用户名获取用户
func (s *UserService) GetByUsername(username string) (*model.User, error) {
	var user model.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile 更新求职画像字段
func (s *UserService) UpdateProfile(id uint, updates map[string]any) error {
	allowed := map[string]bool{
		"full_name":         true,
		"leetcode_username": true,
		"github_username":   true,
		"current_role":      true,
		"target_role":       true,
		"experience_years":  true,
	}
	filtered := make(map[string]any, len(updates))
	for k, v := range updates {
		if allowed[k] {
			filtered[k] = v
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return s.db.Model(&model.User{}).Where("id = ?", id).Updates(filtered).Error
}
