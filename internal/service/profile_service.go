package service

import (
	"context"
	"fmt"

	"github.com/spidersno1/job-accelerator/internal/agent"
)

// ProfileService 聚合用户画像,供回复路由器注入对话背景
type ProfileService struct {
	users    *UserService
	skills   *SkillService
	learning *LearningService
}

// NewProfileService 创建画像服务实例
func NewProfileService(users *UserService, skills *SkillService, learning *LearningService) *ProfileService {
	return &ProfileService{
		users:    users,
		skills:   skills,
		learning: learning,
	}
}

// UserProfile 读取用户画像
// 实现 agent.ProfileSource,任一数据缺失都降级为部分画像而不是报错
func (s *ProfileService) UserProfile(_ context.Context, userID uint) (*agent.UserContext, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %d not found", userID)
	}

	userCtx := &agent.UserContext{
		UserID:    userID,
		TargetJob: user.TargetRole,
	}

	skills, err := s.skills.ListSkills(userID)
	if err == nil && len(skills) > 0 {
		userCtx.SkillLevel = skillLevelFor(weightedScore(skills))
		userCtx.TopSkills = TopSkillNames(skills, 3)
	}

	if path, err := s.learning.ActivePath(userID); err == nil && path != nil {
		userCtx.LearningProgress = float64(path.CurrentProgress)
	}

	return userCtx, nil
}
