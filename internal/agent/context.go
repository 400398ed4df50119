package agent

import (
	"context"
	"fmt"
	"strings"
)

// 技能熟练度分档阈值
const (
	proficiencyAdvanced     = 80
	proficiencyIntermediate = 50
)

// systemPrompt 小智的人设提示词
const systemPrompt = `你是小智，一个专业的程序员求职学习助手。你的职责是：
1. 帮助用户分析技能水平，找出优势和不足
2. 制定个性化的学习路径和每日任务
3. 提供求职指导，包括简历优化和面试准备
4. 推荐适合的岗位和学习资源

回答要求：使用中文，简洁专业，给出可执行的建议。`

// UserContext 注入到模型对话和规则个性化的用户背景
type UserContext struct {
	UserID           uint
	SkillLevel       string // beginner/intermediate/advanced
	TargetJob        string
	TopSkills        []string
	LearningProgress float64
	RecentTopics     []string
}

// ProfileSource 用户画像数据源
// 由服务层实现,取不到画像时返回错误,调用方降级为空背景
type ProfileSource interface {
	UserProfile(ctx context.Context, userID uint) (*UserContext, error)
}

// SkillLevelFor 按平均熟练度分档
func SkillLevelFor(avgProficiency float64) string {
	switch {
	case avgProficiency >= proficiencyAdvanced:
		return "advanced"
	case avgProficiency >= proficiencyIntermediate:
		return "intermediate"
	default:
		return "beginner"
	}
}

// ContextBlock 把用户背景渲染成提示词片段,空背景返回空串
func (uc *UserContext) ContextBlock() string {
	if uc == nil {
		return ""
	}

	var lines []string
	if uc.SkillLevel != "" {
		lines = append(lines, fmt.Sprintf("技能水平：%s", uc.SkillLevel))
	}
	if uc.TargetJob != "" {
		lines = append(lines, fmt.Sprintf("目标岗位：%s", uc.TargetJob))
	}
	if len(uc.TopSkills) > 0 {
		lines = append(lines, fmt.Sprintf("主要技能：%s", strings.Join(uc.TopSkills, "、")))
	}
	if uc.LearningProgress > 0 {
		lines = append(lines, fmt.Sprintf("学习进度：%.0f%%", uc.LearningProgress))
	}
	if len(uc.RecentTopics) > 0 {
		lines = append(lines, fmt.Sprintf("最近关注：%s", strings.Join(uc.RecentTopics, "、")))
	}
	if len(lines) == 0 {
		return ""
	}

	return "用户背景信息：\n" + strings.Join(lines, "\n")
}

// BuildMessages 组装发给模型的消息序列:人设 + 用户背景 + 当前提问
func BuildMessages(userCtx *UserContext, query string) []Message {
	messages := []Message{
		{Role: "system", Content: systemPrompt},
	}

	if block := userCtx.ContextBlock(); block != "" {
		messages = append(messages, Message{Role: "system", Content: block})
	}

	messages = append(messages, Message{Role: "user", Content: query})
	return messages
}
