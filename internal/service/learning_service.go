package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/spidersno1/job-accelerator/internal/database"
	"github.com/spidersno1/job-accelerator/internal/model"
)

// dailyTaskTemplate 每日任务模板
type dailyTaskTemplate struct {
	Name           string
	Description    string
	TaskType       string
	Difficulty     string
	EstimatedHours int
	BasePoints     int
}

// dailyTaskTemplates 按技能水平分档的任务模板
var dailyTaskTemplates = map[string][]dailyTaskTemplate{
	"beginner": {
		{"基础语法练习", "完成 {skill} 基础语法的 10 道练习题", "练习", "easy", 1, 10},
		{"入门教程学习", "学习 {skill} 官方入门教程一个章节", "学习", "easy", 2, 10},
		{"LeetCode 简单题", "完成 2 道 LeetCode 简单难度题目", "练习", "easy", 1, 10},
	},
	"intermediate": {
		{"进阶特性学习", "深入学习 {skill} 的一个进阶特性并写示例", "学习", "medium", 2, 20},
		{"LeetCode 中等题", "完成 2 道 LeetCode 中等难度题目", "练习", "medium", 2, 20},
		{"小型项目迭代", "给练手项目增加一个完整功能", "项目", "medium", 3, 20},
	},
	"advanced": {
		{"源码阅读", "阅读 {skill} 相关开源项目的一个核心模块源码", "学习", "hard", 2, 30},
		{"LeetCode 困难题", "完成 1 道 LeetCode 困难题并总结思路", "练习", "hard", 2, 30},
		{"系统设计练习", "完成一道系统设计题并输出架构图", "项目", "hard", 3, 30},
	},
}

// fallbackDailyTask 无画像时的兜底任务
var fallbackDailyTask = dailyTaskTemplate{
	Name:           "每日编程练习",
	Description:    "完成 1 小时的编程练习,巩固基础",
	TaskType:       "练习",
	Difficulty:     "easy",
	EstimatedHours: 1,
	BasePoints:     10,
}

// levelPointsMultiplier 技能水平对应的积分倍率
var levelPointsMultiplier = map[string]float64{
	"beginner":     1.0,
	"intermediate": 1.5,
	"advanced":     2.0,
}

// DailyTask 生成的每日任务
type DailyTask struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	TaskType       string    `json:"task_type"`
	Difficulty     string    `json:"difficulty"`
	EstimatedHours int       `json:"estimated_hours"`
	Points         int       `json:"points"`
	DueAt          time.Time `json:"due_at"`
}

// LearningService 学习路径服务
type LearningService struct {
	db *gorm.DB
}

// NewLearningService 创建学习路径服务实例
func NewLearningService() *LearningService {
	return &LearningService{
		db: database.GetDB(),
	}
}

// CreatePath 创建学习路径,同一用户同时只保留一条激活路径
func (s *LearningService) CreatePath(path *model.LearningPath) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.LearningPath{}).
			Where("user_id = ? AND is_active = ?", path.UserID, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		path.IsActive = true
		return tx.Create(path).Error
	})
}

// GetPath 获取学习路径
func (s *LearningService) GetPath(id uint) (*model.LearningPath, error) {
	var path model.LearningPath
	if err := s.db.First(&path, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &path, nil
}

// ActivePath 获取用户当前激活的学习路径
func (s *LearningService) ActivePath(userID uint) (*model.LearningPath, error) {
	var path model.LearningPath
	err := s.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		First(&path).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &path, nil
}

// ListPaths 列出用户的学习路径
func (s *LearningService) ListPaths(userID uint) ([]model.LearningPath, error) {
	var paths []model.LearningPath
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&paths).Error
	return paths, err
}

// AddTask 向学习路径追加任务
func (s *LearningService) AddTask(task *model.LearningTask) error {
	if task.OrderIndex == 0 {
		var maxOrder int
		s.db.Model(&model.LearningTask{}).
			Where("learning_path_id = ?", task.LearningPathID).
			Select("COALESCE(MAX(order_index), 0)").
			Scan(&maxOrder)
		task.OrderIndex = maxOrder + 1
	}
	return s.db.Create(task).Error
}

// ListTasks 列出学习路径下的任务,按顺序排列
func (s *LearningService) ListTasks(pathID uint) ([]model.LearningTask, error) {
	var tasks []model.LearningTask
	err := s.db.Where("learning_path_id = ?", pathID).
		Order("order_index ASC").
		Find(&tasks).Error
	return tasks, err
}

// CompleteTask 标记任务完成并更新路径进度
// 任务不属于该用户时返回 gorm.ErrRecordNotFound
func (s *LearningService) CompleteTask(userID, taskID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var task model.LearningTask
		if err := tx.First(&task, taskID).Error; err != nil {
			return err
		}

		var path model.LearningPath
		if err := tx.First(&path, task.LearningPathID).Error; err != nil {
			return err
		}
		if path.UserID != userID {
			return gorm.ErrRecordNotFound
		}

		if task.IsCompleted {
			return nil
		}

		now := time.Now()
		if err := tx.Model(&task).Updates(map[string]any{
			"is_completed": true,
			"completed_at": &now,
		}).Error; err != nil {
			return err
		}
		return s.refreshProgress(tx, task.LearningPathID)
	})
}

// refreshProgress 按已完成任务占比更新路径进度
func (s *LearningService) refreshProgress(tx *gorm.DB, pathID uint) error {
	var total, done int64
	if err := tx.Model(&model.LearningTask{}).
		Where("learning_path_id = ?", pathID).
		Count(&total).Error; err != nil {
		return err
	}
	if total == 0 {
		return nil
	}
	if err := tx.Model(&model.LearningTask{}).
		Where("learning_path_id = ? AND is_completed = ?", pathID, true).
		Count(&done).Error; err != nil {
		return err
	}

	progress := int(done * 100 / total)
	return tx.Model(&model.LearningPath{}).
		Where("id = ?", pathID).
		Update("current_progress", progress).Error
}

// GenerateDailyTasks 按技能水平生成每日任务
// 模板中的 {skill} 占位符用用户最强技能替换,无画像时回退到兜底任务
func (s *LearningService) GenerateDailyTasks(skillLevel string, topSkills []string, rngPick func(n int) int) []DailyTask {
	if rngPick == nil {
		rngPick = func(n int) int { return int(time.Now().UnixNano()) % n }
	}

	templates, ok := dailyTaskTemplates[skillLevel]
	if !ok || len(templates) == 0 {
		templates = []dailyTaskTemplate{fallbackDailyTask}
	}

	skill := "编程"
	if len(topSkills) > 0 {
		skill = topSkills[0]
	}
	multiplier, ok := levelPointsMultiplier[skillLevel]
	if !ok {
		multiplier = 1.0
	}

	dueAt := time.Now().Add(24 * time.Hour)
	count := 2
	if count > len(templates) {
		count = len(templates)
	}

	tasks := make([]DailyTask, 0, count)
	used := make(map[int]bool, count)
	for len(tasks) < count {
		idx := rngPick(len(templates))
		if used[idx] {
			// 线性探测避免重复模板
			idx = (idx + 1) % len(templates)
			if used[idx] {
				break
			}
		}
		used[idx] = true

		tpl := templates[idx]
		tasks = append(tasks, DailyTask{
			ID:             uuid.NewString(),
			Name:           expandSkill(tpl.Name, skill),
			Description:    expandSkill(tpl.Description, skill),
			TaskType:       tpl.TaskType,
			Difficulty:     tpl.Difficulty,
			EstimatedHours: tpl.EstimatedHours,
			Points:         int(float64(tpl.BasePoints) * multiplier),
			DueAt:          dueAt,
		})
	}
	return tasks
}

// PathSummary 学习路径概览
type PathSummary struct {
	Path       *model.LearningPath `json:"path"`
	TotalTasks int                 `json:"total_tasks"`
	DoneTasks  int                 `json:"done_tasks"`
	NextTask   *model.LearningTask `json:"next_task,omitempty"`
}

// Summary 学习路径概览,含下一个待完成任务
func (s *LearningService) Summary(userID uint) (*PathSummary, error) {
	path, err := s.ActivePath(userID)
	if err != nil || path == nil {
		return nil, err
	}

	tasks, err := s.ListTasks(path.ID)
	if err != nil {
		return nil, err
	}

	summary := &PathSummary{Path: path, TotalTasks: len(tasks)}
	for i := range tasks {
		if tasks[i].IsCompleted {
			summary.DoneTasks++
		} else if summary.NextTask == nil {
			summary.NextTask = &tasks[i]
		}
	}
	return summary, nil
}

// expandSkill 替换模板中的技能占位符
func expandSkill(text, skill string) string {
	return strings.ReplaceAll(text, "{skill}", skill)
}
