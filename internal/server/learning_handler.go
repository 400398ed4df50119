package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/spidersno1/job-accelerator/internal/model"
)

// CreatePathRequest 创建学习路径请求
type CreatePathRequest struct {
	TargetRole        string `json:"target_role" binding:"required"`
	Name              string `json:"name" binding:"required"`
	Description       string `json:"description"`
	EstimatedDuration int    `json:"estimated_duration"`
}

// handleCreatePath 创建学习路径
func (s *HTTPGinServer) handleCreatePath(c *gin.Context) {
	var req CreatePathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.error(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	path := &model.LearningPath{
		UserID:            currentUserID(c),
		TargetRole:        req.TargetRole,
		Name:              req.Name,
		Description:       req.Description,
		EstimatedDuration: req.EstimatedDuration,
	}
	if err := s.learning.CreatePath(path); err != nil {
		s.error(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.success(c, path)
}

// handleListPaths 列出学习路径
func (s *HTTPGinServer) handleListPaths(c *gin.Context) {
	paths, err := s.learning.ListPaths(currentUserID(c))
	if err != nil {
		s.error(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.success(c, gin.H{
		"total": len(paths),
		"paths": paths,
	})
}

// handlePathSummary 当前激活路径概览
func (s *HTTPGinServer) handlePathSummary(c *gin.Context) {
	summary, err := s.learning.Summary(currentUserID(c))
	if err != nil {
		s.error(c, http.StatusInternalServerError, err.Error())
		return
	}
	if summary == nil {
		s.error(c, http.StatusNotFound, "没有激活的学习路径")
		return
	}
	s.success(c, summary)
}

// AddTaskRequest 添加学习任务请求
type AddTaskRequest struct {
	LearningPathID uint   `json:"learning_path_id" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
	TaskType       string `json:"task_type"`
	Difficulty     string `json:"difficulty"`
	EstimatedHours int    `json:"estimated_hours"`
	Resources      string `json:"resources"`
}

// handleAddTask 向学习路径追加任务
func (s *HTTPGinServer) handleAddTask(c *gin.Context) {
	var req AddTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.error(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	// 只能向自己的路径追加任务
	path, err := s.learning.GetPath(req.LearningPathID)
	if err != nil {
		s.error(c, http.StatusInternalServerError, err.Error())
		return
	}
	if path == nil || path.UserID != currentUserID(c) {
		s.error(c, http.StatusNotFound, "学习路径不存在")
		return
	}

	task := &model.LearningTask{
		LearningPathID: req.LearningPathID,
		Name:           req.Name,
		Description:    req.Description,
		TaskType:       req.TaskType,
		Difficulty:     req.Difficulty,
		EstimatedHours: req.EstimatedHours,
		Resources:      req.Resources,
	}
	if err := s.learning.AddTask(task); err != nil {
		s.error(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.success(c, task)
}

// handleListTasks 列出路径下的任务
func (s *HTTPGinServer) handleListTasks(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		s.error(c, http.StatusBadRequest, "无效的路径 ID")
		return
	}

	path, err := s.learning.GetPath(uint(id))
	if err != nil {
		s.error(c, http.StatusInternalServerError, err.Error())
		return
	}
	if path == nil || path.UserID != currentUserID(c) {
		s.error(c, http.StatusNotFound, "学习路径不存在")
		return
	}

	tasks, err := s.learning.ListTasks(uint(id))
	if err != nil {
		s.error(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.success(c, gin.H{
		"total": len(tasks),
		"tasks": tasks,
	})
}

// handleCompleteTask 标记任务完成
func (s *HTTPGinServer) handleCompleteTask(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		s.error(c, http.StatusBadRequest, "无效的任务 ID")
		return
	}

	if err := s.learning.CompleteTask(currentUserID(c), uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.error(c, http.StatusNotFound, "任务不存在")
			return
		}
		s.error(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.success(c, nil)
}

// handleDailyTasks 生成每日任务
func (s *HTTPGinServer) handleDailyTasks(c *gin.Context) {
	userID := currentUserID(c)

	// 按用户技能画像分档,取最强技能填充模板
	skillLevel := "beginner"
	var topSkills []string
	if skills, err := s.skills.ListSkills(userID); err == nil && len(skills) > 0 {
		report, err := s.skills.GenerateReport(userID)
		if err == nil {
			skillLevel = report.SkillLevel
		}
		for i, skill := range skills {
			if i >= 3 {
				break
			}
			topSkills = append(topSkills, skill.Name)
		}
	}

	tasks := s.learning.GenerateDailyTasks(skillLevel, topSkills, nil)
	s.success(c, gin.H{
		"total": len(tasks),
		"tasks": tasks,
	})
}
