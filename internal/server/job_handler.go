package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/spidersno1/job-accelerator/internal/model"
)

// handleListJobs 分页列出在招岗位
func (s *HTTPGinServer) handleListJobs(c *gin.Context) {
	pageNum, _ := strconv.Atoi(c.DefaultQuery("page_num", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	jobs, total, err := s.jobs.ListJobs(pageNum, pageSize)
	if err != nil {
		s.error(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.success(c, gin.H{
		"total": total,
		"jobs":  jobs,
		"page": model.PageInfo{
			PageNum:  pageNum,
			PageSize: pageSize,
			Total:    total,
		},
	})
}

// CreateJobRequest 创建岗位请求
type CreateJobRequest struct {
	Title           string `json:"title" binding:"required"`
	Company         string `json:"company" binding:"required"`
	Location        string `json:"location"`
	SalaryRange     string `json:"salary_range"`
	Description     string `json:"description"`
	Requirements    string `json:"requirements"` // JSON 数组
	JobType         string `json:"job_type"`
	ExperienceLevel string `json:"experience_level"`
	SourceURL       string `json:"source_url"`
}

// handleCreateJob 创建岗位
func (s *HTTPGinServer) handleCreateJob(c *gin.Context) {
	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.error(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	job := &model.Job{
		Title:           req.Title,
		Company:         req.Company,
		Location:        req.Location,
		SalaryRange:     req.SalaryRange,
		Description:     req.Description,
		Requirements:    req.Requirements,
		JobType:         req.JobType,
		ExperienceLevel: req.ExperienceLevel,
		SourceURL:       req.SourceURL,
		IsActive:        true,
	}
	if err := s.jobs.CreateJob(job); err != nil {
		s.error(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.success(c, job)
}

// handleGetJob 获取岗位详情
func (s *HTTPGinServer) handleGetJob(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		s.error(c, http.StatusBadRequest, "无效的岗位 ID")
		return
	}

	job, err := s.jobs.GetJob(uint(id))
	if err != nil {
		s.error(c, http.StatusInternalServerError, err.Error())
		return
	}
	if job == nil {
		s.error(c, http.StatusNotFound, "岗位不存在")
		return
	}
	s.success(c, job)
}

// handleDeactivateJob 下架岗位
func (s *HTTPGinServer) handleDeactivateJob(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		s.error(c, http.StatusBadRequest, "无效的岗位 ID")
		return
	}

	if err := s.jobs.DeactivateJob(uint(id)); err != nil {
		s.error(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.success(c, nil)
}

// handleMatchJob 计算当前用户与岗位的匹配度
func (s *HTTPGinServer) handleMatchJob(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		s.error(c, http.StatusBadRequest, "无效的岗位 ID")
		return
	}

	userID := currentUserID(c)
	skills, err := s.skills.ListSkills(userID)
	if err != nil {
		s.error(c, http.StatusInternalServerError, err.Error())
		return
	}

	result, err := s.jobs.MatchUser(userID, uint(id), skills)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.error(c, http.StatusNotFound, "岗位不存在")
			return
		}
		s.error(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.success(c, result)
}

// handleApplyJob 标记岗位已投递
func (s *HTTPGinServer) handleApplyJob(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		s.error(c, http.StatusBadRequest, "无效的岗位 ID")
		return
	}

	if err := s.jobs.MarkApplied(currentUserID(c), uint(id)); err != nil {
		s.error(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.success(c, nil)
}

// handleRecommendations 推荐匹配度最高的岗位
func (s *HTTPGinServer) handleRecommendations(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	userID := currentUserID(c)
	skills, err := s.skills.ListSkills(userID)
	if err != nil {
		s.error(c, http.StatusInternalServerError, err.Error())
		return
	}

	results, err := s.jobs.Recommendations(userID, skills, limit)
	if err != nil {
		s.error(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.success(c, gin.H{
		"total":           len(results),
		"recommendations": results,
	})
}
