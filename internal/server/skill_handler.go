package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// handleListSkills 列出当前用户的技能
func (s *HTTPGinServer) handleListSkills(c *gin.Context) {
	skills, err := s.skills.ListSkills(currentUserID(c))
	if err != nil {
		s.error(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.success(c, gin.H{
		"total":  len(skills),
		"skills": skills,
	})
}

// UpsertSkillRequest 技能录入请求
type UpsertSkillRequest struct {
	Name        string  `json:"name" binding:"required"`
	Category    string  `json:"category"`
	Proficiency float64 `json:"proficiency" binding:"min=0,max=100"`
	Evidence    string  `json:"evidence"`
}

// handleUpsertSkill 录入或更新技能
func (s *HTTPGinServer) handleUpsertSkill(c *gin.Context) {
	var req UpsertSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.error(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	skill, err := s.skills.UpsertSkill(currentUserID(c), req.Name, req.Category, req.Proficiency, "manual", req.Evidence)
	if err != nil {
		s.error(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.success(c, skill)
}

// handleDeleteSkill 删除技能
func (s *HTTPGinServer) handleDeleteSkill(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		s.error(c, http.StatusBadRequest, "无效的技能 ID")
		return
	}

	if err := s.skills.DeleteSkill(currentUserID(c), uint(id)); err != nil {
		s.error(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.success(c, nil)
}

// ScoreLeetcodeRequest LeetCode 解题记录
type ScoreLeetcodeRequest struct {
	Easy           int     `json:"easy" binding:"min=0"`
	Medium         int     `json:"medium" binding:"min=0"`
	Hard           int     `json:"hard" binding:"min=0"`
	AcceptanceRate float64 `json:"acceptance_rate" binding:"min=0,max=1"`
}

// handleScoreLeetcode 根据 LeetCode 数据计算算法能力分
func (s *HTTPGinServer) handleScoreLeetcode(c *gin.Context) {
	var req ScoreLeetcodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.error(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	skill, err := s.skills.ScoreLeetcode(currentUserID(c), req.Easy, req.Medium, req.Hard, req.AcceptanceRate)
	if err != nil {
		s.error(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.success(c, skill)
}

// handleGenerateReport 生成技能分析报告
func (s *HTTPGinServer) handleGenerateReport(c *gin.Context) {
	report, err := s.skills.GenerateReport(currentUserID(c))
	if err != nil {
		s.error(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.success(c, report)
}

// handleLatestReport 获取最近一份技能报告
func (s *HTTPGinServer) handleLatestReport(c *gin.Context) {
	report, err := s.skills.LatestReport(currentUserID(c))
	if err != nil {
		s.error(c, http.StatusInternalServerError, err.Error())
		return
	}
	if report == nil {
		s.error(c, http.StatusNotFound, "尚未生成技能报告")
		return
	}
	s.success(c, report)
}
