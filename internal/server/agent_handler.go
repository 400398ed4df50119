package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ChatRequest 对话请求
type ChatRequest struct {
	Message string `json:"message" binding:"required,max=4000"`
}

// handleChat AI 助手对话
// 路由器内部吞掉所有预期失败,这里永远返回 200 和一个可用的回复信封
func (s *HTTPGinServer) handleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.error(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	envelope := s.router.Chat(c.Request.Context(), currentUserID(c), req.Message)
	s.success(c, envelope)
}

// handleClearMemory 清空当前用户的对话记忆
func (s *HTTPGinServer) handleClearMemory(c *gin.Context) {
	s.router.ClearMemory(currentUserID(c))
	s.success(c, nil)
}

// handleAgentHealth AI 通道健康状态
func (s *HTTPGinServer) handleAgentHealth(c *gin.Context) {
	s.success(c, s.router.Health(c.Request.Context()))
}

// handleUsageStats 当前用户的额度用量
func (s *HTTPGinServer) handleUsageStats(c *gin.Context) {
	userID := currentUserID(c)

	service := c.Query("service")
	if service != "" {
		s.success(c, s.tracker.UsageStats(c.Request.Context(), userID, service))
		return
	}
	s.success(c, s.tracker.AllUsageStats(c.Request.Context(), userID))
}

// ResetUsageRequest 重置用量请求
type ResetUsageRequest struct {
	Service string `json:"service" binding:"required"`
}

// handleResetUsage 管理功能:重置当前用户的计数桶
func (s *HTTPGinServer) handleResetUsage(c *gin.Context) {
	var req ResetUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.error(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	if err := s.tracker.Reset(c.Request.Context(), currentUserID(c), req.Service); err != nil {
		s.error(c, http.StatusInternalServerError, "重置失败: "+err.Error())
		return
	}
	s.success(c, gin.H{"service": req.Service})
}
