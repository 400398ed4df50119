package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spidersno1/job-accelerator/internal/agent"
	"github.com/spidersno1/job-accelerator/internal/config"
	"github.com/spidersno1/job-accelerator/internal/logger"
	"github.com/spidersno1/job-accelerator/internal/quota"
	"github.com/spidersno1/job-accelerator/internal/service"
)

// HTTPGinServer 基于 Gin 的 HTTP 服务器
type HTTPGinServer struct {
	config *config.Config
	engine *gin.Engine
	server *http.Server

	users    *service.UserService
	skills   *service.SkillService
	jobs     *service.JobService
	learning *service.LearningService
	router   *agent.Router
	tracker  *quota.Tracker
}

// NewHTTPGinServer 创建基于 Gin 的 HTTP 服务器
func NewHTTPGinServer(cfg *config.Config, router *agent.Router, tracker *quota.Tracker) *HTTPGinServer {
	// 设置 Gin 模式
	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &HTTPGinServer{
		config:   cfg,
		engine:   gin.New(),
		users:    service.NewUserService(),
		skills:   service.NewSkillService(),
		jobs:     service.NewJobService(),
		learning: service.NewLearningService(),
		router:   router,
		tracker:  tracker,
	}

	// 注册中间件
	s.registerMiddlewares()

	// 注册路由
	s.registerRoutes()

	return s
}

// registerMiddlewares 注册中间件
func (s *HTTPGinServer) registerMiddlewares() {
	// 恢复中间件 - 从 panic 恢复
	s.engine.Use(gin.Recovery())

	// 自定义日志中间件
	s.engine.Use(s.loggingMiddleware())

	// CORS 中间件
	s.engine.Use(s.corsMiddleware())
}

// loggingMiddleware 自定义日志中间件
func (s *HTTPGinServer) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		logger.Info("HTTP request, method %s, path %s, status %d, duration %s, remote_addr %s",
			method, path, status, duration, c.ClientIP())
	}
}

// corsMiddleware CORS 中间件
func (s *HTTPGinServer) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// registerRoutes 注册路由
func (s *HTTPGinServer) registerRoutes() {
	// API v1 路由组
	v1 := s.engine.Group("/api/v1")
	{
		// 健康检查
		v1.GET("/health", s.handleHealth)

		// 认证(无需登录)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", s.handleRegister)
			auth.POST("/login", s.handleLogin)
		}

		// 需要登录的路由
		authed := v1.Group("")
		authed.Use(s.jwtMiddleware())
		{
			authed.GET("/auth/me", s.handleMe)
			authed.PUT("/users/profile", s.handleUpdateProfile)

			// 技能
			skills := authed.Group("/skills")
			{
				skills.GET("", s.handleListSkills)
				skills.POST("", s.handleUpsertSkill)
				skills.DELETE("/:id", s.handleDeleteSkill)
				skills.POST("/leetcode", s.handleScoreLeetcode)
				skills.POST("/report", s.handleGenerateReport)
				skills.GET("/report", s.handleLatestReport)
			}

			// 岗位
			jobs := authed.Group("/jobs")
			{
				jobs.GET("", s.handleListJobs)
				jobs.POST("", s.handleCreateJob)
				jobs.GET("/:id", s.handleGetJob)
				jobs.DELETE("/:id", s.handleDeactivateJob)
				jobs.POST("/:id/match", s.handleMatchJob)
				jobs.POST("/:id/apply", s.handleApplyJob)
				jobs.GET("/recommendations", s.handleRecommendations)
			}

			// 学习路径
			learning := authed.Group("/learning")
			{
				learning.POST("/paths", s.handleCreatePath)
				learning.GET("/paths", s.handleListPaths)
				learning.GET("/paths/summary", s.handlePathSummary)
				learning.POST("/tasks", s.handleAddTask)
				learning.GET("/paths/:id/tasks", s.handleListTasks)
				learning.POST("/tasks/:id/complete", s.handleCompleteTask)
				learning.GET("/daily-tasks", s.handleDailyTasks)
			}

			// AI 助手
			agentGroup := authed.Group("/agent")
			{
				agentGroup.POST("/chat", s.handleChat)
				agentGroup.DELETE("/memory", s.handleClearMemory)
				agentGroup.GET("/health", s.handleAgentHealth)
				agentGroup.GET("/usage", s.handleUsageStats)
				agentGroup.POST("/usage/reset", s.handleResetUsage)
			}
		}
	}
}

// Start 启动 HTTP 服务器
func (s *HTTPGinServer) Start() error {
	addr := fmt.Sprintf("0.0.0.0:%d", s.config.Server.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second, // 模型调用耗时较长
	}

	logger.Info("🛜 Starting HTTP Server (Gin), Addr %s", addr)
	return s.server.ListenAndServe()
}

// Stop 停止 HTTP 服务器
func (s *HTTPGinServer) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Response 统一响应结构
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// success 返回成功响应
func (s *HTTPGinServer) success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code:    200,
		Message: "Success",
		Data:    data,
	})
}

// error 返回错误响应
func (s *HTTPGinServer) error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// handleHealth 服务健康检查
func (s *HTTPGinServer) handleHealth(c *gin.Context) {
	s.success(c, gin.H{
		"status": "healthy",
	})
}
