package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spidersno1/job-accelerator/internal/service"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email" binding:"required,email"`
}

// handleRegister 用户注册
func (s *HTTPGinServer) handleRegister(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.error(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	user, err := s.users.Register(req.Username, req.Password, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			s.error(c, http.StatusConflict, "用户名或邮箱已被注册")
			return
		}
		s.error(c, http.StatusInternalServerError, "注册失败: "+err.Error())
		return
	}

	s.success(c, user)
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// handleLogin 用户登录
func (s *HTTPGinServer) handleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.error(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	user, err := s.users.Authenticate(req.Username, req.Password)
	if err != nil {
		s.error(c, http.StatusInternalServerError, "登录失败: "+err.Error())
		return
	}
	if user == nil {
		s.error(c, http.StatusUnauthorized, "用户名或密码错误")
		return
	}

	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		s.error(c, http.StatusInternalServerError, "生成令牌失败: "+err.Error())
		return
	}

	s.success(c, gin.H{
		"access_token": token,
		"user":         user,
	})
}

// handleMe 获取当前用户信息
func (s *HTTPGinServer) handleMe(c *gin.Context) {
	user, err := s.users.GetByID(currentUserID(c))
	if err != nil {
		s.error(c, http.StatusInternalServerError, err.Error())
		return
	}
	if user == nil {
		s.error(c, http.StatusNotFound, "用户不存在")
		return
	}
	s.success(c, user)
}

// UpdateProfileRequest 更新画像请求
type UpdateProfileRequest struct {
	FullName         *string `json:"full_name"`
	LeetcodeUsername *string `json:"leetcode_username"`
	GithubUsername   *string `json:"github_username"`
	CurrentRole      *string `json:"current_role"`
	TargetRole       *string `json:"target_role"`
	ExperienceYears  *int    `json:"experience_years"`
}

// handleUpdateProfile 更新求职画像
func (s *HTTPGinServer) handleUpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.error(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}

	updates := map[string]any{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.LeetcodeUsername != nil {
		updates["leetcode_username"] = *req.LeetcodeUsername
	}
	if req.GithubUsername != nil {
		updates["github_username"] = *req.GithubUsername
	}
	if req.CurrentRole != nil {
		updates["current_role"] = *req.CurrentRole
	}
	if req.TargetRole != nil {
		updates["target_role"] = *req.TargetRole
	}
	if req.ExperienceYears != nil {
		updates["experience_years"] = *req.ExperienceYears
	}

	if err := s.users.UpdateProfile(currentUserID(c), updates); err != nil {
		s.error(c, http.StatusInternalServerError, "更新失败: "+err.Error())
		return
	}
	s.success(c, nil)
}
