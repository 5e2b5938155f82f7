package handler

import (
	"net/http"
	"strings"

	"cryptowallet/pkg/response"

	"github.com/gin-gonic/gin"
)

// ============================================================
// 认证相关接口
// ============================================================

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register 用户注册
// POST /api/v1/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "注册成功", gin.H{
		"id":    user.ID,
		"email": user.Email,
		"role":  user.Role,
	})
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "登录成功", gin.H{
		"token": token,
		"user":  user,
	})
}

// Logout 注销登录
// POST /api/v1/auth/logout
func (h *Handler) Logout(c *gin.Context) {
	rawToken := c.GetString(ctxKeyToken)
	if err := h.authService.Logout(c.Request.Context(), rawToken); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "注销成功", nil)
}

// ForgotPasswordRequest 找回密码请求
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword 发起密码重置，重置链接通过邮件下发
// POST /api/v1/auth/forgot-password
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "重置邮件已发送", nil)
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ResetPassword 完成密码重置
// POST /api/v1/auth/reset-password
func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "密码重置成功", nil)
}

// VerifyToken 会话令牌自检，返回令牌对应的用户
// GET /api/v1/auth/verify-token
func (h *Handler) VerifyToken(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	rawToken := strings.TrimPrefix(authHeader, "Bearer ")
	if rawToken == "" || rawToken == authHeader {
		response.Fail(c, http.StatusUnauthorized, "缺少认证令牌")
		return
	}

	user, err := h.authService.VerifySession(c.Request.Context(), rawToken)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "令牌有效", user)
}

// VerifyEmail 邮箱验证回调
// GET /api/v1/auth/verify-email?token=xxx
func (h *Handler) VerifyEmail(c *gin.Context) {
	rawToken := c.Query("token")
	if rawToken == "" {
		response.ParamError(c, "token 参数不能为空")
		return
	}

	if err := h.authService.VerifyEmail(c.Request.Context(), rawToken); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "邮箱验证成功", nil)
}
