package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"cryptowallet/internal/model"
	"cryptowallet/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	ctxKeyUserID    = "user_id"
	ctxKeyUserEmail = "user_email"
	ctxKeyUserRole  = "user_role"
	ctxKeyToken     = "raw_token"
)

// LoggerMiddleware 日志中间件
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if query != "" {
			path = path + "?" + query
		}

		log.Printf("[HTTP] %d | %13v | %15s | %-7s %s",
			status,
			latency,
			c.ClientIP(),
			c.Request.Method,
			path,
		)
	}
}

// RecoveryMiddleware 恢复中间件，防止 panic 导致服务崩溃
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[PANIC] %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
					Success: false,
					Message: "服务器内部错误",
				})
			}
		}()
		c.Next()
	}
}

// CORSMiddleware 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// AuthMiddleware 认证中间件
// 校验 Bearer 令牌（含注销黑名单），把用户身份写入请求上下文
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Fail(c, http.StatusUnauthorized, "缺少认证令牌")
			c.Abort()
			return
		}
		rawToken := strings.TrimPrefix(authHeader, "Bearer ")
		if rawToken == authHeader {
			response.Fail(c, http.StatusUnauthorized, "认证头格式错误")
			c.Abort()
			return
		}

		user, err := h.authService.VerifySession(c.Request.Context(), rawToken)
		if err != nil {
			response.Fail(c, http.StatusUnauthorized, "令牌无效或已过期")
			c.Abort()
			return
		}

		c.Set(ctxKeyUserID, user.ID)
		c.Set(ctxKeyUserEmail, user.Email)
		c.Set(ctxKeyUserRole, user.Role)
		c.Set(ctxKeyToken, rawToken)
		c.Next()
	}
}

// AdminOnlyMiddleware 管理员权限校验，必须挂在 AuthMiddleware 之后
func (h *Handler) AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxKeyUserRole) != model.RoleAdmin {
			response.Fail(c, http.StatusForbidden, "需要管理员权限")
			c.Abort()
			return
		}
		c.Next()
	}
}
