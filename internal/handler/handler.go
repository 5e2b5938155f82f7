package handler

import (
	"strconv"

	"cryptowallet/internal/config"
	"cryptowallet/internal/model"
	"cryptowallet/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Handler 统一处理器，包含所有服务依赖
type Handler struct {
	cfg                *config.Config
	authService        *service.AuthService
	userService        *service.UserService
	ledgerService      *service.LedgerService
	transactionService *service.TransactionService
	supportService     *service.SupportService
	adminService       *service.AdminService
}

// NewHandler 创建处理器实例
func NewHandler(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *Handler {
	return &Handler{
		cfg:                cfg,
		authService:        service.NewAuthService(db, rdb, cfg),
		userService:        service.NewUserService(db, cfg),
		ledgerService:      service.NewLedgerService(db, rdb, cfg),
		transactionService: service.NewTransactionService(db, cfg),
		supportService:     service.NewSupportService(db, cfg),
		adminService:       service.NewAdminService(db, cfg),
	}
}

// currentUserID 从中间件注入的上下文中取当前用户ID
func currentUserID(c *gin.Context) int64 {
	return c.GetInt64(ctxKeyUserID)
}

// isAdmin 当前请求是否来自管理员
func isAdmin(c *gin.Context) bool {
	return c.GetString(ctxKeyUserRole) == model.RoleAdmin
}

// pagination 解析分页参数，带默认值
func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}
