package handler

import (
	"cryptowallet/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// SetupRouter 配置路由
func SetupRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(RecoveryMiddleware())
	r.Use(LoggerMiddleware())
	r.Use(CORSMiddleware())

	h := NewHandler(db, rdb, cfg)

	// 头像与证件文件的静态外链
	r.Static("/assets", cfg.Server.AssetDir)

	api := r.Group("/api/v1")
	{
		// 认证相关，无需登录
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
			auth.POST("/forgot-password", h.ForgotPassword)
			auth.POST("/reset-password", h.ResetPassword)
			auth.GET("/verify-token", h.VerifyToken)
			auth.GET("/verify-email", h.VerifyEmail)
			auth.POST("/logout", h.AuthMiddleware(), h.Logout)
		}

		// 个人资料
		user := api.Group("/user", h.AuthMiddleware())
		{
			user.GET("/profile", h.GetProfile)
			user.PUT("/profile", h.UpdateProfile)
			user.PUT("/kyc", h.UpdateKYC)
			user.PUT("/password", h.UpdatePassword)
		}

		// 账本与流水
		transaction := api.Group("/transaction", h.AuthMiddleware())
		{
			transaction.POST("/deposit", h.Deposit)
			transaction.POST("/withdraw", h.Withdraw)
			transaction.POST("/bonus", h.AwardBonus)
			transaction.POST("/transfer", h.TransferBonus)
			transaction.POST("/create", h.CreateTransaction)
			transaction.GET("/list", h.ListTransactions)
		}

		// 客服工单
		support := api.Group("/support", h.AuthMiddleware())
		{
			support.POST("/create", h.CreateTicket)
			support.GET("/list", h.ListTickets)
			support.PUT("/:id", h.UpdateTicket)
			support.DELETE("/:id", h.DeleteTicket)
		}

		// 管理员
		admin := api.Group("/admin", h.AuthMiddleware(), h.AdminOnlyMiddleware())
		{
			admin.GET("/users", h.ListUsers)
			admin.DELETE("/users", h.DeleteUser)
			admin.PUT("/users/:id/status", h.UpdateUserStatus)
			admin.PUT("/users/:id/kyc", h.ReviewKYC)
			admin.POST("/withdrawals/approve", h.ApproveWithdrawal)
			admin.GET("/transactions", h.ListAllTransactions)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
