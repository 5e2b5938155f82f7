package job

import (
	"context"
	"log"
	"time"

	"cryptowallet/internal/repository"

	"gorm.io/gorm"
)

// TokenCleanup 过期重置令牌清理任务
// 重置令牌 30 分钟过期，查询时已按有效期过滤，
// 这里定期把过期令牌从库里清掉
type TokenCleanup struct {
	db       *gorm.DB
	userRepo *repository.UserRepository
	stopCh   chan struct{}
	interval time.Duration
}

func NewTokenCleanup(db *gorm.DB) *TokenCleanup {
	return &TokenCleanup{
		db:       db,
		userRepo: repository.NewUserRepository(db),
		stopCh:   make(chan struct{}),
		interval: 24 * time.Hour,
	}
}

func (s *TokenCleanup) Start(ctx context.Context) {
	log.Println("[TokenCleanup] 过期令牌清理任务启动")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[TokenCleanup] 收到停止信号，任务退出")
			return
		case <-s.stopCh:
			log.Println("[TokenCleanup] 任务停止")
			return
		case <-ticker.C:
			s.cleanup(ctx)
		}
	}
}

func (s *TokenCleanup) Stop() {
	close(s.stopCh)
}

func (s *TokenCleanup) cleanup(ctx context.Context) {
	cleaned, err := s.userRepo.ClearExpiredResetTokens(ctx)
	if err != nil {
		log.Printf("[TokenCleanup] 清理过期重置令牌失败: %v", err)
		return
	}
	if cleaned > 0 {
		log.Printf("[TokenCleanup] 已清理过期重置令牌: %d 条", cleaned)
	}
}
