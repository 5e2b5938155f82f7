package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cryptowallet/internal/config"
	"cryptowallet/internal/model"
	"cryptowallet/internal/repository"
	"cryptowallet/pkg/apperr"

	"gorm.io/gorm"
)

// AdminService 管理员操作
// 角色校验统一在路由中间件完成，这里只做业务
type AdminService struct {
	db       *gorm.DB
	cfg      *config.Config
	userRepo *repository.UserRepository
	notifier *Notifier
}

func NewAdminService(db *gorm.DB, cfg *config.Config) *AdminService {
	return &AdminService{
		db:       db,
		cfg:      cfg,
		userRepo: repository.NewUserRepository(db),
		notifier: NewNotifier(db, cfg),
	}
}

func (s *AdminService) ListUsers(ctx context.Context, page, pageSize int) ([]*model.User, int64, error) {
	return s.userRepo.List(ctx, page, pageSize)
}

// DeleteUser 按邮箱删除用户
func (s *AdminService) DeleteUser(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.NotFound("用户不存在")
		}
		return err
	}
	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("删除用户失败: %w", err)
	}
	log.Printf("用户已删除: email=%s", user.Email)
	return nil
}

var validUserStatuses = map[string]bool{
	model.UserStatusActive:    true,
	model.UserStatusInactive:  true,
	model.UserStatusSuspended: true,
	model.UserStatusFreeze:    true,
}

// UpdateUserStatus 变更用户状态并按状态表发送通知
func (s *AdminService) UpdateUserStatus(ctx context.Context, userID int64, status string) error {
	if !validUserStatuses[status] {
		return apperr.Validation("无效的用户状态")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.NotFound("用户不存在")
		}
		return err
	}

	if err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{
		"status": status,
	}); err != nil {
		return fmt.Errorf("更新用户状态失败: %w", err)
	}

	s.notifier.SendStatusChanged(ctx, user, status)

	log.Printf("用户状态已变更: userID=%d, status=%s", userID, status)
	return nil
}

// ReviewKYC 实名审核
// 通过：已实名并激活账户；驳回：标记驳回并设为未激活
func (s *AdminService) ReviewKYC(ctx context.Context, userID int64, approve bool) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.NotFound("用户不存在")
		}
		return err
	}

	fields := map[string]interface{}{
		"verify": model.VerifyVerified,
		"status": model.UserStatusActive,
	}
	if !approve {
		fields["verify"] = model.VerifyRejected
		fields["status"] = model.UserStatusInactive
	}

	if err := s.userRepo.UpdateFields(ctx, userID, fields); err != nil {
		return fmt.Errorf("更新实名状态失败: %w", err)
	}

	s.notifier.SendKYCResult(ctx, user, approve)

	log.Printf("实名审核完成: userID=%d, approve=%v", userID, approve)
	return nil
}
