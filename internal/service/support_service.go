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

// SupportService 客服工单
// 工单归属于创建人，普通用户只能操作自己的工单，管理员不受限
type SupportService struct {
	db          *gorm.DB
	cfg         *config.Config
	supportRepo *repository.SupportRepository
	userRepo    *repository.UserRepository
	notifier    *Notifier
}

func NewSupportService(db *gorm.DB, cfg *config.Config) *SupportService {
	return &SupportService{
		db:          db,
		cfg:         cfg,
		supportRepo: repository.NewSupportRepository(db),
		userRepo:    repository.NewUserRepository(db),
		notifier:    NewNotifier(db, cfg),
	}
}

// Create 创建工单，默认状态 INPROGRESS，通知管理员
func (s *SupportService) Create(ctx context.Context, userID int64, subject, message string) (*model.SupportTicket, error) {
	if subject == "" {
		return nil, apperr.Validation("工单标题不能为空")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound("用户不存在")
		}
		return nil, err
	}

	ticket := &model.SupportTicket{
		UserID:  user.ID,
		Subject: subject,
		Message: message,
		Status:  model.SupportStatusInProgress,
	}
	if err := s.supportRepo.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("创建工单失败: %w", err)
	}

	s.notifier.SendTicketCreated(ctx, user.Email, subject)

	log.Printf("工单已创建: ticketID=%d, userID=%d", ticket.ID, user.ID)
	return ticket, nil
}

var validSupportStatuses = map[string]bool{
	model.SupportStatusInProgress: true,
	model.SupportStatusResolved:   true,
	model.SupportStatusClosed:     true,
}

// UpdateRequest 工单更新入参
// 普通用户只能追加回复；消息与状态仅管理员可改
type UpdateRequest struct {
	Message      string
	ReplyMessage string
	Status       string
}

// Update 更新工单
func (s *SupportService) Update(ctx context.Context, actorID int64, isAdmin bool, ticketID int64, req *UpdateRequest) error {
	ticket, err := s.supportRepo.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrSupportNotFound) {
			return apperr.NotFound("工单不存在")
		}
		return err
	}

	if !isAdmin && ticket.UserID != actorID {
		return apperr.Unauthorized("无权操作该工单")
	}

	fields := map[string]interface{}{}
	if req.ReplyMessage != "" {
		fields["reply_message"] = req.ReplyMessage
	}
	if isAdmin {
		if req.Message != "" {
			fields["message"] = req.Message
		}
		if req.Status != "" {
			if !validSupportStatuses[req.Status] {
				return apperr.Validation("无效的工单状态")
			}
			fields["status"] = req.Status
		}
	} else if req.Message != "" || req.Status != "" {
		return apperr.Forbidden("只有管理员可以修改工单内容或状态")
	}

	if len(fields) == 0 {
		return apperr.Validation("没有需要更新的内容")
	}

	if err := s.supportRepo.UpdateFields(ctx, ticketID, fields); err != nil {
		return fmt.Errorf("更新工单失败: %w", err)
	}
	return nil
}

// ListOwn 用户查看自己的工单
func (s *SupportService) ListOwn(ctx context.Context, userID int64) ([]*model.SupportTicket, error) {
	return s.supportRepo.ListByUser(ctx, userID)
}

// ListAll 管理员查看全部工单
func (s *SupportService) ListAll(ctx context.Context) ([]*model.SupportTicket, error) {
	return s.supportRepo.ListAll(ctx)
}

// Delete 删除工单，仅本人或管理员
func (s *SupportService) Delete(ctx context.Context, actorID int64, isAdmin bool, ticketID int64) error {
	ticket, err := s.supportRepo.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrSupportNotFound) {
			return apperr.NotFound("工单不存在")
		}
		return err
	}

	if !isAdmin && ticket.UserID != actorID {
		return apperr.Unauthorized("无权删除该工单")
	}

	if err := s.supportRepo.Delete(ctx, ticketID); err != nil {
		return fmt.Errorf("删除工单失败: %w", err)
	}
	return nil
}
