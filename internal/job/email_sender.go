package job

import (
	"context"
	"log"
	"time"

	"cryptowallet/internal/config"
	"cryptowallet/internal/infrastructure/mail"
	"cryptowallet/internal/model"
	"cryptowallet/internal/repository"

	"gorm.io/gorm"
)

// EmailSender 邮件投递任务
// 业务流程只把邮件写入 email_message 表，由这里异步走 SMTP 发出，
// 邮件失败不影响账务结果
type EmailSender struct {
	db        *gorm.DB
	emailRepo *repository.EmailRepository
	sender    mail.Sender
	cfg       *config.Config
	stopCh    chan struct{}
	interval  time.Duration
	batchSize int
}

func NewEmailSender(db *gorm.DB, sender mail.Sender, cfg *config.Config) *EmailSender {
	return &EmailSender{
		db:        db,
		emailRepo: repository.NewEmailRepository(db),
		sender:    sender,
		cfg:       cfg,
		stopCh:    make(chan struct{}),
		interval:  time.Second,
		batchSize: 50,
	}
}

func (s *EmailSender) Start(ctx context.Context) {
	log.Println("[EmailSender] 邮件投递任务启动")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[EmailSender] 收到停止信号，任务退出")
			return
		case <-s.stopCh:
			log.Println("[EmailSender] 任务停止")
			return
		case <-ticker.C:
			s.processPendingMessages(ctx)
		}
	}
}

func (s *EmailSender) Stop() {
	close(s.stopCh)
}

func (s *EmailSender) processPendingMessages(ctx context.Context) {
	messages, err := s.emailRepo.GetPendingMessages(ctx, s.batchSize)
	if err != nil {
		log.Printf("[EmailSender] 查询待发邮件失败: %v", err)
		return
	}

	for _, msg := range messages {
		s.sendMessage(ctx, msg)
	}
}

func (s *EmailSender) sendMessage(ctx context.Context, msg *model.EmailMessage) {
	err := s.sender.Send(msg.Recipient, msg.Subject, msg.Body)

	if err == nil {
		if updateErr := s.emailRepo.MarkAsSent(ctx, msg.ID); updateErr != nil {
			log.Printf("[EmailSender] 更新邮件状态失败: id=%d, err=%v", msg.ID, updateErr)
		}
		return
	}

	log.Printf("[EmailSender] 邮件发送失败: id=%d, to=%s, err=%v", msg.ID, msg.Recipient, err)

	if err := s.emailRepo.IncrementRetryCount(ctx, msg.ID); err != nil {
		log.Printf("[EmailSender] 增加重试次数失败: id=%d, err=%v", msg.ID, err)
	}

	if msg.RetryCount+1 >= s.cfg.Business.MaxRetryCount {
		if err := s.emailRepo.MarkAsFailed(ctx, msg.ID); err != nil {
			log.Printf("[EmailSender] 标记邮件失败状态失败: id=%d, err=%v", msg.ID, err)
		} else {
			log.Printf("[EmailSender] 邮件超过最大重试次数，标记为失败: id=%d", msg.ID)
		}
	}
}
