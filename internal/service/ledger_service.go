package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"cryptowallet/internal/config"
	"cryptowallet/internal/infrastructure/lock"
	"cryptowallet/internal/model"
	"cryptowallet/internal/repository"
	"cryptowallet/pkg/apperr"
	"cryptowallet/pkg/idgen"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerService 账本核心
//
// 【关键点】每一次余额/奖金变更必须满足：
// 1. 原子性：余额增减与流水记录在同一数据库事务中，同成同败
// 2. 并发安全：增减一律用条件增量更新（balance = balance + ?），
//    配合按用户维度的分布式锁，杜绝读-改-写丢失更新
// 3. 提现只在管理员审批时扣款一次，申请阶段不动余额
type LedgerService struct {
	db              *gorm.DB
	redisClient     *redis.Client
	cfg             *config.Config
	userRepo        *repository.UserRepository
	transactionRepo *repository.TransactionRepository
	outboxRepo      *repository.OutboxRepository
	notifier        *Notifier
}

func NewLedgerService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *LedgerService {
	return &LedgerService{
		db:              db,
		redisClient:     redisClient,
		cfg:             cfg,
		userRepo:        repository.NewUserRepository(db),
		transactionRepo: repository.NewTransactionRepository(db),
		outboxRepo:      repository.NewOutboxRepository(db),
		notifier:        NewNotifier(db, cfg),
	}
}

// parseAmount 解析金额字符串
// 非数字、零、负数一律拒绝
func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperr.Validation("金额格式错误")
	}
	if !amount.IsPositive() {
		return decimal.Zero, apperr.Validation("金额必须大于0")
	}
	return amount, nil
}

// lockUser 获取用户维度的账本锁
// 未配置 Redis 时退化为仅依赖数据库条件更新，正确性不受影响
func (s *LedgerService) lockUser(ctx context.Context, userID int64) (func(), error) {
	if s.redisClient == nil {
		return func() {}, nil
	}
	ledgerLock := lock.NewLedgerLock(s.redisClient, userID)
	if err := ledgerLock.Lock(ctx, 100*time.Millisecond, 30); err != nil {
		return nil, fmt.Errorf("系统繁忙，请稍后重试: %w", err)
	}
	return func() { ledgerLock.Unlock(ctx) }, nil
}

// emitEvent 在账本事务内写入事件 outbox，由后台任务投递到 Kafka
func (s *LedgerService) emitEvent(ctx context.Context, tx *gorm.DB, trans *model.Transaction) error {
	payload, _ := json.Marshal(map[string]interface{}{
		"transaction_no": trans.TransactionNo,
		"type":           trans.Type,
		"status":         trans.Status,
		"amount":         trans.Amount.String(),
		"sender_id":      trans.SenderID,
		"recipient_id":   trans.RecipientID,
		"occurred_at":    time.Now().Format(time.RFC3339),
	})
	msg := &model.OutboxMessage{
		MessageKey: trans.TransactionNo,
		Topic:      s.cfg.Kafka.Topic.LedgerEvent,
		Payload:    string(payload),
	}
	return s.outboxRepo.Create(ctx, tx, msg)
}

// Deposit 充值入账
// 金额达到配置阈值时额外发放奖金（金额 × 配置比例），
// 产生一条 COMPLETED 的 DEPOSIT 流水，奖金另记一条 BONUS 流水
func (s *LedgerService) Deposit(ctx context.Context, userID int64, rawAmount string) (*model.Transaction, error) {
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound("用户不存在")
		}
		return nil, err
	}

	unlock, err := s.lockUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	deposit := &model.Transaction{
		TransactionNo: idgen.GenerateTransactionNo(),
		Amount:        amount,
		Type:          model.TransactionTypeDeposit,
		Status:        model.TransactionStatusCompleted,
		RecipientID:   &user.ID,
		Description:   "余额充值入账",
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.IncreaseBalance(ctx, tx, user.ID, amount); err != nil {
			return fmt.Errorf("余额入账失败: %w", err)
		}
		if err := s.transactionRepo.Create(ctx, tx, deposit); err != nil {
			return fmt.Errorf("记录流水失败: %w", err)
		}
		if err := s.emitEvent(ctx, tx, deposit); err != nil {
			return fmt.Errorf("写入事件失败: %w", err)
		}

		// 达到阈值的充值附带奖金
		if amount.GreaterThanOrEqual(s.cfg.Business.BonusThreshold) {
			bonusAmount := amount.Mul(s.cfg.Business.BonusRate)
			if err := s.userRepo.IncreaseBonus(ctx, tx, user.ID, bonusAmount); err != nil {
				return fmt.Errorf("奖金入账失败: %w", err)
			}
			bonus := &model.Transaction{
				TransactionNo: idgen.GenerateTransactionNo(),
				Amount:        bonusAmount,
				Type:          model.TransactionTypeBonus,
				Status:        model.TransactionStatusCompleted,
				RecipientID:   &user.ID,
				Description:   "充值奖金",
			}
			if err := s.transactionRepo.Create(ctx, tx, bonus); err != nil {
				return fmt.Errorf("记录奖金流水失败: %w", err)
			}
			if err := s.emitEvent(ctx, tx, bonus); err != nil {
				return fmt.Errorf("写入事件失败: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("充值成功: userID=%d, amount=%s", user.ID, amount.String())
	return deposit, nil
}

// Withdraw 提现申请
// 只做校验和记账：生成 PENDING 流水，余额保持不变，
// 实际扣款在管理员审批（ApproveWithdrawal）时执行，保证只扣一次
func (s *LedgerService) Withdraw(ctx context.Context, userID int64, rawAmount string) (*model.Transaction, error) {
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return nil, err
	}
	if amount.LessThan(s.cfg.Business.MinWithdraw) {
		return nil, apperr.Validation(fmt.Sprintf("最低提现金额为 %s", s.cfg.Business.MinWithdraw.String()))
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound("用户不存在")
		}
		return nil, err
	}
	if amount.GreaterThan(user.Balance) {
		return nil, apperr.InsufficientFunds("余额不足")
	}

	unlock, err := s.lockUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	withdrawal := &model.Transaction{
		TransactionNo: idgen.GenerateTransactionNo(),
		Amount:        amount,
		Type:          model.TransactionTypeWithdrawal,
		Status:        model.TransactionStatusPending,
		SenderID:      &user.ID,
		Description:   "提现申请已提交，等待审批",
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.transactionRepo.Create(ctx, tx, withdrawal); err != nil {
			return fmt.Errorf("记录流水失败: %w", err)
		}
		if err := s.emitEvent(ctx, tx, withdrawal); err != nil {
			return fmt.Errorf("写入事件失败: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.SendWithdrawRequest(ctx, user, amount)

	log.Printf("提现申请成功: userID=%d, amount=%s, transactionNo=%s", user.ID, amount.String(), withdrawal.TransactionNo)
	return withdrawal, nil
}

// ApproveWithdrawal 管理员审批提现，唯一的实际扣款点
// 余额不足：流水转 FAILED，余额不变；否则流水转 COMPLETED 并扣款，
// 扣款与状态迁移在同一事务内
func (s *LedgerService) ApproveWithdrawal(ctx context.Context, transactionID int64, targetEmail, rawAmount string) error {
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return err
	}

	trans, err := s.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return apperr.NotFound("交易不存在")
		}
		return err
	}
	if trans.Type != model.TransactionTypeWithdrawal {
		return apperr.Validation("该交易不是提现申请")
	}

	target, err := s.userRepo.GetByEmail(ctx, targetEmail)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.NotFound("用户不存在")
		}
		return err
	}

	unlock, err := s.lockUser(ctx, target.ID)
	if err != nil {
		return err
	}
	defer unlock()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.transactionRepo.UpdateStatus(ctx, tx, trans.ID,
			model.TransactionStatusPending, model.TransactionStatusCompleted); err != nil {
			return err
		}
		if err := s.userRepo.DeductBalance(ctx, tx, target.ID, amount); err != nil {
			return err
		}
		trans.Status = model.TransactionStatusCompleted
		if err := s.emitEvent(ctx, tx, trans); err != nil {
			return fmt.Errorf("写入事件失败: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrBalanceNotEnough) {
			// 余额不足：整个事务回滚后单独把流水标记为 FAILED
			if markErr := s.transactionRepo.UpdateStatus(ctx, nil, trans.ID,
				model.TransactionStatusPending, model.TransactionStatusFailed); markErr != nil {
				log.Printf("标记提现失败状态出错: transactionID=%d, err=%v", trans.ID, markErr)
			}
			return apperr.InsufficientFunds("审批失败，目标用户余额不足")
		}
		if errors.Is(err, repository.ErrTransactionStatusInvalid) {
			return apperr.Validation("交易已处理，不能重复审批")
		}
		return err
	}

	s.notifier.SendWithdrawApproved(ctx, target, amount)

	log.Printf("提现审批通过: transactionID=%d, userID=%d, amount=%s", trans.ID, target.ID, amount.String())
	return nil
}

// AwardBonus 奖金发放
// 抽奖次数同步减一，最低减到零
func (s *LedgerService) AwardBonus(ctx context.Context, userID int64, rawAmount string) (*model.Transaction, error) {
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound("用户不存在")
		}
		return nil, err
	}

	unlock, err := s.lockUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	bonus := &model.Transaction{
		TransactionNo: idgen.GenerateTransactionNo(),
		Amount:        amount,
		Type:          model.TransactionTypeBonus,
		Status:        model.TransactionStatusCompleted,
		RecipientID:   &user.ID,
		Description:   "奖金发放",
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.IncreaseBonus(ctx, tx, user.ID, amount); err != nil {
			return fmt.Errorf("奖金入账失败: %w", err)
		}
		if err := s.userRepo.DecrementSpins(ctx, tx, user.ID); err != nil {
			return fmt.Errorf("更新抽奖次数失败: %w", err)
		}
		if err := s.transactionRepo.Create(ctx, tx, bonus); err != nil {
			return fmt.Errorf("记录流水失败: %w", err)
		}
		if err := s.emitEvent(ctx, tx, bonus); err != nil {
			return fmt.Errorf("写入事件失败: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("奖金发放成功: userID=%d, amount=%s", user.ID, amount.String())
	return bonus, nil
}

// TransferBonus 奖金转赠
// 转出与转入在同一事务中完成，产生一条双方都引用的 TRANSFER 流水
func (s *LedgerService) TransferBonus(ctx context.Context, senderID int64, recipientEmail, rawAmount string) (*model.Transaction, error) {
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return nil, err
	}

	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound("用户不存在")
		}
		return nil, err
	}

	recipient, err := s.userRepo.GetByEmail(ctx, recipientEmail)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound("收款用户不存在")
		}
		return nil, err
	}
	if recipient.ID == sender.ID {
		return nil, apperr.Validation("不能转赠给自己")
	}
	if sender.Bonus.LessThan(amount) {
		return nil, apperr.InsufficientFunds("奖金不足")
	}

	unlock, err := s.lockUser(ctx, sender.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	transfer := &model.Transaction{
		TransactionNo: idgen.GenerateTransactionNo(),
		Amount:        amount,
		Type:          model.TransactionTypeTransfer,
		Status:        model.TransactionStatusCompleted,
		SenderID:      &sender.ID,
		RecipientID:   &recipient.ID,
		Description:   "奖金转赠",
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.DeductBonus(ctx, tx, sender.ID, amount); err != nil {
			return err
		}
		if err := s.userRepo.IncreaseBonus(ctx, tx, recipient.ID, amount); err != nil {
			return fmt.Errorf("奖金入账失败: %w", err)
		}
		if err := s.transactionRepo.Create(ctx, tx, transfer); err != nil {
			return fmt.Errorf("记录流水失败: %w", err)
		}
		if err := s.emitEvent(ctx, tx, transfer); err != nil {
			return fmt.Errorf("写入事件失败: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrBonusNotEnough) {
			return nil, apperr.InsufficientFunds("奖金不足")
		}
		return nil, err
	}

	s.notifier.SendBonusReceived(ctx, recipient, sender.Email, amount)

	log.Printf("奖金转赠成功: senderID=%d, recipientID=%d, amount=%s", sender.ID, recipient.ID, amount.String())
	return transfer, nil
}
