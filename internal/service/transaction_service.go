package service

import (
	"context"
	"errors"

	"cryptowallet/internal/config"
	"cryptowallet/internal/model"
	"cryptowallet/internal/repository"
	"cryptowallet/pkg/apperr"
	"cryptowallet/pkg/idgen"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionService 流水查询与手工记账
// 余额变动类操作走 LedgerService，这里只负责查询和不动账的流水登记
type TransactionService struct {
	db              *gorm.DB
	cfg             *config.Config
	transactionRepo *repository.TransactionRepository
	userRepo        *repository.UserRepository
}

func NewTransactionService(db *gorm.DB, cfg *config.Config) *TransactionService {
	return &TransactionService{
		db:              db,
		cfg:             cfg,
		transactionRepo: repository.NewTransactionRepository(db),
		userRepo:        repository.NewUserRepository(db),
	}
}

// Create 登记一条流水，不触碰余额
// 初始状态由流水类型决定：提现 PENDING，其余 COMPLETED
func (s *TransactionService) Create(ctx context.Context, userID int64, txType, rawAmount, description string) (*model.Transaction, error) {
	if !model.ValidTransactionType(txType) {
		return nil, apperr.Validation("无效的交易类型")
	}
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return nil, apperr.Validation("金额格式错误")
	}
	if !amount.IsPositive() {
		return nil, apperr.Validation("金额必须大于0")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound("用户不存在")
		}
		return nil, err
	}

	trans := &model.Transaction{
		TransactionNo: idgen.GenerateTransactionNo(),
		Amount:        amount,
		Type:          txType,
		Status:        model.InitialStatus(txType),
		Description:   description,
	}
	// 提现是出账，其余都是入账
	if txType == model.TransactionTypeWithdrawal {
		trans.SenderID = &user.ID
	} else {
		trans.RecipientID = &user.ID
	}

	if err := s.transactionRepo.Create(ctx, nil, trans); err != nil {
		return nil, err
	}
	return trans, nil
}

func (s *TransactionService) GetByID(ctx context.Context, id int64) (*model.Transaction, error) {
	trans, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, apperr.NotFound("交易不存在")
		}
		return nil, err
	}
	return trans, nil
}

// ListOwn 查询当前用户相关的流水，出账入账都包含
func (s *TransactionService) ListOwn(ctx context.Context, userID int64, page, pageSize int) ([]*model.Transaction, int64, error) {
	return s.transactionRepo.ListByUser(ctx, userID, page, pageSize)
}

// ListAll 管理员查询全量流水
func (s *TransactionService) ListAll(ctx context.Context, page, pageSize int) ([]*model.Transaction, int64, error) {
	return s.transactionRepo.ListAll(ctx, page, pageSize)
}
