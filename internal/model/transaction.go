package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionTypeDeposit    = "DEPOSIT"    // 充值
	TransactionTypeWithdrawal = "WITHDRAWAL" // 提现
	TransactionTypeBonus      = "BONUS"      // 奖金发放
	TransactionTypeTransfer   = "TRANSFER"   // 奖金转赠
)

const (
	TransactionStatusPending   = "PENDING"
	TransactionStatusCompleted = "COMPLETED"
	TransactionStatusFailed    = "FAILED"
)

// Transaction 交易流水表
//
// 【不变式】
// 1. WITHDRAWAL 创建时为 PENDING，等待管理员审批后转为 COMPLETED/FAILED
// 2. 其余类型创建时即为 COMPLETED
// 3. 记录一经终态（COMPLETED/FAILED）除状态外不再变更
type Transaction struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionNo string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"transaction_no"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount"` // 始终为正
	Type          string          `gorm:"type:varchar(20);index;not null" json:"type"`
	Status        string          `gorm:"type:varchar(20);index;not null" json:"status"`
	SenderID      *int64          `gorm:"index" json:"sender_id"`    // 出账方，可空
	RecipientID   *int64          `gorm:"index" json:"recipient_id"` // 入账方，可空
	Description   string          `gorm:"type:varchar(256)" json:"description"`
	Sender        *User           `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Recipient     *User           `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Transaction) TableName() string {
	return "transaction"
}

// ValidTransactionType 校验交易类型取值
func ValidTransactionType(txType string) bool {
	switch txType {
	case TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypeBonus, TransactionTypeTransfer:
		return true
	}
	return false
}

// InitialStatus 按交易类型返回创建时的状态
func InitialStatus(txType string) string {
	if txType == TransactionTypeWithdrawal {
		return TransactionStatusPending
	}
	return TransactionStatusCompleted
}
