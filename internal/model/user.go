package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

const (
	UserStatusActive    = "ACTIVE"
	UserStatusInactive  = "INACTIVE"
	UserStatusSuspended = "SUSPENDED"
	UserStatusFreeze    = "FREEZE"
)

const (
	VerifyUnverified = "UNVERIFIED"
	VerifyVerified   = "VERIFIED"
	VerifyRejected   = "REJECTED"
)

// User 用户表
// 余额和奖金使用 decimal 精确存储，任何浮点舍入都不可接受
type User struct {
	ID               int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Email            string          `gorm:"type:varchar(128);uniqueIndex;not null" json:"email"` // 统一小写存储
	Username         *string         `gorm:"type:varchar(32);uniqueIndex" json:"username"`        // 可选，唯一
	Password         string          `gorm:"type:varchar(128);not null" json:"-"`                 // bcrypt 哈希
	FullName         string          `gorm:"type:varchar(100)" json:"full_name"`
	Avatar           string          `gorm:"type:varchar(256)" json:"avatar"`
	Role             string          `gorm:"type:varchar(10);not null;default:USER" json:"role"`
	Status           string          `gorm:"type:varchar(10);index;not null;default:INACTIVE" json:"status"`
	Verify           string          `gorm:"type:varchar(10);not null;default:UNVERIFIED" json:"verify"`
	Balance          decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"balance"` // 主余额，非负
	Bonus            decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"bonus"`   // 奖金余额，非负
	AvailableSpins   int             `gorm:"not null;default:0" json:"available_spins"`
	PhoneNumber      string          `gorm:"type:varchar(20)" json:"phone_number"`
	Address          string          `gorm:"type:varchar(256)" json:"address"`
	IDCard           string          `gorm:"type:varchar(256)" json:"id_card"`       // KYC 证件照路径
	GovernmentID     string          `gorm:"type:varchar(256)" json:"government_id"` // KYC 政府证件路径
	ResetToken       *string         `gorm:"type:varchar(64);index" json:"-"`        // 与过期时间同设同清
	ResetTokenExpiry *time.Time      `json:"-"`
	EmailVerified    bool            `gorm:"not null;default:false" json:"email_verified"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}

// IsAdmin 判断是否管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
