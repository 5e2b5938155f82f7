package model

import (
	"time"
)

const (
	SupportStatusInProgress = "INPROGRESS"
	SupportStatusResolved   = "RESOLVED"
	SupportStatusClosed     = "CLOSED"
)

// SupportTicket 客服工单表
// 归属于创建用户（user_id），仅本人或管理员可操作
type SupportTicket struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       int64     `gorm:"index;not null" json:"user_id"`
	Subject      string    `gorm:"type:varchar(128);not null" json:"subject"`
	Message      string    `gorm:"type:text" json:"message"`
	ReplyMessage string    `gorm:"type:text" json:"reply_message"`
	Status       string    `gorm:"type:varchar(20);index;not null;default:INPROGRESS" json:"status"`
	User         *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SupportTicket) TableName() string {
	return "support_ticket"
}
