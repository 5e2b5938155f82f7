package model

import (
	"time"
)

// EmailMessage 待发送邮件表
// 邮件发送绝不阻塞主流程：业务只负责入库，由后台任务异步投递
// 投递失败只记日志和重试次数，不回传给调用方
type EmailMessage struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Recipient  string    `gorm:"type:varchar(128);not null" json:"recipient"`
	Subject    string    `gorm:"type:varchar(256);not null" json:"subject"`
	Body       string    `gorm:"type:text;not null" json:"body"` // HTML 正文
	Status     string    `gorm:"type:varchar(20);index;not null;default:PENDING" json:"status"`
	RetryCount int       `gorm:"not null;default:0" json:"retry_count"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (EmailMessage) TableName() string {
	return "email_message"
}
