package mail

import (
	"fmt"
	"net/smtp"

	"cryptowallet/internal/config"
)

// Sender 邮件发送接口，便于测试替换
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender 标准 SMTP 发送实现
type SMTPSender struct {
	addr string
	auth smtp.Auth
	from string
}

// NewSMTPSender 创建 SMTP 发送器
func NewSMTPSender(cfg *config.SMTPConfig) *SMTPSender {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPSender{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth: auth,
		from: cfg.From,
	}
}

// Send 发送 HTML 邮件
func (s *SMTPSender) Send(to, subject, body string) error {
	msg := []byte("From: " + s.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	return smtp.SendMail(s.addr, s.auth, s.from, []string{to}, msg)
}
