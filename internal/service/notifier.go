package service

import (
	"context"
	"fmt"
	"log"

	"cryptowallet/internal/config"
	"cryptowallet/internal/model"
	"cryptowallet/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Notifier 邮件通知
// 所有通知都是 fire-and-forget：只把邮件写入待发送表，由后台任务投递。
// 入库失败只记日志，绝不让通知问题影响主流程的成败。
type Notifier struct {
	emailRepo *repository.EmailRepository
	cfg       *config.Config
}

func NewNotifier(db *gorm.DB, cfg *config.Config) *Notifier {
	return &Notifier{
		emailRepo: repository.NewEmailRepository(db),
		cfg:       cfg,
	}
}

func (n *Notifier) enqueue(ctx context.Context, to, subject, body string) {
	msg := &model.EmailMessage{
		Recipient: to,
		Subject:   subject,
		Body:      body,
	}
	if err := n.emailRepo.Create(ctx, nil, msg); err != nil {
		log.Printf("[Notifier] 邮件入库失败: to=%s, subject=%s, err=%v", to, subject, err)
	}
}

// SendWelcome 注册成功欢迎邮件
func (n *Notifier) SendWelcome(ctx context.Context, user *model.User) {
	n.enqueue(ctx, user.Email, "欢迎加入钱包平台",
		fmt.Sprintf("<h1>欢迎</h1><p>您好 %s，您的账户已创建成功。</p>", user.Email))
}

// SendEmailVerification 邮箱验证链接
func (n *Notifier) SendEmailVerification(ctx context.Context, user *model.User, verifyURL string) {
	n.enqueue(ctx, user.Email, "邮箱验证",
		fmt.Sprintf("<h1>邮箱验证</h1><p>请点击下方链接完成邮箱验证：</p><a href=\"%s\">验证邮箱</a>", verifyURL))
}

// SendAdminNewSignup 通知管理员有新用户注册
func (n *Notifier) SendAdminNewSignup(ctx context.Context, userEmail string) {
	n.enqueue(ctx, n.cfg.Business.AdminEmail, "新用户注册",
		fmt.Sprintf("<p>新用户注册：%s</p>", userEmail))
}

// SendPasswordReset 密码重置链接
// 链接只通过邮件下发，不出现在接口响应里
func (n *Notifier) SendPasswordReset(ctx context.Context, user *model.User, resetURL string) {
	n.enqueue(ctx, user.Email, "密码重置",
		fmt.Sprintf("<h1>密码重置</h1><p>您申请了密码重置，请点击下方链接（30 分钟内有效）：</p><a href=\"%s\">重置密码</a>", resetURL))
}

// SendWithdrawRequest 通知管理员有新的提现申请
func (n *Notifier) SendWithdrawRequest(ctx context.Context, user *model.User, amount decimal.Decimal) {
	n.enqueue(ctx, n.cfg.Business.AdminEmail, "提现申请待审批",
		fmt.Sprintf("<p>用户 %s 申请提现 %s，请及时审批。</p>", user.Email, amount.String()))
	n.enqueue(ctx, user.Email, "提现申请已提交",
		"<p>您的提现申请已提交，审批通过后到账。</p>")
}

// SendWithdrawApproved 提现审批通过
func (n *Notifier) SendWithdrawApproved(ctx context.Context, user *model.User, amount decimal.Decimal) {
	n.enqueue(ctx, user.Email, "提现已到账",
		fmt.Sprintf("<p>您的提现申请已审批通过，金额 %s。</p>", amount.String()))
}

// SendBonusReceived 奖金转入通知
func (n *Notifier) SendBonusReceived(ctx context.Context, recipient *model.User, senderEmail string, amount decimal.Decimal) {
	n.enqueue(ctx, recipient.Email, "收到奖金转赠",
		fmt.Sprintf("<p>用户 %s 向您转赠了 %s 奖金。</p>", senderEmail, amount.String()))
}

// 状态变更通知内容表
var statusMessages = map[string]string{
	model.UserStatusActive:    "您的账户已激活，可以正常使用全部功能。",
	model.UserStatusInactive:  "您的账户已被设为未激活状态。",
	model.UserStatusSuspended: "您的账户已被停用，如有疑问请联系客服。",
	model.UserStatusFreeze:    "您的账户已被冻结，资金操作暂不可用。",
}

// SendStatusChanged 账户状态变更通知，内容按状态查表
func (n *Notifier) SendStatusChanged(ctx context.Context, user *model.User, status string) {
	msg, ok := statusMessages[status]
	if !ok {
		msg = "您的账户状态已变更。"
	}
	n.enqueue(ctx, user.Email, "账户状态变更", "<p>"+msg+"</p>")
}

// SendKYCResult 实名审核结果通知
func (n *Notifier) SendKYCResult(ctx context.Context, user *model.User, approved bool) {
	if approved {
		n.enqueue(ctx, user.Email, "实名认证通过", "<p>您的实名认证已审核通过。</p>")
		return
	}
	n.enqueue(ctx, user.Email, "实名认证未通过", "<p>您的实名认证未通过审核，请检查材料后重新提交。</p>")
}

// SendTicketCreated 通知管理员有新工单
func (n *Notifier) SendTicketCreated(ctx context.Context, userEmail, subject string) {
	n.enqueue(ctx, n.cfg.Business.AdminEmail, "新客服工单",
		fmt.Sprintf("<p>用户 %s 提交了工单：%s</p>", userEmail, subject))
}
