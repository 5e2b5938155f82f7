package service

import (
	"context"
	"testing"

	"cryptowallet/internal/model"
	"cryptowallet/pkg/apperr"
)

func TestDepositIncreasesBalance(t *testing.T) {
	db := newTestDB(t)
	svc := NewLedgerService(db, nil, testConfig())
	user := createUser(t, db, "alice@example.com", "0", "0")
	ctx := context.Background()

	trans, err := svc.Deposit(ctx, user.ID, "100")
	if err != nil {
		t.Fatalf("充值失败: %v", err)
	}
	if trans.Status != model.TransactionStatusCompleted {
		t.Fatalf("充值流水状态应为 COMPLETED，实际 %s", trans.Status)
	}

	got := reloadUser(t, db, user.ID)
	if !got.Balance.Equal(mustDecimal(t, "100")) {
		t.Fatalf("余额应为 100，实际 %s", got.Balance.String())
	}
	// 未达阈值不发奖金
	if !got.Bonus.IsZero() {
		t.Fatalf("奖金应为 0，实际 %s", got.Bonus.String())
	}
}

func TestDepositAwardsBonusAboveThreshold(t *testing.T) {
	db := newTestDB(t)
	svc := NewLedgerService(db, nil, testConfig())
	user := createUser(t, db, "alice@example.com", "0", "0")
	ctx := context.Background()

	if _, err := svc.Deposit(ctx, user.ID, "2000"); err != nil {
		t.Fatalf("充值失败: %v", err)
	}

	got := reloadUser(t, db, user.ID)
	if !got.Balance.Equal(mustDecimal(t, "2000")) {
		t.Fatalf("余额应为 2000，实际 %s", got.Balance.String())
	}
	if !got.Bonus.Equal(mustDecimal(t, "100")) {
		t.Fatalf("奖金应为 2000 的 5%% 即 100，实际 %s", got.Bonus.String())
	}

	// 充值与奖金各记一条流水
	var count int64
	db.Model(&model.Transaction{}).Where("recipient_id = ?", user.ID).Count(&count)
	if count != 2 {
		t.Fatalf("应有 2 条流水，实际 %d", count)
	}
	var bonusCount int64
	db.Model(&model.Transaction{}).
		Where("recipient_id = ? AND type = ?", user.ID, model.TransactionTypeBonus).
		Count(&bonusCount)
	if bonusCount != 1 {
		t.Fatalf("应有 1 条奖金流水，实际 %d", bonusCount)
	}
}

func TestDepositEmitsLedgerEvent(t *testing.T) {
	db := newTestDB(t)
	svc := NewLedgerService(db, nil, testConfig())
	user := createUser(t, db, "alice@example.com", "0", "0")

	if _, err := svc.Deposit(context.Background(), user.ID, "100"); err != nil {
		t.Fatalf("充值失败: %v", err)
	}

	var count int64
	db.Model(&model.OutboxMessage{}).Where("status = ?", model.OutboxStatusPending).Count(&count)
	if count != 1 {
		t.Fatalf("应写入 1 条待投递事件，实际 %d", count)
	}
}

func TestDepositRejectsInvalidAmount(t *testing.T) {
	db := newTestDB(t)
	svc := NewLedgerService(db, nil, testConfig())
	user := createUser(t, db, "alice@example.com", "0", "0")
	ctx := context.Background()

	for _, raw := range []string{"abc", "0", "-5", ""} {
		if _, err := svc.Deposit(ctx, user.ID, raw); apperr.KindOf(err) != apperr.KindValidation {
			t.Fatalf("金额 %q 应返回参数错误，实际 %v", raw, err)
		}
	}

	got := reloadUser(t, db, user.ID)
	if !got.Balance.IsZero() {
		t.Fatalf("非法充值不应改变余额，实际 %s", got.Balance.String())
	}
}

func TestWithdrawBelowMinimumRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewLedgerService(db, nil, testConfig())
	user := createUser(t, db, "alice@example.com", "5000", "0")

	_, err := svc.Withdraw(context.Background(), user.ID, "1000")
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("低于最低提现金额应返回参数错误，实际 %v", err)
	}
}

func TestWithdrawInsufficientBalance(t *testing.T) {
	db := newTestDB(t)
	svc := NewLedgerService(db, nil, testConfig())
	user := createUser(t, db, "alice@example.com", "1000", "0")

	_, err := svc.Withdraw(context.Background(), user.ID, "1500")
	if apperr.KindOf(err) != apperr.KindInsufficientFunds {
		t.Fatalf("余额不足应返回资金不足错误，实际 %v", err)
	}
}

func TestWithdrawDoesNotDebit(t *testing.T) {
	db := newTestDB(t)
	svc := NewLedgerService(db, nil, testConfig())
	user := createUser(t, db, "alice@example.com", "2000", "0")

	trans, err := svc.Withdraw(context.Background(), user.ID, "1500")
	if err != nil {
		t.Fatalf("提现申请失败: %v", err)
	}
	if trans.Status != model.TransactionStatusPending {
		t.Fatalf("提现流水应为 PENDING，实际 %s", trans.Status)
	}

	// 申请阶段不扣款
	got := reloadUser(t, db, user.ID)
	if !got.Balance.Equal(mustDecimal(t, "2000")) {
		t.Fatalf("申请后余额应保持 2000，实际 %s", got.Balance.String())
	}
}

func TestApproveWithdrawalDebitsExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewLedgerService(db, nil, testConfig())
	user := createUser(t, db, "alice@example.com", "2000", "0")
	ctx := context.Background()

	trans, err := svc.Withdraw(ctx, user.ID, "1500")
	if err != nil {
		t.Fatalf("提现申请失败: %v", err)
	}

	if err := svc.ApproveWithdrawal(ctx, trans.ID, user.Email, "1500"); err != nil {
		t.Fatalf("审批失败: %v", err)
	}

	got := reloadUser(t, db, user.ID)
	if !got.Balance.Equal(mustDecimal(t, "500")) {
		t.Fatalf("审批后余额应为 500，实际 %s", got.Balance.String())
	}

	var updated model.Transaction
	db.First(&updated, trans.ID)
	if updated.Status != model.TransactionStatusCompleted {
		t.Fatalf("审批后流水应为 COMPLETED，实际 %s", updated.Status)
	}

	// 重复审批必须失败且不再扣款
	err = svc.ApproveWithdrawal(ctx, trans.ID, user.Email, "1500")
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("重复审批应返回参数错误，实际 %v", err)
	}
	got = reloadUser(t, db, user.ID)
	if !got.Balance.Equal(mustDecimal(t, "500")) {
		t.Fatalf("重复审批不应再扣款，余额应保持 500，实际 %s", got.Balance.String())
	}
}

func TestApproveWithdrawalInsufficientMarksFailed(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	svc := NewLedgerService(db, nil, cfg)
	user := createUser(t, db, "alice@example.com", "2000", "0")
	ctx := context.Background()

	trans, err := svc.Withdraw(ctx, user.ID, "1500")
	if err != nil {
		t.Fatalf("提现申请失败: %v", err)
	}

	// 审批前余额被其他操作消耗掉
	if err := db.Model(&model.User{}).Where("id = ?", user.ID).
		Update("balance", mustDecimal(t, "1000")).Error; err != nil {
		t.Fatalf("修改余额失败: %v", err)
	}

	err = svc.ApproveWithdrawal(ctx, trans.ID, user.Email, "1500")
	if apperr.KindOf(err) != apperr.KindInsufficientFunds {
		t.Fatalf("余额不足审批应返回资金不足错误，实际 %v", err)
	}

	// 流水转 FAILED，余额保持不变
	var updated model.Transaction
	db.First(&updated, trans.ID)
	if updated.Status != model.TransactionStatusFailed {
		t.Fatalf("余额不足时流水应为 FAILED，实际 %s", updated.Status)
	}
	got := reloadUser(t, db, user.ID)
	if !got.Balance.Equal(mustDecimal(t, "1000")) {
		t.Fatalf("失败审批不应改变余额，实际 %s", got.Balance.String())
	}
}

func TestApproveWithdrawalRejectsNonWithdrawal(t *testing.T) {
	db := newTestDB(t)
	svc := NewLedgerService(db, nil, testConfig())
	user := createUser(t, db, "alice@example.com", "0", "0")
	ctx := context.Background()

	deposit, err := svc.Deposit(ctx, user.ID, "100")
	if err != nil {
		t.Fatalf("充值失败: %v", err)
	}

	err = svc.ApproveWithdrawal(ctx, deposit.ID, user.Email, "100")
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("审批非提现流水应返回参数错误，实际 %v", err)
	}
}

func TestAwardBonusDecrementsSpinsWithZeroFloor(t *testing.T) {
	db := newTestDB(t)
	svc := NewLedgerService(db, nil, testConfig())
	user := createUser(t, db, "alice@example.com", "0", "0")
	ctx := context.Background()

	if err := db.Model(&model.User{}).Where("id = ?", user.ID).
		Update("available_spins", 1).Error; err != nil {
		t.Fatalf("设置抽奖次数失败: %v", err)
	}

	if _, err := svc.AwardBonus(ctx, user.ID, "50"); err != nil {
		t.Fatalf("奖金发放失败: %v", err)
	}
	got := reloadUser(t, db, user.ID)
	if got.AvailableSpins != 0 {
		t.Fatalf("抽奖次数应减为 0，实际 %d", got.AvailableSpins)
	}

	// 次数已为 0 时继续发放，次数不会变成负数
	if _, err := svc.AwardBonus(ctx, user.ID, "50"); err != nil {
		t.Fatalf("奖金发放失败: %v", err)
	}
	got = reloadUser(t, db, user.ID)
	if got.AvailableSpins != 0 {
		t.Fatalf("抽奖次数不应为负，实际 %d", got.AvailableSpins)
	}
	if !got.Bonus.Equal(mustDecimal(t, "100")) {
		t.Fatalf("奖金应累计 100，实际 %s", got.Bonus.String())
	}
}

func TestTransferBonus(t *testing.T) {
	db := newTestDB(t)
	svc := NewLedgerService(db, nil, testConfig())
	sender := createUser(t, db, "alice@example.com", "0", "300")
	recipient := createUser(t, db, "bob@example.com", "0", "0")
	ctx := context.Background()

	trans, err := svc.TransferBonus(ctx, sender.ID, recipient.Email, "200")
	if err != nil {
		t.Fatalf("转赠失败: %v", err)
	}
	if trans.SenderID == nil || *trans.SenderID != sender.ID {
		t.Fatalf("转赠流水应记录出账方")
	}
	if trans.RecipientID == nil || *trans.RecipientID != recipient.ID {
		t.Fatalf("转赠流水应记录入账方")
	}

	gotSender := reloadUser(t, db, sender.ID)
	gotRecipient := reloadUser(t, db, recipient.ID)
	if !gotSender.Bonus.Equal(mustDecimal(t, "100")) {
		t.Fatalf("出账方奖金应为 100，实际 %s", gotSender.Bonus.String())
	}
	if !gotRecipient.Bonus.Equal(mustDecimal(t, "200")) {
		t.Fatalf("入账方奖金应为 200，实际 %s", gotRecipient.Bonus.String())
	}
}

func TestTransferBonusRejectsSelf(t *testing.T) {
	db := newTestDB(t)
	svc := NewLedgerService(db, nil, testConfig())
	sender := createUser(t, db, "alice@example.com", "0", "300")

	_, err := svc.TransferBonus(context.Background(), sender.ID, sender.Email, "100")
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("转赠给自己应返回参数错误，实际 %v", err)
	}
}

func TestTransferBonusInsufficient(t *testing.T) {
	db := newTestDB(t)
	svc := NewLedgerService(db, nil, testConfig())
	sender := createUser(t, db, "alice@example.com", "0", "50")
	recipient := createUser(t, db, "bob@example.com", "0", "0")
	ctx := context.Background()

	_, err := svc.TransferBonus(ctx, sender.ID, recipient.Email, "100")
	if apperr.KindOf(err) != apperr.KindInsufficientFunds {
		t.Fatalf("奖金不足应返回资金不足错误，实际 %v", err)
	}

	// 双方余额都不受影响
	if !reloadUser(t, db, sender.ID).Bonus.Equal(mustDecimal(t, "50")) {
		t.Fatalf("失败转赠不应改变出账方奖金")
	}
	if !reloadUser(t, db, recipient.ID).Bonus.IsZero() {
		t.Fatalf("失败转赠不应改变入账方奖金")
	}
}

func TestTransferBonusUnknownRecipient(t *testing.T) {
	db := newTestDB(t)
	svc := NewLedgerService(db, nil, testConfig())
	sender := createUser(t, db, "alice@example.com", "0", "300")

	_, err := svc.TransferBonus(context.Background(), sender.ID, "ghost@example.com", "100")
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("收款人不存在应返回不存在错误，实际 %v", err)
	}
}
