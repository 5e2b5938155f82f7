package service

import (
	"context"
	"testing"

	"cryptowallet/internal/model"
	"cryptowallet/pkg/apperr"
)

func TestCreateTicket(t *testing.T) {
	db := newTestDB(t)
	svc := NewSupportService(db, testConfig())
	user := createUser(t, db, "alice@example.com", "0", "0")

	ticket, err := svc.Create(context.Background(), user.ID, "充值未到账", "昨天充值了100还没到账")
	if err != nil {
		t.Fatalf("创建工单失败: %v", err)
	}
	if ticket.Status != model.SupportStatusInProgress {
		t.Fatalf("新工单状态应为 INPROGRESS，实际 %s", ticket.Status)
	}

	// 管理员收到通知邮件
	var count int64
	db.Model(&model.EmailMessage{}).Count(&count)
	if count != 1 {
		t.Fatalf("创建工单应通知管理员，待发邮件 %d 封", count)
	}
}

func TestUpdateTicketOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewSupportService(db, testConfig())
	owner := createUser(t, db, "alice@example.com", "0", "0")
	other := createUser(t, db, "bob@example.com", "0", "0")
	ctx := context.Background()

	ticket, err := svc.Create(ctx, owner.ID, "问题", "描述")
	if err != nil {
		t.Fatalf("创建工单失败: %v", err)
	}

	// 非本人不能操作
	err = svc.Update(ctx, other.ID, false, ticket.ID, &UpdateRequest{ReplyMessage: "插话"})
	if apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Fatalf("非本人更新工单应返回未授权错误，实际 %v", err)
	}

	// 本人只能追加回复
	if err := svc.Update(ctx, owner.ID, false, ticket.ID, &UpdateRequest{ReplyMessage: "补充信息"}); err != nil {
		t.Fatalf("本人回复失败: %v", err)
	}
	err = svc.Update(ctx, owner.ID, false, ticket.ID, &UpdateRequest{Status: model.SupportStatusResolved})
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("本人改状态应返回禁止错误，实际 %v", err)
	}

	// 管理员可以改状态
	if err := svc.Update(ctx, other.ID, true, ticket.ID, &UpdateRequest{Status: model.SupportStatusResolved}); err != nil {
		t.Fatalf("管理员更新状态失败: %v", err)
	}
	var got model.SupportTicket
	db.First(&got, ticket.ID)
	if got.Status != model.SupportStatusResolved {
		t.Fatalf("工单状态未更新，实际 %s", got.Status)
	}
	if got.ReplyMessage != "补充信息" {
		t.Fatalf("回复内容未保存")
	}
}

func TestUpdateTicketInvalidStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewSupportService(db, testConfig())
	owner := createUser(t, db, "alice@example.com", "0", "0")
	ctx := context.Background()

	ticket, err := svc.Create(ctx, owner.ID, "问题", "描述")
	if err != nil {
		t.Fatalf("创建工单失败: %v", err)
	}

	err = svc.Update(ctx, owner.ID, true, ticket.ID, &UpdateRequest{Status: "WHATEVER"})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("非法状态应返回参数错误，实际 %v", err)
	}
}

func TestListTickets(t *testing.T) {
	db := newTestDB(t)
	svc := NewSupportService(db, testConfig())
	alice := createUser(t, db, "alice@example.com", "0", "0")
	bob := createUser(t, db, "bob@example.com", "0", "0")
	ctx := context.Background()

	if _, err := svc.Create(ctx, alice.ID, "A1", ""); err != nil {
		t.Fatalf("创建工单失败: %v", err)
	}
	if _, err := svc.Create(ctx, alice.ID, "A2", ""); err != nil {
		t.Fatalf("创建工单失败: %v", err)
	}
	if _, err := svc.Create(ctx, bob.ID, "B1", ""); err != nil {
		t.Fatalf("创建工单失败: %v", err)
	}

	own, err := svc.ListOwn(ctx, alice.ID)
	if err != nil {
		t.Fatalf("查询自己的工单失败: %v", err)
	}
	if len(own) != 2 {
		t.Fatalf("alice 应有 2 条工单，实际 %d", len(own))
	}

	all, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("查询全部工单失败: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("全部工单应有 3 条，实际 %d", len(all))
	}
}

func TestDeleteTicket(t *testing.T) {
	db := newTestDB(t)
	svc := NewSupportService(db, testConfig())
	owner := createUser(t, db, "alice@example.com", "0", "0")
	other := createUser(t, db, "bob@example.com", "0", "0")
	ctx := context.Background()

	ticket, err := svc.Create(ctx, owner.ID, "问题", "描述")
	if err != nil {
		t.Fatalf("创建工单失败: %v", err)
	}

	err = svc.Delete(ctx, other.ID, false, ticket.ID)
	if apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Fatalf("非本人删除应返回未授权错误，实际 %v", err)
	}

	if err := svc.Delete(ctx, owner.ID, false, ticket.ID); err != nil {
		t.Fatalf("本人删除失败: %v", err)
	}

	err = svc.Delete(ctx, owner.ID, false, ticket.ID)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("已删除的工单应返回不存在错误，实际 %v", err)
	}
}
