package service

import (
	"context"
	"testing"

	"cryptowallet/pkg/apperr"

	"golang.org/x/crypto/bcrypt"
)

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testConfig())
	user := createUser(t, db, "alice@example.com", "0", "0")
	ctx := context.Background()

	got, err := svc.UpdateProfile(ctx, user.ID, &UpdateProfileRequest{
		FirstName: "San",
		LastName:  "Zhang",
		Username:  "zhangsan",
	})
	if err != nil {
		t.Fatalf("更新资料失败: %v", err)
	}
	if got.FullName != "San Zhang" {
		t.Fatalf("姓名拼接错误: %s", got.FullName)
	}
	if got.Username == nil || *got.Username != "zhangsan" {
		t.Fatalf("用户名未更新")
	}
}

func TestUpdateProfileUsernameConflict(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testConfig())
	alice := createUser(t, db, "alice@example.com", "0", "0")
	bob := createUser(t, db, "bob@example.com", "0", "0")
	ctx := context.Background()

	if _, err := svc.UpdateProfile(ctx, alice.ID, &UpdateProfileRequest{Username: "taken"}); err != nil {
		t.Fatalf("更新资料失败: %v", err)
	}

	_, err := svc.UpdateProfile(ctx, bob.ID, &UpdateProfileRequest{Username: "taken"})
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("占用的用户名应返回冲突错误，实际 %v", err)
	}

	// 自己改回同名不算冲突
	if _, err := svc.UpdateProfile(ctx, alice.ID, &UpdateProfileRequest{Username: "taken"}); err != nil {
		t.Fatalf("保留自己的用户名不应报错: %v", err)
	}
}

func TestUpdateKYC(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testConfig())
	user := createUser(t, db, "alice@example.com", "0", "0")
	ctx := context.Background()

	err := svc.UpdateKYC(ctx, user.ID, &UpdateKYCRequest{
		PhoneNumber: "13800000000",
		Address:     "某市某区某街道",
		IDCardURL:   "http://localhost:8080/assets/idcard.png",
	})
	if err != nil {
		t.Fatalf("提交实名材料失败: %v", err)
	}

	got := reloadUser(t, db, user.ID)
	if got.PhoneNumber != "13800000000" || got.IDCard == "" {
		t.Fatalf("实名字段未更新")
	}

	// 空提交拒绝
	err = svc.UpdateKYC(ctx, user.ID, &UpdateKYCRequest{})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("空实名材料应返回参数错误，实际 %v", err)
	}
}

func TestUpdatePassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testConfig())
	user := createUser(t, db, "alice@example.com", "0", "0")
	ctx := context.Background()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("oldpass123"), bcrypt.DefaultCost)
	if err := db.Model(user).Update("password", string(hashed)).Error; err != nil {
		t.Fatalf("设置密码失败: %v", err)
	}

	if err := svc.UpdatePassword(ctx, user.ID, "wrong", "newpass456"); apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Fatalf("旧密码错误应返回未授权错误，实际 %v", err)
	}

	if err := svc.UpdatePassword(ctx, user.ID, "oldpass123", "newpass456"); err != nil {
		t.Fatalf("修改密码失败: %v", err)
	}

	got := reloadUser(t, db, user.ID)
	if bcrypt.CompareHashAndPassword([]byte(got.Password), []byte("newpass456")) != nil {
		t.Fatalf("新密码未生效")
	}
}
