package token

import (
	"testing"
	"time"

	"cryptowallet/internal/config"
	"cryptowallet/internal/model"
	"cryptowallet/pkg/apperr"
)

func newTestManager(expireHours int) *Manager {
	return NewManager(&config.JWTConfig{
		Secret:      "test-secret",
		ExpireHours: expireHours,
	})
}

func TestSessionRoundTrip(t *testing.T) {
	m := newTestManager(24)
	user := &model.User{ID: 42, Email: "alice@example.com", Role: model.RoleUser}

	tok, err := m.GenerateSession(user)
	if err != nil {
		t.Fatalf("签发令牌失败: %v", err)
	}

	claims, err := m.ParseSession(tok)
	if err != nil {
		t.Fatalf("解析令牌失败: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "alice@example.com" || claims.Role != model.RoleUser {
		t.Fatalf("令牌载荷不匹配: %+v", claims)
	}
}

func TestParseSessionRejectsTampered(t *testing.T) {
	m := newTestManager(24)
	other := NewManager(&config.JWTConfig{Secret: "another-secret", ExpireHours: 24})
	user := &model.User{ID: 1, Email: "alice@example.com", Role: model.RoleUser}

	tok, err := other.GenerateSession(user)
	if err != nil {
		t.Fatalf("签发令牌失败: %v", err)
	}

	_, err = m.ParseSession(tok)
	if apperr.KindOf(err) != apperr.KindInvalidToken {
		t.Fatalf("异签名令牌应返回令牌错误，实际 %v", err)
	}
}

func TestParseSessionRejectsExpired(t *testing.T) {
	m := newTestManager(-1)
	user := &model.User{ID: 1, Email: "alice@example.com", Role: model.RoleUser}

	tok, err := m.GenerateSession(user)
	if err != nil {
		t.Fatalf("签发令牌失败: %v", err)
	}

	_, err = m.ParseSession(tok)
	if apperr.KindOf(err) != apperr.KindInvalidToken {
		t.Fatalf("过期令牌应返回令牌错误，实际 %v", err)
	}
}

func TestEmailVerifyRoundTrip(t *testing.T) {
	m := newTestManager(24)

	tok, err := m.GenerateEmailVerify(42)
	if err != nil {
		t.Fatalf("签发验证令牌失败: %v", err)
	}

	userID, err := m.ParseEmailVerify(tok)
	if err != nil {
		t.Fatalf("解析验证令牌失败: %v", err)
	}
	if userID != 42 {
		t.Fatalf("用户ID不匹配: %d", userID)
	}
}

func TestEmailVerifyRejectsSessionToken(t *testing.T) {
	m := newTestManager(24)
	user := &model.User{ID: 42, Email: "alice@example.com", Role: model.RoleUser}

	sessionToken, err := m.GenerateSession(user)
	if err != nil {
		t.Fatalf("签发令牌失败: %v", err)
	}

	// 会话令牌没有 purpose 标记，不能当验证链接用
	_, err = m.ParseEmailVerify(sessionToken)
	if apperr.KindOf(err) != apperr.KindInvalidToken {
		t.Fatalf("会话令牌不应通过邮箱验证解析，实际 %v", err)
	}
}

func TestSessionTTL(t *testing.T) {
	m := newTestManager(24)
	user := &model.User{ID: 1, Email: "alice@example.com", Role: model.RoleUser}

	tok, err := m.GenerateSession(user)
	if err != nil {
		t.Fatalf("签发令牌失败: %v", err)
	}
	claims, err := m.ParseSession(tok)
	if err != nil {
		t.Fatalf("解析令牌失败: %v", err)
	}

	ttl := m.SessionTTL(claims)
	if ttl <= 0 || ttl > 24*time.Hour {
		t.Fatalf("剩余有效期应在 (0, 24h] 区间，实际 %v", ttl)
	}
}
