package token

import (
	"time"

	"cryptowallet/internal/config"
	"cryptowallet/internal/model"
	"cryptowallet/pkg/apperr"

	"github.com/golang-jwt/jwt/v5"
)

const purposeVerifyEmail = "verify_email"

// Claims 会话令牌载荷，携带 {id, email, role}
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// EmailClaims 邮箱验证令牌载荷
// 与会话令牌分开，purpose 字段防止两种令牌互换使用
type EmailClaims struct {
	UserID  int64  `json:"user_id"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// Manager 令牌签发与校验
type Manager struct {
	secret []byte
	expire time.Duration
}

// NewManager 创建令牌管理器
func NewManager(cfg *config.JWTConfig) *Manager {
	return &Manager{
		secret: []byte(cfg.Secret),
		expire: time.Duration(cfg.ExpireHours) * time.Hour,
	}
}

// GenerateSession 签发会话令牌，24 小时有效，无刷新机制
func (m *Manager) GenerateSession(user *model.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expire)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ParseSession 校验会话令牌
func (m *Manager) ParseSession(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, apperr.Wrap(apperr.KindInvalidToken, "令牌无效或已过期", err)
	}
	return claims, nil
}

// GenerateEmailVerify 签发邮箱验证令牌
func (m *Manager) GenerateEmailVerify(userID int64) (string, error) {
	now := time.Now()
	claims := EmailClaims{
		UserID:  userID,
		Purpose: purposeVerifyEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ParseEmailVerify 校验邮箱验证令牌
func (m *Manager) ParseEmailVerify(tokenString string) (int64, error) {
	claims := &EmailClaims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil || !tok.Valid || claims.Purpose != purposeVerifyEmail {
		return 0, apperr.Wrap(apperr.KindInvalidToken, "验证链接无效或已过期", err)
	}
	return claims.UserID, nil
}

// SessionTTL 返回令牌剩余有效期，用于注销时的黑名单过期时间
func (m *Manager) SessionTTL(claims *Claims) time.Duration {
	if claims.ExpiresAt == nil {
		return m.expire
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 0 {
		return 0
	}
	return ttl
}
