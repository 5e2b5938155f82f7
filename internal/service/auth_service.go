package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"cryptowallet/internal/config"
	"cryptowallet/internal/model"
	"cryptowallet/internal/repository"
	"cryptowallet/internal/token"
	"cryptowallet/pkg/apperr"

	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	resetTokenBytes  = 32               // 256 位随机令牌
	resetTokenExpiry = 30 * time.Minute //
	blacklistPrefix  = "auth:blacklist:"
)

// AuthService 注册、登录与凭证管理
type AuthService struct {
	db          *gorm.DB
	redisClient *redis.Client
	cfg         *config.Config
	userRepo    *repository.UserRepository
	tokens      *token.Manager
	notifier    *Notifier
}

func NewAuthService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *AuthService {
	return &AuthService{
		db:          db,
		redisClient: redisClient,
		cfg:         cfg,
		userRepo:    repository.NewUserRepository(db),
		tokens:      token.NewManager(&cfg.JWT),
		notifier:    NewNotifier(db, cfg),
	}
}

// Register 用户注册
// 邮箱与配置的管理员邮箱一致时直接建为管理员（已激活、已实名），
// 普通用户默认未激活、未实名
func (s *AuthService) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(email)

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict("邮箱已被注册")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}

	user := &model.User{
		Email:    email,
		Password: string(hashed),
		Avatar:   s.cfg.Server.BaseURL + "/assets/default-avatar.png",
		Role:     model.RoleUser,
		Status:   model.UserStatusInactive,
		Verify:   model.VerifyUnverified,
	}
	if email == strings.ToLower(s.cfg.Business.AdminEmail) {
		user.Role = model.RoleAdmin
		user.Status = model.UserStatusActive
		user.Verify = model.VerifyVerified
		user.EmailVerified = true
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// 并发注册撞上唯一索引
		if strings.Contains(err.Error(), "Duplicate") || strings.Contains(err.Error(), "UNIQUE") {
			return nil, apperr.Conflict("邮箱已被注册")
		}
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}

	s.notifier.SendWelcome(ctx, user)
	s.notifier.SendAdminNewSignup(ctx, user.Email)
	s.sendVerificationEmail(ctx, user)

	log.Printf("用户注册成功: email=%s, role=%s", user.Email, user.Role)
	return user, nil
}

func (s *AuthService) sendVerificationEmail(ctx context.Context, user *model.User) {
	if user.EmailVerified {
		return
	}
	verifyToken, err := s.tokens.GenerateEmailVerify(user.ID)
	if err != nil {
		log.Printf("签发邮箱验证令牌失败: userID=%d, err=%v", user.ID, err)
		return
	}
	verifyURL := fmt.Sprintf("%s/account/verify-email?token=%s", s.cfg.Business.FrontendURL, verifyToken)
	s.notifier.SendEmailVerification(ctx, user, verifyURL)
}

// Login 登录
// 失败分三类：用户不存在、账号停用、密码错误；
// 开启邮箱验证强制时，未验证用户会重发验证邮件并拒绝登录
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, apperr.NotFound("用户不存在")
		}
		return "", nil, err
	}

	if user.Status == model.UserStatusSuspended {
		return "", nil, apperr.Forbidden("账号已被停用")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, apperr.Unauthorized("密码错误")
	}

	if s.cfg.Business.RequireEmailVerify && !user.EmailVerified {
		s.sendVerificationEmail(ctx, user)
		return "", nil, apperr.Forbidden("邮箱未验证，验证邮件已重新发送")
	}

	sessionToken, err := s.tokens.GenerateSession(user)
	if err != nil {
		return "", nil, fmt.Errorf("签发令牌失败: %w", err)
	}

	return sessionToken, user, nil
}

// Logout 注销：令牌加入黑名单直至自然过期
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	claims, err := s.tokens.ParseSession(rawToken)
	if err != nil {
		return err
	}
	if s.redisClient == nil {
		return nil
	}
	ttl := s.tokens.SessionTTL(claims)
	if ttl <= 0 {
		return nil
	}
	if err := s.redisClient.Set(ctx, blacklistPrefix+rawToken, "1", ttl).Err(); err != nil {
		return fmt.Errorf("令牌加入黑名单失败: %w", err)
	}
	return nil
}

// IsTokenBlacklisted 检查令牌是否已注销
func (s *AuthService) IsTokenBlacklisted(ctx context.Context, rawToken string) bool {
	if s.redisClient == nil {
		return false
	}
	n, err := s.redisClient.Exists(ctx, blacklistPrefix+rawToken).Result()
	if err != nil {
		// Redis 异常时放行，由令牌本身的签名和有效期兜底
		log.Printf("查询令牌黑名单失败: %v", err)
		return false
	}
	return n > 0
}

// ForgotPassword 发起密码重置
// 重置链接只通过邮件下发，接口响应不回显
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.NotFound("邮箱未注册")
		}
		return err
	}

	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("生成重置令牌失败: %w", err)
	}
	resetToken := hex.EncodeToString(buf)
	expiry := time.Now().Add(resetTokenExpiry)

	if err := s.userRepo.SetResetToken(ctx, user.ID, resetToken, expiry); err != nil {
		return fmt.Errorf("保存重置令牌失败: %w", err)
	}

	resetURL := fmt.Sprintf("%s/account/reset-password?token=%s", s.cfg.Business.FrontendURL, resetToken)
	s.notifier.SendPasswordReset(ctx, user, resetURL)

	return nil
}

// ResetPassword 完成密码重置
// 令牌一次性使用：重置成功即清除，再次使用同一令牌会失败
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	user, err := s.userRepo.GetByResetToken(ctx, resetToken)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.InvalidToken("重置令牌无效或已过期")
		}
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("密码加密失败: %w", err)
	}

	if err := s.userRepo.ResetPassword(ctx, user.ID, string(hashed)); err != nil {
		return fmt.Errorf("重置密码失败: %w", err)
	}

	log.Printf("密码重置成功: userID=%d", user.ID)
	return nil
}

// VerifySession 校验会话令牌并返回对应用户
func (s *AuthService) VerifySession(ctx context.Context, rawToken string) (*model.User, error) {
	if s.IsTokenBlacklisted(ctx, rawToken) {
		return nil, apperr.InvalidToken("令牌已注销")
	}
	claims, err := s.tokens.ParseSession(rawToken)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound("用户不存在")
		}
		return nil, err
	}
	return user, nil
}

// VerifyEmail 完成邮箱验证
func (s *AuthService) VerifyEmail(ctx context.Context, rawToken string) error {
	userID, err := s.tokens.ParseEmailVerify(rawToken)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{
		"email_verified": true,
	}); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.NotFound("用户不存在")
		}
		return err
	}
	return nil
}

// Tokens 暴露令牌管理器给中间件使用
func (s *AuthService) Tokens() *token.Manager {
	return s.tokens
}
