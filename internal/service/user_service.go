package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cryptowallet/internal/config"
	"cryptowallet/internal/model"
	"cryptowallet/internal/repository"
	"cryptowallet/pkg/apperr"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService 个人资料与 KYC
type UserService struct {
	db       *gorm.DB
	cfg      *config.Config
	userRepo *repository.UserRepository
}

func NewUserService(db *gorm.DB, cfg *config.Config) *UserService {
	return &UserService{
		db:       db,
		cfg:      cfg,
		userRepo: repository.NewUserRepository(db),
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound("用户不存在")
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfileRequest 资料更新入参，零值字段不更新
type UpdateProfileRequest struct {
	FirstName string
	LastName  string
	Username  string
	AvatarURL string
}

// UpdateProfile 更新资料
// 用户名全局唯一，占用检查排除自己
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*model.User, error) {
	if _, err := s.GetProfile(ctx, userID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}

	if req.Username != "" {
		existing, err := s.userRepo.GetByUsername(ctx, req.Username)
		if err == nil && existing.ID != userID {
			return nil, apperr.Conflict("用户名已被占用")
		}
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
		fields["username"] = req.Username
	}
	if req.FirstName != "" || req.LastName != "" {
		fields["full_name"] = strings.TrimSpace(req.FirstName + " " + req.LastName)
	}
	if req.AvatarURL != "" {
		fields["avatar"] = req.AvatarURL
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(ctx, userID, fields); err != nil {
			return nil, fmt.Errorf("更新资料失败: %w", err)
		}
	}

	return s.GetProfile(ctx, userID)
}

// UpdateKYCRequest KYC 入参，证件字段为文件外链
type UpdateKYCRequest struct {
	PhoneNumber     string
	Address         string
	IDCardURL       string
	GovernmentIDURL string
}

// UpdateKYC 提交实名材料
func (s *UserService) UpdateKYC(ctx context.Context, userID int64, req *UpdateKYCRequest) error {
	if _, err := s.GetProfile(ctx, userID); err != nil {
		return err
	}

	fields := map[string]interface{}{}
	if req.PhoneNumber != "" {
		fields["phone_number"] = req.PhoneNumber
	}
	if req.Address != "" {
		fields["address"] = req.Address
	}
	if req.IDCardURL != "" {
		fields["id_card"] = req.IDCardURL
	}
	if req.GovernmentIDURL != "" {
		fields["government_id"] = req.GovernmentIDURL
	}

	if len(fields) == 0 {
		return apperr.Validation("没有需要更新的实名信息")
	}

	if err := s.userRepo.UpdateFields(ctx, userID, fields); err != nil {
		return fmt.Errorf("更新实名信息失败: %w", err)
	}
	return nil
}

// UpdatePassword 修改密码，需先校验旧密码
func (s *UserService) UpdatePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return apperr.Unauthorized("旧密码错误")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("密码加密失败: %w", err)
	}

	if err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{
		"password": string(hashed),
	}); err != nil {
		return fmt.Errorf("更新密码失败: %w", err)
	}
	return nil
}
