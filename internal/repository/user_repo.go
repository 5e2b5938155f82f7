package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"cryptowallet/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrBalanceNotEnough = errors.New("余额不足")
	ErrBonusNotEnough   = errors.New("奖金不足")
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	user.Email = strings.ToLower(user.Email)
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail 按邮箱查找，邮箱不区分大小写
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByResetToken 按有效期内的重置令牌查找
func (r *UserRepository) GetByResetToken(ctx context.Context, token string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("reset_token = ? AND reset_token_expiry > ?", token, time.Now()).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context, page, pageSize int) ([]*model.User, int64, error) {
	var users []*model.User
	var total int64

	query := r.db.WithContext(ctx).Model(&model.User{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error

	return users, total, err
}

// UpdateFields 更新指定字段
func (r *UserRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetResetToken 写入重置令牌，令牌与过期时间成对设置
func (r *UserRepository) SetResetToken(ctx context.Context, id int64, tok string, expiry time.Time) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{
		"reset_token":        tok,
		"reset_token_expiry": expiry,
	})
}

// ResetPassword 更新密码并清除重置令牌，保证令牌一次性使用
func (r *UserRepository) ResetPassword(ctx context.Context, id int64, hashedPassword string) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{
		"password":           hashedPassword,
		"reset_token":        nil,
		"reset_token_expiry": nil,
	})
}

// ClearExpiredResetTokens 清理已过期的重置令牌
func (r *UserRepository) ClearExpiredResetTokens(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("reset_token IS NOT NULL AND reset_token_expiry < ?", time.Now()).
		Updates(map[string]interface{}{
			"reset_token":        nil,
			"reset_token_expiry": nil,
		})
	return result.RowsAffected, result.Error
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ============================================================
// 账本字段的原子增减
// 一律用 balance = balance + ? 形式的增量更新，避免读-改-写丢失更新
// ============================================================

// IncreaseBalance 余额入账
func (r *UserRepository) IncreaseBalance(ctx context.Context, tx *gorm.DB, userID int64, amount decimal.Decimal) error {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeductBalance 余额出账，条件更新保证不会扣成负数
func (r *UserRepository) DeductBalance(ctx context.Context, tx *gorm.DB, userID int64, amount decimal.Decimal) error {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ? AND balance >= ?", userID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// 区分用户不存在和余额不足，查询走同一事务句柄
		var count int64
		if err := tx.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrUserNotFound
		}
		return ErrBalanceNotEnough
	}
	return nil
}

// IncreaseBonus 奖金入账
func (r *UserRepository) IncreaseBonus(ctx context.Context, tx *gorm.DB, userID int64, amount decimal.Decimal) error {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Update("bonus", gorm.Expr("bonus + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeductBonus 奖金出账，条件更新保证不会扣成负数
func (r *UserRepository) DeductBonus(ctx context.Context, tx *gorm.DB, userID int64, amount decimal.Decimal) error {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ? AND bonus >= ?", userID, amount).
		Update("bonus", gorm.Expr("bonus - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrUserNotFound
		}
		return ErrBonusNotEnough
	}
	return nil
}

// DecrementSpins 抽奖次数减一，最低为零
// 次数已为零时不报错，静默跳过
func (r *UserRepository) DecrementSpins(ctx context.Context, tx *gorm.DB, userID int64) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ? AND available_spins > 0", userID).
		Update("available_spins", gorm.Expr("available_spins - 1")).Error
}
