package repository

import (
	"context"
	"errors"

	"cryptowallet/internal/model"

	"gorm.io/gorm"
)

var ErrSupportNotFound = errors.New("工单不存在")

type SupportRepository struct {
	db *gorm.DB
}

func NewSupportRepository(db *gorm.DB) *SupportRepository {
	return &SupportRepository{db: db}
}

func (r *SupportRepository) Create(ctx context.Context, ticket *model.SupportTicket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

func (r *SupportRepository) GetByID(ctx context.Context, id int64) (*model.SupportTicket, error) {
	var ticket model.SupportTicket
	err := r.db.WithContext(ctx).Preload("User").First(&ticket, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupportNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *SupportRepository) ListByUser(ctx context.Context, userID int64) ([]*model.SupportTicket, error) {
	var tickets []*model.SupportTicket
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tickets).Error
	return tickets, err
}

func (r *SupportRepository) ListAll(ctx context.Context) ([]*model.SupportTicket, error) {
	var tickets []*model.SupportTicket
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Find(&tickets).Error
	return tickets, err
}

func (r *SupportRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&model.SupportTicket{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSupportNotFound
	}
	return nil
}

func (r *SupportRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&model.SupportTicket{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSupportNotFound
	}
	return nil
}
