package repository

import (
	"context"
	"errors"

	"clinical-scan-support/internal/domain/entity"
	domainRepo "clinical-scan-support/internal/domain/repository"

	"gorm.io/gorm"
)

type otpRepository struct {
	db *gorm.DB
}

func NewOTPRepository(db *gorm.DB) domainRepo.OTPRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) Create(ctx context.Context, record *entity.OTPRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *otpRepository) InvalidateByEmail(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Model(&entity.OTPRecord{}).
		Where("email = ? AND used = ?", email, false).
		Update("used", true).Error
}

func (r *otpRepository) FindActive(ctx context.Context, email, code string) (*entity.OTPRecord, error) {
	var record entity.OTPRecord
	err := r.db.WithContext(ctx).
		Where("email = ? AND code = ? AND used = ?", email, code, false).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *otpRepository) MarkUsed(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&entity.OTPRecord{}).
		Where("id = ?", id).
		Update("used", true).Error
}
