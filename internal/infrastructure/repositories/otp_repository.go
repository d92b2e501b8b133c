package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Mirxonjon/charge-one-backend/domain"
)

// OtpRepositoryImpl implements domain.OtpRepository using GORM
type OtpRepositoryImpl struct {
	db *gorm.DB
}

// DBOtpCode represents the database model for OtpCode
type DBOtpCode struct {
	ID        uint   `gorm:"primaryKey"`
	Phone     string `gorm:"index;size:32"`
	UserID    *uint  `gorm:"index"`
	Code      string `gorm:"size:16"`
	ExpiresAt time.Time
	IsUsed    bool `gorm:"index"`
	Attempts  int
	CreatedAt time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBOtpCode) TableName() string {
	return "otp_codes"
}

// NewOtpRepository creates a new OTP repository
func NewOtpRepository(db *gorm.DB) domain.OtpRepository {
	return &OtpRepositoryImpl{db: db}
}

// Create implements domain.OtpRepository
func (r *OtpRepositoryImpl) Create(ctx context.Context, otp *domain.OtpCode) error {
	dbOtp := &DBOtpCode{
		Phone:     otp.Phone,
		UserID:    otp.UserID,
		Code:      otp.Code,
		ExpiresAt: otp.ExpiresAt,
		IsUsed:    otp.IsUsed,
		Attempts:  otp.Attempts,
	}
	if err := r.db.WithContext(ctx).Create(dbOtp).Error; err != nil {
		return err
	}
	otp.ID = dbOtp.ID
	otp.CreatedAt = dbOtp.CreatedAt
	return nil
}

// FindLatest implements domain.OtpRepository
func (r *OtpRepositoryImpl) FindLatest(ctx context.Context, phone string) (*domain.OtpCode, error) {
	var dbOtp DBOtpCode
	err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		Order("created_at DESC").
		First(&dbOtp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOTPInvalid
		}
		return nil, err
	}
	return otpToDomain(&dbOtp), nil
}

// FindUsable implements domain.OtpRepository
func (r *OtpRepositoryImpl) FindUsable(ctx context.Context, phone string) (*domain.OtpCode, error) {
	var dbOtp DBOtpCode
	err := r.db.WithContext(ctx).
		Where("phone = ? AND is_used = ? AND expires_at >= ?", phone, false, time.Now()).
		Order("created_at DESC").
		First(&dbOtp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOTPInvalid
		}
		return nil, err
	}
	return otpToDomain(&dbOtp), nil
}

// IncrementAttempts implements domain.OtpRepository
func (r *OtpRepositoryImpl) IncrementAttempts(ctx context.Context, id uint) (int, error) {
	err := r.db.WithContext(ctx).Model(&DBOtpCode{}).
		Where("id = ?", id).
		Update("attempts", gorm.Expr("attempts + 1")).Error
	if err != nil {
		return 0, err
	}

	var dbOtp DBOtpCode
	if err := r.db.WithContext(ctx).Select("attempts").Where("id = ?", id).First(&dbOtp).Error; err != nil {
		return 0, err
	}
	return dbOtp.Attempts, nil
}

// MarkUsed implements domain.OtpRepository
func (r *OtpRepositoryImpl) MarkUsed(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&DBOtpCode{}).Where("id = ?", id).Update("is_used", true).Error
}

// InvalidateOthers implements domain.OtpRepository
func (r *OtpRepositoryImpl) InvalidateOthers(ctx context.Context, phone string, exceptID uint) error {
	return r.db.WithContext(ctx).Model(&DBOtpCode{}).
		Where("phone = ? AND id <> ? AND is_used = ?", phone, exceptID, false).
		Update("is_used", true).Error
}

func otpToDomain(dbOtp *DBOtpCode) *domain.OtpCode {
	return &domain.OtpCode{
		ID:        dbOtp.ID,
		Phone:     dbOtp.Phone,
		UserID:    dbOtp.UserID,
		Code:      dbOtp.Code,
		ExpiresAt: dbOtp.ExpiresAt,
		IsUsed:    dbOtp.IsUsed,
		Attempts:  dbOtp.Attempts,
		CreatedAt: dbOtp.CreatedAt,
	}
}
