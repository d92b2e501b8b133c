package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Mirxonjon/charge-one-backend/domain"
)

// SessionRepositoryImpl implements domain.SessionRepository using GORM
type SessionRepositoryImpl struct {
	db *gorm.DB
}

// DBSession represents the database model for Session
type DBSession struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"index"`
	RefreshHash string `gorm:"column:refresh_token;size:128"`
	IPAddress   string `gorm:"size:64"`
	UserAgent   string `gorm:"size:512"`
	ExpiresAt   time.Time
	CreatedAt   time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBSession) TableName() string {
	return "sessions"
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) domain.SessionRepository {
	return &SessionRepositoryImpl{db: db}
}

// Create implements domain.SessionRepository
func (r *SessionRepositoryImpl) Create(ctx context.Context, session *domain.Session) error {
	dbSession := &DBSession{
		UserID:      session.UserID,
		RefreshHash: session.RefreshHash,
		IPAddress:   session.IPAddress,
		UserAgent:   session.UserAgent,
		ExpiresAt:   session.ExpiresAt,
	}
	if err := r.db.WithContext(ctx).Create(dbSession).Error; err != nil {
		return err
	}
	session.ID = dbSession.ID
	session.CreatedAt = dbSession.CreatedAt
	return nil
}

// FindByUser implements domain.SessionRepository
func (r *SessionRepositoryImpl) FindByUser(ctx context.Context, userID uint) ([]domain.Session, error) {
	var dbSessions []DBSession
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&dbSessions).Error
	if err != nil {
		return nil, err
	}

	sessions := make([]domain.Session, 0, len(dbSessions))
	for i := range dbSessions {
		s := &dbSessions[i]
		sessions = append(sessions, domain.Session{
			ID:          s.ID,
			UserID:      s.UserID,
			RefreshHash: s.RefreshHash,
			IPAddress:   s.IPAddress,
			UserAgent:   s.UserAgent,
			ExpiresAt:   s.ExpiresAt,
			CreatedAt:   s.CreatedAt,
		})
	}
	return sessions, nil
}

// Delete implements domain.SessionRepository
func (r *SessionRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&DBSession{}, id).Error
}

// DeleteByUser implements domain.SessionRepository
func (r *SessionRepositoryImpl) DeleteByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&DBSession{}).Error
}

// DeleteExpired implements domain.SessionRepository
func (r *SessionRepositoryImpl) DeleteExpired(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("expires_at < ?", time.Now()).Delete(&DBSession{}).Error
}
