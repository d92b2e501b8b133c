package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Mirxonjon/charge-one-backend/domain"
)

// SecretTokenRepositoryImpl implements domain.SecretTokenRepository using GORM
type SecretTokenRepositoryImpl struct {
	db *gorm.DB
}

// DBSecretToken represents the database model for SecretToken
type DBSecretToken struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index"`
	Kind      string `gorm:"index;size:32"`
	TokenHash string `gorm:"column:token;size:128"`
	ExpiresAt time.Time
	CreatedAt time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBSecretToken) TableName() string {
	return "secret_tokens"
}

// NewSecretTokenRepository creates a new secret token repository
func NewSecretTokenRepository(db *gorm.DB) domain.SecretTokenRepository {
	return &SecretTokenRepositoryImpl{db: db}
}

// Create implements domain.SecretTokenRepository
func (r *SecretTokenRepositoryImpl) Create(ctx context.Context, token *domain.SecretToken) error {
	dbToken := &DBSecretToken{
		UserID:    token.UserID,
		Kind:      string(token.Kind),
		TokenHash: token.TokenHash,
		ExpiresAt: token.ExpiresAt,
	}
	if err := r.db.WithContext(ctx).Create(dbToken).Error; err != nil {
		return err
	}
	token.ID = dbToken.ID
	token.CreatedAt = dbToken.CreatedAt
	return nil
}

// FindActive implements domain.SecretTokenRepository
func (r *SecretTokenRepositoryImpl) FindActive(ctx context.Context, kind domain.TokenKind, limit int) ([]domain.SecretToken, error) {
	var dbTokens []DBSecretToken
	err := r.db.WithContext(ctx).
		Where("kind = ? AND expires_at >= ?", string(kind), time.Now()).
		Order("created_at DESC").
		Limit(limit).
		Find(&dbTokens).Error
	if err != nil {
		return nil, err
	}

	tokens := make([]domain.SecretToken, 0, len(dbTokens))
	for i := range dbTokens {
		t := &dbTokens[i]
		tokens = append(tokens, domain.SecretToken{
			ID:        t.ID,
			UserID:    t.UserID,
			Kind:      domain.TokenKind(t.Kind),
			TokenHash: t.TokenHash,
			ExpiresAt: t.ExpiresAt,
			CreatedAt: t.CreatedAt,
		})
	}
	return tokens, nil
}

// ConsumeWithPassword implements domain.SecretTokenRepository. The password
// write, the token delete and the expired-sibling purge are one transaction:
// a token must never survive the password it unlocked.
func (r *SecretTokenRepositoryImpl) ConsumeWithPassword(ctx context.Context, token *domain.SecretToken, passwordHash string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&DBUser{}).Where("id = ?", token.UserID).Updates(map[string]interface{}{
			"password":    passwordHash,
			"is_verified": true,
		}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&DBSecretToken{}, token.ID).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND kind = ? AND expires_at < ?", token.UserID, string(token.Kind), now).
			Delete(&DBSecretToken{}).Error
	})
}
