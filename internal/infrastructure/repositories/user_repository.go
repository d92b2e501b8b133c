package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Mirxonjon/charge-one-backend/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User
type DBUser struct {
	ID           uint       `gorm:"primaryKey"`
	Phone        string     `gorm:"uniqueIndex;size:32"`
	PasswordHash string     `gorm:"column:password"`
	IsVerified   bool       `gorm:"index"`
	FirstName    string     `gorm:"size:128"`
	LastName     string     `gorm:"size:128"`
	BirthDate    *time.Time
	RoleID       uint   `gorm:"index"`
	Role         DBRole `gorm:"foreignKey:RoleID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := userToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		return err
	}
	user.ID = dbUser.ID
	user.CreatedAt = dbUser.CreatedAt
	return nil
}

// FindByPhone implements domain.UserRepository
func (r *UserRepositoryImpl) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Preload("Role").Where("phone = ?", phone).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return userToDomain(&dbUser), nil
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Preload("Role").Where("id = ?", id).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return userToDomain(&dbUser), nil
}

// Update implements domain.UserRepository
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Model(&DBUser{ID: user.ID}).Updates(map[string]interface{}{
		"password":    user.PasswordHash,
		"is_verified": user.IsVerified,
		"first_name":  user.FirstName,
		"last_name":   user.LastName,
		"birth_date":  user.BirthDate,
		"role_id":     user.RoleID,
	}).Error
}

// MarkVerified implements domain.UserRepository
func (r *UserRepositoryImpl) MarkVerified(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", userID).Update("is_verified", true).Error
}

func userToDB(user *domain.User) *DBUser {
	return &DBUser{
		ID:           user.ID,
		Phone:        user.Phone,
		PasswordHash: user.PasswordHash,
		IsVerified:   user.IsVerified,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		BirthDate:    user.BirthDate,
		RoleID:       user.RoleID,
	}
}

func userToDomain(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:           dbUser.ID,
		Phone:        dbUser.Phone,
		PasswordHash: dbUser.PasswordHash,
		IsVerified:   dbUser.IsVerified,
		FirstName:    dbUser.FirstName,
		LastName:     dbUser.LastName,
		BirthDate:    dbUser.BirthDate,
		RoleID:       dbUser.RoleID,
		Role:         domain.Role{ID: dbUser.Role.ID, Name: domain.RoleName(dbUser.Role.Name)},
		CreatedAt:    dbUser.CreatedAt,
		UpdatedAt:    dbUser.UpdatedAt,
	}
}
