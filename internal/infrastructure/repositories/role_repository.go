package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Mirxonjon/charge-one-backend/domain"
)

// RoleRepositoryImpl implements domain.RoleRepository using GORM
type RoleRepositoryImpl struct {
	db *gorm.DB
}

// DBRole represents the database model for Role
type DBRole struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;size:64"`
}

// TableName returns the table name for GORM
func (DBRole) TableName() string {
	return "roles"
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *gorm.DB) domain.RoleRepository {
	return &RoleRepositoryImpl{db: db}
}

// Ensure implements domain.RoleRepository. Lookup-or-create is idempotent;
// a concurrent create losing the unique-index race falls back to a lookup.
func (r *RoleRepositoryImpl) Ensure(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	var dbRole DBRole
	err := r.db.WithContext(ctx).Where("name = ?", string(name)).First(&dbRole).Error
	if err == nil {
		return &domain.Role{ID: dbRole.ID, Name: domain.RoleName(dbRole.Name)}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	dbRole = DBRole{Name: string(name)}
	if err := r.db.WithContext(ctx).Create(&dbRole).Error; err != nil {
		var existing DBRole
		if lookupErr := r.db.WithContext(ctx).Where("name = ?", string(name)).First(&existing).Error; lookupErr == nil {
			return &domain.Role{ID: existing.ID, Name: domain.RoleName(existing.Name)}, nil
		}
		return nil, err
	}
	return &domain.Role{ID: dbRole.ID, Name: domain.RoleName(dbRole.Name)}, nil
}
