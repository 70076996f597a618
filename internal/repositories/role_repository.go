package repositories

import (
	"context"

	"github.com/storycircle/backend/internal/models"
	"gorm.io/gorm"
)

// RoleRepository defines the interface for role data operations
type RoleRepository interface {
	SeedRoles(ctx context.Context) error
	GetDefaultRole(ctx context.Context) (*models.Role, error)
	GetRoleByName(ctx context.Context, name string) (*models.Role, error)
}

// PostgresRoleRepository implements RoleRepository for PostgreSQL
type PostgresRoleRepository struct {
	db *gorm.DB
}

// NewPostgresRoleRepository creates a new PostgresRoleRepository
func NewPostgresRoleRepository(db *gorm.DB) *PostgresRoleRepository {
	return &PostgresRoleRepository{db: db}
}

// SeedRoles inserts or refreshes the built-in roles. Repeatable: permissions
// are rebuilt from scratch on every run so edits to the sets below take
// effect without a migration.
func (r *PostgresRoleRepository) SeedRoles(ctx context.Context) error {
	roles := map[string][]int{
		"User":          {models.PermissionFollow, models.PermissionComment, models.PermissionWrite},
		"Moderator":     {models.PermissionFollow, models.PermissionComment, models.PermissionWrite, models.PermissionModerate},
		"Administrator": {models.PermissionFollow, models.PermissionComment, models.PermissionWrite, models.PermissionAdmin},
	}
	const defaultRole = "User"

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for name, perms := range roles {
			var role models.Role
			err := tx.Where(&models.Role{Name: name}).First(&role).Error
			if err != nil && err != gorm.ErrRecordNotFound {
				return err
			}
			role.Name = name
			role.ResetPermissions()
			for _, perm := range perms {
				role.AddPermission(perm)
			}
			role.Default = name == defaultRole
			if err := tx.Save(&role).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetDefaultRole retrieves the role assigned to new users
func (r *PostgresRoleRepository) GetDefaultRole(ctx context.Context) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).Where(&models.Role{Default: true}).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// GetRoleByName retrieves a role by its unique name
func (r *PostgresRoleRepository) GetRoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).Where(&models.Role{Name: name}).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}
