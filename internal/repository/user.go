package repository

import (
	"context"

	"github.com/suteetoe/inventory-service/internal/apperr"
	"github.com/suteetoe/inventory-service/internal/model"
	"gorm.io/gorm"
)

// UserRepository owns users, roles and role assignments.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return apperr.FromDB(err, "user")
	}
	return nil
}

func (r *UserRepository) Get(ctx context.Context, tenantID, id uint64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&user).Error
	if err != nil {
		return nil, apperr.FromDB(err, "user")
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, tenantID uint64, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND email = ?", tenantID, email).
		First(&user).Error
	if err != nil {
		return nil, apperr.FromDB(err, "user")
	}
	return &user, nil
}

// FindByEmail looks a user up across tenants. Email is unique only per
// tenant, so this may match several accounts. Confined to the login
// bootstrap, which has no authenticated tenant yet.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) List(ctx context.Context, tenantID uint64, offset, limit int) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("id").
		Offset(offset).Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Update saves the given user row. Select("*") writes every column, so
// callers can clear a field back to its zero value; callers must pass a
// fully loaded row or the credential hashes get wiped.
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("tenant_id = ? AND id = ?", user.TenantID, user.ID).
		Select("*").
		Updates(user)
	if res.Error != nil {
		return apperr.FromDB(res.Error, "user")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

// --- Roles ---

func (r *UserRepository) CreateRole(ctx context.Context, role *model.Role) error {
	if err := r.db.WithContext(ctx).Create(role).Error; err != nil {
		return apperr.FromDB(err, "role")
	}
	return nil
}

func (r *UserRepository) GetRole(ctx context.Context, tenantID, roleID uint64) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, roleID).
		First(&role).Error
	if err != nil {
		return nil, apperr.FromDB(err, "role")
	}
	return &role, nil
}

func (r *UserRepository) ListRoles(ctx context.Context, tenantID uint64) ([]model.Role, error) {
	var roles []model.Role
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("role_name").
		Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// AssignRole records a role assignment through the user_roles lookup
// table. The user and role must both belong to the tenant.
func (r *UserRepository) AssignRole(ctx context.Context, tenantID, userID, roleID uint64) error {
	if _, err := r.Get(ctx, tenantID, userID); err != nil {
		return err
	}
	if _, err := r.GetRole(ctx, tenantID, roleID); err != nil {
		return err
	}
	assignment := model.UserRole{TenantID: tenantID, UserID: userID, RoleID: roleID}
	if err := r.db.WithContext(ctx).Create(&assignment).Error; err != nil {
		return apperr.FromDB(err, "role assignment")
	}
	return nil
}

func (r *UserRepository) RemoveRole(ctx context.Context, tenantID, userID, roleID uint64) error {
	res := r.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ? AND role_id = ?", tenantID, userID, roleID).
		Delete(&model.UserRole{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("role assignment")
	}
	return nil
}

// RolesOf returns the roles assigned to a user, resolved through the
// user_roles table.
func (r *UserRepository) RolesOf(ctx context.Context, tenantID, userID uint64) ([]model.Role, error) {
	var roles []model.Role
	err := r.db.WithContext(ctx).Model(&model.Role{}).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id AND user_roles.tenant_id = roles.tenant_id").
		Where("user_roles.tenant_id = ? AND user_roles.user_id = ?", tenantID, userID).
		Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}
