package repository

import (
	"context"

	"github.com/suteetoe/inventory-service/internal/apperr"
	"github.com/suteetoe/inventory-service/internal/model"
	"gorm.io/gorm"
)

// TenantRepository owns the tenants table. This is the only repository
// whose reads are not scoped by a tenant ID, because tenants are the
// scope.
type TenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

func (r *TenantRepository) WithTx(tx *gorm.DB) *TenantRepository {
	return &TenantRepository{db: tx}
}

func (r *TenantRepository) Create(ctx context.Context, tenant *model.Tenant) error {
	if err := r.db.WithContext(ctx).Create(tenant).Error; err != nil {
		return apperr.FromDB(err, "tenant")
	}
	return nil
}

func (r *TenantRepository) Get(ctx context.Context, id uint64) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, id).Error; err != nil {
		return nil, apperr.FromDB(err, "tenant")
	}
	return &tenant, nil
}
