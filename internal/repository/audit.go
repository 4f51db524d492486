package repository

import (
	"context"

	"github.com/suteetoe/inventory-service/internal/model"
	"gorm.io/gorm"
)

// AuditRepository owns the audit_logs table. It exposes append and read
// only; the absence of update and delete methods is the contract.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) WithTx(tx *gorm.DB) *AuditRepository {
	return &AuditRepository{db: tx}
}

// Append inserts one audit row.
func (r *AuditRepository) Append(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List returns the tenant's most recent audit rows, newest first.
func (r *AuditRepository) List(ctx context.Context, tenantID uint64, limit int) ([]model.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	var entries []model.AuditLog
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
