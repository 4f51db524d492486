package service

import (
	"context"
	"encoding/json"

	"github.com/suteetoe/inventory-service/internal/model"
	"github.com/suteetoe/inventory-service/internal/repository"
	"github.com/suteetoe/inventory-service/prometheus"
	"gorm.io/gorm"
)

// AuditService appends audit rows and serves the read-only trail.
// Mutating components call Record on the same transaction handle as the
// mutation, so the audit row commits or rolls back with it.
type AuditService struct {
	audit *repository.AuditRepository
}

func NewAuditService(audit *repository.AuditRepository) *AuditService {
	return &AuditService{audit: audit}
}

// Record appends one audit row on the given transaction. oldValue and
// newValue may be nil; anything else is snapshotted as JSON.
func (s *AuditService) Record(ctx context.Context, tx *gorm.DB, tenantID, userID uint64, operation, table, recordID string, oldValue, newValue interface{}, metadata map[string]interface{}) error {
	entry := &model.AuditLog{
		TenantID:  tenantID,
		UserID:    userID,
		Operation: operation,
		TableName: table,
		RecordID:  recordID,
		OldValue:  marshalSnapshot(oldValue),
		NewValue:  marshalSnapshot(newValue),
		Metadata:  marshalSnapshot(metadata),
	}
	if err := s.audit.WithTx(tx).Append(ctx, entry); err != nil {
		return err
	}
	prometheus.AuditAppendCounter.WithLabelValues(table).Inc()
	return nil
}

// List returns the tenant's trail, newest first.
func (s *AuditService) List(ctx context.Context, tenantID uint64, limit int) ([]model.AuditLog, error) {
	return s.audit.List(ctx, tenantID, limit)
}

func marshalSnapshot(v interface{}) string {
	if v == nil {
		return ""
	}
	if m, ok := v.(map[string]interface{}); ok && len(m) == 0 {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
