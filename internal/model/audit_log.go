package model

import "time"

// AuditLog is an immutable record of a mutation. Rows are appended in
// the same transaction as the mutation they describe and are never
// updated or deleted afterwards.
type AuditLog struct {
	ID        uint64    `json:"id" gorm:"primaryKey"`
	Timestamp time.Time `json:"timestamp" gorm:"autoCreateTime;index"`
	TenantID  uint64    `json:"tenant_id" gorm:"index;not null"`
	UserID    uint64    `json:"user_id"`
	Operation string    `json:"operation" gorm:"type:varchar(30);not null"`
	TableName string    `json:"table_name" gorm:"type:varchar(100);not null"`
	RecordID  string    `json:"record_id" gorm:"type:varchar(120);not null"`
	OldValue  string    `json:"old_value,omitempty" gorm:"type:text"`
	NewValue  string    `json:"new_value,omitempty" gorm:"type:text"`
	Metadata  string    `json:"metadata,omitempty" gorm:"type:text"`
}
