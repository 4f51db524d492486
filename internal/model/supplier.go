package model

import "time"

// Supplier represents a tenant-scoped supplier referenced by products.
type Supplier struct {
	ID          uint64    `json:"id" gorm:"primaryKey"`
	TenantID    uint64    `json:"tenant_id" gorm:"not null;uniqueIndex:uq_suppliers_tenant_name"`
	Name        string    `json:"name" gorm:"type:varchar(150);not null;uniqueIndex:uq_suppliers_tenant_name"`
	PhoneNumber string    `json:"phone_number,omitempty" gorm:"type:varchar(30)"`
	Email       string    `json:"email,omitempty" gorm:"type:varchar(150)"`
	Address     string    `json:"address,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
