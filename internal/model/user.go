package model

import "time"

// User represents a staff account within a tenant. Email is unique per
// tenant, not globally.
type User struct {
	ID             uint64    `json:"id" gorm:"primaryKey"`
	TenantID       uint64    `json:"tenant_id" gorm:"not null;uniqueIndex:uq_users_tenant_email"`
	UserName       string    `json:"user_name" gorm:"type:varchar(80);not null"`
	Email          string    `json:"email" gorm:"type:varchar(150);not null;uniqueIndex:uq_users_tenant_email"`
	PhoneNumber    string    `json:"phone_number,omitempty" gorm:"type:varchar(30)"`
	HashedPassword string    `json:"-" gorm:"type:text;not null"`
	HashedPIN      string    `json:"-" gorm:"type:text"`
	WarehouseID    *uint64   `json:"warehouse_id,omitempty" gorm:"index"`
	Address        string    `json:"address,omitempty" gorm:"type:text"`
	IsActive       bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Role is a tenant-scoped named role.
type Role struct {
	ID          uint64    `json:"id" gorm:"primaryKey"`
	TenantID    uint64    `json:"tenant_id" gorm:"not null;uniqueIndex:uq_roles_tenant_role"`
	RoleName    string    `json:"role_name" gorm:"type:varchar(80);not null;uniqueIndex:uq_roles_tenant_role"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserRole assigns a role to a user within a tenant. Role membership is
// resolved through this table, never through a name match on the user row.
type UserRole struct {
	ID        uint64    `json:"id" gorm:"primaryKey"`
	TenantID  uint64    `json:"tenant_id" gorm:"not null;uniqueIndex:uq_user_roles_tenant_user_role"`
	UserID    uint64    `json:"user_id" gorm:"not null;uniqueIndex:uq_user_roles_tenant_user_role"`
	RoleID    uint64    `json:"role_id" gorm:"not null;uniqueIndex:uq_user_roles_tenant_user_role"`
	CreatedAt time.Time `json:"created_at"`
}
