package model

import "time"

// Warehouse is a tenant-scoped physical location holding stock.
type Warehouse struct {
	WarehouseID      uint64    `json:"warehouse_id" gorm:"primaryKey"`
	TenantID         uint64    `json:"tenant_id" gorm:"not null;uniqueIndex:uq_warehouses_tenant_name"`
	WarehouseName    string    `json:"warehouse_name" gorm:"type:varchar(150);not null;uniqueIndex:uq_warehouses_tenant_name"`
	Location         string    `json:"location,omitempty" gorm:"type:varchar(150)"`
	WarehouseAddress string    `json:"warehouse_address,omitempty" gorm:"type:text"`
	Currency         string    `json:"currency" gorm:"type:varchar(3);default:'NGN'"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
