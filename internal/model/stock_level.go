package model

import "time"

// Stock counter names accepted by ledger adjustments.
const (
	StockFieldOnHand    = "on_hand"
	StockFieldCommitted = "committed"
	StockFieldIncoming  = "incoming"
	StockFieldDamaged   = "damaged"
)

// StockLevel holds the ledger counters for one (tenant, product,
// warehouse) triple. All counters stay non-negative; adjustments that
// would drive one negative are rejected, never clamped.
type StockLevel struct {
	ID          uint64    `json:"id" gorm:"primaryKey"`
	TenantID    uint64    `json:"tenant_id" gorm:"not null;uniqueIndex:uq_stock_tenant_product_warehouse"`
	ProductSKU  string    `json:"product_sku" gorm:"type:varchar(64);not null;uniqueIndex:uq_stock_tenant_product_warehouse"`
	WarehouseID uint64    `json:"warehouse_id" gorm:"not null;uniqueIndex:uq_stock_tenant_product_warehouse"`
	OnHand      int64     `json:"on_hand" gorm:"not null;default:0;check:on_hand >= 0"`
	Committed   int64     `json:"committed" gorm:"not null;default:0;check:committed >= 0"`
	Incoming    int64     `json:"incoming" gorm:"not null;default:0;check:incoming >= 0"`
	Damaged     int64     `json:"damaged" gorm:"not null;default:0;check:damaged >= 0"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ValidStockField reports whether name is one of the four ledger counters.
func ValidStockField(name string) bool {
	switch name {
	case StockFieldOnHand, StockFieldCommitted, StockFieldIncoming, StockFieldDamaged:
		return true
	}
	return false
}
