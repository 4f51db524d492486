package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is keyed by the pair (tenant_id, product_sku). The composite
// primary key makes SKU uniqueness per-tenant by construction and lets
// stock levels and order items reference products without ever crossing
// a tenant boundary.
type Product struct {
	TenantID    uint64          `json:"tenant_id" gorm:"primaryKey;autoIncrement:false"`
	SKU         string          `json:"sku" gorm:"column:product_sku;primaryKey;type:varchar(64)"`
	Name        string          `json:"name" gorm:"type:varchar(200);not null"`
	Unit        string          `json:"unit" gorm:"type:varchar(30);not null"`
	CostPrice   decimal.Decimal `json:"cost_price" gorm:"type:numeric(18,4);not null;default:0"`
	SellPrice   decimal.Decimal `json:"sell_price" gorm:"type:numeric(18,4);not null;default:0"`
	Category    string          `json:"category,omitempty" gorm:"type:varchar(120)"`
	Description string          `json:"description,omitempty" gorm:"type:text"`
	Barcode     string          `json:"barcode,omitempty" gorm:"type:varchar(64)"`
	Brand       string          `json:"brand,omitempty" gorm:"type:varchar(100)"`
	Colour      string          `json:"colour,omitempty" gorm:"type:varchar(50)"`
	Size        string          `json:"size,omitempty" gorm:"type:varchar(50)"`
	Tags        string          `json:"tags,omitempty" gorm:"type:text"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty" gorm:"type:date"`
	SupplierID  *uint64         `json:"supplier_id,omitempty" gorm:"index"`
	CreatedBy   uint64          `json:"created_by"`
	UpdatedBy   uint64          `json:"updated_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
