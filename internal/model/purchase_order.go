package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase order statuses.
const (
	POStatusDraft             = "draft"
	POStatusApproved          = "approved"
	POStatusPartiallyReceived = "partially_received"
	POStatusReceived          = "received"
	POStatusCancelled         = "cancelled"
)

// PurchaseOrder is a tenant-scoped inbound order. Approving it books
// the ordered quantities as incoming stock; receiving moves incoming
// into on-hand.
type PurchaseOrder struct {
	ID          uint64              `json:"id" gorm:"primaryKey"`
	TenantID    uint64              `json:"tenant_id" gorm:"index;not null"`
	WarehouseID uint64              `json:"warehouse_id" gorm:"not null"`
	OrderDate   time.Time           `json:"order_date" gorm:"type:date;not null"`
	Status      string              `json:"status" gorm:"type:varchar(30);not null;default:'draft'"`
	CreatedBy   uint64              `json:"created_by" gorm:"not null"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Items       []PurchaseOrderItem `json:"items" gorm:"foreignKey:PurchaseOrderID"`
}

// PurchaseOrderItem references a product by (tenant_id, product_sku).
// ReceivedQty accumulates across partial receipts.
type PurchaseOrderItem struct {
	ID              uint64          `json:"id" gorm:"primaryKey"`
	TenantID        uint64          `json:"tenant_id" gorm:"index;not null"`
	PurchaseOrderID uint64          `json:"purchase_order_id" gorm:"index;not null"`
	ProductSKU      string          `json:"product_sku" gorm:"type:varchar(64);not null"`
	Quantity        int64           `json:"quantity" gorm:"not null"`
	UnitCost        decimal.Decimal `json:"unit_cost" gorm:"type:numeric(18,4);not null"`
	ReceivedQty     int64           `json:"received_qty" gorm:"not null;default:0"`
}

// POStatusCanTransition reports whether a purchase order may move from
// one status to another.
func POStatusCanTransition(from, to string) bool {
	switch from {
	case POStatusDraft:
		return to == POStatusApproved || to == POStatusCancelled
	case POStatusApproved:
		return to == POStatusPartiallyReceived || to == POStatusReceived || to == POStatusCancelled
	case POStatusPartiallyReceived:
		return to == POStatusPartiallyReceived || to == POStatusReceived
	}
	return false
}
