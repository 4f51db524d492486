package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sales order statuses.
const (
	SOStatusDraft              = "draft"
	SOStatusConfirmed          = "confirmed"
	SOStatusFulfilled          = "fulfilled"
	SOStatusPartiallyFulfilled = "partially_fulfilled"
	SOStatusCancelled          = "cancelled"
	SOStatusRefunded           = "refunded"
)

// Payment methods accepted on sales orders.
const (
	PurchaseMethodCash     = "cash"
	PurchaseMethodCard     = "card"
	PurchaseMethodTransfer = "transfer"
	PurchaseMethodPOS      = "pos"
	PurchaseMethodOnline   = "online"
	PurchaseMethodOther    = "other"
)

// SalesOrder is a tenant-scoped outbound order. Confirming it reserves
// stock by raising committed counters; fulfilling decrements committed
// and on-hand together.
type SalesOrder struct {
	ID                uint64           `json:"id" gorm:"primaryKey"`
	TenantID          uint64           `json:"tenant_id" gorm:"index;not null"`
	WarehouseID       uint64           `json:"warehouse_id" gorm:"not null"`
	OrderDate         time.Time        `json:"order_date" gorm:"not null"`
	Status            string           `json:"status" gorm:"type:varchar(30);not null;default:'draft'"`
	PurchaseMethod    string           `json:"purchase_method,omitempty" gorm:"type:varchar(20)"`
	SubTotal          decimal.Decimal  `json:"sub_total" gorm:"type:numeric(18,4);not null;default:0"`
	DiscountPromoDesc string           `json:"discount_promo_desc,omitempty" gorm:"type:text"`
	CreatedBy         uint64           `json:"created_by" gorm:"not null"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	Items             []SalesOrderItem `json:"items" gorm:"foreignKey:SalesOrderID"`
}

// SalesOrderItem references a product by (tenant_id, product_sku).
// FulfilledQty accumulates across partial fulfilments.
type SalesOrderItem struct {
	ID           uint64          `json:"id" gorm:"primaryKey"`
	TenantID     uint64          `json:"tenant_id" gorm:"index;not null"`
	SalesOrderID uint64          `json:"sales_order_id" gorm:"index;not null"`
	ProductSKU   string          `json:"product_sku" gorm:"type:varchar(64);not null"`
	Quantity     int64           `json:"quantity" gorm:"not null"`
	UnitPrice    decimal.Decimal `json:"unit_price" gorm:"type:numeric(18,4);not null"`
	FulfilledQty int64           `json:"fulfilled_qty" gorm:"not null;default:0"`
}

// ValidPurchaseMethod reports whether m is an accepted payment method.
func ValidPurchaseMethod(m string) bool {
	switch m {
	case PurchaseMethodCash, PurchaseMethodCard, PurchaseMethodTransfer,
		PurchaseMethodPOS, PurchaseMethodOnline, PurchaseMethodOther:
		return true
	}
	return false
}

// SOStatusCanTransition reports whether a sales order may move from one
// status to another.
func SOStatusCanTransition(from, to string) bool {
	switch from {
	case SOStatusDraft:
		return to == SOStatusConfirmed || to == SOStatusCancelled
	case SOStatusConfirmed:
		return to == SOStatusFulfilled || to == SOStatusPartiallyFulfilled || to == SOStatusCancelled
	case SOStatusPartiallyFulfilled:
		return to == SOStatusPartiallyFulfilled || to == SOStatusFulfilled || to == SOStatusRefunded
	case SOStatusFulfilled:
		return to == SOStatusRefunded
	}
	return false
}
