package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/dineops/dineops/internal/units"
)

// StockStatus is the derived classification of an inventory item.
type StockStatus string

const (
	StockInStock    StockStatus = "in-stock"
	StockLowStock   StockStatus = "low-stock"
	StockOutOfStock StockStatus = "out-of-stock"
	StockExpired    StockStatus = "expired"
)

// InventoryItem is one stocked ingredient or supply, partitioned by
// restaurant. Status is derived, recomputed on every stock write and by the
// periodic sweep; it is stored so list queries can filter on it.
type InventoryItem struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	RestaurantID uint       `gorm:"index;not null" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID" json:"-"`

	Name     string `gorm:"size:255;not null;index" json:"name"`
	Category string `gorm:"size:100" json:"category,omitempty"`
	SKU      string `gorm:"size:100" json:"sku,omitempty"`
	Barcode  string `gorm:"size:100" json:"barcode,omitempty"`
	Location string `gorm:"size:100" json:"location,omitempty"`

	CurrentStock float64    `gorm:"type:decimal(12,3);not null;default:0" json:"current_stock"`
	MinStock     float64    `gorm:"type:decimal(12,3);not null;default:0" json:"min_stock"`
	MaxStock     float64    `gorm:"type:decimal(12,3);not null;default:0" json:"max_stock"`
	Unit         units.Unit `gorm:"size:10;not null" json:"unit"`
	CostPerUnit  float64    `gorm:"type:decimal(10,2);not null;default:0" json:"cost_per_unit"`

	SupplierName  string     `gorm:"size:255" json:"supplier_name,omitempty"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
	LastRestocked *time.Time `json:"last_restocked,omitempty"`

	Status StockStatus `gorm:"size:20;not null;default:'in-stock';index" json:"status"`
}

// GetRestaurantID implements the Tenanted interface.
func (i *InventoryItem) GetRestaurantID() uint { return i.RestaurantID }

// ClassifyStatus derives the stock status from the item's fields at the
// given time. Out-of-stock and expiry dominate the low-stock threshold.
func (i *InventoryItem) ClassifyStatus(now time.Time) StockStatus {
	if i.CurrentStock <= 0 {
		return StockOutOfStock
	}
	if i.ExpiryDate != nil && i.ExpiryDate.Before(now) {
		return StockExpired
	}
	if i.CurrentStock <= i.MinStock {
		return StockLowStock
	}
	return StockInStock
}

// TransactionReason tags why stock moved.
type TransactionReason string

const (
	ReasonOrderUse   TransactionReason = "order-use"
	ReasonRestock    TransactionReason = "restock"
	ReasonWaste      TransactionReason = "waste"
	ReasonAdjustment TransactionReason = "adjustment"
	ReasonTransfer   TransactionReason = "transfer"
	ReasonExpired    TransactionReason = "expired"
)

// ValidReason reports whether r is one of the accepted transaction reasons.
func ValidReason(r TransactionReason) bool {
	switch r {
	case ReasonOrderUse, ReasonRestock, ReasonWaste, ReasonAdjustment, ReasonTransfer, ReasonExpired:
		return true
	}
	return false
}

// InventoryTransaction is an append-only ledger entry: a signed quantity
// delta against one inventory item, in that item's unit. Rows are never
// updated or deleted; current stock is the initial stock plus the signed sum
// of the item's ledger.
type InventoryTransaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	RestaurantID    uint          `gorm:"index;not null" json:"restaurant_id"`
	InventoryItemID uint          `gorm:"index;not null" json:"inventory_item_id"`
	InventoryItem   InventoryItem `gorm:"foreignKey:InventoryItemID" json:"-"`

	// Quantity is negative for consumption, positive for replenishment.
	Quantity float64           `gorm:"type:decimal(12,3);not null" json:"quantity"`
	Reason   TransactionReason `gorm:"size:20;not null;index" json:"reason"`

	// OrderID links order-use deductions and void adjustments back to the
	// order that caused them.
	OrderID     *uint  `gorm:"index" json:"order_id,omitempty"`
	OrderItemID *uint  `json:"order_item_id,omitempty"`
	Notes       string `gorm:"size:500" json:"notes,omitempty"`

	// PerformedBy is the acting user, when known.
	PerformedBy *uint `json:"performed_by,omitempty"`
}

// GetRestaurantID implements the Tenanted interface.
func (t *InventoryTransaction) GetRestaurantID() uint { return t.RestaurantID }

// WasteEntry records discarded stock with a human-readable cause, paired
// with the `waste` ledger transaction that moved the stock.
type WasteEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	RestaurantID    uint          `gorm:"index;not null" json:"restaurant_id"`
	InventoryItemID uint          `gorm:"index;not null" json:"inventory_item_id"`
	InventoryItem   InventoryItem `gorm:"foreignKey:InventoryItemID" json:"-"`

	TransactionID uint       `gorm:"index" json:"transaction_id"`
	Quantity      float64    `gorm:"type:decimal(12,3);not null" json:"quantity"`
	Unit          units.Unit `gorm:"size:10;not null" json:"unit"`
	CostImpact    float64    `gorm:"type:decimal(10,2)" json:"cost_impact"`
	Cause         string     `gorm:"size:255" json:"cause,omitempty"`
	ReportedBy    *uint      `json:"reported_by,omitempty"`
}

// GetRestaurantID implements the Tenanted interface.
func (w *WasteEntry) GetRestaurantID() uint { return w.RestaurantID }
