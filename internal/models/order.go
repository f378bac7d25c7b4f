package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderServed    OrderStatus = "served"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// legalTransitions encodes the allowed forward moves of the order state
// machine. Cancellation is reachable from any non-terminal state.
var legalTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderPreparing, OrderCancelled},
	OrderPreparing: {OrderReady, OrderCancelled},
	OrderReady:     {OrderServed, OrderCancelled},
	OrderServed:    {OrderCompleted, OrderCancelled},
	OrderCompleted: {},
	OrderCancelled: {},
}

// CanTransition reports whether an order may move from one status to
// another. Completed and cancelled are terminal.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidOrderStatus reports whether s names a known status.
func ValidOrderStatus(s OrderStatus) bool {
	_, ok := legalTransitions[s]
	return ok
}

// PaymentStatus tracks whether an order has been paid.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// OrderType distinguishes how the order is fulfilled.
type OrderType string

const (
	OrderDineIn   OrderType = "dine-in"
	OrderTakeaway OrderType = "takeaway"
	OrderDelivery OrderType = "delivery"
)

// Order aggregates line items for one seating or takeaway sale and carries
// the computed money amounts.
type Order struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	RestaurantID uint       `gorm:"not null;index;uniqueIndex:idx_order_number_tenant" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID" json:"-"`

	// Number is the human-facing order number ("INV0042"), unique per tenant.
	Number string `gorm:"size:20;not null;uniqueIndex:idx_order_number_tenant" json:"number"`
	// Reference is a stable opaque id safe to embed in QR payloads.
	Reference string `gorm:"size:36;uniqueIndex" json:"reference"`

	TableID  *uint  `gorm:"index" json:"table_id,omitempty"`
	Table    *Table `gorm:"foreignKey:TableID" json:"table,omitempty"`
	ServerID *uint  `gorm:"index" json:"server_id,omitempty"`

	Status    OrderStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	OrderType OrderType   `gorm:"size:20;not null;default:'dine-in'" json:"order_type"`

	Subtotal      float64 `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Discount      float64 `gorm:"type:decimal(12,2);not null;default:0" json:"discount"`
	Tax           float64 `gorm:"type:decimal(12,2);not null" json:"tax"`
	ServiceCharge float64 `gorm:"type:decimal(12,2);not null" json:"service_charge"`
	Total         float64 `gorm:"type:decimal(12,2);not null" json:"total"`

	PaymentMethod string        `gorm:"size:20" json:"payment_method,omitempty"`
	PaymentStatus PaymentStatus `gorm:"size:20;not null;default:'pending'" json:"payment_status"`

	Notes      string `gorm:"size:1000" json:"notes,omitempty"`
	VoidReason string `gorm:"size:500" json:"void_reason,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// GetRestaurantID implements the Tenanted interface.
func (o *Order) GetRestaurantID() uint { return o.RestaurantID }

// IsTerminal reports whether the order has reached a final state.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderCompleted || o.Status == OrderCancelled
}

// OrderItem is one line on an order. PriceAtTime freezes the menu price the
// moment the order was taken.
type OrderItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OrderID uint   `gorm:"index;not null" json:"order_id"`
	Order   *Order `gorm:"foreignKey:OrderID" json:"-"`

	MenuItemID uint      `gorm:"index;not null" json:"menu_item_id"`
	MenuItem   *MenuItem `gorm:"foreignKey:MenuItemID" json:"menu_item,omitempty"`

	// ChairID scopes the line to one seat for split billing.
	ChairID *uint  `gorm:"index" json:"chair_id,omitempty"`
	Chair   *Chair `gorm:"foreignKey:ChairID" json:"-"`

	Quantity    int     `gorm:"not null" json:"quantity"`
	PriceAtTime float64 `gorm:"type:decimal(10,2);not null" json:"price_at_time"`
	Notes       string  `gorm:"size:500" json:"notes,omitempty"`
	Status      string  `gorm:"size:20;default:'pending'" json:"status"`
}

// LineTotal is quantity times the frozen unit price.
func (i *OrderItem) LineTotal() float64 {
	return float64(i.Quantity) * i.PriceAtTime
}
