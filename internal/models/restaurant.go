package models

import (
	"time"

	"gorm.io/gorm"
)

// Restaurant is the tenant record. Almost every other entity is partitioned
// by a restaurant id.
type Restaurant struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name    string `gorm:"size:255;not null" json:"name"`
	Slug    string `gorm:"uniqueIndex;size:100;not null" json:"slug"`
	Address string `gorm:"size:500" json:"address,omitempty"`
	City    string `gorm:"size:100" json:"city,omitempty"`
	Phone   string `gorm:"size:50" json:"phone,omitempty"`
	Email   string `gorm:"size:255" json:"email,omitempty"`

	// OwnerID is the user that registered the restaurant.
	OwnerID *uint `gorm:"index" json:"owner_id,omitempty"`
	Owner   *User `gorm:"foreignKey:OwnerID" json:"-"`

	IsActive bool `gorm:"default:true" json:"is_active"`
}

// RestaurantSettings holds per-tenant display preferences.
type RestaurantSettings struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RestaurantID uint       `gorm:"uniqueIndex;not null" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID" json:"-"`

	Currency        string `gorm:"size:10;default:'USD'" json:"currency"`
	Timezone        string `gorm:"size:64;default:'UTC'" json:"timezone"`
	OpeningTime     string `gorm:"size:5" json:"opening_time,omitempty"` // "09:00"
	ClosingTime     string `gorm:"size:5" json:"closing_time,omitempty"`
	LogoURL         string `gorm:"size:500" json:"logo_url,omitempty"`
	ReceiptFooter   string `gorm:"size:500" json:"receipt_footer,omitempty"`
	OrderingBaseURL string `gorm:"size:500" json:"ordering_base_url,omitempty"`
}

// GetRestaurantID implements the Tenanted interface.
func (s *RestaurantSettings) GetRestaurantID() uint { return s.RestaurantID }

// POSSettings drives order numbering, totals math and automatic inventory
// deduction for one restaurant.
type POSSettings struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RestaurantID uint       `gorm:"uniqueIndex;not null" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID" json:"-"`

	// Percentages, e.g. 10 means 10%.
	TaxRate           float64 `gorm:"type:decimal(5,2);default:10" json:"tax_rate"`
	ServiceChargeRate float64 `gorm:"type:decimal(5,2);default:5" json:"service_charge_rate"`

	InvoicePrefix     string `gorm:"size:10;default:'INV'" json:"invoice_prefix"`
	NextInvoiceNumber int    `gorm:"default:1" json:"next_invoice_number"`

	EnableAutoInventory  bool   `gorm:"default:true" json:"enable_auto_inventory"`
	DefaultPaymentMethod string `gorm:"size:20;default:'cash'" json:"default_payment_method"`

	// RoundedToNearest is "none", "0.5" or "1".
	RoundedToNearest string `gorm:"size:5;default:'none'" json:"rounded_to_nearest"`
}

// GetRestaurantID implements the Tenanted interface.
func (s *POSSettings) GetRestaurantID() uint { return s.RestaurantID }
