package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/dineops/dineops/internal/units"
)

// MenuCategory groups menu items for display.
type MenuCategory struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	RestaurantID uint       `gorm:"index;not null" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID" json:"-"`

	Name     string `gorm:"size:100;not null" json:"name"`
	Position int    `gorm:"default:0" json:"position"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}

// GetRestaurantID implements the Tenanted interface.
func (c *MenuCategory) GetRestaurantID() uint { return c.RestaurantID }

// MenuItem is a sellable dish or drink. Its recipe is the set of
// MenuIngredient links; non-optional links drive automatic inventory
// deduction when the item is ordered.
type MenuItem struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	RestaurantID uint       `gorm:"index;not null" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID" json:"-"`

	CategoryID *uint         `gorm:"index" json:"category_id,omitempty"`
	Category   *MenuCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	Name            string  `gorm:"size:255;not null" json:"name"`
	Description     string  `gorm:"size:1000" json:"description,omitempty"`
	Price           float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL        string  `gorm:"size:500" json:"image_url,omitempty"`
	PreparationTime int     `gorm:"default:0" json:"preparation_time,omitempty"` // minutes
	IsAvailable     bool    `gorm:"default:true" json:"is_available"`

	Ingredients []MenuIngredient `gorm:"foreignKey:MenuItemID" json:"ingredients,omitempty"`
}

// GetRestaurantID implements the Tenanted interface.
func (m *MenuItem) GetRestaurantID() uint { return m.RestaurantID }

// MenuIngredient links a menu item to one inventory item with the quantity
// consumed per serving. Optional ingredients are skipped by automatic
// deduction.
type MenuIngredient struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	MenuItemID uint      `gorm:"index;not null;uniqueIndex:idx_menu_inventory" json:"menu_item_id"`
	MenuItem   *MenuItem `gorm:"foreignKey:MenuItemID" json:"-"`

	InventoryItemID uint          `gorm:"not null;uniqueIndex:idx_menu_inventory" json:"inventory_item_id"`
	InventoryItem   InventoryItem `gorm:"foreignKey:InventoryItemID" json:"inventory_item,omitempty"`

	// Quantity is expressed in Unit, which may differ from the inventory
	// item's unit; deduction converts when the units are compatible.
	Quantity   float64    `gorm:"type:decimal(12,3);not null" json:"quantity"`
	Unit       units.Unit `gorm:"size:10;not null" json:"unit"`
	IsOptional bool       `gorm:"default:false" json:"is_optional"`
}
