package models

import (
	"time"

	"gorm.io/gorm"
)

// ChairStatus is the occupancy state of a single seat.
type ChairStatus string

const (
	ChairAvailable ChairStatus = "available"
	ChairOccupied  ChairStatus = "occupied"
	ChairReserved  ChairStatus = "reserved"
	ChairCleaning  ChairStatus = "cleaning"
)

// ValidChairStatus reports whether s names a known chair status.
func ValidChairStatus(s ChairStatus) bool {
	switch s {
	case ChairAvailable, ChairOccupied, ChairReserved, ChairCleaning:
		return true
	}
	return false
}

// Table is a seating location. Its chairs are generated once at creation
// from the capacity and addressed individually for per-seat billing.
type Table struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	RestaurantID uint       `gorm:"not null;index;uniqueIndex:idx_table_number_tenant" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID" json:"-"`

	Number   int    `gorm:"not null;uniqueIndex:idx_table_number_tenant" json:"number"`
	Name     string `gorm:"size:100" json:"name,omitempty"`
	Capacity int    `gorm:"not null" json:"capacity"`
	Zone     string `gorm:"size:100" json:"zone,omitempty"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	Chairs []Chair `gorm:"foreignKey:TableID;constraint:OnDelete:CASCADE" json:"chairs,omitempty"`
}

// GetRestaurantID implements the Tenanted interface.
func (t *Table) GetRestaurantID() uint { return t.RestaurantID }

// Chair is one seat at a table with its own occupancy status.
type Chair struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TableID uint   `gorm:"not null;index;uniqueIndex:idx_chair_position" json:"table_id"`
	Table   *Table `gorm:"foreignKey:TableID" json:"-"`

	Position int         `gorm:"not null;uniqueIndex:idx_chair_position" json:"position"`
	Status   ChairStatus `gorm:"size:20;not null;default:'available'" json:"status"`
}
