package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an authenticated user. Every user except platform admins
// is scoped to one restaurant (tenant).
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name     string `gorm:"size:255" json:"name,omitempty"`
	Password string `gorm:"size:255;not null" json:"-"` // Hashed, never exposed in JSON
	Phone    string `gorm:"size:50" json:"phone,omitempty"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	// RoleID links the user to an authorization role.
	// A nil value means the user has no role assigned (no access).
	RoleID *uint `gorm:"index" json:"role_id,omitempty"`
	Role   *Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`

	// RestaurantID is the tenant partition. Nil for platform admins.
	RestaurantID *uint       `gorm:"index" json:"restaurant_id,omitempty"`
	Restaurant   *Restaurant `gorm:"foreignKey:RestaurantID" json:"-"`

	// HourlyRate feeds payroll for staff/kitchen users.
	HourlyRate float64 `gorm:"type:decimal(10,2);default:0" json:"hourly_rate,omitempty"`
}

// GetRestaurantID implements the Tenanted interface.
func (u *User) GetRestaurantID() uint {
	if u.RestaurantID == nil {
		return 0
	}
	return *u.RestaurantID
}

// Well-known role names seeded at startup.
const (
	RoleAdmin   = "admin"
	RoleOwner   = "owner"
	RoleManager = "manager"
	RoleStaff   = "staff"
	RoleKitchen = "kitchen"
)

// Role groups permissions. A user is assigned one role and inherits all of
// its permissions.
type Role struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name        string `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description string `gorm:"size:500" json:"description,omitempty"`
	IsSystem    bool   `gorm:"default:false" json:"is_system"`

	// Permissions holds the set of permissions this role grants.
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions,omitempty"`
}

// Permission represents a single action allowed on a resource type.
// Format: "resource:action" (e.g., "inventory:create", "order:void").
type Permission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ResourceType string `gorm:"size:50;not null;index:idx_perm_resource_action" json:"resource_type"`
	Action       string `gorm:"size:50;not null;index:idx_perm_resource_action" json:"action"`
	Description  string `gorm:"size:200" json:"description,omitempty"`
}

// Code returns the permission in "resource:action" format for matching.
func (p Permission) Code() string {
	return p.ResourceType + ":" + p.Action
}
