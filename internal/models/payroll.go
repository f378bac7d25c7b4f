package models

import (
	"time"

	"gorm.io/gorm"
)

// Shift is one work period for a staff member. Pay for an open shift (no
// clock-out yet) is zero until it is closed.
type Shift struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	RestaurantID uint       `gorm:"index;not null" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID" json:"-"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	ClockIn  time.Time  `gorm:"not null" json:"clock_in"`
	ClockOut *time.Time `json:"clock_out,omitempty"`

	// HourlyRate is frozen from the user at clock-in so later rate changes
	// do not rewrite past pay.
	HourlyRate float64 `gorm:"type:decimal(10,2);not null" json:"hourly_rate"`
	Notes      string  `gorm:"size:500" json:"notes,omitempty"`
}

// GetRestaurantID implements the Tenanted interface.
func (s *Shift) GetRestaurantID() uint { return s.RestaurantID }

// Hours returns the worked duration in hours, zero while the shift is open.
func (s *Shift) Hours() float64 {
	if s.ClockOut == nil {
		return 0
	}
	return s.ClockOut.Sub(s.ClockIn).Hours()
}

// Pay is hours times the frozen hourly rate.
func (s *Shift) Pay() float64 {
	return s.Hours() * s.HourlyRate
}

// PayrollSummary aggregates closed shifts for one staff member over a
// period. Computed, never stored.
type PayrollSummary struct {
	UserID     uint      `json:"user_id"`
	UserName   string    `json:"user_name"`
	Shifts     int       `json:"shifts"`
	Hours      float64   `json:"hours"`
	GrossPay   float64   `json:"gross_pay"`
	PeriodFrom time.Time `json:"period_from"`
	PeriodTo   time.Time `json:"period_to"`
}
