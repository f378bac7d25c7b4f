// Package validation collects per-field violations for request payloads.
package validation

import (
	"strings"

	"github.com/dineops/dineops/internal/units"
)

// Violations maps field names to violation codes. Handlers return the
// whole map so a client sees every bad field at once.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

func NonNegativeFloat(field string, val float64, v Violations) {
	if val < 0 {
		v[field] = "must_not_be_negative"
	}
}

func PositiveInt(field string, val int, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

func RangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	if val < minVal || val > maxVal {
		v[field] = "out_of_range"
	}
}

// ValidUnit checks the value against the fixed unit enumeration.
func ValidUnit(field string, u units.Unit, v Violations) {
	if !units.Valid(u) {
		v[field] = "unknown_unit"
	}
}

// OneOf checks that value is one of the allowed strings.
func OneOf(field, value string, allowed []string, v Violations) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v[field] = "not_allowed"
}
