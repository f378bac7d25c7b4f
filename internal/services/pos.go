package services

import (
	"math"

	"github.com/dineops/dineops/internal/models"
)

// LineItem is a priced order line used for totals calculation.
type LineItem struct {
	UnitPrice float64
	Quantity  int
}

// Totals is the money breakdown of one order.
type Totals struct {
	Subtotal       float64
	DiscountAmount float64
	Tax            float64
	ServiceCharge  float64
	Total          float64
}

// CalculateTotals computes the order money breakdown: the discount
// percentage comes off the subtotal first, tax and service charge apply to
// the discounted (taxable) amount, and the grand total is optionally
// rounded per POS settings.
func CalculateTotals(items []LineItem, discountPct float64, settings models.POSSettings) Totals {
	var subtotal float64
	for _, it := range items {
		subtotal += it.UnitPrice * float64(it.Quantity)
	}

	if discountPct < 0 {
		discountPct = 0
	} else if discountPct > 100 {
		discountPct = 100
	}

	discountAmount := subtotal * discountPct / 100
	taxable := subtotal - discountAmount
	tax := taxable * settings.TaxRate / 100
	service := taxable * settings.ServiceChargeRate / 100
	total := taxable + tax + service

	switch settings.RoundedToNearest {
	case "0.5":
		total = math.Round(total*2) / 2
	case "1":
		total = math.Round(total)
	}

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		Tax:            tax,
		ServiceCharge:  service,
		Total:          total,
	}
}
