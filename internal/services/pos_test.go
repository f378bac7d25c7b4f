package services

import (
	"math"
	"testing"

	"github.com/dineops/dineops/internal/models"
)

func defaultPOS() models.POSSettings {
	return models.POSSettings{TaxRate: 10, ServiceChargeRate: 5, RoundedToNearest: "none"}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCalculateTotalsExample(t *testing.T) {
	// subtotal 100, discount 10%, tax 10%, service 5%
	items := []LineItem{{UnitPrice: 25, Quantity: 4}}
	got := CalculateTotals(items, 10, defaultPOS())

	if !almostEqual(got.Subtotal, 100) {
		t.Fatalf("subtotal: %v", got.Subtotal)
	}
	if !almostEqual(got.DiscountAmount, 10) {
		t.Fatalf("discount: %v", got.DiscountAmount)
	}
	if !almostEqual(got.Tax, 9) {
		t.Fatalf("tax: %v", got.Tax)
	}
	if !almostEqual(got.ServiceCharge, 4.5) {
		t.Fatalf("service: %v", got.ServiceCharge)
	}
	if !almostEqual(got.Total, 103.5) {
		t.Fatalf("total: %v", got.Total)
	}
}

func TestCalculateTotalsRounding(t *testing.T) {
	items := []LineItem{{UnitPrice: 25, Quantity: 4}}

	s := defaultPOS()
	s.RoundedToNearest = "0.5"
	if got := CalculateTotals(items, 10, s).Total; got != 103.5 {
		t.Fatalf("round 0.5: %v", got)
	}

	s.RoundedToNearest = "1"
	if got := CalculateTotals(items, 10, s).Total; got != 104 {
		t.Fatalf("round 1: %v", got)
	}

	// 103.2 total would round down to 103 and to the nearest half.
	s2 := models.POSSettings{TaxRate: 0, ServiceChargeRate: 0, RoundedToNearest: "0.5"}
	if got := CalculateTotals([]LineItem{{UnitPrice: 103.2, Quantity: 1}}, 0, s2).Total; got != 103 {
		t.Fatalf("round 103.2 to 0.5: %v", got)
	}
}

func TestCalculateTotalsEmptyOrder(t *testing.T) {
	got := CalculateTotals(nil, 50, defaultPOS())
	if got.Subtotal != 0 || got.Total != 0 {
		t.Fatalf("empty order: %+v", got)
	}
}

func TestCalculateTotalsDiscountClamped(t *testing.T) {
	items := []LineItem{{UnitPrice: 10, Quantity: 1}}
	if got := CalculateTotals(items, 150, defaultPOS()); got.DiscountAmount != 10 || got.Total != 0 {
		t.Fatalf("over-100 discount must clamp: %+v", got)
	}
	if got := CalculateTotals(items, -5, defaultPOS()); got.DiscountAmount != 0 {
		t.Fatalf("negative discount must clamp: %+v", got)
	}
}

// For any non-negative prices and discount in [0,100]: the discount never
// exceeds the subtotal, and tax/service never push the total below the
// discounted subtotal.
func TestCalculateTotalsProperties(t *testing.T) {
	prices := []float64{0, 0.99, 5, 12.5, 100, 999.95}
	quantities := []int{1, 2, 7}
	discounts := []float64{0, 1, 10, 33.3, 50, 99, 100}

	for _, p := range prices {
		for _, q := range quantities {
			for _, d := range discounts {
				got := CalculateTotals([]LineItem{{UnitPrice: p, Quantity: q}}, d, defaultPOS())
				if got.DiscountAmount > got.Subtotal+1e-9 {
					t.Fatalf("p=%v q=%d d=%v: discount %v exceeds subtotal %v", p, q, d, got.DiscountAmount, got.Subtotal)
				}
				taxable := got.Subtotal - got.DiscountAmount
				if got.Total < taxable-1e-9 {
					t.Fatalf("p=%v q=%d d=%v: total %v below taxable %v", p, q, d, got.Total, taxable)
				}
				if got.Tax < 0 || got.ServiceCharge < 0 {
					t.Fatalf("p=%v q=%d d=%v: negative tax/service: %+v", p, q, d, got)
				}
			}
		}
	}
}
