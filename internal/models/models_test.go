package models

import (
	"testing"
	"time"
)

func TestClassifyStatus(t *testing.T) {
	now := time.Now()
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	cases := []struct {
		name string
		item InventoryItem
		want StockStatus
	}{
		{"healthy", InventoryItem{CurrentStock: 50, MinStock: 10}, StockInStock},
		{"at threshold", InventoryItem{CurrentStock: 10, MinStock: 10}, StockLowStock},
		{"below threshold", InventoryItem{CurrentStock: 5, MinStock: 10}, StockLowStock},
		{"empty", InventoryItem{CurrentStock: 0, MinStock: 10}, StockOutOfStock},
		{"negative", InventoryItem{CurrentStock: -2, MinStock: 0}, StockOutOfStock},
		{"expired", InventoryItem{CurrentStock: 50, MinStock: 10, ExpiryDate: &past}, StockExpired},
		{"expired beats low", InventoryItem{CurrentStock: 5, MinStock: 10, ExpiryDate: &past}, StockExpired},
		{"empty beats expired", InventoryItem{CurrentStock: 0, MinStock: 10, ExpiryDate: &past}, StockOutOfStock},
		{"future expiry", InventoryItem{CurrentStock: 50, MinStock: 10, ExpiryDate: &future}, StockInStock},
	}
	for _, c := range cases {
		if got := c.item.ClassifyStatus(now); got != c.want {
			t.Errorf("%s: got %s want %s", c.name, got, c.want)
		}
	}
}

func TestOrderTransitions(t *testing.T) {
	allowed := []struct{ from, to OrderStatus }{
		{OrderPending, OrderConfirmed},
		{OrderConfirmed, OrderPreparing},
		{OrderPreparing, OrderReady},
		{OrderReady, OrderServed},
		{OrderServed, OrderCompleted},
		{OrderPending, OrderCancelled},
		{OrderServed, OrderCancelled},
	}
	for _, c := range allowed {
		if !CanTransition(c.from, c.to) {
			t.Errorf("%s -> %s should be allowed", c.from, c.to)
		}
	}

	denied := []struct{ from, to OrderStatus }{
		{OrderCompleted, OrderPending},
		{OrderCompleted, OrderCancelled},
		{OrderCancelled, OrderPending},
		{OrderPending, OrderReady},
		{OrderReady, OrderConfirmed},
		{OrderPending, OrderPending},
	}
	for _, c := range denied {
		if CanTransition(c.from, c.to) {
			t.Errorf("%s -> %s should be denied", c.from, c.to)
		}
	}
}

func TestShiftPay(t *testing.T) {
	in := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	out := in.Add(7*time.Hour + 30*time.Minute)
	s := Shift{ClockIn: in, ClockOut: &out, HourlyRate: 12}
	if got := s.Hours(); got != 7.5 {
		t.Fatalf("hours: got %v", got)
	}
	if got := s.Pay(); got != 90 {
		t.Fatalf("pay: got %v", got)
	}

	open := Shift{ClockIn: in, HourlyRate: 12}
	if open.Pay() != 0 {
		t.Fatal("open shift must not accrue pay")
	}
}

func TestPermissionCode(t *testing.T) {
	p := Permission{ResourceType: "inventory", Action: "create"}
	if p.Code() != "inventory:create" {
		t.Fatalf("got %s", p.Code())
	}
}
