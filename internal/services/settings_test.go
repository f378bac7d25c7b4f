package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dineops/dineops/internal/models"
)

func TestPOSSettingsLazyDefaults(t *testing.T) {
	db := setupTestDB(t)
	rest := &models.Restaurant{Name: "Fresh", Slug: "fresh", IsActive: true}
	if err := db.Create(rest).Error; err != nil {
		t.Fatalf("seed restaurant: %v", err)
	}
	svc := NewSettingsService(db)

	got, err := svc.POS(context.Background(), rest.ID)
	if err != nil {
		t.Fatalf("pos: %v", err)
	}
	if got.TaxRate != 10 || got.ServiceChargeRate != 5 || got.InvoicePrefix != "INV" || got.NextInvoiceNumber != 1 {
		t.Fatalf("defaults: %+v", got)
	}
}

func TestUpdatePOSSettings(t *testing.T) {
	db := setupTestDB(t)
	rest := seedRestaurant(t, db)
	svc := NewSettingsService(db)
	ctx := context.Background()

	updates := &models.POSSettings{
		TaxRate:              7.5,
		ServiceChargeRate:    0,
		InvoicePrefix:        "ORD",
		EnableAutoInventory:  false,
		DefaultPaymentMethod: "card",
		RoundedToNearest:     "0.5",
	}
	got, err := svc.UpdatePOS(ctx, rest.ID, updates)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.TaxRate != 7.5 || got.InvoicePrefix != "ORD" || got.RoundedToNearest != "0.5" {
		t.Fatalf("updated: %+v", got)
	}
	// The invoice counter is owned by order creation, not settings edits.
	if got.NextInvoiceNumber != 1 {
		t.Fatalf("counter touched: %d", got.NextInvoiceNumber)
	}

	bad := *updates
	bad.TaxRate = 120
	if _, err := svc.UpdatePOS(ctx, rest.ID, &bad); !errors.Is(err, ErrInvalid) {
		t.Fatalf("tax rate 120: want ErrInvalid, got %v", err)
	}
	bad = *updates
	bad.RoundedToNearest = "0.25"
	if _, err := svc.UpdatePOS(ctx, rest.ID, &bad); !errors.Is(err, ErrInvalid) {
		t.Fatalf("bad rounding: want ErrInvalid, got %v", err)
	}
}

func TestRestaurantSettingsRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	rest := seedRestaurant(t, db)
	svc := NewSettingsService(db)
	ctx := context.Background()

	got, err := svc.UpdateRestaurant(ctx, rest.ID, &models.RestaurantSettings{
		Currency:    "EUR",
		Timezone:    "Europe/Paris",
		OpeningTime: "11:00",
		ClosingTime: "23:00",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Currency != "EUR" || got.Timezone != "Europe/Paris" {
		t.Fatalf("updated: %+v", got)
	}

	reloaded, err := svc.Restaurant(ctx, rest.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.OpeningTime != "11:00" || reloaded.ClosingTime != "23:00" {
		t.Fatalf("reloaded: %+v", reloaded)
	}
}
