package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dineops/dineops/internal/models"
	"github.com/dineops/dineops/internal/units"
)

func TestMenuItemCRUD(t *testing.T) {
	db := setupTestDB(t)
	rest := seedRestaurant(t, db)
	svc := NewMenuService(db, testLogger())
	ctx := context.Background()

	if err := svc.CreateItem(ctx, &models.MenuItem{RestaurantID: rest.ID, Name: "Free Lunch", Price: 0}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("zero price: want ErrInvalid, got %v", err)
	}

	item := &models.MenuItem{RestaurantID: rest.ID, Name: "Burger", Price: 9.5, IsAvailable: true}
	if err := svc.CreateItem(ctx, item); err != nil {
		t.Fatalf("create: %v", err)
	}

	updates := *item
	updates.Name = "Double Burger"
	updates.Price = 13
	got, err := svc.UpdateItem(ctx, rest.ID, item.ID, &updates)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "Double Burger" || got.Price != 13 {
		t.Fatalf("updated item: %+v", got)
	}

	if err := svc.DeleteItem(ctx, rest.ID, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetItem(ctx, rest.ID, item.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get deleted: want ErrNotFound, got %v", err)
	}
}

func TestMenuSetIngredients(t *testing.T) {
	db := setupTestDB(t)
	rest := seedRestaurant(t, db)
	svc := NewMenuService(db, testLogger())
	ctx := context.Background()

	beef := seedInventoryItem(t, db, rest.ID, "Beef", units.Gram, 5000, 500)
	bun := seedInventoryItem(t, db, rest.ID, "Buns", units.Piece, 40, 10)

	item := &models.MenuItem{RestaurantID: rest.ID, Name: "Burger", Price: 9.5, IsAvailable: true}
	if err := svc.CreateItem(ctx, item); err != nil {
		t.Fatalf("create item: %v", err)
	}

	got, err := svc.SetIngredients(ctx, rest.ID, item.ID, []models.MenuIngredient{
		{InventoryItemID: beef.ID, Quantity: 150, Unit: units.Gram},
		{InventoryItemID: bun.ID, Quantity: 1, Unit: units.Piece},
	})
	if err != nil {
		t.Fatalf("set ingredients: %v", err)
	}
	if len(got.Ingredients) != 2 {
		t.Fatalf("ingredients: %d", len(got.Ingredients))
	}

	// Replacing the recipe drops the old links.
	got, err = svc.SetIngredients(ctx, rest.ID, item.ID, []models.MenuIngredient{
		{InventoryItemID: beef.ID, Quantity: 200, Unit: units.Gram},
	})
	if err != nil {
		t.Fatalf("replace ingredients: %v", err)
	}
	if len(got.Ingredients) != 1 || got.Ingredients[0].Quantity != 200 {
		t.Fatalf("replaced recipe: %+v", got.Ingredients)
	}

	if _, err := svc.SetIngredients(ctx, rest.ID, item.ID, []models.MenuIngredient{
		{InventoryItemID: beef.ID, Quantity: -1, Unit: units.Gram},
	}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("negative quantity: want ErrInvalid, got %v", err)
	}
}

func TestMenuSetIngredientsRejectsForeignInventory(t *testing.T) {
	db := setupTestDB(t)
	rest := seedRestaurant(t, db)
	other := &models.Restaurant{Name: "Other", Slug: "other", IsActive: true}
	if err := db.Create(other).Error; err != nil {
		t.Fatalf("seed other restaurant: %v", err)
	}
	svc := NewMenuService(db, testLogger())
	ctx := context.Background()

	foreign := seedInventoryItem(t, db, other.ID, "Their Beef", units.Gram, 1000, 100)
	item := &models.MenuItem{RestaurantID: rest.ID, Name: "Burger", Price: 9.5, IsAvailable: true}
	if err := svc.CreateItem(ctx, item); err != nil {
		t.Fatalf("create item: %v", err)
	}

	if _, err := svc.SetIngredients(ctx, rest.ID, item.ID, []models.MenuIngredient{
		{InventoryItemID: foreign.ID, Quantity: 100, Unit: units.Gram},
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign inventory item: want ErrNotFound, got %v", err)
	}
}

func TestMenuCategories(t *testing.T) {
	db := setupTestDB(t)
	rest := seedRestaurant(t, db)
	svc := NewMenuService(db, testLogger())
	ctx := context.Background()

	if err := svc.CreateCategory(ctx, &models.MenuCategory{RestaurantID: rest.ID}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("nameless category: want ErrInvalid, got %v", err)
	}

	mains := &models.MenuCategory{RestaurantID: rest.ID, Name: "Mains", Position: 1, IsActive: true}
	if err := svc.CreateCategory(ctx, mains); err != nil {
		t.Fatalf("create category: %v", err)
	}

	item := &models.MenuItem{RestaurantID: rest.ID, Name: "Steak", Price: 22, IsAvailable: true, CategoryID: &mains.ID}
	if err := svc.CreateItem(ctx, item); err != nil {
		t.Fatalf("create item: %v", err)
	}

	// Deleting a category orphans its items instead of deleting them.
	if err := svc.DeleteCategory(ctx, rest.ID, mains.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	got, err := svc.GetItem(ctx, rest.ID, item.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if got.CategoryID != nil {
		t.Fatalf("item still categorized: %v", *got.CategoryID)
	}
}
