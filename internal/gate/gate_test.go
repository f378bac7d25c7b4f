package gate

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dineops/dineops/internal/auth"
	"github.com/dineops/dineops/internal/models"
)

func TestPermissionMatches(t *testing.T) {
	cases := []struct {
		have, want Permission
		match      bool
	}{
		{"inventory:create", "inventory:create", true},
		{"inventory:create", "inventory:delete", false},
		{"inventory:*", "inventory:delete", true},
		{"inventory:*", "order:delete", false},
		{"*:*", "anything:at-all", true},
		{"order:void", "order:void", true},
	}
	for _, c := range cases {
		if got := c.have.Matches(c.want); got != c.match {
			t.Errorf("%s matches %s: got %v want %v", c.have, c.want, got, c.match)
		}
	}
}

func setupGateTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Restaurant{}, &models.Role{}, &models.Permission{}, &models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedGateFixtures(t *testing.T, db *gorm.DB) (manager, kitchen models.User) {
	t.Helper()
	rest := models.Restaurant{Name: "Testaurant", Slug: "testaurant"}
	if err := db.Create(&rest).Error; err != nil {
		t.Fatalf("restaurant: %v", err)
	}
	mgrRole := models.Role{Name: models.RoleManager, Permissions: []models.Permission{
		{ResourceType: "inventory", Action: "*"},
		{ResourceType: "order", Action: "void"},
	}}
	ktRole := models.Role{Name: models.RoleKitchen, Permissions: []models.Permission{
		{ResourceType: "order", Action: "view"},
	}}
	if err := db.Create(&mgrRole).Error; err != nil {
		t.Fatalf("role: %v", err)
	}
	if err := db.Create(&ktRole).Error; err != nil {
		t.Fatalf("role: %v", err)
	}
	manager = models.User{Email: "mgr@test", Password: "x", RoleID: &mgrRole.ID, RestaurantID: &rest.ID, IsActive: true}
	kitchen = models.User{Email: "kt@test", Password: "x", RoleID: &ktRole.ID, RestaurantID: &rest.ID, IsActive: true}
	if err := db.Create(&manager).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	if err := db.Create(&kitchen).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	return
}

func identityCtx(u models.User, role string) context.Context {
	return auth.WithIdentity(context.Background(), auth.Identity{
		UserID:       u.ID,
		RestaurantID: u.GetRestaurantID(),
		Role:         role,
	})
}

func TestGateAuthorize(t *testing.T) {
	db := setupGateTestDB(t)
	manager, kitchen := seedGateFixtures(t, db)
	g := New(db, time.Minute)

	mgrCtx := identityCtx(manager, models.RoleManager)
	ktCtx := identityCtx(kitchen, models.RoleKitchen)

	if err := g.Authorize(mgrCtx, "inventory", ActionDelete); err != nil {
		t.Fatalf("manager inventory:delete should pass: %v", err)
	}
	if err := g.Authorize(mgrCtx, "order", ActionVoid); err != nil {
		t.Fatalf("manager order:void should pass: %v", err)
	}
	if err := g.Authorize(ktCtx, "inventory", ActionView); err == nil {
		t.Fatal("kitchen inventory:view should be denied")
	}
	if err := g.Authorize(context.Background(), "order", ActionView); err == nil {
		t.Fatal("anonymous caller should be denied")
	}
}

func TestGateTenantIsolation(t *testing.T) {
	db := setupGateTestDB(t)
	manager, _ := seedGateFixtures(t, db)
	g := New(db, time.Minute)

	other := models.Restaurant{Name: "Other", Slug: "other"}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("restaurant: %v", err)
	}

	mgrCtx := identityCtx(manager, models.RoleManager)
	own := &models.InventoryItem{RestaurantID: manager.GetRestaurantID()}
	foreign := &models.InventoryItem{RestaurantID: other.ID}

	if err := g.AuthorizeTenant(mgrCtx, "inventory", ActionUpdate, own); err != nil {
		t.Fatalf("own-tenant resource should pass: %v", err)
	}
	if err := g.AuthorizeTenant(mgrCtx, "inventory", ActionUpdate, foreign); err != ErrWrongTenant {
		t.Fatalf("foreign-tenant resource: expected ErrWrongTenant, got %v", err)
	}
}

func TestCachedResolverInvalidate(t *testing.T) {
	db := setupGateTestDB(t)
	manager, _ := seedGateFixtures(t, db)
	g := New(db, time.Hour)

	ctx := identityCtx(manager, models.RoleManager)
	if !g.Can(ctx, "inventory", ActionCreate) {
		t.Fatal("expected allow before deactivation")
	}

	// Deactivating the user only takes effect after invalidation because of
	// the long TTL.
	if err := db.Model(&models.User{}).Where("id = ?", manager.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if !g.Can(ctx, "inventory", ActionCreate) {
		t.Fatal("cached grant should still allow")
	}
	g.Resolver.Invalidate(manager.ID)
	if g.Can(ctx, "inventory", ActionCreate) {
		t.Fatal("invalidated grant should deny deactivated user")
	}
}
