package services

import (
	"fmt"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	dbpkg "github.com/dineops/dineops/internal/db"
	"github.com/dineops/dineops/internal/models"
)

// setupTestDB opens a per-test in-memory sqlite database with the full
// schema migrated and the system roles seeded.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := dbpkg.Seed(db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// seedRestaurant creates a tenant with default POS settings.
func seedRestaurant(t *testing.T, db *gorm.DB) *models.Restaurant {
	t.Helper()
	rest := &models.Restaurant{Name: "Test Kitchen", Slug: "test-kitchen", IsActive: true}
	if err := db.Create(rest).Error; err != nil {
		t.Fatalf("seed restaurant: %v", err)
	}
	settings := &models.POSSettings{
		RestaurantID:         rest.ID,
		TaxRate:              10,
		ServiceChargeRate:    5,
		InvoicePrefix:        "INV",
		NextInvoiceNumber:    1,
		EnableAutoInventory:  true,
		DefaultPaymentMethod: "cash",
		RoundedToNearest:     "none",
	}
	if err := db.Create(settings).Error; err != nil {
		t.Fatalf("seed pos settings: %v", err)
	}
	return rest
}
