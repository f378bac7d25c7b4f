package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/dineops/dineops/internal/models"
)

// Migrate applies the GORM auto-migrations for every entity.
func Migrate(db *gorm.DB) error {
	toMigrate := []any{
		&models.Role{},
		&models.Permission{},
		&models.User{},
		&models.Restaurant{},
		&models.RestaurantSettings{},
		&models.POSSettings{},
		&models.InventoryItem{},
		&models.InventoryTransaction{},
		&models.WasteEntry{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.MenuIngredient{},
		&models.Table{},
		&models.Chair{},
		&models.Order{},
		&models.OrderItem{},
		&models.Shift{},
	}
	for _, m := range toMigrate {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}
