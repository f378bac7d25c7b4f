package db

import (
	"strings"

	"gorm.io/gorm"

	"github.com/dineops/dineops/internal/models"
)

// seedPermissions creates the core resource:action permissions.
func seedPermissions(db *gorm.DB) error {
	permissions := []struct {
		ResourceType string
		Action       string
		Description  string
	}{
		// Superadmin wildcard
		{"*", "*", "Full system access"},
		// Inventory
		{"inventory", "*", "All inventory actions"},
		{"inventory", "list", "List inventory items"},
		{"inventory", "view", "View inventory item details"},
		{"inventory", "create", "Create inventory items"},
		{"inventory", "update", "Edit inventory items"},
		{"inventory", "delete", "Delete inventory items"},
		// Menu
		{"menu", "*", "All menu actions"},
		{"menu", "list", "List menu items"},
		{"menu", "view", "View menu item details"},
		{"menu", "create", "Create menu items"},
		{"menu", "update", "Edit menu items"},
		{"menu", "delete", "Delete menu items"},
		// Orders
		{"order", "*", "All order actions"},
		{"order", "list", "List orders"},
		{"order", "view", "View order details"},
		{"order", "create", "Create orders"},
		{"order", "update", "Advance order status"},
		{"order", "void", "Void orders"},
		{"order", "payment", "Process payments"},
		// Tables
		{"table", "*", "All table actions"},
		{"table", "list", "List tables"},
		{"table", "view", "View table details"},
		{"table", "create", "Create tables"},
		{"table", "update", "Edit tables and chairs"},
		{"table", "delete", "Delete tables"},
		// Payroll
		{"payroll", "*", "All payroll actions"},
		{"payroll", "list", "List shifts"},
		{"payroll", "create", "Record shifts"},
		{"payroll", "update", "Edit shifts"},
		{"payroll", "view", "View payroll summaries"},
		// Staff management
		{"staff", "*", "All staff management"},
		{"staff", "list", "List staff"},
		{"staff", "create", "Create staff accounts"},
		{"staff", "update", "Edit staff accounts"},
		// Settings
		{"settings", "view", "View restaurant/POS settings"},
		{"settings", "update", "Edit restaurant/POS settings"},
		// Reports
		{"report", "view", "View reports"},
		// Restaurant registration (platform admin)
		{"restaurant", "*", "All restaurant management"},
	}

	for _, p := range permissions {
		perm := models.Permission{
			ResourceType: p.ResourceType,
			Action:       p.Action,
			Description:  p.Description,
		}
		// FirstOrCreate keeps seeding idempotent.
		result := db.Where("resource_type = ? AND action = ?", p.ResourceType, p.Action).
			FirstOrCreate(&perm)
		if result.Error != nil {
			return result.Error
		}
	}
	return nil
}

// Seed creates permissions and the default system roles. Safe to run on
// every startup.
func Seed(db *gorm.DB) error {
	if err := seedPermissions(db); err != nil {
		return err
	}

	roles := []struct {
		Name        string
		Description string
		Permissions []string
	}{
		{models.RoleAdmin, "Platform administrator", []string{"*:*"}},
		{models.RoleOwner, "Restaurant owner", []string{
			"inventory:*", "menu:*", "order:*", "table:*", "payroll:*",
			"staff:*", "settings:view", "settings:update", "report:view",
		}},
		{models.RoleManager, "Restaurant manager", []string{
			"inventory:*", "menu:*", "order:*", "table:*", "payroll:*",
			"staff:list", "settings:view", "settings:update", "report:view",
		}},
		{models.RoleStaff, "Front-of-house staff", []string{
			"inventory:list", "inventory:view",
			"menu:list", "menu:view",
			"order:list", "order:view", "order:create", "order:update", "order:payment",
			"table:list", "table:view", "table:update",
			"payroll:create",
		}},
		{models.RoleKitchen, "Kitchen staff", []string{
			"order:list", "order:view", "order:update",
			"menu:list", "menu:view",
			"inventory:list", "inventory:view",
			"payroll:create",
		}},
	}

	for _, r := range roles {
		role := models.Role{Name: r.Name, Description: r.Description, IsSystem: true}
		if err := db.Where("name = ?", r.Name).FirstOrCreate(&role).Error; err != nil {
			return err
		}

		var perms []models.Permission
		for _, code := range r.Permissions {
			parts := strings.SplitN(code, ":", 2)
			var p models.Permission
			if err := db.Where("resource_type = ? AND action = ?", parts[0], parts[1]).First(&p).Error; err != nil {
				return err
			}
			perms = append(perms, p)
		}
		if err := db.Model(&role).Association("Permissions").Replace(perms); err != nil {
			return err
		}
	}
	return nil
}
