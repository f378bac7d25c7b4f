package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dineops/dineops/internal/models"
	"github.com/dineops/dineops/internal/units"
)

// MenuService owns menu categories, items and the ingredient links that
// feed automatic inventory deduction.
type MenuService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewMenuService(db *gorm.DB, log *zap.SugaredLogger) *MenuService {
	return &MenuService{db: db, log: log.Named("menu")}
}

// GetItem fetches one menu item with its recipe, scoped to a restaurant.
func (s *MenuService) GetItem(ctx context.Context, restaurantID, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	err := s.db.WithContext(ctx).
		Preload("Ingredients").Preload("Ingredients.InventoryItem").Preload("Category").
		Where("id = ? AND restaurant_id = ?", id, restaurantID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("menu item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItems returns a restaurant's menu, optionally filtered by category.
func (s *MenuService) ListItems(ctx context.Context, restaurantID uint, categoryID uint) ([]models.MenuItem, error) {
	q := s.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID)
	if categoryID != 0 {
		q = q.Where("category_id = ?", categoryID)
	}
	var items []models.MenuItem
	if err := q.Preload("Ingredients").Order("name").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CreateItem inserts a new menu item.
func (s *MenuService) CreateItem(ctx context.Context, item *models.MenuItem) error {
	if item.Price <= 0 {
		return fmt.Errorf("price must be positive: %w", ErrInvalid)
	}
	return s.db.WithContext(ctx).Create(item).Error
}

// UpdateItem applies edits to a menu item's own fields (not its recipe).
func (s *MenuService) UpdateItem(ctx context.Context, restaurantID, id uint, updates *models.MenuItem) (*models.MenuItem, error) {
	item, err := s.GetItem(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	item.Name = updates.Name
	item.Description = updates.Description
	item.Price = updates.Price
	item.ImageURL = updates.ImageURL
	item.PreparationTime = updates.PreparationTime
	item.IsAvailable = updates.IsAvailable
	item.CategoryID = updates.CategoryID
	if item.Price <= 0 {
		return nil, fmt.Errorf("price must be positive: %w", ErrInvalid)
	}
	if err := s.db.WithContext(ctx).Omit("Ingredients").Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes a menu item and its ingredient links. Orders keep
// their frozen price and a dangling menu item id; history is not rewritten.
func (s *MenuService) DeleteItem(ctx context.Context, restaurantID, id uint) error {
	item, err := s.GetItem(ctx, restaurantID, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_item_id = ?", item.ID).Delete(&models.MenuIngredient{}).Error; err != nil {
			return err
		}
		return tx.Delete(item).Error
	})
}

// SetIngredients replaces a menu item's recipe. Every referenced inventory
// item must belong to the same restaurant; a recipe unit that cannot be
// converted to the stocked unit is accepted but logged, matching the
// deduction fallback.
func (s *MenuService) SetIngredients(ctx context.Context, restaurantID, itemID uint, ingredients []models.MenuIngredient) (*models.MenuItem, error) {
	_, err := s.GetItem(ctx, restaurantID, itemID)
	if err != nil {
		return nil, err
	}

	for i := range ingredients {
		ing := &ingredients[i]
		if ing.Quantity <= 0 {
			return nil, fmt.Errorf("ingredient quantity must be positive: %w", ErrInvalid)
		}
		if !units.Valid(ing.Unit) {
			return nil, fmt.Errorf("unit %q: %w", ing.Unit, ErrInvalid)
		}
		var inv models.InventoryItem
		err := s.db.WithContext(ctx).
			Where("id = ? AND restaurant_id = ?", ing.InventoryItemID, restaurantID).
			First(&inv).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("inventory item %d: %w", ing.InventoryItemID, ErrNotFound)
		}
		if err != nil {
			return nil, err
		}
		if !units.Compatible(ing.Unit, inv.Unit) {
			s.log.Warnw("recipe unit incompatible with stocked unit",
				"menu_item", itemID, "inventory_item", inv.ID,
				"recipe_unit", ing.Unit, "stocked_unit", inv.Unit)
		}
		ing.MenuItemID = itemID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_item_id = ?", itemID).Delete(&models.MenuIngredient{}).Error; err != nil {
			return err
		}
		if len(ingredients) == 0 {
			return nil
		}
		return tx.Create(&ingredients).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetItem(ctx, restaurantID, itemID)
}

// ListCategories returns the restaurant's categories in display order.
func (s *MenuService) ListCategories(ctx context.Context, restaurantID uint) ([]models.MenuCategory, error) {
	var cats []models.MenuCategory
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("position, name").Find(&cats).Error
	return cats, err
}

// CreateCategory inserts a category.
func (s *MenuService) CreateCategory(ctx context.Context, cat *models.MenuCategory) error {
	if cat.Name == "" {
		return fmt.Errorf("category name required: %w", ErrInvalid)
	}
	return s.db.WithContext(ctx).Create(cat).Error
}

// DeleteCategory removes a category; its items keep a nil category.
func (s *MenuService) DeleteCategory(ctx context.Context, restaurantID, id uint) error {
	var cat models.MenuCategory
	err := s.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", id, restaurantID).
		First(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.MenuItem{}).
			Where("category_id = ?", cat.ID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&cat).Error
	})
}
