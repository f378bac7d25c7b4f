package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/dineops/dineops/internal/models"
)

// SettingsService reads and writes the per-tenant POS and restaurant
// settings rows, creating defaults lazily.
type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// POS returns the tenant's POS settings, creating defaults if absent.
func (s *SettingsService) POS(ctx context.Context, restaurantID uint) (*models.POSSettings, error) {
	return posSettingsForUpdate(s.db.WithContext(ctx), restaurantID)
}

// UpdatePOS validates and saves POS settings edits.
func (s *SettingsService) UpdatePOS(ctx context.Context, restaurantID uint, updates *models.POSSettings) (*models.POSSettings, error) {
	if updates.TaxRate < 0 || updates.TaxRate > 100 {
		return nil, fmt.Errorf("tax rate out of range: %w", ErrInvalid)
	}
	if updates.ServiceChargeRate < 0 || updates.ServiceChargeRate > 100 {
		return nil, fmt.Errorf("service charge rate out of range: %w", ErrInvalid)
	}
	switch updates.RoundedToNearest {
	case "none", "0.5", "1":
	default:
		return nil, fmt.Errorf("rounding %q: %w", updates.RoundedToNearest, ErrInvalid)
	}

	settings, err := s.POS(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	settings.TaxRate = updates.TaxRate
	settings.ServiceChargeRate = updates.ServiceChargeRate
	settings.InvoicePrefix = updates.InvoicePrefix
	settings.EnableAutoInventory = updates.EnableAutoInventory
	settings.DefaultPaymentMethod = updates.DefaultPaymentMethod
	settings.RoundedToNearest = updates.RoundedToNearest
	// NextInvoiceNumber is only moved forward by order creation; manual
	// edits could reissue numbers.
	if err := s.db.WithContext(ctx).Save(settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

// Restaurant returns the tenant's display settings, creating defaults if
// absent.
func (s *SettingsService) Restaurant(ctx context.Context, restaurantID uint) (*models.RestaurantSettings, error) {
	settings := models.RestaurantSettings{RestaurantID: restaurantID, Currency: "USD", Timezone: "UTC"}
	if err := s.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID).FirstOrCreate(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateRestaurant saves display settings edits.
func (s *SettingsService) UpdateRestaurant(ctx context.Context, restaurantID uint, updates *models.RestaurantSettings) (*models.RestaurantSettings, error) {
	settings, err := s.Restaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	settings.Currency = updates.Currency
	settings.Timezone = updates.Timezone
	settings.OpeningTime = updates.OpeningTime
	settings.ClosingTime = updates.ClosingTime
	settings.LogoURL = updates.LogoURL
	settings.ReceiptFooter = updates.ReceiptFooter
	settings.OrderingBaseURL = updates.OrderingBaseURL
	if err := s.db.WithContext(ctx).Save(settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}
