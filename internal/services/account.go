package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dineops/dineops/internal/auth"
	"github.com/dineops/dineops/internal/models"
)

// AccountService handles authentication and account provisioning:
// role-scoped logins, restaurant registration (tenant + owner + settings)
// and staff account creation.
type AccountService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewAccountService(db *gorm.DB, log *zap.SugaredLogger) *AccountService {
	return &AccountService{db: db, log: log.Named("accounts")}
}

// ErrBadCredentials deliberately does not say whether the email or the
// password was wrong.
var ErrBadCredentials = errors.New("invalid email or password")

// Login checks credentials and, when wantRoles is non-empty, that the
// user's role is one of them — the admin login surface only admits admins,
// the staff surface admits staff/kitchen, and so on.
func (s *AccountService) Login(ctx context.Context, email, password string, wantRoles ...string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Role").
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive || !auth.CheckPassword(user.Password, password) {
		return nil, ErrBadCredentials
	}
	if len(wantRoles) > 0 {
		if user.Role == nil {
			return nil, ErrBadCredentials
		}
		allowed := false
		for _, r := range wantRoles {
			if user.Role.Name == r {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, ErrBadCredentials
		}
	}
	return &user, nil
}

// GetUser fetches a user with role preloaded.
func (s *AccountService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Role").First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// RegisterRestaurantInput provisions a tenant in one shot.
type RegisterRestaurantInput struct {
	Name          string
	Slug          string
	Address       string
	City          string
	Phone         string
	OwnerEmail    string
	OwnerName     string
	OwnerPassword string
}

// RegisterRestaurant creates the restaurant, its owner account and the
// default settings rows in one DB transaction.
func (s *AccountService) RegisterRestaurant(ctx context.Context, in RegisterRestaurantInput) (*models.Restaurant, *models.User, error) {
	var ownerRole models.Role
	if err := s.db.WithContext(ctx).Where("name = ?", models.RoleOwner).First(&ownerRole).Error; err != nil {
		return nil, nil, fmt.Errorf("owner role not seeded: %w", err)
	}

	hash, err := auth.HashPassword(in.OwnerPassword)
	if err != nil {
		return nil, nil, err
	}

	var rest models.Restaurant
	var owner models.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rest = models.Restaurant{
			Name:     in.Name,
			Slug:     in.Slug,
			Address:  in.Address,
			City:     in.City,
			Phone:    in.Phone,
			IsActive: true,
		}
		if err := tx.Create(&rest).Error; err != nil {
			if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "duplicate") {
				return fmt.Errorf("slug %q taken: %w", in.Slug, ErrConflict)
			}
			return err
		}

		owner = models.User{
			Email:        strings.ToLower(strings.TrimSpace(in.OwnerEmail)),
			Name:         in.OwnerName,
			Password:     hash,
			RoleID:       &ownerRole.ID,
			RestaurantID: &rest.ID,
			IsActive:     true,
		}
		if err := tx.Create(&owner).Error; err != nil {
			if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "duplicate") {
				return fmt.Errorf("email %q taken: %w", in.OwnerEmail, ErrConflict)
			}
			return err
		}

		rest.OwnerID = &owner.ID
		if err := tx.Save(&rest).Error; err != nil {
			return err
		}

		if err := tx.Create(&models.RestaurantSettings{RestaurantID: rest.ID, Currency: "USD", Timezone: "UTC"}).Error; err != nil {
			return err
		}
		return tx.Create(&models.POSSettings{
			RestaurantID:         rest.ID,
			TaxRate:              10,
			ServiceChargeRate:    5,
			InvoicePrefix:        "INV",
			NextInvoiceNumber:    1,
			EnableAutoInventory:  true,
			DefaultPaymentMethod: "cash",
			RoundedToNearest:     "none",
		}).Error
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.Infow("restaurant registered", "restaurant", rest.ID, "slug", rest.Slug, "owner", owner.ID)
	return &rest, &owner, nil
}

// CreateStaffInput provisions one restaurant-scoped account.
type CreateStaffInput struct {
	RestaurantID uint
	Email        string
	Name         string
	Password     string
	RoleName     string // manager, staff or kitchen
	HourlyRate   float64
}

// CreateStaff creates a manager/staff/kitchen account inside a tenant.
// Owner and admin roles cannot be handed out here.
func (s *AccountService) CreateStaff(ctx context.Context, in CreateStaffInput) (*models.User, error) {
	switch in.RoleName {
	case models.RoleManager, models.RoleStaff, models.RoleKitchen:
	default:
		return nil, fmt.Errorf("role %q cannot be assigned to staff: %w", in.RoleName, ErrInvalid)
	}
	var role models.Role
	if err := s.db.WithContext(ctx).Where("name = ?", in.RoleName).First(&role).Error; err != nil {
		return nil, fmt.Errorf("role %q not seeded: %w", in.RoleName, err)
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Name:         in.Name,
		Password:     hash,
		RoleID:       &role.ID,
		RestaurantID: &in.RestaurantID,
		IsActive:     true,
		HourlyRate:   in.HourlyRate,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "duplicate") {
			return nil, fmt.Errorf("email %q taken: %w", in.Email, ErrConflict)
		}
		return nil, err
	}
	return user, nil
}

// ListStaff returns a restaurant's user accounts with roles.
func (s *AccountService) ListStaff(ctx context.Context, restaurantID uint) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Preload("Role").
		Where("restaurant_id = ?", restaurantID).
		Order("name").Find(&users).Error
	return users, err
}
