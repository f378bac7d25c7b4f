package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dineops/dineops/internal/models"
)

// TableService owns tables and their chairs. Chairs are generated once
// from the table capacity and then addressed individually.
type TableService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewTableService(db *gorm.DB, log *zap.SugaredLogger) *TableService {
	return &TableService{db: db, log: log.Named("tables")}
}

// Get fetches one table with chairs, scoped to a restaurant.
func (s *TableService) Get(ctx context.Context, restaurantID, id uint) (*models.Table, error) {
	var table models.Table
	err := s.db.WithContext(ctx).
		Preload("Chairs", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("id = ? AND restaurant_id = ?", id, restaurantID).
		First(&table).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("table %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &table, nil
}

// List returns a restaurant's tables with chairs.
func (s *TableService) List(ctx context.Context, restaurantID uint) ([]models.Table, error) {
	var tables []models.Table
	err := s.db.WithContext(ctx).
		Preload("Chairs", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("restaurant_id = ?", restaurantID).
		Order("number").Find(&tables).Error
	return tables, err
}

// Create inserts a table and generates one chair per seat, all available.
func (s *TableService) Create(ctx context.Context, table *models.Table) error {
	if table.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive: %w", ErrInvalid)
	}
	if table.Number <= 0 {
		return fmt.Errorf("table number must be positive: %w", ErrInvalid)
	}
	table.Chairs = make([]models.Chair, table.Capacity)
	for i := range table.Chairs {
		table.Chairs[i] = models.Chair{Position: i + 1, Status: models.ChairAvailable}
	}
	return s.db.WithContext(ctx).Create(table).Error
}

// Update edits the table's own fields. Capacity changes regenerate chairs:
// growing appends available chairs, shrinking removes the highest
// positions (refused while any of them is occupied).
func (s *TableService) Update(ctx context.Context, restaurantID, id uint, updates *models.Table) (*models.Table, error) {
	table, err := s.Get(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	if updates.Capacity <= 0 {
		return nil, fmt.Errorf("capacity must be positive: %w", ErrInvalid)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if updates.Capacity > table.Capacity {
			for pos := table.Capacity + 1; pos <= updates.Capacity; pos++ {
				chair := models.Chair{TableID: table.ID, Position: pos, Status: models.ChairAvailable}
				if err := tx.Create(&chair).Error; err != nil {
					return err
				}
			}
		} else if updates.Capacity < table.Capacity {
			var occupied int64
			if err := tx.Model(&models.Chair{}).
				Where("table_id = ? AND position > ? AND status <> ?",
					table.ID, updates.Capacity, models.ChairAvailable).
				Count(&occupied).Error; err != nil {
				return err
			}
			if occupied > 0 {
				return fmt.Errorf("cannot shrink table %d while removed chairs are in use: %w", table.ID, ErrConflict)
			}
			if err := tx.Where("table_id = ? AND position > ?", table.ID, updates.Capacity).
				Delete(&models.Chair{}).Error; err != nil {
				return err
			}
		}

		table.Number = updates.Number
		table.Name = updates.Name
		table.Capacity = updates.Capacity
		table.Zone = updates.Zone
		table.IsActive = updates.IsActive
		return tx.Omit("Chairs").Save(table).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, restaurantID, id)
}

// Delete removes a table and its chairs unless an active order points at it.
func (s *TableService) Delete(ctx context.Context, restaurantID, id uint) error {
	table, err := s.Get(ctx, restaurantID, id)
	if err != nil {
		return err
	}
	var active int64
	if err := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("table_id = ? AND status NOT IN ?", table.ID,
			[]models.OrderStatus{models.OrderCompleted, models.OrderCancelled}).
		Count(&active).Error; err != nil {
		return err
	}
	if active > 0 {
		return fmt.Errorf("table %d has %d active orders: %w", id, active, ErrConflict)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("table_id = ?", table.ID).Delete(&models.Chair{}).Error; err != nil {
			return err
		}
		return tx.Delete(table).Error
	})
}

// SetChairStatus updates one seat's occupancy.
func (s *TableService) SetChairStatus(ctx context.Context, restaurantID, tableID, chairID uint, status models.ChairStatus) (*models.Chair, error) {
	if !models.ValidChairStatus(status) {
		return nil, fmt.Errorf("chair status %q: %w", status, ErrInvalid)
	}
	if _, err := s.Get(ctx, restaurantID, tableID); err != nil {
		return nil, err
	}
	var chair models.Chair
	err := s.db.WithContext(ctx).
		Where("id = ? AND table_id = ?", chairID, tableID).
		First(&chair).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("chair %d: %w", chairID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&chair).Update("status", status).Error; err != nil {
		return nil, err
	}
	chair.Status = status
	return &chair, nil
}
