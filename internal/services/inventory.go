package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dineops/dineops/internal/models"
	"github.com/dineops/dineops/internal/units"
)

// InventoryService owns inventory items, their append-only transaction
// ledger, and the derived stock status. Every stock movement goes through
// RecordTransaction so the ledger invariant holds: initial stock plus the
// signed sum of a row's transactions equals current stock.
type InventoryService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewInventoryService(db *gorm.DB, log *zap.SugaredLogger) *InventoryService {
	return &InventoryService{db: db, log: log.Named("inventory")}
}

// Get fetches one item scoped to a restaurant.
func (s *InventoryService) Get(ctx context.Context, restaurantID, id uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := s.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", id, restaurantID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("inventory item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// List returns a restaurant's items, optionally filtered by status or
// category.
func (s *InventoryService) List(ctx context.Context, restaurantID uint, status models.StockStatus, category string) ([]models.InventoryItem, error) {
	q := s.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var items []models.InventoryItem
	if err := q.Order("name").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Create validates and inserts a new item with its derived status.
func (s *InventoryService) Create(ctx context.Context, item *models.InventoryItem) error {
	if !units.Valid(item.Unit) {
		return fmt.Errorf("unit %q: %w", item.Unit, ErrInvalid)
	}
	item.Status = item.ClassifyStatus(time.Now())
	return s.db.WithContext(ctx).Create(item).Error
}

// Update applies manual edits. A unit change converts the stock levels
// when the units are compatible; an incompatible change is rejected rather
// than silently keeping the numbers (the numbers would be meaningless in
// the new unit).
func (s *InventoryService) Update(ctx context.Context, restaurantID, id uint, updates *models.InventoryItem) (*models.InventoryItem, error) {
	item, err := s.Get(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}

	if updates.Unit != "" && updates.Unit != item.Unit {
		if !units.Valid(updates.Unit) {
			return nil, fmt.Errorf("unit %q: %w", updates.Unit, ErrInvalid)
		}
		if units.Compatible(item.Unit, updates.Unit) {
			item.CurrentStock, _ = units.Convert(item.CurrentStock, item.Unit, updates.Unit)
			item.MinStock, _ = units.Convert(item.MinStock, item.Unit, updates.Unit)
			item.MaxStock, _ = units.Convert(item.MaxStock, item.Unit, updates.Unit)
		} else if item.CurrentStock != 0 || item.MinStock != 0 || item.MaxStock != 0 {
			return nil, fmt.Errorf("cannot change unit %s to incompatible %s with non-zero stock: %w", item.Unit, updates.Unit, ErrInvalid)
		}
		item.Unit = updates.Unit
	}

	item.Name = updates.Name
	item.Category = updates.Category
	item.SKU = updates.SKU
	item.Barcode = updates.Barcode
	item.Location = updates.Location
	item.MinStock = updates.MinStock
	item.MaxStock = updates.MaxStock
	item.CostPerUnit = updates.CostPerUnit
	item.SupplierName = updates.SupplierName
	item.ExpiryDate = updates.ExpiryDate
	item.Status = item.ClassifyStatus(time.Now())

	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an item unless a menu recipe still references it.
func (s *InventoryService) Delete(ctx context.Context, restaurantID, id uint) error {
	item, err := s.Get(ctx, restaurantID, id)
	if err != nil {
		return err
	}
	var refs int64
	if err := s.db.WithContext(ctx).Model(&models.MenuIngredient{}).
		Where("inventory_item_id = ?", item.ID).Count(&refs).Error; err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("item %d is referenced by %d menu ingredients: %w", id, refs, ErrConflict)
	}
	return s.db.WithContext(ctx).Delete(item).Error
}

// RecordTransaction appends a ledger entry and moves stock in one DB
// transaction. Restocks also stamp LastRestocked.
func (s *InventoryService) RecordTransaction(ctx context.Context, txn *models.InventoryTransaction) error {
	if !models.ValidReason(txn.Reason) {
		return fmt.Errorf("reason %q: %w", txn.Reason, ErrInvalid)
	}
	if txn.Quantity == 0 {
		return fmt.Errorf("zero-quantity transaction: %w", ErrInvalid)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return applyTransaction(tx, txn)
	})
}

// applyTransaction is the shared ledger write used by RecordTransaction
// and by the order deduction/restoration paths that carry their own
// enclosing DB transaction.
func applyTransaction(tx *gorm.DB, txn *models.InventoryTransaction) error {
	var item models.InventoryItem
	err := tx.Where("id = ? AND restaurant_id = ?", txn.InventoryItemID, txn.RestaurantID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("inventory item %d: %w", txn.InventoryItemID, ErrNotFound)
	}
	if err != nil {
		return err
	}

	if err := tx.Create(txn).Error; err != nil {
		return err
	}

	item.CurrentStock += txn.Quantity
	if txn.Reason == models.ReasonRestock && txn.Quantity > 0 {
		now := time.Now()
		item.LastRestocked = &now
	}
	item.Status = item.ClassifyStatus(time.Now())
	return tx.Save(&item).Error
}

// RecordWaste writes the waste ledger transaction and its waste-log entry
// atomically. Quantity is expressed positive by the caller and stored as a
// negative ledger delta.
func (s *InventoryService) RecordWaste(ctx context.Context, restaurantID, itemID uint, quantity float64, cause string, reportedBy *uint) (*models.WasteEntry, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("waste quantity must be positive: %w", ErrInvalid)
	}
	var entry *models.WasteEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txn := &models.InventoryTransaction{
			RestaurantID:    restaurantID,
			InventoryItemID: itemID,
			Quantity:        -quantity,
			Reason:          models.ReasonWaste,
			Notes:           cause,
			PerformedBy:     reportedBy,
		}
		if err := applyTransaction(tx, txn); err != nil {
			return err
		}
		var item models.InventoryItem
		if err := tx.First(&item, itemID).Error; err != nil {
			return err
		}
		entry = &models.WasteEntry{
			RestaurantID:    restaurantID,
			InventoryItemID: itemID,
			TransactionID:   txn.ID,
			Quantity:        quantity,
			Unit:            item.Unit,
			CostImpact:      quantity * item.CostPerUnit,
			Cause:           cause,
			ReportedBy:      reportedBy,
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Transactions lists the ledger for one item, newest first.
func (s *InventoryService) Transactions(ctx context.Context, restaurantID, itemID uint, limit int) ([]models.InventoryTransaction, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var txns []models.InventoryTransaction
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ? AND inventory_item_id = ?", restaurantID, itemID).
		Order("created_at DESC, id DESC").Limit(limit).Find(&txns).Error
	return txns, err
}

// LowStock returns items currently classified low or out of stock.
func (s *InventoryService) LowStock(ctx context.Context, restaurantID uint) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ? AND status IN ?", restaurantID,
			[]models.StockStatus{models.StockLowStock, models.StockOutOfStock}).
		Order("name").Find(&items).Error
	return items, err
}

// SweepStatuses reclassifies every item's status as of now. Needed because
// expiry can pass without any stock write; the cron job calls this.
func (s *InventoryService) SweepStatuses(ctx context.Context, now time.Time) (int, error) {
	var items []models.InventoryItem
	if err := s.db.WithContext(ctx).Find(&items).Error; err != nil {
		return 0, err
	}
	changed := 0
	for i := range items {
		next := items[i].ClassifyStatus(now)
		if next == items[i].Status {
			continue
		}
		if err := s.db.WithContext(ctx).Model(&items[i]).Update("status", next).Error; err != nil {
			return changed, err
		}
		s.log.Infow("stock status changed", "item", items[i].ID, "name", items[i].Name,
			"from", items[i].Status, "to", next)
		changed++
	}
	return changed, nil
}
