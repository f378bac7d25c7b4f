package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dineops/dineops/internal/models"
	"github.com/dineops/dineops/internal/units"
)

// CreateOrderInput is the validated payload for order creation.
type CreateOrderInput struct {
	RestaurantID uint
	ServerID     *uint
	TableID      *uint
	OrderType    models.OrderType
	DiscountPct  float64
	Notes        string
	Items        []CreateOrderItemInput
}

type CreateOrderItemInput struct {
	MenuItemID uint
	Quantity   int
	ChairID    *uint
	Notes      string
}

// OrderService drives the order lifecycle. Order creation, automatic
// ingredient deduction, voiding and inventory restoration each run inside
// a single DB transaction: an order either fully exists with its stock
// movements or not at all.
type OrderService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewOrderService(db *gorm.DB, log *zap.SugaredLogger) *OrderService {
	return &OrderService{db: db, log: log.Named("orders")}
}

// Get fetches one order with items, scoped to a restaurant.
func (s *OrderService) Get(ctx context.Context, restaurantID, id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").Preload("Items.MenuItem").
		Where("id = ? AND restaurant_id = ?", id, restaurantID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns a restaurant's orders, newest first. status may be a
// concrete status or "active" for everything not yet terminal.
func (s *OrderService) List(ctx context.Context, restaurantID uint, status string) ([]models.Order, error) {
	q := s.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID)
	switch status {
	case "":
	case "active":
		q = q.Where("status NOT IN ?", []models.OrderStatus{models.OrderCompleted, models.OrderCancelled})
	default:
		if !models.ValidOrderStatus(models.OrderStatus(status)) {
			return nil, fmt.Errorf("status %q: %w", status, ErrInvalid)
		}
		q = q.Where("status = ?", status)
	}
	var orders []models.Order
	if err := q.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Create validates the input, prices the lines from the current menu,
// computes the totals, allocates the next order number and — when auto
// inventory is enabled — deducts every non-optional ingredient, all inside
// one DB transaction.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("order has no items: %w", ErrInvalid)
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("item quantity must be positive: %w", ErrInvalid)
		}
	}
	if in.OrderType == "" {
		in.OrderType = models.OrderDineIn
	}

	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		settings, err := posSettingsForUpdate(tx, in.RestaurantID)
		if err != nil {
			return err
		}

		// Price the lines against the live menu.
		lines := make([]LineItem, 0, len(in.Items))
		orderItems := make([]models.OrderItem, 0, len(in.Items))
		for _, it := range in.Items {
			var menuItem models.MenuItem
			err := tx.Where("id = ? AND restaurant_id = ?", it.MenuItemID, in.RestaurantID).
				First(&menuItem).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("menu item %d: %w", it.MenuItemID, ErrNotFound)
			}
			if err != nil {
				return err
			}
			if !menuItem.IsAvailable {
				return fmt.Errorf("menu item %q is not available: %w", menuItem.Name, ErrConflict)
			}
			lines = append(lines, LineItem{UnitPrice: menuItem.Price, Quantity: it.Quantity})
			orderItems = append(orderItems, models.OrderItem{
				MenuItemID:  it.MenuItemID,
				ChairID:     it.ChairID,
				Quantity:    it.Quantity,
				PriceAtTime: menuItem.Price,
				Notes:       it.Notes,
			})
		}

		totals := CalculateTotals(lines, in.DiscountPct, *settings)

		number := fmt.Sprintf("%s%04d", settings.InvoicePrefix, settings.NextInvoiceNumber)
		settings.NextInvoiceNumber++
		if err := tx.Save(settings).Error; err != nil {
			return err
		}

		order = &models.Order{
			RestaurantID:  in.RestaurantID,
			Number:        number,
			Reference:     uuid.NewString(),
			TableID:       in.TableID,
			ServerID:      in.ServerID,
			Status:        models.OrderPending,
			OrderType:     in.OrderType,
			Subtotal:      totals.Subtotal,
			Discount:      totals.DiscountAmount,
			Tax:           totals.Tax,
			ServiceCharge: totals.ServiceCharge,
			Total:         totals.Total,
			PaymentMethod: settings.DefaultPaymentMethod,
			PaymentStatus: models.PaymentPending,
			Notes:         in.Notes,
			Items:         orderItems,
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		if settings.EnableAutoInventory {
			if err := s.deductIngredients(tx, order); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("order created", "order", order.ID, "number", order.Number,
		"restaurant", order.RestaurantID, "total", order.Total)
	return order, nil
}

// deductIngredients posts one negative order-use ledger transaction per
// non-optional ingredient of every line, converting the recipe quantity to
// the stocked unit when compatible. An order that already has order-use
// rows is refused: deduction is not idempotent by nature (running it twice
// would double the decrement), so the ledger itself is the guard.
func (s *OrderService) deductIngredients(tx *gorm.DB, order *models.Order) error {
	var prior int64
	if err := tx.Model(&models.InventoryTransaction{}).
		Where("order_id = ? AND reason = ?", order.ID, models.ReasonOrderUse).
		Count(&prior).Error; err != nil {
		return err
	}
	if prior > 0 {
		return fmt.Errorf("order %d already deducted: %w", order.ID, ErrConflict)
	}

	for i := range order.Items {
		item := &order.Items[i]
		var ingredients []models.MenuIngredient
		if err := tx.Preload("InventoryItem").
			Where("menu_item_id = ?", item.MenuItemID).
			Find(&ingredients).Error; err != nil {
			return err
		}
		for _, ing := range ingredients {
			if ing.IsOptional {
				continue
			}
			perServing, ok := units.Convert(ing.Quantity, ing.Unit, ing.InventoryItem.Unit)
			if !ok {
				s.log.Warnw("ingredient unit incompatible with stocked unit, deducting raw quantity",
					"menu_item", item.MenuItemID, "inventory_item", ing.InventoryItemID,
					"from", ing.Unit, "to", ing.InventoryItem.Unit)
			}
			txn := &models.InventoryTransaction{
				RestaurantID:    order.RestaurantID,
				InventoryItemID: ing.InventoryItemID,
				Quantity:        -(perServing * float64(item.Quantity)),
				Reason:          models.ReasonOrderUse,
				OrderID:         &order.ID,
				OrderItemID:     &item.ID,
				Notes:           fmt.Sprintf("Used in order %s", order.Number),
				PerformedBy:     order.ServerID,
			}
			if err := applyTransaction(tx, txn); err != nil {
				return err
			}
		}
	}
	return nil
}

// UpdateStatus advances the order through its lifecycle. Illegal moves are
// rejected; cancellation must go through Void so inventory is restored.
func (s *OrderService) UpdateStatus(ctx context.Context, restaurantID, id uint, next models.OrderStatus) (*models.Order, error) {
	if !models.ValidOrderStatus(next) {
		return nil, fmt.Errorf("status %q: %w", next, ErrInvalid)
	}
	if next == models.OrderCancelled {
		return nil, fmt.Errorf("use void to cancel an order: %w", ErrInvalid)
	}
	order, err := s.Get(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(order.Status, next) {
		return nil, fmt.Errorf("cannot move order from %s to %s: %w", order.Status, next, ErrConflict)
	}
	if err := s.db.WithContext(ctx).Model(order).Update("status", next).Error; err != nil {
		return nil, err
	}
	order.Status = next
	return order, nil
}

// Void cancels a non-terminal order and restores any deducted inventory by
// inverting the order's recorded order-use ledger rows, all in one DB
// transaction. Inverting the ledger (rather than recomputing from the
// recipe) restores exactly what was taken even if the recipe changed since
// the order was placed. Voiding twice is a conflict.
func (s *OrderService) Void(ctx context.Context, restaurantID, id uint, reason string) (*models.Order, error) {
	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o models.Order
		err := tx.Preload("Items").
			Where("id = ? AND restaurant_id = ?", id, restaurantID).
			First(&o).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("order %d: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}
		if !models.CanTransition(o.Status, models.OrderCancelled) {
			return fmt.Errorf("cannot void order in state %s: %w", o.Status, ErrConflict)
		}

		var restored int64
		if err := tx.Model(&models.InventoryTransaction{}).
			Where("order_id = ? AND reason = ?", o.ID, models.ReasonAdjustment).
			Count(&restored).Error; err != nil {
			return err
		}
		if restored > 0 {
			return fmt.Errorf("order %d already restored: %w", o.ID, ErrConflict)
		}

		var deductions []models.InventoryTransaction
		if err := tx.Where("order_id = ? AND reason = ?", o.ID, models.ReasonOrderUse).
			Find(&deductions).Error; err != nil {
			return err
		}
		for _, d := range deductions {
			txn := &models.InventoryTransaction{
				RestaurantID:    d.RestaurantID,
				InventoryItemID: d.InventoryItemID,
				Quantity:        -d.Quantity,
				Reason:          models.ReasonAdjustment,
				OrderID:         &o.ID,
				OrderItemID:     d.OrderItemID,
				Notes:           fmt.Sprintf("Restored from voided order %s", o.Number),
			}
			if err := applyTransaction(tx, txn); err != nil {
				return err
			}
		}

		o.Status = models.OrderCancelled
		o.VoidReason = reason
		if o.PaymentStatus == models.PaymentPaid {
			o.PaymentStatus = models.PaymentRefunded
		}
		if err := tx.Save(&o).Error; err != nil {
			return err
		}
		order = &o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("order voided", "order", order.ID, "number", order.Number, "reason", reason)
	return order, nil
}

// ProcessPayment marks the order paid and, when the lifecycle allows it,
// completes the order.
func (s *OrderService) ProcessPayment(ctx context.Context, restaurantID, id uint, method string) (*models.Order, error) {
	order, err := s.Get(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	if order.Status == models.OrderCancelled {
		return nil, fmt.Errorf("cannot pay a cancelled order: %w", ErrConflict)
	}
	if order.PaymentStatus == models.PaymentPaid {
		return nil, fmt.Errorf("order %d already paid: %w", id, ErrConflict)
	}

	updates := map[string]any{
		"payment_method": method,
		"payment_status": models.PaymentPaid,
	}
	if models.CanTransition(order.Status, models.OrderCompleted) {
		updates["status"] = models.OrderCompleted
	}
	if err := s.db.WithContext(ctx).Model(order).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, restaurantID, id)
}

// posSettingsForUpdate loads (or lazily creates) the tenant's POS settings
// inside the caller's transaction.
func posSettingsForUpdate(tx *gorm.DB, restaurantID uint) (*models.POSSettings, error) {
	settings := models.POSSettings{
		RestaurantID:         restaurantID,
		TaxRate:              10,
		ServiceChargeRate:    5,
		InvoicePrefix:        "INV",
		NextInvoiceNumber:    1,
		EnableAutoInventory:  true,
		DefaultPaymentMethod: "cash",
		RoundedToNearest:     "none",
	}
	if err := tx.Where("restaurant_id = ?", restaurantID).FirstOrCreate(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}
