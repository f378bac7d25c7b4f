package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dineops/dineops/internal/models"
)

// InventoryReport summarizes a restaurant's stock position.
type InventoryReport struct {
	TotalItems   int64   `json:"total_items"`
	InStock      int64   `json:"in_stock"`
	LowStock     int64   `json:"low_stock"`
	OutOfStock   int64   `json:"out_of_stock"`
	Expired      int64   `json:"expired"`
	StockValue   float64 `json:"stock_value"`
	WasteEntries int64   `json:"waste_entries"`
	WasteCost    float64 `json:"waste_cost"`
}

// SalesReport summarizes order revenue over a period.
type SalesReport struct {
	From           time.Time `json:"from"`
	To             time.Time `json:"to"`
	OrderCount     int64     `json:"order_count"`
	CancelledCount int64     `json:"cancelled_count"`
	Revenue        float64   `json:"revenue"`
	TaxCollected   float64   `json:"tax_collected"`
	ServiceCharges float64   `json:"service_charges"`
	AverageOrder   float64   `json:"average_order"`
}

// ReportService computes read-only aggregates for dashboards.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// Inventory builds the stock position report.
func (s *ReportService) Inventory(ctx context.Context, restaurantID uint) (*InventoryReport, error) {
	var report InventoryReport
	base := s.db.WithContext(ctx).Model(&models.InventoryItem{}).Where("restaurant_id = ?", restaurantID)

	if err := base.Session(&gorm.Session{}).Count(&report.TotalItems).Error; err != nil {
		return nil, err
	}
	counts := map[models.StockStatus]*int64{
		models.StockInStock:    &report.InStock,
		models.StockLowStock:   &report.LowStock,
		models.StockOutOfStock: &report.OutOfStock,
		models.StockExpired:    &report.Expired,
	}
	for status, dst := range counts {
		if err := base.Session(&gorm.Session{}).Where("status = ?", status).Count(dst).Error; err != nil {
			return nil, err
		}
	}

	row := s.db.WithContext(ctx).Model(&models.InventoryItem{}).
		Where("restaurant_id = ?", restaurantID).
		Select("COALESCE(SUM(current_stock * cost_per_unit), 0)").
		Row()
	if err := row.Scan(&report.StockValue); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&models.WasteEntry{}).
		Where("restaurant_id = ?", restaurantID).
		Count(&report.WasteEntries).Error; err != nil {
		return nil, err
	}
	row = s.db.WithContext(ctx).Model(&models.WasteEntry{}).
		Where("restaurant_id = ?", restaurantID).
		Select("COALESCE(SUM(cost_impact), 0)").
		Row()
	if err := row.Scan(&report.WasteCost); err != nil {
		return nil, err
	}
	return &report, nil
}

// Sales builds the revenue report for a period. Revenue counts completed
// orders only; cancelled orders are reported separately.
func (s *ReportService) Sales(ctx context.Context, restaurantID uint, from, to time.Time) (*SalesReport, error) {
	report := SalesReport{From: from, To: to}

	base := s.db.WithContext(ctx).Model(&models.Order{}).Where("restaurant_id = ?", restaurantID)
	if !from.IsZero() {
		base = base.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		base = base.Where("created_at < ?", to)
	}

	completed := base.Session(&gorm.Session{}).Where("status = ?", models.OrderCompleted)
	if err := completed.Session(&gorm.Session{}).Count(&report.OrderCount).Error; err != nil {
		return nil, err
	}
	row := completed.Session(&gorm.Session{}).
		Select("COALESCE(SUM(total), 0), COALESCE(SUM(tax), 0), COALESCE(SUM(service_charge), 0)").
		Row()
	if err := row.Scan(&report.Revenue, &report.TaxCollected, &report.ServiceCharges); err != nil {
		return nil, err
	}

	if err := base.Session(&gorm.Session{}).
		Where("status = ?", models.OrderCancelled).
		Count(&report.CancelledCount).Error; err != nil {
		return nil, err
	}

	if report.OrderCount > 0 {
		report.AverageOrder = report.Revenue / float64(report.OrderCount)
	}
	return &report, nil
}
