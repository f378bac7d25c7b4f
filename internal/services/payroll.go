package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dineops/dineops/internal/models"
)

// PayrollService records staff shifts and aggregates them into pay
// summaries. The hourly rate is frozen onto the shift at clock-in.
type PayrollService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewPayrollService(db *gorm.DB, log *zap.SugaredLogger) *PayrollService {
	return &PayrollService{db: db, log: log.Named("payroll")}
}

// ClockIn opens a shift for the user. A user can have only one open shift.
func (s *PayrollService) ClockIn(ctx context.Context, restaurantID, userID uint) (*models.Shift, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", userID, restaurantID).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	var open int64
	if err := s.db.WithContext(ctx).Model(&models.Shift{}).
		Where("user_id = ? AND clock_out IS NULL", userID).
		Count(&open).Error; err != nil {
		return nil, err
	}
	if open > 0 {
		return nil, fmt.Errorf("user %d already has an open shift: %w", userID, ErrConflict)
	}

	shift := &models.Shift{
		RestaurantID: restaurantID,
		UserID:       userID,
		ClockIn:      time.Now(),
		HourlyRate:   user.HourlyRate,
	}
	if err := s.db.WithContext(ctx).Create(shift).Error; err != nil {
		return nil, err
	}
	return shift, nil
}

// ClockOut closes the user's open shift.
func (s *PayrollService) ClockOut(ctx context.Context, restaurantID, userID uint) (*models.Shift, error) {
	var shift models.Shift
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ? AND user_id = ? AND clock_out IS NULL", restaurantID, userID).
		First(&shift).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("no open shift for user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&shift).Update("clock_out", now).Error; err != nil {
		return nil, err
	}
	shift.ClockOut = &now
	return &shift, nil
}

// ListShifts returns a restaurant's shifts in a period, newest first.
// userID of zero means all staff.
func (s *PayrollService) ListShifts(ctx context.Context, restaurantID, userID uint, from, to time.Time) ([]models.Shift, error) {
	q := s.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID)
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	if !from.IsZero() {
		q = q.Where("clock_in >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("clock_in < ?", to)
	}
	var shifts []models.Shift
	err := q.Order("clock_in DESC").Find(&shifts).Error
	return shifts, err
}

// Summary aggregates closed shifts per staff member over a period.
func (s *PayrollService) Summary(ctx context.Context, restaurantID uint, from, to time.Time) ([]models.PayrollSummary, error) {
	var shifts []models.Shift
	q := s.db.WithContext(ctx).Preload("User").
		Where("restaurant_id = ? AND clock_out IS NOT NULL", restaurantID)
	if !from.IsZero() {
		q = q.Where("clock_in >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("clock_in < ?", to)
	}
	if err := q.Find(&shifts).Error; err != nil {
		return nil, err
	}

	byUser := make(map[uint]*models.PayrollSummary)
	order := make([]uint, 0)
	for _, sh := range shifts {
		sum, ok := byUser[sh.UserID]
		if !ok {
			sum = &models.PayrollSummary{
				UserID:     sh.UserID,
				UserName:   sh.User.Name,
				PeriodFrom: from,
				PeriodTo:   to,
			}
			byUser[sh.UserID] = sum
			order = append(order, sh.UserID)
		}
		sum.Shifts++
		sum.Hours += sh.Hours()
		sum.GrossPay += sh.Pay()
	}

	out := make([]models.PayrollSummary, 0, len(order))
	for _, uid := range order {
		out = append(out, *byUser[uid])
	}
	return out, nil
}
