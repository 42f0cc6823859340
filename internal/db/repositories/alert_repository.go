package repositories

import (
	"context"
	"time"

	"infinite-experiment/skywatch/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AlertRepository handles price_alerts table operations
type AlertRepository struct {
	db *gormlib.DB
}

// NewAlertRepository creates a new alert repository
func NewAlertRepository(db *gormlib.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// Create inserts a new active alert
func (r *AlertRepository) Create(ctx context.Context, alert *gorm.PriceAlert) error {
	alert.IsActive = true
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(alert).Error
}

// ListPending returns active alerts that have never triggered, with their routes
func (r *AlertRepository) ListPending(ctx context.Context) ([]gorm.PriceAlert, error) {
	var alerts []gorm.PriceAlert
	err := r.db.WithContext(ctx).
		Preload("Route").
		Where("is_active = ? AND triggered_at IS NULL", true).
		Order("id ASC").
		Find(&alerts).Error
	return alerts, err
}

// ListActive returns active alerts (triggered or not), newest first
func (r *AlertRepository) ListActive(ctx context.Context) ([]gorm.PriceAlert, error) {
	var alerts []gorm.PriceAlert
	err := r.db.WithContext(ctx).
		Preload("Route").
		Where("is_active = ?", true).
		Order("created_at DESC, id DESC").
		Find(&alerts).Error
	return alerts, err
}

// MarkTriggered sets triggered_at only if the alert is still active and untriggered.
// It reports whether this call performed the transition.
func (r *AlertRepository) MarkTriggered(ctx context.Context, id int64, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&gorm.PriceAlert{}).
		Where("id = ? AND is_active = ? AND triggered_at IS NULL", id, true).
		Update("triggered_at", at.UTC())
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// CountActive returns the number of active alerts
func (r *AlertRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gorm.PriceAlert{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}
