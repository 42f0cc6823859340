package repositories

import (
	"context"
	"strings"

	"infinite-experiment/skywatch/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// AirlineRepository handles airlines table operations
type AirlineRepository struct {
	db *gormlib.DB
}

// NewAirlineRepository creates a new airline repository
func NewAirlineRepository(db *gormlib.DB) *AirlineRepository {
	return &AirlineRepository{db: db}
}

// List returns all airlines ordered by name
func (r *AirlineRepository) List(ctx context.Context) ([]gorm.Airline, error) {
	var airlines []gorm.Airline
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&airlines).Error; err != nil {
		return nil, err
	}
	return airlines, nil
}

// FindByCode finds an airline by IATA code (case-insensitive)
func (r *AirlineRepository) FindByCode(ctx context.Context, code string) (*gorm.Airline, error) {
	var airline gorm.Airline

	err := r.db.WithContext(ctx).
		Where("iata_code = ?", strings.ToUpper(code)).
		First(&airline).Error

	if err != nil {
		if err == gormlib.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &airline, nil
}

// Count returns total number of airlines
func (r *AirlineRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&gorm.Airline{}).Count(&count).Error
	return count, err
}
