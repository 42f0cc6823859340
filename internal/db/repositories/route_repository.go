package repositories

import (
	"context"

	"infinite-experiment/skywatch/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// RouteRepository handles routes table operations
type RouteRepository struct {
	db *gormlib.DB
}

// NewRouteRepository creates a new route repository
func NewRouteRepository(db *gormlib.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// List returns all routes, optionally narrowed to one region
func (r *RouteRepository) List(ctx context.Context, region string) ([]gorm.Route, error) {
	var routes []gorm.Route

	query := r.db.WithContext(ctx).Order("id ASC")
	if region != "" {
		query = query.Where("region = ?", region)
	}

	if err := query.Find(&routes).Error; err != nil {
		return nil, err
	}
	return routes, nil
}

// Regions returns the distinct region tags in alphabetical order
func (r *RouteRepository) Regions(ctx context.Context) ([]string, error) {
	var regions []string
	err := r.db.WithContext(ctx).
		Model(&gorm.Route{}).
		Where("region <> ''").
		Distinct().
		Order("region ASC").
		Pluck("region", &regions).Error
	return regions, err
}

// FindByID returns the route or nil when it does not exist
func (r *RouteRepository) FindByID(ctx context.Context, id int64) (*gorm.Route, error) {
	var route gorm.Route

	err := r.db.WithContext(ctx).First(&route, id).Error
	if err != nil {
		if err == gormlib.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &route, nil
}

// Count returns total number of routes
func (r *RouteRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&gorm.Route{}).Count(&count).Error
	return count, err
}
