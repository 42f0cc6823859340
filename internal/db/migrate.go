package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"infinite-experiment/skywatch/internal/catalog"
	"infinite-experiment/skywatch/internal/logging"
	models "infinite-experiment/skywatch/internal/models/gorm"
)

// AllModels lists every table in migration order
var AllModels = []interface{}{
	&models.Airline{},
	&models.Route{},
	&models.PriceSnapshot{},
	&models.PriceAlert{},
}

// Migrate creates or updates the schema
func Migrate(orm *gorm.DB) error {
	if err := orm.AutoMigrate(AllModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Seed inserts catalog airlines and routes, leaving existing rows untouched
func Seed(ctx context.Context, orm *gorm.DB, cat *catalog.Catalog) error {
	airlines := make([]models.Airline, 0, len(cat.Airlines()))
	for _, a := range cat.Airlines() {
		row := models.Airline{
			IATACode: a.Code,
			Name:     a.Name,
			Alliance: cat.Alliance(),
			Country:  a.Country,
		}
		if a.LogoURL != "" {
			logo := a.LogoURL
			row.LogoURL = &logo
		}
		airlines = append(airlines, row)
	}

	routes := make([]models.Route, 0, len(cat.Routes()))
	for _, r := range cat.Routes() {
		routes = append(routes, models.Route{
			Origin:          r.Origin,
			Destination:     r.Destination,
			OriginCity:      r.OriginCity,
			DestinationCity: r.DestinationCity,
			Region:          r.Region,
		})
	}

	return orm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(airlines) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&airlines).Error; err != nil {
				return fmt.Errorf("failed to seed airlines: %w", err)
			}
		}
		if len(routes) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&routes).Error; err != nil {
				return fmt.Errorf("failed to seed routes: %w", err)
			}
		}
		logging.Info("Catalog seeded", "airlines", len(airlines), "routes", len(routes))
		return nil
	})
}
