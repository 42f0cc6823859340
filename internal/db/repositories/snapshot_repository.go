package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"

	"infinite-experiment/skywatch/internal/apperrors"
	"infinite-experiment/skywatch/internal/constants"
	"infinite-experiment/skywatch/internal/models/dtos"
	"infinite-experiment/skywatch/internal/models/gorm"
)

// LatestFilter narrows a latest-per-group read; zero values mean no filter
type LatestFilter struct {
	RouteID     int64
	AirlineCode string
}

// SnapshotRepository is the append-only price snapshot store.
// Writes go through GORM; reads are single raw statements through sqlx.
type SnapshotRepository struct {
	db  *gormlib.DB
	raw *sqlx.DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *gormlib.DB, raw *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db, raw: raw}
}

// Append inserts one snapshot. There is no dedup: every call creates a row.
func (r *SnapshotRepository) Append(ctx context.Context, snapshot *gorm.PriceSnapshot) error {
	if snapshot.FetchedAt.IsZero() {
		snapshot.FetchedAt = time.Now()
	}
	snapshot.FetchedAt = snapshot.FetchedAt.UTC().Truncate(time.Microsecond)

	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(snapshot).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrPersistence,
			fmt.Errorf("append snapshot route=%d airline=%s: %w", snapshot.RouteID, snapshot.AirlineCode, err))
	}
	return nil
}

// Latest returns the newest snapshot of every matching (route, airline) group, cheapest first
func (r *SnapshotRepository) Latest(ctx context.Context, filter LatestFilter) ([]dtos.LatestPrice, error) {
	query := constants.SelectLatestPrices
	args := []interface{}{}

	if filter.RouteID != 0 {
		query += constants.FilterRouteID
		args = append(args, filter.RouteID)
	}
	if filter.AirlineCode != "" {
		query += constants.FilterAirlineCode
		args = append(args, filter.AirlineCode)
	}
	query += constants.OrderByPriceAsc

	rows := []dtos.LatestPrice{}
	if err := r.raw.SelectContext(ctx, &rows, r.raw.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to query latest prices: %w", err)
	}
	return rows, nil
}

// CompareLatest returns one latest row per airline on a route, cheapest first
func (r *SnapshotRepository) CompareLatest(ctx context.Context, routeID int64) ([]dtos.LatestPrice, error) {
	return r.Latest(ctx, LatestFilter{RouteID: routeID})
}

// CheapestLatest returns the cheapest latest-per-group row across all routes, or nil
func (r *SnapshotRepository) CheapestLatest(ctx context.Context) (*dtos.LatestPrice, error) {
	query := constants.SelectLatestPrices + constants.OrderByPriceAsc + constants.LimitOne

	var row dtos.LatestPrice
	err := r.raw.GetContext(ctx, &row, r.raw.Rebind(query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cheapest fare: %w", err)
	}
	return &row, nil
}

// LowestLatest returns the minimum among a route's latest-per-group rows,
// optionally narrowed to one airline. Returns nil when the route has no snapshots.
func (r *SnapshotRepository) LowestLatest(ctx context.Context, routeID int64, airlineCode string) (*dtos.LowestPrice, error) {
	query := constants.SelectLowestLatestPrice
	args := []interface{}{routeID}

	if airlineCode != "" {
		query += constants.FilterAirlineCode
		args = append(args, airlineCode)
	}
	query += constants.OrderByPriceAsc + constants.LimitOne

	var row dtos.LowestPrice
	err := r.raw.GetContext(ctx, &row, r.raw.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query lowest latest price: %w", err)
	}
	return &row, nil
}

// History returns a route's snapshots fetched within sinceDays of now, oldest first
func (r *SnapshotRepository) History(ctx context.Context, routeID int64, airlineCode string, sinceDays int, now time.Time) ([]dtos.HistoryPoint, error) {
	since := now.UTC().Add(-time.Duration(sinceDays) * 24 * time.Hour)

	query := constants.SelectPriceHistory
	args := []interface{}{routeID, since}

	if airlineCode != "" {
		query += constants.FilterAirlineCode
		args = append(args, airlineCode)
	}
	query += constants.OrderByFetchedAtAsc

	rows := []dtos.HistoryPoint{}
	if err := r.raw.SelectContext(ctx, &rows, r.raw.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	return rows, nil
}

// Count returns total number of snapshots
func (r *SnapshotRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&gorm.PriceSnapshot{}).Count(&count).Error
	return count, err
}

// LastFetchedAt returns the newest fetch time, or nil when the table is empty
func (r *SnapshotRepository) LastFetchedAt(ctx context.Context) (*time.Time, error) {
	var snapshot gorm.PriceSnapshot

	err := r.db.WithContext(ctx).
		Select("id", "fetched_at").
		Order("fetched_at DESC, id DESC").
		First(&snapshot).Error
	if err != nil {
		if err == gormlib.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	at := snapshot.FetchedAt.UTC()
	return &at, nil
}
