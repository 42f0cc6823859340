package services

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jszwec/csvutil"

	"infinite-experiment/skywatch/internal/apperrors"
	"infinite-experiment/skywatch/internal/common"
	"infinite-experiment/skywatch/internal/constants"
	"infinite-experiment/skywatch/internal/db/repositories"
	"infinite-experiment/skywatch/internal/logging"
	"infinite-experiment/skywatch/internal/metrics"
	"infinite-experiment/skywatch/internal/models/dtos"
	"infinite-experiment/skywatch/internal/models/gorm"
	"infinite-experiment/skywatch/internal/providers"
	"infinite-experiment/skywatch/internal/validation"
)

const (
	DefaultHistoryDays = 30
	MaxHistoryDays     = 365
)

// OfferFetcher is the adapter contract consumed by services and jobs
type OfferFetcher interface {
	Fetch(ctx context.Context, params providers.SearchParams) []dtos.Offer
}

// PriceQueryService serves read-side price queries with a short-lived cache
type PriceQueryService struct {
	snapshots *repositories.SnapshotRepository
	routes    *repositories.RouteRepository
	airlines  *repositories.AirlineRepository
	alerts    *repositories.AlertRepository
	fetcher   OfferFetcher
	cache     common.CacheInterface
	cacheTTL  time.Duration
	metrics   *metrics.MetricsRegistry
	now       func() time.Time

	// bumped by InvalidateCache; part of every cache key
	generation atomic.Uint64
}

func NewPriceQueryService(
	snapshots *repositories.SnapshotRepository,
	routes *repositories.RouteRepository,
	airlines *repositories.AirlineRepository,
	alerts *repositories.AlertRepository,
	fetcher OfferFetcher,
	cache common.CacheInterface,
	cacheTTL time.Duration,
	metricsReg *metrics.MetricsRegistry,
) *PriceQueryService {
	return &PriceQueryService{
		snapshots: snapshots,
		routes:    routes,
		airlines:  airlines,
		alerts:    alerts,
		fetcher:   fetcher,
		cache:     cache,
		cacheTTL:  cacheTTL,
		metrics:   metricsReg,
		now:       time.Now,
	}
}

// Latest returns the newest fare per (route, airline), cheapest first
func (s *PriceQueryService) Latest(ctx context.Context, filter repositories.LatestFilter) ([]dtos.LatestPrice, error) {
	filter.AirlineCode = strings.ToUpper(strings.TrimSpace(filter.AirlineCode))
	key := fmt.Sprintf("latest_%d_%s", filter.RouteID, filter.AirlineCode)

	return cached(s, "latest", key, func() ([]dtos.LatestPrice, error) {
		rows, err := s.snapshots.Latest(ctx, filter)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternal, err)
		}
		return rows, nil
	})
}

// Compare returns the latest fare of every airline on one route
func (s *PriceQueryService) Compare(ctx context.Context, routeID int64) (*dtos.CompareResponse, error) {
	route, err := s.requireRoute(ctx, routeID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("compare_%d", routeID)
	return cached(s, "compare", key, func() (*dtos.CompareResponse, error) {
		rows, err := s.snapshots.CompareLatest(ctx, routeID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternal, err)
		}
		return &dtos.CompareResponse{
			RouteID:     route.ID,
			Origin:      route.Origin,
			Destination: route.Destination,
			Airlines:    rows,
		}, nil
	})
}

// History returns a route's snapshots from the last days days, oldest first
func (s *PriceQueryService) History(ctx context.Context, routeID int64, airlineCode string, days int) (*dtos.HistoryResponse, error) {
	route, err := s.requireRoute(ctx, routeID)
	if err != nil {
		return nil, err
	}

	days = clampDays(days)
	airlineCode = strings.ToUpper(strings.TrimSpace(airlineCode))
	key := fmt.Sprintf("history_%d_%s_%d", routeID, airlineCode, days)

	return cached(s, "history", key, func() (*dtos.HistoryResponse, error) {
		points, err := s.snapshots.History(ctx, routeID, airlineCode, days, s.now())
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternal, err)
		}
		return &dtos.HistoryResponse{
			RouteID:     route.ID,
			Origin:      route.Origin,
			Destination: route.Destination,
			Days:        days,
			Points:      points,
		}, nil
	})
}

// ExportHistoryCSV renders History as CSV and suggests a file name
func (s *PriceQueryService) ExportHistoryCSV(ctx context.Context, routeID int64, airlineCode string, days int) ([]byte, string, error) {
	history, err := s.History(ctx, routeID, airlineCode, days)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("price_history_%s-%s_%dd.csv", history.Origin, history.Destination, history.Days)

	// csvutil writes nothing for an empty slice, so the header is encoded explicitly
	header, err := csvutil.Header(dtos.HistoryPoint{}, "csv")
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternal, err)
	}
	if len(history.Points) == 0 {
		return []byte(strings.Join(header, ",") + "\n"), filename, nil
	}

	data, err := csvutil.Marshal(history.Points)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternal, fmt.Errorf("encode history csv: %w", err))
	}
	return data, filename, nil
}

// Dashboard summarizes monitoring state
func (s *PriceQueryService) Dashboard(ctx context.Context) (*dtos.DashboardStats, error) {
	return cached(s, "dashboard", "dashboard", func() (*dtos.DashboardStats, error) {
		var (
			stats dtos.DashboardStats
			err   error
		)

		if stats.TotalRoutes, err = s.routes.Count(ctx); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternal, err)
		}
		if stats.TotalAirlines, err = s.airlines.Count(ctx); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternal, err)
		}
		if stats.TotalSnapshots, err = s.snapshots.Count(ctx); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternal, err)
		}
		if stats.ActiveAlerts, err = s.alerts.CountActive(ctx); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternal, err)
		}
		if stats.LastUpdated, err = s.snapshots.LastFetchedAt(ctx); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternal, err)
		}
		if stats.CheapestFare, err = s.snapshots.CheapestLatest(ctx); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternal, err)
		}
		return &stats, nil
	})
}

// Search runs an ad-hoc adapter query; nothing is persisted
func (s *PriceQueryService) Search(ctx context.Context, req dtos.SearchRequest) (*dtos.SearchResponse, error) {
	req.Origin = strings.ToUpper(strings.TrimSpace(req.Origin))
	req.Destination = strings.ToUpper(strings.TrimSpace(req.Destination))
	req.CabinClass = strings.ToUpper(strings.TrimSpace(req.CabinClass))

	if err := validation.Struct(req); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	if req.CabinClass == "" {
		req.CabinClass = constants.CabinEconomy
	}

	offers := s.fetcher.Fetch(ctx, providers.SearchParams{
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: req.DepartureDate,
		ReturnDate:    req.ReturnDate,
		Adults:        req.Adults,
		CabinClass:    req.CabinClass,
		MaxResults:    req.MaxResults,
	})
	if offers == nil {
		offers = []dtos.Offer{}
	}

	return &dtos.SearchResponse{
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: req.DepartureDate,
		CabinClass:    req.CabinClass,
		Offers:        offers,
	}, nil
}

// Airlines lists the monitored airlines
func (s *PriceQueryService) Airlines(ctx context.Context) ([]dtos.AirlineView, error) {
	rows, err := s.airlines.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	out := make([]dtos.AirlineView, 0, len(rows))
	for _, a := range rows {
		out = append(out, dtos.AirlineView{
			Code:     a.IATACode,
			Name:     a.Name,
			Alliance: a.Alliance,
			Country:  a.Country,
			LogoURL:  a.LogoURL,
		})
	}
	return out, nil
}

// Routes lists monitored routes, optionally in one region
func (s *PriceQueryService) Routes(ctx context.Context, region string) ([]dtos.RouteView, error) {
	rows, err := s.routes.List(ctx, strings.TrimSpace(region))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	out := make([]dtos.RouteView, 0, len(rows))
	for _, r := range rows {
		out = append(out, toRouteView(r))
	}
	return out, nil
}

func (s *PriceQueryService) Regions(ctx context.Context) ([]string, error) {
	regions, err := s.routes.Regions(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	if regions == nil {
		regions = []string{}
	}
	return regions, nil
}

// InvalidateCache drops every cached price query. Loads already in flight
// store under the previous generation, so they are never served again.
func (s *PriceQueryService) InvalidateCache() {
	s.generation.Add(1)
	if s.cache == nil {
		return
	}
	s.cache.DeletePrefix(string(constants.CachePrefixPrices))
	logging.Debug("Price query cache invalidated")
}

func (s *PriceQueryService) requireRoute(ctx context.Context, routeID int64) (*gorm.Route, error) {
	route, err := s.routes.FindByID(ctx, routeID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	if route == nil {
		return nil, apperrors.ErrRouteNotFound
	}
	return route, nil
}

// cached reads key from the price cache, falling back to loader and recording the hit ratio
func cached[T any](s *PriceQueryService, pattern, key string, loader func() (T, error)) (T, error) {
	if s.cache == nil {
		return loader()
	}
	key = fmt.Sprintf("%sg%d_%s", constants.CachePrefixPrices, s.generation.Load(), key)

	val, hit, err := common.GetOrSetJSON(s.cache, key, s.cacheTTL, loader)
	if err != nil {
		return val, err
	}
	s.metrics.RecordCache(pattern, hit)
	return val, nil
}

func clampDays(days int) int {
	switch {
	case days <= 0:
		return DefaultHistoryDays
	case days > MaxHistoryDays:
		return MaxHistoryDays
	}
	return days
}

func toRouteView(r gorm.Route) dtos.RouteView {
	return dtos.RouteView{
		ID:              r.ID,
		Origin:          r.Origin,
		Destination:     r.Destination,
		OriginCity:      r.OriginCity,
		DestinationCity: r.DestinationCity,
		Region:          r.Region,
	}
}
