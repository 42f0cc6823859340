package jobs

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"infinite-experiment/skywatch/internal/constants"
	"infinite-experiment/skywatch/internal/db/repositories"
	"infinite-experiment/skywatch/internal/logging"
	"infinite-experiment/skywatch/internal/metrics"
	"infinite-experiment/skywatch/internal/models/dtos"
	"infinite-experiment/skywatch/internal/models/gorm"
	"infinite-experiment/skywatch/internal/providers"
)

// OfferFetcher is the provider adapter
type OfferFetcher interface {
	Fetch(ctx context.Context, params providers.SearchParams) []dtos.Offer
}

// AlertEvaluator triggers and notifies price alerts
type AlertEvaluator interface {
	EvaluateAll(ctx context.Context) ([]dtos.TriggeredAlert, error)
	Dispatch(ctx context.Context, triggered []dtos.TriggeredAlert) int
}

// CacheInvalidator drops cached price reads after new snapshots land
type CacheInvalidator interface {
	InvalidateCache()
}

// PriceFetchJob snapshots prices for every route and lookahead window, then evaluates alerts.
// Cycles may overlap: counters are local to each call.
type PriceFetchJob struct {
	routes      *repositories.RouteRepository
	snapshots   *repositories.SnapshotRepository
	fetcher     OfferFetcher
	alerts      AlertEvaluator
	cache       CacheInvalidator
	metrics     *metrics.MetricsRegistry
	concurrency int
	windows     []int
	now         func() time.Time
}

// NewPriceFetchJob creates a new price fetch job instance
func NewPriceFetchJob(
	routes *repositories.RouteRepository,
	snapshots *repositories.SnapshotRepository,
	fetcher OfferFetcher,
	alerts AlertEvaluator,
	cache CacheInvalidator,
	metricsReg *metrics.MetricsRegistry,
	concurrency int,
) *PriceFetchJob {
	if concurrency < 1 {
		concurrency = 1
	}
	return &PriceFetchJob{
		routes:      routes,
		snapshots:   snapshots,
		fetcher:     fetcher,
		alerts:      alerts,
		cache:       cache,
		metrics:     metricsReg,
		concurrency: concurrency,
		windows:     constants.LookaheadWindows,
		now:         time.Now,
	}
}

// RunCycle fetches and stores prices for every (route, window) pair.
// Only a failure to list routes is returned; pair failures are counted in the result.
func (j *PriceFetchJob) RunCycle(ctx context.Context) (dtos.CycleResult, error) {
	start := time.Now()
	logging.Info("Starting price fetch cycle", "windows", j.windows, "concurrency", j.concurrency)

	routes, err := j.routes.List(ctx, "")
	if err != nil {
		logging.Error("Failed to list routes", "error", err)
		return dtos.CycleResult{}, fmt.Errorf("failed to list routes: %w", err)
	}

	var fetched, failed atomic.Int64

	now := j.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	g := new(errgroup.Group)
	g.SetLimit(j.concurrency)

	for _, route := range routes {
		for _, window := range j.windows {
			route, window := route, window
			g.Go(func() error {
				if ctx.Err() != nil {
					return nil
				}
				departure := today.AddDate(0, 0, window).Format(constants.DateLayout)

				n, err := j.fetchPair(ctx, route, departure, now)
				fetched.Add(int64(n))
				if err != nil {
					failed.Add(1)
					logging.Error("Failed to store prices",
						"route", route.Origin+"-"+route.Destination,
						"window_days", window,
						"departure_date", departure,
						"error", err,
					)
				}
				return nil
			})
		}
	}
	_ = g.Wait()

	triggered, err := j.alerts.EvaluateAll(ctx)
	if err != nil {
		logging.Error("Failed to evaluate alerts", "error", err)
	}
	if len(triggered) > 0 {
		sent := j.alerts.Dispatch(ctx, triggered)
		logging.Info("Price alerts dispatched", "triggered", len(triggered), "sent", sent)
	}

	if j.cache != nil {
		j.cache.InvalidateCache()
	}

	result := dtos.CycleResult{
		Fetched:         int(fetched.Load()),
		Errors:          int(failed.Load()),
		AlertsTriggered: len(triggered),
		Duration:        time.Since(start),
	}
	j.metrics.RecordCycle(result.Errors, result.AlertsTriggered, result.Duration)

	logging.Info("Completed price fetch cycle",
		"routes", len(routes),
		"fetched", result.Fetched,
		"errors", result.Errors,
		"alerts_triggered", result.AlertsTriggered,
		"duration", result.Duration.Truncate(time.Millisecond).String(),
	)
	return result, nil
}

// fetchPair stores every offer for one route and departure date.
// The first failed append aborts the rest of the pair.
func (j *PriceFetchJob) fetchPair(ctx context.Context, route gorm.Route, departure string, fetchedAt time.Time) (int, error) {
	offers := j.fetcher.Fetch(ctx, providers.SearchParams{
		Origin:        route.Origin,
		Destination:   route.Destination,
		DepartureDate: departure,
		Adults:        1,
		CabinClass:    constants.CabinEconomy,
	})

	stored := 0
	for _, offer := range offers {
		snapshot := &gorm.PriceSnapshot{
			RouteID:       route.ID,
			AirlineCode:   offer.AirlineCode,
			Price:         offer.Price,
			Currency:      offer.Currency,
			CabinClass:    offer.CabinClass,
			DepartureDate: offer.DepartureDate,
			FetchedAt:     fetchedAt,
			Source:        offer.Source,
		}
		if offer.ReturnDate != "" {
			ret := offer.ReturnDate
			snapshot.ReturnDate = &ret
		}

		if err := j.snapshots.Append(ctx, snapshot); err != nil {
			return stored, err
		}
		j.metrics.RecordSnapshot(offer.Source)
		stored++
	}
	return stored, nil
}

// RunScheduled runs a cycle every interval until ctx is cancelled
func (j *PriceFetchJob) RunScheduled(ctx context.Context, interval time.Duration, runImmediately bool) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if runImmediately {
		if _, err := j.RunCycle(ctx); err != nil {
			logging.Error("Error in initial price fetch", "error", err)
		}
	}

	for {
		select {
		case <-ticker.C:
			if _, err := j.RunCycle(ctx); err != nil {
				logging.Error("Error in scheduled price fetch", "error", err)
			}
		case <-ctx.Done():
			logging.Info("Shutting down scheduled price fetch")
			return
		}
	}
}
