package providers

import (
	"context"
	"time"

	"infinite-experiment/skywatch/internal/logging"
	"infinite-experiment/skywatch/internal/metrics"
	"infinite-experiment/skywatch/internal/models/dtos"
	"infinite-experiment/skywatch/internal/pricing"
)

// Outcome tags what a fallback stage produced
type Outcome int

const (
	OutcomeOffers Outcome = iota
	OutcomeEmpty
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOffers:
		return "offers"
	case OutcomeEmpty:
		return "empty"
	default:
		return "failed"
	}
}

// StageResult is the tagged result of one stage
type StageResult struct {
	Outcome Outcome
	Offers  []dtos.Offer
	Err     error
}

// Stage is one fallible step of the fallback pipeline
type Stage struct {
	Name string
	Run  func(ctx context.Context, params SearchParams) StageResult
}

// Adapter runs stages in order until one produces offers. It never returns an error.
type Adapter struct {
	stages  []Stage
	metrics *metrics.MetricsRegistry
}

func NewAdapter(metricsReg *metrics.MetricsRegistry, stages ...Stage) *Adapter {
	return &Adapter{stages: stages, metrics: metricsReg}
}

// NewPriceAdapter wires the live stage (when provider is non-nil) ahead of synthesis
func NewPriceAdapter(provider PriceProvider, timeout time.Duration, model *pricing.Model, metricsReg *metrics.MetricsRegistry) *Adapter {
	var stages []Stage
	if provider != nil {
		stages = append(stages, LiveStage(provider, timeout))
	}
	stages = append(stages, SyntheticStage(model))
	return NewAdapter(metricsReg, stages...)
}

// Fetch returns offers from the first successful stage
func (a *Adapter) Fetch(ctx context.Context, params SearchParams) []dtos.Offer {
	params = params.withDefaults()

	for _, stage := range a.stages {
		res := stage.Run(ctx, params)
		if res.Outcome == OutcomeOffers && len(res.Offers) > 0 {
			return res.Offers
		}

		reason := FallbackReason(res.Err)
		a.metrics.RecordFallback(reason)
		logging.Warn("Price stage produced no offers, falling back",
			"stage", stage.Name,
			"outcome", res.Outcome.String(),
			"reason", reason,
			"route", params.Origin+"-"+params.Destination,
			"departure_date", params.DepartureDate,
			"error", res.Err,
		)
	}

	return nil
}

// LiveStage queries the upstream provider under a per-call timeout
func LiveStage(provider PriceProvider, timeout time.Duration) Stage {
	return Stage{
		Name: provider.GetProviderType(),
		Run: func(ctx context.Context, params SearchParams) StageResult {
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			offers, err := provider.Search(ctx, params)
			switch {
			case err != nil && IsEmptyResult(err):
				return StageResult{Outcome: OutcomeEmpty, Err: err}
			case err != nil && ctx.Err() != nil:
				return StageResult{Outcome: OutcomeFailed, Err: classifyTransportError(ctx.Err())}
			case err != nil:
				return StageResult{Outcome: OutcomeFailed, Err: err}
			case len(offers) == 0:
				return StageResult{Outcome: OutcomeEmpty}
			}
			return StageResult{Outcome: OutcomeOffers, Offers: offers}
		},
	}
}

// SyntheticStage always produces offers from the price model
func SyntheticStage(model *pricing.Model) Stage {
	return Stage{
		Name: "synthetic",
		Run: func(_ context.Context, params SearchParams) StageResult {
			offers := model.Synthesize(pricing.Query{
				Origin:        params.Origin,
				Destination:   params.Destination,
				DepartureDate: params.DepartureDate,
				ReturnDate:    params.ReturnDate,
				CabinClass:    params.CabinClass,
			})
			if len(offers) == 0 {
				return StageResult{Outcome: OutcomeEmpty}
			}
			return StageResult{Outcome: OutcomeOffers, Offers: offers}
		},
	}
}
