package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"infinite-experiment/skywatch/internal/apperrors"
	"infinite-experiment/skywatch/internal/db/repositories"
	"infinite-experiment/skywatch/internal/logging"
	"infinite-experiment/skywatch/internal/metrics"
	"infinite-experiment/skywatch/internal/models/dtos"
	"infinite-experiment/skywatch/internal/models/gorm"
	"infinite-experiment/skywatch/internal/notify"
	"infinite-experiment/skywatch/internal/validation"
)

const (
	notificationPriceDrop    = "price_drop"
	notificationConfirmation = "confirmation"
)

// AlertService evaluates price alerts against the latest snapshots and
// notifies subscribers. An alert fires at most once.
type AlertService struct {
	alerts    *repositories.AlertRepository
	snapshots *repositories.SnapshotRepository
	routes    *repositories.RouteRepository
	airlines  *repositories.AirlineRepository
	notifier  notify.Notifier
	metrics   *metrics.MetricsRegistry
	currency  string
	now       func() time.Time
}

func NewAlertService(
	alerts *repositories.AlertRepository,
	snapshots *repositories.SnapshotRepository,
	routes *repositories.RouteRepository,
	airlines *repositories.AirlineRepository,
	notifier notify.Notifier,
	metricsReg *metrics.MetricsRegistry,
	currency string,
) *AlertService {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &AlertService{
		alerts:    alerts,
		snapshots: snapshots,
		routes:    routes,
		airlines:  airlines,
		notifier:  notifier,
		metrics:   metricsReg,
		currency:  currency,
		now:       time.Now,
	}
}

// EvaluateAll checks every pending alert and returns the ones this call triggered.
// Per-alert failures are logged and skipped; only listing failures are returned.
func (s *AlertService) EvaluateAll(ctx context.Context) ([]dtos.TriggeredAlert, error) {
	pending, err := s.alerts.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending alerts: %w", err)
	}

	triggered := make([]dtos.TriggeredAlert, 0)
	for _, alert := range pending {
		airlineCode := ""
		if alert.AirlineCode != nil {
			airlineCode = *alert.AirlineCode
		}

		lowest, err := s.snapshots.LowestLatest(ctx, alert.RouteID, airlineCode)
		if err != nil {
			logging.Error("Failed to read lowest price for alert", "alert_id", alert.ID, "route_id", alert.RouteID, "error", err)
			continue
		}
		if lowest == nil || lowest.Price > alert.TargetPrice {
			continue
		}

		at := s.now().UTC()
		won, err := s.alerts.MarkTriggered(ctx, alert.ID, at)
		if err != nil {
			logging.Error("Failed to mark alert triggered", "alert_id", alert.ID, "error", err)
			continue
		}
		if !won {
			// another evaluation got there first
			continue
		}

		logging.Info("Price alert triggered",
			"alert_id", alert.ID,
			"route", alert.Route.Origin+"-"+alert.Route.Destination,
			"target_price", alert.TargetPrice,
			"current_price", lowest.Price,
			"airline", lowest.AirlineCode,
		)

		triggered = append(triggered, dtos.TriggeredAlert{
			AlertID:         alert.ID,
			RouteID:         alert.RouteID,
			Origin:          alert.Route.Origin,
			Destination:     alert.Route.Destination,
			OriginCity:      alert.Route.OriginCity,
			DestinationCity: alert.Route.DestinationCity,
			Email:           alert.Email,
			TargetPrice:     alert.TargetPrice,
			CurrentPrice:    lowest.Price,
			AirlineCode:     lowest.AirlineCode,
			AirlineName:     lowest.AirlineName,
			TriggeredAt:     at,
		})
	}

	return triggered, nil
}

// Dispatch sends one price-drop email per triggered alert and returns how many went out.
// Delivery failures never undo the trigger.
func (s *AlertService) Dispatch(ctx context.Context, triggered []dtos.TriggeredAlert) int {
	sentCount := 0
	for _, t := range triggered {
		sent, err := s.notifier.SendPriceDrop(ctx, notify.PriceDrop{
			Email: t.Email,
			Route: notify.RouteInfo{
				OriginCode:      t.Origin,
				DestinationCode: t.Destination,
				OriginCity:      t.OriginCity,
				DestinationCity: t.DestinationCity,
			},
			TargetPrice:  t.TargetPrice,
			CurrentPrice: t.CurrentPrice,
			Currency:     s.currency,
			AirlineName:  t.AirlineName,
		})
		s.metrics.RecordNotification(notificationPriceDrop, sent, err)

		if err != nil {
			logging.Warn("Failed to send price drop email", "alert_id", t.AlertID, "email", t.Email, "error", err)
			continue
		}
		if sent {
			sentCount++
		}
	}
	return sentCount
}

// CreateAlert validates and stores a new alert, then sends a confirmation email best-effort
func (s *AlertService) CreateAlert(ctx context.Context, req dtos.CreateAlertRequest) (*dtos.AlertView, error) {
	req.AirlineCode = strings.ToUpper(strings.TrimSpace(req.AirlineCode))
	req.Email = strings.TrimSpace(req.Email)

	if err := validation.Struct(req); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}

	route, err := s.routes.FindByID(ctx, req.RouteID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	if route == nil {
		return nil, apperrors.ErrRouteNotFound
	}

	alert := &gorm.PriceAlert{
		RouteID:     route.ID,
		TargetPrice: req.TargetPrice,
		Email:       req.Email,
	}

	if req.AirlineCode != "" {
		airline, err := s.airlines.FindByCode(ctx, req.AirlineCode)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternal, err)
		}
		if airline == nil {
			return nil, apperrors.ErrAirlineNotFound
		}
		alert.AirlineCode = &airline.IATACode
	}

	if err := s.alerts.Create(ctx, alert); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistence, err)
	}

	logging.Info("Price alert created", "alert_id", alert.ID, "route_id", route.ID, "target_price", alert.TargetPrice)

	sent, err := s.notifier.SendAlertConfirmation(ctx, notify.AlertConfirmation{
		Email: alert.Email,
		Route: notify.RouteInfo{
			OriginCode:      route.Origin,
			DestinationCode: route.Destination,
			OriginCity:      route.OriginCity,
			DestinationCity: route.DestinationCity,
		},
		TargetPrice: alert.TargetPrice,
		Currency:    s.currency,
	})
	s.metrics.RecordNotification(notificationConfirmation, sent, err)
	if err != nil {
		logging.Warn("Failed to send alert confirmation", "alert_id", alert.ID, "error", err)
	}

	alert.Route = *route
	view := toAlertView(*alert)
	return &view, nil
}

// ListActive returns active alerts with route info, newest first
func (s *AlertService) ListActive(ctx context.Context) ([]dtos.AlertView, error) {
	alerts, err := s.alerts.ListActive(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	views := make([]dtos.AlertView, 0, len(alerts))
	for _, a := range alerts {
		views = append(views, toAlertView(a))
	}
	return views, nil
}

func toAlertView(a gorm.PriceAlert) dtos.AlertView {
	return dtos.AlertView{
		ID:          a.ID,
		RouteID:     a.RouteID,
		Origin:      a.Route.Origin,
		Destination: a.Route.Destination,
		AirlineCode: a.AirlineCode,
		TargetPrice: a.TargetPrice,
		Email:       a.Email,
		IsActive:    a.IsActive,
		CreatedAt:   a.CreatedAt,
		TriggeredAt: a.TriggeredAt,
	}
}
