package api

import (
	"github.com/jmoiron/sqlx"
	gormlib "gorm.io/gorm"

	"infinite-experiment/skywatch/internal/catalog"
	"infinite-experiment/skywatch/internal/common"
	"infinite-experiment/skywatch/internal/config"
	"infinite-experiment/skywatch/internal/db/repositories"
	"infinite-experiment/skywatch/internal/jobs"
	"infinite-experiment/skywatch/internal/logging"
	"infinite-experiment/skywatch/internal/metrics"
	"infinite-experiment/skywatch/internal/notify"
	"infinite-experiment/skywatch/internal/pricing"
	"infinite-experiment/skywatch/internal/providers"
	"infinite-experiment/skywatch/internal/services"
)

type Repositories struct {
	Routes    *repositories.RouteRepository
	Airlines  *repositories.AirlineRepository
	Snapshots *repositories.SnapshotRepository
	Alerts    *repositories.AlertRepository
}

type Services struct {
	Cache    common.CacheInterface
	Notifier notify.Notifier
	Adapter  *providers.Adapter
	Prices   *services.PriceQueryService
	Alerts   *services.AlertService
}

type Jobs struct {
	PriceFetch *jobs.PriceFetchJob
}

type Dependencies struct {
	DB           *sqlx.DB
	Metrics      *metrics.MetricsRegistry
	Repo         *Repositories
	Services     *Services
	Jobs         *Jobs
	LiveProvider bool
}

// InitDependencies wires repositories, services and jobs. Nothing is started here.
func InitDependencies(
	cfg *config.Config,
	orm *gormlib.DB,
	raw *sqlx.DB,
	cache common.CacheInterface,
	metricsReg *metrics.MetricsRegistry,
) (*Dependencies, error) {
	cat := catalog.Default()

	repos := &Repositories{
		Routes:    repositories.NewRouteRepository(orm),
		Airlines:  repositories.NewAirlineRepository(orm),
		Snapshots: repositories.NewSnapshotRepository(orm, raw),
		Alerts:    repositories.NewAlertRepository(orm),
	}

	model := pricing.NewModel(cat, pricing.WithCurrency(cfg.ReportingCurrency))

	var live providers.PriceProvider
	if cfg.LiveProviderEnabled() {
		live = providers.NewAmadeusProvider(providers.AmadeusConfig{
			APIKey:    cfg.AmadeusAPIKey,
			APISecret: cfg.AmadeusAPISecret,
			Env:       cfg.AmadeusEnv,
			BaseURL:   cfg.AmadeusBaseURL,
			Timeout:   cfg.AmadeusTimeout,
			RPS:       cfg.AmadeusRPS,
			Currency:  cfg.ReportingCurrency,
		}, cat, cache)
		logging.Info("Live price provider enabled", "provider", live.GetProviderType(), "env", cfg.AmadeusEnv)
	} else {
		logging.Info("Live price provider disabled, using synthetic prices", "use_mock_data", cfg.UseMockData)
	}
	adapter := providers.NewPriceAdapter(live, cfg.AmadeusTimeout, model, metricsReg)

	notifier := notify.New(notify.Config{
		APIKey:    cfg.ResendAPIKey,
		BaseURL:   cfg.ResendBaseURL,
		FromEmail: cfg.ResendFromEmail,
	})

	prices := services.NewPriceQueryService(
		repos.Snapshots,
		repos.Routes,
		repos.Airlines,
		repos.Alerts,
		adapter,
		cache,
		cfg.PriceCacheTTL,
		metricsReg,
	)
	alerts := services.NewAlertService(
		repos.Alerts,
		repos.Snapshots,
		repos.Routes,
		repos.Airlines,
		notifier,
		metricsReg,
		cfg.ReportingCurrency,
	)

	fetchJob := jobs.NewPriceFetchJob(
		repos.Routes,
		repos.Snapshots,
		adapter,
		alerts,
		prices,
		metricsReg,
		cfg.FetchConcurrency,
	)

	return &Dependencies{
		DB:      raw,
		Metrics: metricsReg,
		Repo:    repos,
		Services: &Services{
			Cache:    cache,
			Notifier: notifier,
			Adapter:  adapter,
			Prices:   prices,
			Alerts:   alerts,
		},
		Jobs:         &Jobs{PriceFetch: fetchJob},
		LiveProvider: live != nil,
	}, nil
}
