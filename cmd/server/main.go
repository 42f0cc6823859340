package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"infinite-experiment/skywatch/internal/api"
	"infinite-experiment/skywatch/internal/common"
	"infinite-experiment/skywatch/internal/config"
	"infinite-experiment/skywatch/internal/db"
	"infinite-experiment/skywatch/internal/jobs"
	"infinite-experiment/skywatch/internal/logging"
	"infinite-experiment/skywatch/internal/metrics"
	"infinite-experiment/skywatch/internal/routes"
)

// @title SkyWatch API
// @version 1.0
// @description Alliance airfare tracking, comparison and price-drop alerts.
// @host localhost:8080
// @BasePath /
func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("SkyWatch starting up",
		"environment", cfg.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orm, raw, err := db.Connect(ctx, cfg)
	if err != nil {
		logging.Error("Failed to initialize database", "error", err.Error())
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	defer raw.Close()

	cache := common.NewCache(cfg)
	metricsReg := metrics.NewMetricsRegistry()

	deps, err := api.InitDependencies(cfg, orm, raw, cache, metricsReg)
	if err != nil {
		logging.Error("Failed to initialize dependencies", "error", err.Error())
		log.Fatalf("❌ Failed to initialize dependencies: %v", err)
	}

	jobs.InitializeJobs(ctx, deps.Jobs.PriceFetch, cfg.FetchInterval, cfg.FetchOnStartup)

	upSince := time.Now()
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.RegisterRoutes(deps, upSince),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	go func() {
		logging.Info("Server starting", "port", cfg.Port, "environment", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server stopped unexpectedly", "error", err.Error())
			stop()
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err.Error())
	}
}
