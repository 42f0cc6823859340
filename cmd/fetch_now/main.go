// Command fetch_now runs a single price fetch cycle and prints its summary.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"infinite-experiment/skywatch/internal/api"
	"infinite-experiment/skywatch/internal/common"
	"infinite-experiment/skywatch/internal/config"
	"infinite-experiment/skywatch/internal/db"
	"infinite-experiment/skywatch/internal/logging"
	"infinite-experiment/skywatch/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orm, raw, err := db.Connect(ctx, cfg)
	if err != nil {
		logging.Fatal("Failed to initialize database", "error", err)
	}
	defer raw.Close()

	deps, err := api.InitDependencies(cfg, orm, raw, common.NewCache(cfg), metrics.NewMetricsRegistry())
	if err != nil {
		logging.Fatal("Failed to initialize dependencies", "error", err)
	}

	result, err := deps.Jobs.PriceFetch.RunCycle(ctx)
	if err != nil {
		logging.Fatal("Fetch cycle failed", "error", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logging.Fatal("Failed to print result", "error", err)
	}
}
