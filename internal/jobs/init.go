package jobs

import (
	"context"
	"time"

	"infinite-experiment/skywatch/internal/logging"
)

// InitializeJobs starts background jobs and returns the fetch job for on-demand runs
func InitializeJobs(ctx context.Context, fetchJob *PriceFetchJob, interval time.Duration, runOnStartup bool) *PriceFetchJob {
	logging.Info("Scheduling price fetch job", "interval", interval.String(), "run_on_startup", runOnStartup)

	go fetchJob.RunScheduled(ctx, interval, runOnStartup)

	return fetchJob
}
