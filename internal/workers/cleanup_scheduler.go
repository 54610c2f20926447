package workers

import (
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/threadline-dev/threadline/internal/tasks"
)

// StartCleanupScheduler enqueues an orphan upload sweep on the configured
// cron schedule. Blocks; run it in a goroutine.
func StartCleanupScheduler(client *asynq.Client, schedule string, logger zerolog.Logger) {
	if schedule == "" {
		logger.Info().Msg("No cleanup schedule configured - orphan sweeps disabled")
		return
	}

	spec, err := cron.ParseStandard(schedule)
	if err != nil {
		logger.Error().Err(err).Str("schedule", schedule).Msg("Invalid cleanup schedule")
		return
	}

	logger.Info().Str("schedule", schedule).Msg("Starting upload cleanup scheduler")

	for {
		next := spec.Next(time.Now())
		time.Sleep(time.Until(next))

		if _, err := client.Enqueue(tasks.NewCleanupOrphanUploadsTask(), asynq.Queue("low")); err != nil {
			logger.Error().Err(err).Msg("Failed to enqueue orphan upload cleanup")
			continue
		}
		logger.Info().Time("scheduled_for", next).Msg("Enqueued orphan upload cleanup")
	}
}
