package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartStatusScheduler runs the tournament date-based status sweep on a
// fixed interval. The returned scheduler should be shut down with the
// server.
func StartStatusScheduler(tournaments TournamentService, interval time.Duration, logger *slog.Logger) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()
			if err := tournaments.AutoUpdateStatusesByDates(ctx); err != nil {
				logger.Error("tournament status sweep failed", slog.Any("error", err))
			}
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return nil, err
	}

	scheduler.Start()
	logger.Info("tournament status scheduler started", slog.Duration("interval", interval))
	return scheduler, nil
}
