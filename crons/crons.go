package crons

import (
	"context"
	"time"

	"github.com/robfig/cron"
	"github.com/rs/zerolog/log"

	"github.com/dhiraj-001/MLM-sub000/config"
	"github.com/dhiraj-001/MLM-sub000/monitor"
)

// Jobs is the part of the service the crons run
type Jobs interface {
	UpdateTeamStatsCache(ctx context.Context) (int, error)
	NotifyQuizAvailable(ctx context.Context) (int, error)
}

// crons executed once at startup to warm up the caches
var warmUp = map[string]bool{
	"update_team_stats_cache": true,
}

const cronTimeout = 5 * time.Minute

var cronService *cron.Cron

// Start Initiate the crons based on the given configuration file
func Start(crons config.Crons, jobs Jobs) {
	cronService = cron.New()
	for id, schedule := range crons {
		callback := GetCronByID(id, jobs)
		if callback == nil {
			log.Warn().Str("section", "crons").Str("cron", id).Msg("Unknown cron, skipped")
			continue
		}
		if err := cronService.AddFunc(schedule, callback); err != nil {
			log.Error().Err(err).Str("section", "crons").Str("cron", id).Str("schedule", schedule).Msg("Invalid cron schedule")
			continue
		}
		if warmUp[id] {
			go callback()
		}
	}
	cronService.Start()
}

// GetCronByID get a function to execute based on the id
func GetCronByID(id string, jobs Jobs) func() {
	switch id {
	case "update_team_stats_cache":
		return run(id, jobs.UpdateTeamStatsCache)
	case "quiz_availability_notifications":
		return run(id, jobs.NotifyQuizAvailable)
	}
	return nil
}

// run wraps a job with a timeout, logging and the run counter
func run(id string, job func(ctx context.Context) (int, error)) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), cronTimeout)
		defer cancel()
		start := time.Now()
		count, err := job(ctx)
		if err != nil {
			monitor.CronRuns.WithLabelValues(id, "error").Inc()
			log.Error().Err(err).Str("section", "crons").Str("cron", id).Msg("Cron failed")
			return
		}
		monitor.CronRuns.WithLabelValues(id, "ok").Inc()
		log.Debug().Str("section", "crons").Str("cron", id).Int("count", count).Dur("took", time.Since(start)).Msg("Cron executed")
	}
}

// Close godoc
func Close() {
	if cronService != nil {
		cronService.Stop()
	}
}
