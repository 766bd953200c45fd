// Package bot – stats.go logs periodic totals from the history store and
// channel health, giving the append-only log some operational visibility.
package bot

import (
	"log/slog"

	"github.com/jholhewres/floppa/pkg/floppa/channels"
	"github.com/robfig/cron/v3"
)

// statsSource is the slice of the history store the stats job needs.
type statsSource interface {
	Totals() (users, messages int64, err error)
}

// StatsJob periodically logs store totals and channel health.
type StatsJob struct {
	store  statsSource
	mgr    *channels.Manager
	logger *slog.Logger
	cron   *cron.Cron
}

// NewStatsJob creates the job over the given sources.
func NewStatsJob(store statsSource, mgr *channels.Manager, logger *slog.Logger) *StatsJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsJob{
		store:  store,
		mgr:    mgr,
		logger: logger.With("component", "stats"),
	}
}

// Start schedules the job with the given cron expression (e.g. "@hourly").
func (j *StatsJob) Start(schedule string) error {
	if schedule == "" {
		schedule = "@hourly"
	}

	j.cron = cron.New()
	if _, err := j.cron.AddFunc(schedule, j.Run); err != nil {
		return err
	}
	j.cron.Start()

	j.logger.Info("stats job scheduled", "schedule", schedule)
	return nil
}

// Stop cancels the schedule.
func (j *StatsJob) Stop() {
	if j.cron != nil {
		j.cron.Stop()
	}
}

// Run logs one stats snapshot. Failures only log; the job never interrupts
// message handling.
func (j *StatsJob) Run() {
	users, messages, err := j.store.Totals()
	if err != nil {
		j.logger.Error("failed to read store totals", "error", err)
		return
	}

	attrs := []any{"users", users, "messages", messages}
	for name, hs := range j.mgr.HealthAll() {
		attrs = append(attrs, "channel_"+name+"_connected", hs.Connected)
	}

	j.logger.Info("history stats", attrs...)
}
