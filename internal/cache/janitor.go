package cache

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Janitor runs SweepExpired on a cron schedule so long-lived sessions do not
// accumulate entries that are never read again after expiring.
type Janitor struct {
	cron *cron.Cron
}

// StartJanitor schedules periodic sweeps of the store. The schedule uses cron
// syntax, e.g. "@every 5m".
func StartJanitor(store *Store, schedule string, logger *slog.Logger) (*Janitor, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		removed := store.SweepExpired()
		if removed > 0 {
			logger.Debug("cache sweep evicted entries", "count", removed)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	c.Start()
	return &Janitor{cron: c}, nil
}

// Stop halts scheduling. A sweep already in flight runs to completion.
func (j *Janitor) Stop() {
	if j != nil && j.cron != nil {
		j.cron.Stop()
	}
}
