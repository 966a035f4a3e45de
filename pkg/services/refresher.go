package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"feuerwehr-web/pkg/logger"
	"feuerwehr-web/pkg/schedule"
)

// Refresher re-warms the cached site data on an interval so visitors rarely
// hit a cold cache.
type Refresher struct {
	task *schedule.Task
}

func NewRefresher(data SiteData, interval time.Duration) *Refresher {
	return &Refresher{task: schedule.NewTask("refresh-site-data", interval, func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		start := time.Now()
		if err := data.Warm(ctx); err != nil {
			logger.Warn("site data refresh failed", zap.Error(err))
			return
		}
		logger.Debug("site data refreshed", zap.Duration("took", time.Since(start)))
	})}
}

func (r *Refresher) Start(ctx context.Context) { r.task.Start(ctx) }

func (r *Refresher) Stop() { r.task.Stop() }

// Kick re-warms the cache right away, used after an admin write dropped it,
// and restarts the interval.
func (r *Refresher) Kick() { r.task.Trigger() }
