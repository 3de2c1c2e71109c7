package tasks

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotube/internal/shared"
)

// Renewal periods for the two credential lifecycles. The YouTube period
// stays under the typical one-hour access-token lifetime.
const (
	SpotifyRefreshInterval = 3600 * time.Second
	YouTubeRefreshInterval = 3000 * time.Second
)

// RefreshFunc performs one credential renewal attempt.
type RefreshFunc func(ctx context.Context) error

// Refresher runs a RefreshFunc once at start and then on a fixed interval
// until its context is cancelled. A failed attempt is logged and the prior
// token stays in place; the next tick simply tries again.
type Refresher struct {
	name     string
	interval time.Duration
	refresh  RefreshFunc
	logger   *log.Logger
}

// NewRefresher creates a periodic refresh job for the named service.
func NewRefresher(name string, interval time.Duration, fn RefreshFunc, logger *log.Logger) *Refresher {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Refresher{
		name:     name,
		interval: interval,
		refresh:  fn,
		logger:   logger,
	}
}

// RefreshNow runs a single renewal attempt and logs the outcome. The error
// is returned for callers that gate a retry of a dependent request on it;
// it never propagates past the scheduling loop.
func (r *Refresher) RefreshNow(ctx context.Context) error {
	if err := r.refresh(ctx); err != nil {
		r.logger.Error("token refresh failed", "service", r.name, "error", err)
		return err
	}

	r.logger.Info("token refreshed", "service", r.name)
	return nil
}

// Run blocks, firing an immediate renewal and then one per interval, until
// ctx is cancelled. Intended to be launched as a goroutine at startup.
func (r *Refresher) Run(ctx context.Context) {
	r.RefreshNow(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.RefreshNow(ctx)
		}
	}
}
