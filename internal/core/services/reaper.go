package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/vibeshare/vibeshare/internal/core/ports"
)

// Reaper periodically deactivates expired token records. It is housekeeping
// only: Verify enforces expiry on its own, so a missed sweep never lets a
// stale session through. Sweep failures are logged and retried on the next
// tick.
type Reaper struct {
	tokens   ports.TokenRepository
	interval time.Duration
	logger   *slog.Logger
}

func NewReaper(tokens ports.TokenRepository, interval time.Duration, logger *slog.Logger) *Reaper {
	return &Reaper{
		tokens:   tokens,
		interval: interval,
		logger:   logger,
	}
}

// Run sweeps once immediately, then on every tick until ctx is cancelled.
func (r *Reaper) Run(ctx context.Context) {
	r.Sweep(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep flips every active-but-expired record inactive and reports the count.
func (r *Reaper) Sweep(ctx context.Context) int64 {
	count, err := r.tokens.DeactivateExpired(ctx)
	if err != nil {
		r.logger.Error("token sweep failed", "error", err)
		return 0
	}
	if count > 0 {
		r.logger.Info("deactivated expired tokens", "count", count)
	}
	return count
}
