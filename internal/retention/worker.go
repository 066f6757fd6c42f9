// Package retention prunes old audit rows on a schedule.
package retention

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// Pruner represents the cleanup behavior needed by the worker.
type Pruner interface {
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Start launches a periodic audit retention worker. Rows older than the
// retention window are removed on each tick.
func Start(ctx context.Context, logger *log.Logger, interval, retention time.Duration, pruner Pruner) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().UTC().Add(-retention)
			n, err := pruner.PruneBefore(ctx, cutoff)
			if err != nil {
				logger.Warn("audit retention sweep failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("audit retention removed old tool calls", "count", n, "cutoff", cutoff)
			}
		}
	}
}
