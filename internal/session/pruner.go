// AngelaMos | 2026
// pruner.go

package session

import (
	"context"
	"log/slog"
	"time"
)

// RunPruner deletes expired sessions every interval until ctx is done.
func (m *Manager) RunPruner(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.Prune(ctx); err != nil {
				slog.Error("session prune failed", "error", err)
			}
		}
	}
}
