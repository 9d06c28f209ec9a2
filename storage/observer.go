package storage

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/batchhost/batchhost/host"
)

// writeTimeout bounds each audit-log write so a slow or unreachable
// storage backend never blocks the host's worker loop reporting path.
const writeTimeout = 2 * time.Second

// Observer returns a host.WithObserver-compatible hook that persists every
// batch observation to store. The write happens off the worker goroutine —
// WithObserver's contract requires observers not block — so a slow or
// unreachable storage backend adds audit-log lag, never batching latency.
// Write failures are logged, never returned or retried: the audit log is
// observability, not a dependency the batching path can fail on.
func Observer(store Store, logger *zap.Logger) func(host.BatchObservation) {
	return func(obs host.BatchObservation) {
		rec := RecordFromObservation(obs)
		rec.CreatedAt = time.Now()

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			defer cancel()

			if err := store.Write(ctx, rec); err != nil {
				logger.Warn("storage: failed to write batch record",
					zap.String("batch_id", obs.BatchID),
					zap.Error(err),
				)
			}
		}()
	}
}
