// Package synced decorates the in-memory repositories with write-through to
// the remote store. Reads and writes land locally first so the app keeps
// working through remote outages; remote writes run on a bounded worker pool
// and failures are logged, not surfaced. The Syncer folds remote snapshots
// back into the local projection, so a write that was lost remotely is
// corrected on the next change event.
package synced

import (
	"context"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/openfairway/niner-league/internal/platform/logging"
)

const remoteWriteTimeout = 10 * time.Second

type remoteWriter struct {
	pool   *ants.Pool
	logger *logging.Logger
}

func newRemoteWriter(pool *ants.Pool, logger *logging.Logger) remoteWriter {
	if logger == nil {
		logger = logging.Default()
	}

	return remoteWriter{pool: pool, logger: logger}
}

// enqueue schedules a remote write. The task gets its own context: the
// request that triggered it is usually finished by the time it runs.
func (w remoteWriter) enqueue(op string, fn func(context.Context) error) {
	task := func() {
		ctx, cancel := context.WithTimeout(context.Background(), remoteWriteTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			w.logger.Warn("remote write failed", "op", op, "error", err)
		}
	}

	if w.pool == nil {
		go task()
		return
	}
	if err := w.pool.Submit(task); err != nil {
		w.logger.Warn("remote write not scheduled", "op", op, "error", err)
	}
}
