package postgres

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lib/pq"

	"github.com/openfairway/niner-league/internal/infrastructure/store"
)

const (
	changeChannel = "league_changes"

	listenerMinReconnect = 2 * time.Second
	listenerMaxReconnect = time.Minute

	// reconcileInterval bounds how stale a projection can get if a NOTIFY
	// is lost while the listener reconnects.
	reconcileInterval = time.Minute
)

// Changes listens on the league_changes NOTIFY channel. Triggers on the
// three tables send the table name as payload. A dropped connection or the
// periodic reconcile tick emits every collection so the consumer refetches.
func (s *Store) Changes(ctx context.Context) (<-chan store.Collection, error) {
	listener := pq.NewListener(s.dsn, listenerMinReconnect, listenerMaxReconnect, func(_ pq.ListenerEventType, err error) {
		if err != nil {
			s.logger.WarnContext(ctx, "change listener event", "error", err)
		}
	})
	if err := listener.Listen(changeChannel); err != nil {
		_ = listener.Close()
		return nil, markUnavailable(errors.Wrap(err, "listen on change channel"))
	}

	out := make(chan store.Collection, 16)
	go s.pumpChanges(ctx, listener, out)

	return out, nil
}

func (s *Store) pumpChanges(ctx context.Context, listener *pq.Listener, out chan<- store.Collection) {
	defer close(out)
	defer func() {
		if err := listener.Close(); err != nil {
			s.logger.WarnContext(ctx, "close change listener", "error", err)
		}
	}()

	ticker := time.NewTicker(reconcileInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case notification := <-listener.Notify:
			if notification == nil {
				// Connection was re-established; anything could have
				// changed in the meantime.
				s.emitAll(ctx, out)
				continue
			}
			collection := store.Collection(notification.Extra)
			switch collection {
			case store.CollectionPlayers, store.CollectionRounds, store.CollectionWeeks:
				s.emit(ctx, out, collection)
			default:
				s.logger.WarnContext(ctx, "unknown change payload", "payload", notification.Extra)
			}
		case <-ticker.C:
			s.emitAll(ctx, out)
		}
	}
}

func (s *Store) emitAll(ctx context.Context, out chan<- store.Collection) {
	for _, collection := range []store.Collection{store.CollectionPlayers, store.CollectionRounds, store.CollectionWeeks} {
		s.emit(ctx, out, collection)
	}
}

func (s *Store) emit(ctx context.Context, out chan<- store.Collection, collection store.Collection) {
	select {
	case out <- collection:
	case <-ctx.Done():
	}
}
