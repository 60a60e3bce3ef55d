package synced

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/openfairway/niner-league/internal/domain/player"
	"github.com/openfairway/niner-league/internal/domain/round"
	"github.com/openfairway/niner-league/internal/domain/week"
	"github.com/openfairway/niner-league/internal/infrastructure/store"
	"github.com/openfairway/niner-league/internal/platform/logging"
)

const resubscribeBackoff = 5 * time.Second

// Syncer keeps the local projection aligned with the remote store. Change
// events name a collection; the syncer refetches that collection's snapshot
// and swaps it in wholesale. Remote is the source of truth, so a snapshot
// overwrites any local write the remote never saw.
type Syncer struct {
	remote  store.RemoteStore
	players player.Repository
	rounds  round.Repository
	weeks   week.Repository
	logger  *logging.Logger

	onApplied func(ctx context.Context, collection store.Collection)
}

func NewSyncer(
	remote store.RemoteStore,
	players player.Repository,
	rounds round.Repository,
	weeks week.Repository,
	logger *logging.Logger,
) *Syncer {
	if logger == nil {
		logger = logging.Default()
	}

	return &Syncer{
		remote:  remote,
		players: players,
		rounds:  rounds,
		weeks:   weeks,
		logger:  logger,
	}
}

// SetOnApplied registers a hook that fires after a snapshot lands locally.
// The app uses it to drop cached leaderboards and ping websocket clients.
func (s *Syncer) SetOnApplied(fn func(ctx context.Context, collection store.Collection)) {
	s.onApplied = fn
}

// RefreshAll pulls every collection once. Called at startup so the app
// serves remote state from the first request.
func (s *Syncer) RefreshAll(ctx context.Context) error {
	for _, collection := range []store.Collection{store.CollectionPlayers, store.CollectionRounds, store.CollectionWeeks} {
		if err := s.apply(ctx, collection); err != nil {
			return err
		}
	}

	return nil
}

// Run consumes change events until ctx is done. A broken subscription is
// re-established after a backoff; the fresh subscription starts with a full
// refresh to cover the gap.
func (s *Syncer) Run(ctx context.Context) error {
	for {
		changes, err := s.remote.Changes(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "subscribe to remote changes", "error", err)
			if !s.sleep(ctx, resubscribeBackoff) {
				return ctx.Err()
			}
			continue
		}

		if err := s.RefreshAll(ctx); err != nil {
			s.logger.WarnContext(ctx, "initial refresh after subscribe", "error", err)
		}

		if done := s.consume(ctx, changes); done {
			return ctx.Err()
		}
		if !s.sleep(ctx, resubscribeBackoff) {
			return ctx.Err()
		}
	}
}

func (s *Syncer) consume(ctx context.Context, changes <-chan store.Collection) bool {
	for {
		select {
		case <-ctx.Done():
			return true
		case collection, ok := <-changes:
			if !ok {
				return ctx.Err() != nil
			}
			if err := s.apply(ctx, collection); err != nil {
				s.logger.WarnContext(ctx, "apply remote snapshot", "collection", string(collection), "error", err)
			}
		}
	}
}

func (s *Syncer) apply(ctx context.Context, collection store.Collection) error {
	switch collection {
	case store.CollectionPlayers:
		snapshot, err := s.remote.Players(ctx)
		if err != nil {
			return err
		}
		if err := s.players.ReplaceAll(ctx, snapshot); err != nil {
			return err
		}
	case store.CollectionRounds:
		snapshot, err := s.remote.Rounds(ctx)
		if err != nil {
			return err
		}
		if err := s.rounds.ReplaceAll(ctx, snapshot); err != nil {
			return err
		}
	case store.CollectionWeeks:
		snapshot, err := s.remote.Weeks(ctx)
		if err != nil {
			return err
		}
		if err := s.weeks.ReplaceAll(ctx, snapshot); err != nil {
			return err
		}
	default:
		return errors.Newf("unknown collection %q", collection)
	}

	if s.onApplied != nil {
		s.onApplied(ctx, collection)
	}

	return nil
}

func (s *Syncer) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
