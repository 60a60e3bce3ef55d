package synced

import (
	"context"

	"github.com/panjf2000/ants/v2"

	"github.com/openfairway/niner-league/internal/domain/round"
	"github.com/openfairway/niner-league/internal/infrastructure/store"
	"github.com/openfairway/niner-league/internal/platform/logging"
)

type RoundRepository struct {
	local  round.Repository
	remote store.RemoteStore
	writer remoteWriter
}

func NewRoundRepository(local round.Repository, remote store.RemoteStore, pool *ants.Pool, logger *logging.Logger) *RoundRepository {
	return &RoundRepository{
		local:  local,
		remote: remote,
		writer: newRemoteWriter(pool, logger),
	}
}

func (r *RoundRepository) List(ctx context.Context) ([]round.WeeklyRound, error) {
	return r.local.List(ctx)
}

func (r *RoundRepository) ListByPlayer(ctx context.Context, playerID string) ([]round.WeeklyRound, error) {
	return r.local.ListByPlayer(ctx, playerID)
}

func (r *RoundRepository) GetByPlayerWeek(ctx context.Context, playerID string, weekNumber int) (round.WeeklyRound, bool, error) {
	return r.local.GetByPlayerWeek(ctx, playerID, weekNumber)
}

func (r *RoundRepository) CreateIfAbsent(ctx context.Context, item round.WeeklyRound) (round.WeeklyRound, bool, error) {
	stored, created, err := r.local.CreateIfAbsent(ctx, item)
	if err != nil || !created {
		return stored, created, err
	}

	r.writer.enqueue("round.create", func(ctx context.Context) error {
		return r.remote.UpsertRound(ctx, stored)
	})

	return stored, true, nil
}

func (r *RoundRepository) Upsert(ctx context.Context, item round.WeeklyRound) error {
	if err := r.local.Upsert(ctx, item); err != nil {
		return err
	}

	r.writer.enqueue("round.upsert", func(ctx context.Context) error {
		return r.remote.UpsertRound(ctx, item)
	})

	return nil
}

func (r *RoundRepository) ReplaceAll(ctx context.Context, rounds []round.WeeklyRound) error {
	return r.local.ReplaceAll(ctx, rounds)
}
