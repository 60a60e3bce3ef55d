package synced

import (
	"context"

	"github.com/panjf2000/ants/v2"

	"github.com/openfairway/niner-league/internal/domain/player"
	"github.com/openfairway/niner-league/internal/infrastructure/store"
	"github.com/openfairway/niner-league/internal/platform/logging"
)

type PlayerRepository struct {
	local  player.Repository
	remote store.RemoteStore
	writer remoteWriter
}

func NewPlayerRepository(local player.Repository, remote store.RemoteStore, pool *ants.Pool, logger *logging.Logger) *PlayerRepository {
	return &PlayerRepository{
		local:  local,
		remote: remote,
		writer: newRemoteWriter(pool, logger),
	}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	return r.local.List(ctx)
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	return r.local.GetByID(ctx, playerID)
}

func (r *PlayerRepository) GetByUsername(ctx context.Context, username string) (player.Player, bool, error) {
	return r.local.GetByUsername(ctx, username)
}

func (r *PlayerRepository) Upsert(ctx context.Context, p player.Player) error {
	if err := r.local.Upsert(ctx, p); err != nil {
		return err
	}

	r.writer.enqueue("player.upsert", func(ctx context.Context) error {
		return r.remote.UpsertPlayer(ctx, p)
	})

	return nil
}

func (r *PlayerRepository) ReplaceAll(ctx context.Context, players []player.Player) error {
	return r.local.ReplaceAll(ctx, players)
}
