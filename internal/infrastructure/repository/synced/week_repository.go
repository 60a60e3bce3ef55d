package synced

import (
	"context"

	"github.com/panjf2000/ants/v2"

	"github.com/openfairway/niner-league/internal/domain/week"
	"github.com/openfairway/niner-league/internal/infrastructure/store"
	"github.com/openfairway/niner-league/internal/platform/logging"
)

type WeekRepository struct {
	local  week.Repository
	remote store.RemoteStore
	writer remoteWriter
}

func NewWeekRepository(local week.Repository, remote store.RemoteStore, pool *ants.Pool, logger *logging.Logger) *WeekRepository {
	return &WeekRepository{
		local:  local,
		remote: remote,
		writer: newRemoteWriter(pool, logger),
	}
}

func (r *WeekRepository) ActiveWeeks(ctx context.Context) ([]int, error) {
	return r.local.ActiveWeeks(ctx)
}

func (r *WeekRepository) IsActive(ctx context.Context, weekNumber int) (bool, error) {
	return r.local.IsActive(ctx, weekNumber)
}

func (r *WeekRepository) SetActive(ctx context.Context, weekNumber int) error {
	if err := r.local.SetActive(ctx, weekNumber); err != nil {
		return err
	}

	r.writer.enqueue("week.set_active", func(ctx context.Context) error {
		return r.remote.SetWeekActive(ctx, weekNumber)
	})

	return nil
}

func (r *WeekRepository) ReplaceAll(ctx context.Context, flags []week.Flag) error {
	return r.local.ReplaceAll(ctx, flags)
}
