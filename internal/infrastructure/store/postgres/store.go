package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/openfairway/niner-league/internal/domain/player"
	"github.com/openfairway/niner-league/internal/domain/round"
	"github.com/openfairway/niner-league/internal/domain/week"
	"github.com/openfairway/niner-league/internal/infrastructure/store"
	"github.com/openfairway/niner-league/internal/platform/logging"
)

// Store keeps the league collections in Postgres. Every write bumps the
// row's updated_at and fires the change trigger that feeds Changes.
type Store struct {
	db     *sqlx.DB
	dsn    string
	logger *logging.Logger
}

func NewStore(db *sqlx.DB, dsn string, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}

	return &Store{
		db:     db,
		dsn:    dsn,
		logger: logger,
	}
}

const upsertPlayerQuery = `
INSERT INTO players (id, username, email, name, is_commissioner, buy_in_paid)
VALUES (:id, :username, :email, :name, :is_commissioner, :buy_in_paid)
ON CONFLICT (id) DO UPDATE SET
    username = EXCLUDED.username,
    email = EXCLUDED.email,
    name = EXCLUDED.name,
    is_commissioner = EXCLUDED.is_commissioner,
    buy_in_paid = EXCLUDED.buy_in_paid,
    updated_at = now()`

func (s *Store) UpsertPlayer(ctx context.Context, p player.Player) error {
	if _, err := s.db.NamedExecContext(ctx, upsertPlayerQuery, playerRowFrom(p)); err != nil {
		return markUnavailable(errors.Wrapf(err, "upsert player %s", p.ID))
	}

	return nil
}

const upsertRoundQuery = `
INSERT INTO rounds (id, player_id, week, declared, declared_at, hole_scores,
                    total_score, submitted, submitted_at, photo_url, locked)
VALUES (:id, :player_id, :week, :declared, :declared_at, :hole_scores,
        :total_score, :submitted, :submitted_at, :photo_url, :locked)
ON CONFLICT (id) DO UPDATE SET
    declared = EXCLUDED.declared,
    declared_at = EXCLUDED.declared_at,
    hole_scores = EXCLUDED.hole_scores,
    total_score = EXCLUDED.total_score,
    submitted = EXCLUDED.submitted,
    submitted_at = EXCLUDED.submitted_at,
    photo_url = EXCLUDED.photo_url,
    locked = EXCLUDED.locked,
    updated_at = now()`

func (s *Store) UpsertRound(ctx context.Context, item round.WeeklyRound) error {
	row, err := roundRowFrom(item)
	if err != nil {
		return err
	}

	if _, err := s.db.NamedExecContext(ctx, upsertRoundQuery, row); err != nil {
		return markUnavailable(errors.Wrapf(err, "upsert round %s", item.ID))
	}

	return nil
}

const setWeekActiveQuery = `
INSERT INTO weeks (week, active)
VALUES ($1, TRUE)
ON CONFLICT (week) DO UPDATE SET
    active = TRUE,
    updated_at = now()`

func (s *Store) SetWeekActive(ctx context.Context, weekNumber int) error {
	if _, err := s.db.ExecContext(ctx, setWeekActiveQuery, weekNumber); err != nil {
		return markUnavailable(errors.Wrapf(err, "set week %d active", weekNumber))
	}

	return nil
}

func (s *Store) Players(ctx context.Context) ([]player.Player, error) {
	var rows []playerRow
	query := `SELECT * FROM players ORDER BY username`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, markUnavailable(errors.Wrap(err, "select players"))
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (s *Store) Rounds(ctx context.Context) ([]round.WeeklyRound, error) {
	var rows []roundRow
	query := `SELECT * FROM rounds ORDER BY week, player_id`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, markUnavailable(errors.Wrap(err, "select rounds"))
	}

	out := make([]round.WeeklyRound, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}

	return out, nil
}

func (s *Store) Weeks(ctx context.Context) ([]week.Flag, error) {
	var rows []weekRow
	query := `SELECT * FROM weeks ORDER BY week`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, markUnavailable(errors.Wrap(err, "select weeks"))
	}

	out := make([]week.Flag, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func markUnavailable(err error) error {
	return errors.Mark(err, store.ErrUnavailable)
}
