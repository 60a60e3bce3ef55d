// Package store defines the durable backing store behind the in-memory
// projection. The API is collection-oriented: writes are single-document
// upserts, reads return whole collections, and Changes delivers a push
// signal naming the collection that moved so the syncer can refetch it.
package store

import (
	"context"
	"errors"

	"github.com/openfairway/niner-league/internal/domain/player"
	"github.com/openfairway/niner-league/internal/domain/round"
	"github.com/openfairway/niner-league/internal/domain/week"
)

// ErrUnavailable marks transient backend failures. Callers running in
// local-first mode treat it as "keep going, retry later".
var ErrUnavailable = errors.New("remote store unavailable")

type Collection string

const (
	CollectionPlayers Collection = "players"
	CollectionRounds  Collection = "rounds"
	CollectionWeeks   Collection = "weeks"
)

type RemoteStore interface {
	UpsertPlayer(ctx context.Context, p player.Player) error
	UpsertRound(ctx context.Context, r round.WeeklyRound) error
	SetWeekActive(ctx context.Context, weekNumber int) error

	Players(ctx context.Context) ([]player.Player, error)
	Rounds(ctx context.Context) ([]round.WeeklyRound, error)
	Weeks(ctx context.Context) ([]week.Flag, error)

	// Changes emits the collection name whenever remote data moves. The
	// channel closes when ctx is done or the store shuts down.
	Changes(ctx context.Context) (<-chan Collection, error)

	Close() error
}
