package round

import "context"

// Repository describes round persistence needs from use cases.
// List returns rounds ordered by week ascending.
type Repository interface {
	List(ctx context.Context) ([]WeeklyRound, error)
	ListByPlayer(ctx context.Context, playerID string) ([]WeeklyRound, error)
	GetByPlayerWeek(ctx context.Context, playerID string, weekNumber int) (WeeklyRound, bool, error)
	// CreateIfAbsent stores r unless a round with the same ID already
	// exists. It returns the stored round and whether this call created it.
	CreateIfAbsent(ctx context.Context, r WeeklyRound) (WeeklyRound, bool, error)
	Upsert(ctx context.Context, r WeeklyRound) error
	ReplaceAll(ctx context.Context, rounds []WeeklyRound) error
}
