package player

import "context"

// Repository describes player persistence needs from use cases.
// List returns players ordered by username ascending.
type Repository interface {
	List(ctx context.Context) ([]Player, error)
	GetByID(ctx context.Context, playerID string) (Player, bool, error)
	GetByUsername(ctx context.Context, username string) (Player, bool, error)
	Upsert(ctx context.Context, p Player) error
	ReplaceAll(ctx context.Context, players []Player) error
}
