package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/openfairway/niner-league/internal/domain/player"
)

func requireActor(ctx context.Context, repo player.Repository, actorID string) (player.Player, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return player.Player{}, fmt.Errorf("%w: actor id is required", ErrUnauthorized)
	}

	actor, exists, err := repo.GetByID(ctx, actorID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get acting player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: unknown actor %s", ErrUnauthorized, actorID)
	}

	return actor, nil
}

func requireCommissioner(ctx context.Context, repo player.Repository, actorID string) (player.Player, error) {
	actor, err := requireActor(ctx, repo, actorID)
	if err != nil {
		return player.Player{}, err
	}
	if !actor.IsCommissioner {
		return player.Player{}, fmt.Errorf("%w: commissioner role required", ErrForbidden)
	}

	return actor, nil
}
