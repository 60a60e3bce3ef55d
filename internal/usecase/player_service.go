package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/openfairway/niner-league/internal/domain/player"
)

type PlayerService struct {
	playerRepo  player.Repository
	invalidator boardInvalidator
}

func NewPlayerService(playerRepo player.Repository) *PlayerService {
	return &PlayerService{playerRepo: playerRepo}
}

func (s *PlayerService) SetBoardInvalidator(invalidator boardInvalidator) {
	s.invalidator = invalidator
}

func (s *PlayerService) List(ctx context.Context) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.List")
	defer span.End()

	items, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	return items, nil
}

func (s *PlayerService) GetByID(ctx context.Context, playerID string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetByID")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	item, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	return item, nil
}

// SetBuyInPaid flips the buy-in flag for a player. Commissioners only.
func (s *PlayerService) SetBuyInPaid(ctx context.Context, actorID, playerID string, paid bool) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.SetBuyInPaid")
	defer span.End()

	if _, err := requireCommissioner(ctx, s.playerRepo, actorID); err != nil {
		return player.Player{}, err
	}

	item, err := s.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, err
	}

	item.BuyInPaid = paid
	if err := s.playerRepo.Upsert(ctx, item); err != nil {
		return player.Player{}, fmt.Errorf("update buy-in flag: %w", err)
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateBoards(ctx)
	}

	return item, nil
}
