package usecase

import (
	"context"
	"fmt"

	"github.com/openfairway/niner-league/internal/domain/player"
	"github.com/openfairway/niner-league/internal/domain/round"
	"github.com/openfairway/niner-league/internal/domain/week"
)

type WeekService struct {
	playerRepo  player.Repository
	weekRepo    week.Repository
	invalidator boardInvalidator
}

func NewWeekService(playerRepo player.Repository, weekRepo week.Repository) *WeekService {
	return &WeekService{
		playerRepo: playerRepo,
		weekRepo:   weekRepo,
	}
}

func (s *WeekService) SetBoardInvalidator(invalidator boardInvalidator) {
	s.invalidator = invalidator
}

// StartWeek marks a week as active so declarations open. Commissioners only.
// Activation is permanent; there is no way to close a week again.
func (s *WeekService) StartWeek(ctx context.Context, actorID string, weekNumber int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.WeekService.StartWeek")
	defer span.End()

	if !round.ValidWeek(weekNumber) {
		return fmt.Errorf("%w: week=%d", round.ErrInvalidWeek, weekNumber)
	}

	if _, err := requireCommissioner(ctx, s.playerRepo, actorID); err != nil {
		return err
	}

	if err := s.weekRepo.SetActive(ctx, weekNumber); err != nil {
		return fmt.Errorf("set week active: %w", err)
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateBoards(ctx)
	}

	return nil
}

func (s *WeekService) ActiveWeeks(ctx context.Context) ([]int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WeekService.ActiveWeeks")
	defer span.End()

	weeks, err := s.weekRepo.ActiveWeeks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active weeks: %w", err)
	}

	return weeks, nil
}

func (s *WeekService) IsWeekActive(ctx context.Context, weekNumber int) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WeekService.IsWeekActive")
	defer span.End()

	if !round.ValidWeek(weekNumber) {
		return false, fmt.Errorf("%w: week=%d", round.ErrInvalidWeek, weekNumber)
	}

	active, err := s.weekRepo.IsActive(ctx, weekNumber)
	if err != nil {
		return false, fmt.Errorf("check week flag: %w", err)
	}

	return active, nil
}
