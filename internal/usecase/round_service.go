package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openfairway/niner-league/internal/domain/player"
	"github.com/openfairway/niner-league/internal/domain/round"
	"github.com/openfairway/niner-league/internal/domain/week"
)

// boardInvalidator drops cached leaderboards after any scoring change.
type boardInvalidator interface {
	InvalidateBoards(ctx context.Context)
}

type SubmitScoreInput struct {
	ActorID  string
	PlayerID string
	Week     int
	Scores   []round.HoleScore
	PhotoURL string
}

type RoundService struct {
	playerRepo  player.Repository
	weekRepo    week.Repository
	roundRepo   round.Repository
	invalidator boardInvalidator
	now         func() time.Time
}

func NewRoundService(playerRepo player.Repository, weekRepo week.Repository, roundRepo round.Repository) *RoundService {
	return &RoundService{
		playerRepo: playerRepo,
		weekRepo:   weekRepo,
		roundRepo:  roundRepo,
		now:        time.Now,
	}
}

func (s *RoundService) SetBoardInvalidator(invalidator boardInvalidator) {
	s.invalidator = invalidator
}

// Declare opens a round for the player in the given week. Declaring twice is
// a no-op that returns the existing round. Players declare for themselves;
// commissioners may declare on anyone's behalf.
func (s *RoundService) Declare(ctx context.Context, actorID, playerID string, weekNumber int) (round.WeeklyRound, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.Declare")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return round.WeeklyRound{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if !round.ValidWeek(weekNumber) {
		return round.WeeklyRound{}, fmt.Errorf("%w: week=%d", round.ErrInvalidWeek, weekNumber)
	}

	if err := s.authorizeSelfOrCommissioner(ctx, actorID, playerID); err != nil {
		return round.WeeklyRound{}, err
	}

	if _, exists, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		return round.WeeklyRound{}, fmt.Errorf("get player: %w", err)
	} else if !exists {
		return round.WeeklyRound{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	active, err := s.weekRepo.IsActive(ctx, weekNumber)
	if err != nil {
		return round.WeeklyRound{}, fmt.Errorf("check week flag: %w", err)
	}
	if !active {
		return round.WeeklyRound{}, fmt.Errorf("%w: week=%d", round.ErrWeekNotActive, weekNumber)
	}

	// Atomic create keeps concurrent duplicate declares from overwriting
	// the first declaration's timestamp.
	declared := round.NewDeclared(playerID, weekNumber, s.now().UTC())
	stored, _, err := s.roundRepo.CreateIfAbsent(ctx, declared)
	if err != nil {
		return round.WeeklyRound{}, fmt.Errorf("save declared round: %w", err)
	}

	return stored, nil
}

// Submit finalizes the scorecard for a declared round and locks it.
func (s *RoundService) Submit(ctx context.Context, input SubmitScoreInput) (round.WeeklyRound, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.Submit")
	defer span.End()

	input.PlayerID = strings.TrimSpace(input.PlayerID)
	if input.PlayerID == "" {
		return round.WeeklyRound{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if !round.ValidWeek(input.Week) {
		return round.WeeklyRound{}, fmt.Errorf("%w: week=%d", round.ErrInvalidWeek, input.Week)
	}

	if err := s.authorizeSelfOrCommissioner(ctx, input.ActorID, input.PlayerID); err != nil {
		return round.WeeklyRound{}, err
	}

	existing, exists, err := s.roundRepo.GetByPlayerWeek(ctx, input.PlayerID, input.Week)
	if err != nil {
		return round.WeeklyRound{}, fmt.Errorf("get round: %w", err)
	}
	if !exists {
		return round.WeeklyRound{}, fmt.Errorf("%w: player=%s week=%d", round.ErrNotDeclared, input.PlayerID, input.Week)
	}

	submitted, err := round.Submit(existing, input.Scores, strings.TrimSpace(input.PhotoURL), s.now().UTC())
	if err != nil {
		return round.WeeklyRound{}, err
	}

	if err := s.roundRepo.Upsert(ctx, submitted); err != nil {
		return round.WeeklyRound{}, fmt.Errorf("save submitted round: %w", err)
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateBoards(ctx)
	}

	return submitted, nil
}

// EditScore rewrites the scorecard of an already submitted round.
// Commissioners only.
func (s *RoundService) EditScore(ctx context.Context, actorID, playerID string, weekNumber int, scores []round.HoleScore) (round.WeeklyRound, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.EditScore")
	defer span.End()

	if _, err := requireCommissioner(ctx, s.playerRepo, actorID); err != nil {
		return round.WeeklyRound{}, err
	}

	existing, err := s.mustGetRound(ctx, playerID, weekNumber)
	if err != nil {
		return round.WeeklyRound{}, err
	}

	edited, err := round.Edit(existing, scores)
	if err != nil {
		return round.WeeklyRound{}, err
	}

	if err := s.roundRepo.Upsert(ctx, edited); err != nil {
		return round.WeeklyRound{}, fmt.Errorf("save edited round: %w", err)
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateBoards(ctx)
	}

	return edited, nil
}

// Lock re-asserts the lock on a submitted round. Commissioners only.
func (s *RoundService) Lock(ctx context.Context, actorID, playerID string, weekNumber int) (round.WeeklyRound, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.Lock")
	defer span.End()

	if _, err := requireCommissioner(ctx, s.playerRepo, actorID); err != nil {
		return round.WeeklyRound{}, err
	}

	existing, err := s.mustGetRound(ctx, playerID, weekNumber)
	if err != nil {
		return round.WeeklyRound{}, err
	}

	locked, err := round.Lock(existing)
	if err != nil {
		return round.WeeklyRound{}, err
	}

	if err := s.roundRepo.Upsert(ctx, locked); err != nil {
		return round.WeeklyRound{}, fmt.Errorf("save locked round: %w", err)
	}

	return locked, nil
}

func (s *RoundService) GetByPlayerWeek(ctx context.Context, playerID string, weekNumber int) (round.WeeklyRound, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.GetByPlayerWeek")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return round.WeeklyRound{}, false, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if !round.ValidWeek(weekNumber) {
		return round.WeeklyRound{}, false, fmt.Errorf("%w: week=%d", round.ErrInvalidWeek, weekNumber)
	}

	item, exists, err := s.roundRepo.GetByPlayerWeek(ctx, playerID, weekNumber)
	if err != nil {
		return round.WeeklyRound{}, false, fmt.Errorf("get round: %w", err)
	}

	return item, exists, nil
}

func (s *RoundService) ListByPlayer(ctx context.Context, playerID string) ([]round.WeeklyRound, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.ListByPlayer")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	items, err := s.roundRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("list rounds by player: %w", err)
	}

	return items, nil
}

func (s *RoundService) List(ctx context.Context) ([]round.WeeklyRound, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.List")
	defer span.End()

	items, err := s.roundRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}

	return items, nil
}

func (s *RoundService) authorizeSelfOrCommissioner(ctx context.Context, actorID, playerID string) error {
	actor, err := requireActor(ctx, s.playerRepo, actorID)
	if err != nil {
		return err
	}
	if actor.ID != playerID && !actor.IsCommissioner {
		return fmt.Errorf("%w: cannot act on another player's round", ErrForbidden)
	}

	return nil
}

func (s *RoundService) mustGetRound(ctx context.Context, playerID string, weekNumber int) (round.WeeklyRound, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return round.WeeklyRound{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if !round.ValidWeek(weekNumber) {
		return round.WeeklyRound{}, fmt.Errorf("%w: week=%d", round.ErrInvalidWeek, weekNumber)
	}

	existing, exists, err := s.roundRepo.GetByPlayerWeek(ctx, playerID, weekNumber)
	if err != nil {
		return round.WeeklyRound{}, fmt.Errorf("get round: %w", err)
	}
	if !exists {
		return round.WeeklyRound{}, fmt.Errorf("%w: player=%s week=%d", ErrNotFound, playerID, weekNumber)
	}

	return existing, nil
}
