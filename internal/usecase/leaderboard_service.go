package usecase

import (
	"context"
	"fmt"

	"github.com/openfairway/niner-league/internal/domain/leaderboard"
	"github.com/openfairway/niner-league/internal/domain/player"
	"github.com/openfairway/niner-league/internal/domain/round"
	"github.com/openfairway/niner-league/internal/domain/week"
	"github.com/openfairway/niner-league/internal/platform/cache"
)

const boardCachePrefix = "leaderboard:"

type LeaderboardService struct {
	playerRepo player.Repository
	weekRepo   week.Repository
	roundRepo  round.Repository
	boards     *cache.Store
}

func NewLeaderboardService(
	playerRepo player.Repository,
	weekRepo week.Repository,
	roundRepo round.Repository,
	boards *cache.Store,
) *LeaderboardService {
	return &LeaderboardService{
		playerRepo: playerRepo,
		weekRepo:   weekRepo,
		roundRepo:  roundRepo,
		boards:     boards,
	}
}

// Weekly returns the board for one week. The second result is false when the
// week has not been activated yet, meaning there is nothing to rank.
func (s *LeaderboardService) Weekly(ctx context.Context, weekNumber int) (leaderboard.Weekly, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Weekly")
	defer span.End()

	if !round.ValidWeek(weekNumber) {
		return leaderboard.Weekly{}, false, fmt.Errorf("%w: week=%d", round.ErrInvalidWeek, weekNumber)
	}

	key := fmt.Sprintf("%sweekly:%d", boardCachePrefix, weekNumber)
	value, err := s.boards.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		players, rounds, activeWeeks, err := s.loadInputs(ctx)
		if err != nil {
			return nil, err
		}

		board, available := leaderboard.ProjectWeekly(players, rounds, activeWeeks, weekNumber)
		return weeklyBoardResult{board: board, available: available}, nil
	})
	if err != nil {
		return leaderboard.Weekly{}, false, err
	}

	result, ok := value.(weeklyBoardResult)
	if !ok {
		return leaderboard.Weekly{}, false, fmt.Errorf("unexpected cached weekly board type %T", value)
	}

	return result.board, result.available, nil
}

// Season returns the season-long board. The second result is false before the
// first week has been activated.
func (s *LeaderboardService) Season(ctx context.Context) (leaderboard.Season, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Season")
	defer span.End()

	key := boardCachePrefix + "season"
	value, err := s.boards.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		players, rounds, activeWeeks, err := s.loadInputs(ctx)
		if err != nil {
			return nil, err
		}

		board, available := leaderboard.ProjectSeason(players, rounds, activeWeeks)
		return seasonBoardResult{board: board, available: available}, nil
	})
	if err != nil {
		return leaderboard.Season{}, false, err
	}

	result, ok := value.(seasonBoardResult)
	if !ok {
		return leaderboard.Season{}, false, fmt.Errorf("unexpected cached season board type %T", value)
	}

	return result.board, result.available, nil
}

// InvalidateBoards drops every cached board. Called by the writing services
// after any change that can move a ranking.
func (s *LeaderboardService) InvalidateBoards(ctx context.Context) {
	s.boards.DeletePrefix(ctx, boardCachePrefix)
}

func (s *LeaderboardService) loadInputs(ctx context.Context) ([]player.Player, []round.WeeklyRound, []int, error) {
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list players: %w", err)
	}
	rounds, err := s.roundRepo.List(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list rounds: %w", err)
	}
	activeWeeks, err := s.weekRepo.ActiveWeeks(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list active weeks: %w", err)
	}

	return players, rounds, activeWeeks, nil
}

type weeklyBoardResult struct {
	board     leaderboard.Weekly
	available bool
}

type seasonBoardResult struct {
	board     leaderboard.Season
	available bool
}
