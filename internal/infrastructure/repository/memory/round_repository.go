package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/openfairway/niner-league/internal/domain/round"
)

type RoundRepository struct {
	mu    sync.RWMutex
	items map[string]round.WeeklyRound
}

func NewRoundRepository(rounds []round.WeeklyRound) *RoundRepository {
	items := make(map[string]round.WeeklyRound, len(rounds))
	for _, r := range rounds {
		items[r.ID] = r
	}

	return &RoundRepository{items: items}
}

func (r *RoundRepository) List(_ context.Context) ([]round.WeeklyRound, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortedRounds(r.items), nil
}

func (r *RoundRepository) ListByPlayer(_ context.Context, playerID string) ([]round.WeeklyRound, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]round.WeeklyRound, 0, round.TotalWeeks)
	for _, item := range r.items {
		if item.PlayerID == playerID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week < out[j].Week })

	return out, nil
}

func (r *RoundRepository) GetByPlayerWeek(_ context.Context, playerID string, weekNumber int) (round.WeeklyRound, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[round.ID(playerID, weekNumber)]
	if !ok {
		return round.WeeklyRound{}, false, nil
	}

	return item, true, nil
}

func (r *RoundRepository) CreateIfAbsent(_ context.Context, item round.WeeklyRound) (round.WeeklyRound, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.items[item.ID]; ok {
		return existing, false, nil
	}
	r.items[item.ID] = item

	return item, true, nil
}

func (r *RoundRepository) Upsert(_ context.Context, item round.WeeklyRound) error {
	r.mu.Lock()
	r.items[item.ID] = item
	r.mu.Unlock()

	return nil
}

func (r *RoundRepository) ReplaceAll(_ context.Context, rounds []round.WeeklyRound) error {
	items := make(map[string]round.WeeklyRound, len(rounds))
	for _, item := range rounds {
		items[item.ID] = item
	}

	r.mu.Lock()
	r.items = items
	r.mu.Unlock()

	return nil
}

func sortedRounds(items map[string]round.WeeklyRound) []round.WeeklyRound {
	out := make([]round.WeeklyRound, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		return out[i].PlayerID < out[j].PlayerID
	})

	return out
}
