package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/openfairway/niner-league/internal/domain/week"
)

type WeekRepository struct {
	mu     sync.RWMutex
	active map[int]bool
}

func NewWeekRepository(activeWeeks []int) *WeekRepository {
	active := make(map[int]bool, len(activeWeeks))
	for _, w := range activeWeeks {
		active[w] = true
	}

	return &WeekRepository{active: active}
}

func (r *WeekRepository) ActiveWeeks(_ context.Context) ([]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]int, 0, len(r.active))
	for w, isActive := range r.active {
		if isActive {
			out = append(out, w)
		}
	}
	sort.Ints(out)

	return out, nil
}

func (r *WeekRepository) IsActive(_ context.Context, weekNumber int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.active[weekNumber], nil
}

func (r *WeekRepository) SetActive(_ context.Context, weekNumber int) error {
	r.mu.Lock()
	r.active[weekNumber] = true
	r.mu.Unlock()

	return nil
}

func (r *WeekRepository) ReplaceAll(_ context.Context, flags []week.Flag) error {
	active := make(map[int]bool, len(flags))
	for _, f := range flags {
		active[f.Week] = f.Active
	}

	r.mu.Lock()
	r.active = active
	r.mu.Unlock()

	return nil
}
