package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestSingleFlight_DeduplicatesConcurrentCalls(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	var executions atomic.Int64

	release := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_, _, _ = g.Do("leaderboard", func() (any, error) {
			close(started)
			<-release
			executions.Add(1)
			return 42, nil
		})
	}()

	<-started

	var wg sync.WaitGroup
	var shared atomic.Int64
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err, wasShared := g.Do("leaderboard", func() (any, error) {
				executions.Add(1)
				return 42, nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if v != 42 {
				t.Errorf("expected 42, got %v", v)
			}
			if wasShared {
				shared.Add(1)
			}
		}()
	}

	close(release)
	wg.Wait()

	if got := executions.Load(); got != 1 {
		t.Fatalf("expected a single execution, got %d", got)
	}
	if got := shared.Load(); got != 5 {
		t.Fatalf("expected 5 shared results, got %d", got)
	}
}

func TestSingleFlight_DistinctKeysRunIndependently(t *testing.T) {
	t.Parallel()

	var g SingleFlight

	v1, err, _ := g.Do("week-1", func() (any, error) { return "a", nil })
	v2, err2, _ := g.Do("week-2", func() (any, error) { return "b", nil })

	if err != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v / %v", err, err2)
	}
	if v1 != "a" || v2 != "b" {
		t.Fatalf("got %v / %v", v1, v2)
	}
}
