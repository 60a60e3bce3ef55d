package resilience

import "sync"

// SingleFlight collapses concurrent calls for the same key into one
// execution; late arrivals block and receive the leader's result.
type SingleFlight struct {
	mu       sync.Mutex
	inflight map[string]*flight
}

type flight struct {
	done sync.WaitGroup
	val  any
	err  error
}

// Do runs fn once per key at a time. The bool reports whether the result
// came from another caller's execution.
func (s *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	s.mu.Lock()
	if s.inflight == nil {
		s.inflight = make(map[string]*flight)
	}

	if f, ok := s.inflight[key]; ok {
		s.mu.Unlock()
		f.done.Wait()
		return f.val, f.err, true
	}

	f := &flight{}
	f.done.Add(1)
	s.inflight[key] = f
	s.mu.Unlock()

	f.val, f.err = fn()
	f.done.Done()

	s.mu.Lock()
	delete(s.inflight, key)
	s.mu.Unlock()

	return f.val, f.err, false
}
