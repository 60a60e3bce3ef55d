package synced

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/openfairway/niner-league/internal/domain/player"
	"github.com/openfairway/niner-league/internal/domain/round"
	"github.com/openfairway/niner-league/internal/domain/week"
	"github.com/openfairway/niner-league/internal/infrastructure/repository/memory"
	"github.com/openfairway/niner-league/internal/infrastructure/store"
	"github.com/openfairway/niner-league/internal/platform/logging"
)

type fakeRemote struct {
	mu      sync.Mutex
	players []player.Player
	rounds  []round.WeeklyRound
	weeks   []week.Flag

	failWrites bool
	writeCalls chan string
	changes    chan store.Collection
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		writeCalls: make(chan string, 16),
		changes:    make(chan store.Collection, 16),
	}
}

func (f *fakeRemote) UpsertPlayer(_ context.Context, p player.Player) error {
	f.writeCalls <- "player:" + p.ID
	if f.failWrites {
		return errors.Mark(errors.New("boom"), store.ErrUnavailable)
	}
	f.mu.Lock()
	f.players = append(f.players, p)
	f.mu.Unlock()
	return nil
}

func (f *fakeRemote) UpsertRound(_ context.Context, r round.WeeklyRound) error {
	f.writeCalls <- "round:" + r.ID
	if f.failWrites {
		return errors.Mark(errors.New("boom"), store.ErrUnavailable)
	}
	f.mu.Lock()
	f.rounds = append(f.rounds, r)
	f.mu.Unlock()
	return nil
}

func (f *fakeRemote) SetWeekActive(_ context.Context, weekNumber int) error {
	f.writeCalls <- "week"
	if f.failWrites {
		return errors.Mark(errors.New("boom"), store.ErrUnavailable)
	}
	f.mu.Lock()
	f.weeks = append(f.weeks, week.Flag{Week: weekNumber, Active: true})
	f.mu.Unlock()
	return nil
}

func (f *fakeRemote) Players(context.Context) ([]player.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]player.Player(nil), f.players...), nil
}

func (f *fakeRemote) Rounds(context.Context) ([]round.WeeklyRound, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]round.WeeklyRound(nil), f.rounds...), nil
}

func (f *fakeRemote) Weeks(context.Context) ([]week.Flag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]week.Flag(nil), f.weeks...), nil
}

func (f *fakeRemote) Changes(context.Context) (<-chan store.Collection, error) {
	return f.changes, nil
}

func (f *fakeRemote) Close() error { return nil }

func waitForWrite(t *testing.T, remote *fakeRemote, want string) {
	t.Helper()
	select {
	case got := <-remote.writeCalls:
		if got != want {
			t.Fatalf("unexpected remote write %q, want %q", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("remote write %q never happened", want)
	}
}

func TestPlayerRepository_LocalFirstWrite(t *testing.T) {
	remote := newFakeRemote()
	local := memory.NewPlayerRepository(nil)
	repo := NewPlayerRepository(local, remote, nil, logging.NewNop())

	p := player.Player{ID: "user-pat", Username: "pat", Email: "pat@ninerleague.test", Name: "Pat"}
	if err := repo.Upsert(t.Context(), p); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	// The local projection answers immediately, before the remote write.
	if _, exists, err := repo.GetByID(t.Context(), "user-pat"); err != nil || !exists {
		t.Fatalf("player missing from local projection: exists=%v err=%v", exists, err)
	}

	waitForWrite(t, remote, "player:user-pat")
}

func TestRoundRepository_RemoteOutageDoesNotFailWrites(t *testing.T) {
	remote := newFakeRemote()
	remote.failWrites = true
	local := memory.NewRoundRepository(nil)
	repo := NewRoundRepository(local, remote, nil, logging.NewNop())

	declared := round.NewDeclared("user-pat", 1, time.Now())
	if err := repo.Upsert(t.Context(), declared); err != nil {
		t.Fatalf("upsert must succeed despite remote outage: %v", err)
	}

	waitForWrite(t, remote, "round:"+declared.ID)

	if _, exists, err := repo.GetByPlayerWeek(t.Context(), "user-pat", 1); err != nil || !exists {
		t.Fatalf("round missing from local projection: exists=%v err=%v", exists, err)
	}
}

func TestRoundRepository_CreateIfAbsent(t *testing.T) {
	remote := newFakeRemote()
	local := memory.NewRoundRepository(nil)
	repo := NewRoundRepository(local, remote, nil, logging.NewNop())

	first := round.NewDeclared("user-pat", 1, time.Now())
	stored, created, err := repo.CreateIfAbsent(t.Context(), first)
	if err != nil || !created {
		t.Fatalf("create failed: created=%v err=%v", created, err)
	}
	if stored.DeclaredAt != first.DeclaredAt {
		t.Fatalf("unexpected stored round: %+v", stored)
	}

	waitForWrite(t, remote, "round:"+first.ID)

	// The losing create returns the winner and stays off the wire.
	duplicate := round.NewDeclared("user-pat", 1, time.Now().Add(time.Minute))
	stored, created, err = repo.CreateIfAbsent(t.Context(), duplicate)
	if err != nil || created {
		t.Fatalf("duplicate create: created=%v err=%v", created, err)
	}
	if stored.DeclaredAt != first.DeclaredAt {
		t.Fatal("duplicate create must return the existing round untouched")
	}

	select {
	case got := <-remote.writeCalls:
		t.Fatalf("duplicate create reached the remote: %q", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSyncer_AppliesRemoteSnapshot(t *testing.T) {
	remote := newFakeRemote()
	remote.players = []player.Player{
		{ID: "user-remote", Username: "remote", Email: "remote@ninerleague.test", Name: "Remote"},
	}

	local := memory.NewPlayerRepository(memory.SeedPlayers())
	syncer := NewSyncer(remote, local, memory.NewRoundRepository(nil), memory.NewWeekRepository(nil), logging.NewNop())

	applied := make(chan store.Collection, 16)
	syncer.SetOnApplied(func(_ context.Context, collection store.Collection) {
		applied <- collection
	})

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = syncer.Run(ctx)
	}()

	// Run starts with a full refresh: players, rounds, weeks.
	for i := 0; i < 3; i++ {
		select {
		case <-applied:
		case <-time.After(2 * time.Second):
			t.Fatal("initial refresh never completed")
		}
	}

	// The remote snapshot wins over whatever was seeded locally.
	players, err := local.List(ctx)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(players) != 1 || players[0].ID != "user-remote" {
		t.Fatalf("snapshot was not applied: %+v", players)
	}

	remote.mu.Lock()
	remote.players = append(remote.players, player.Player{
		ID: "user-late", Username: "late", Email: "late@ninerleague.test", Name: "Late",
	})
	remote.mu.Unlock()
	remote.changes <- store.CollectionPlayers

	select {
	case collection := <-applied:
		if collection != store.CollectionPlayers {
			t.Fatalf("unexpected collection %q", collection)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("change event was never applied")
	}

	players, err = local.List(ctx)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("expected 2 players after change event, got %d", len(players))
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("syncer did not stop on cancel")
	}
}
