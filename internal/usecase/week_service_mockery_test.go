package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/openfairway/niner-league/internal/domain/player"
	playermock "github.com/openfairway/niner-league/internal/mocks/domain/player"
	weekmock "github.com/openfairway/niner-league/internal/mocks/domain/week"
)

// The memory repositories never fail, so repository error paths are
// exercised with mockery mocks instead.

func TestWeekService_StartWeek_RepositoryFailureUsingMockery(t *testing.T) {
	t.Parallel()

	playerRepo := playermock.NewRepository(t)
	weekRepo := weekmock.NewRepository(t)
	service := NewWeekService(playerRepo, weekRepo)

	commissioner := player.Player{ID: "user-alex", Username: "alex", IsCommissioner: true}
	storeErr := errors.New("connection reset")

	playerRepo.
		On("GetByID", mock.Anything, commissioner.ID).
		Return(commissioner, true, nil).
		Once()
	weekRepo.
		On("SetActive", mock.Anything, 2).
		Return(storeErr).
		Once()

	err := service.StartWeek(context.Background(), commissioner.ID, 2)
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected repository error to surface, got %v", err)
	}
}

func TestWeekService_StartWeek_SkipsWriteForNonCommissionerUsingMockery(t *testing.T) {
	t.Parallel()

	playerRepo := playermock.NewRepository(t)
	weekRepo := weekmock.NewRepository(t)
	service := NewWeekService(playerRepo, weekRepo)

	regular := player.Player{ID: "user-pat", Username: "pat"}

	playerRepo.
		On("GetByID", mock.Anything, regular.ID).
		Return(regular, true, nil).
		Once()

	err := service.StartWeek(context.Background(), regular.ID, 2)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	weekRepo.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything)
}

func TestWeekService_ActiveWeeks_RepositoryFailureUsingMockery(t *testing.T) {
	t.Parallel()

	playerRepo := playermock.NewRepository(t)
	weekRepo := weekmock.NewRepository(t)
	service := NewWeekService(playerRepo, weekRepo)

	storeErr := errors.New("timeout")

	weekRepo.
		On("ActiveWeeks", mock.Anything).
		Return(nil, storeErr).
		Once()

	if _, err := service.ActiveWeeks(context.Background()); !errors.Is(err, storeErr) {
		t.Fatalf("expected repository error to surface, got %v", err)
	}
}
