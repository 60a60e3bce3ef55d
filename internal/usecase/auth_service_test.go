package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/openfairway/niner-league/internal/domain/player"
	"github.com/openfairway/niner-league/internal/domain/user"
	"github.com/openfairway/niner-league/internal/infrastructure/repository/memory"
)

type stubAccountProvider struct {
	principals map[string]user.Principal
	passwords  map[string]string
	revoked    map[string]bool
}

func (p *stubAccountProvider) Authenticate(_ context.Context, username, password string) (user.Principal, string, error) {
	if p.passwords[username] != password {
		return user.Principal{}, "", fmt.Errorf("%w: bad credentials", ErrUnauthorized)
	}
	return p.principals[username], "token-" + username, nil
}

func (p *stubAccountProvider) Register(_ context.Context, username, email, password string) (user.Principal, error) {
	if _, taken := p.principals[username]; taken {
		return user.Principal{}, fmt.Errorf("%w: %s", player.ErrDuplicateUsername, username)
	}
	principal := user.Principal{UserID: "user-" + username, Username: username, Email: email}
	p.principals[username] = principal
	p.passwords[username] = password
	return principal, nil
}

func (p *stubAccountProvider) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	if p.revoked[token] {
		return user.Principal{}, fmt.Errorf("%w: revoked token", ErrUnauthorized)
	}
	for username, principal := range p.principals {
		if token == "token-"+username {
			return principal, nil
		}
	}
	return user.Principal{}, fmt.Errorf("%w: unknown token", ErrUnauthorized)
}

func (p *stubAccountProvider) Revoke(_ context.Context, token string) error {
	if p.revoked == nil {
		p.revoked = make(map[string]bool)
	}
	p.revoked[token] = true
	return nil
}

func newStubProvider() *stubAccountProvider {
	return &stubAccountProvider{
		principals: map[string]user.Principal{
			"alex": {UserID: memory.PlayerIDAlex, Username: "alex", Email: "alex@ninerleague.test"},
			"casey": {
				UserID:   "user-casey",
				Username: "casey",
				Email:    "casey@ninerleague.test",
			},
		},
		passwords: map[string]string{
			"alex":  "alex123",
			"casey": "casey123",
		},
	}
}

func TestAuthService_Login(t *testing.T) {
	svc := NewAuthService(newStubProvider(), memory.NewPlayerRepository(memory.SeedPlayers()))

	result, err := svc.Login(t.Context(), "alex", "alex123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if result.Token != "token-alex" {
		t.Fatalf("unexpected token: %s", result.Token)
	}
	if !result.Player.IsCommissioner {
		t.Fatal("alex must keep the commissioner flag from the roster")
	}
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	svc := NewAuthService(newStubProvider(), memory.NewPlayerRepository(memory.SeedPlayers()))

	_, err := svc.Login(t.Context(), "alex", "wrong")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_Login_RegistersUnknownPlayer(t *testing.T) {
	playerRepo := memory.NewPlayerRepository(memory.SeedPlayers())
	svc := NewAuthService(newStubProvider(), playerRepo)

	result, err := svc.Login(t.Context(), "casey", "casey123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Player.IsCommissioner {
		t.Fatal("first-login players must not become commissioners")
	}

	if _, exists, err := playerRepo.GetByUsername(t.Context(), "casey"); err != nil || !exists {
		t.Fatalf("player was not registered on first login: exists=%v err=%v", exists, err)
	}
}

func TestAuthService_Login_MissingInput(t *testing.T) {
	svc := NewAuthService(newStubProvider(), memory.NewPlayerRepository(memory.SeedPlayers()))

	_, err := svc.Login(t.Context(), "", "")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAuthService_Register(t *testing.T) {
	playerRepo := memory.NewPlayerRepository(memory.SeedPlayers())
	svc := NewAuthService(newStubProvider(), playerRepo)

	result, err := svc.Register(t.Context(), RegisterInput{
		Username: "pat",
		Email:    "pat@ninerleague.test",
		Name:     "Pat",
		Password: "secret-pw",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if result.Token == "" {
		t.Fatal("register must log the new player in")
	}
	if result.Player.Username != "pat" || result.Player.IsCommissioner {
		t.Fatalf("unexpected player: %+v", result.Player)
	}

	if _, exists, err := playerRepo.GetByUsername(t.Context(), "pat"); err != nil || !exists {
		t.Fatalf("player missing from roster: exists=%v err=%v", exists, err)
	}
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	svc := NewAuthService(newStubProvider(), memory.NewPlayerRepository(memory.SeedPlayers()))

	_, err := svc.Register(t.Context(), RegisterInput{
		Username: "alex",
		Email:    "alex2@ninerleague.test",
		Password: "whatever",
	})
	if !errors.Is(err, player.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestAuthService_Register_EmailRequired(t *testing.T) {
	provider := newStubProvider()
	svc := NewAuthService(provider, memory.NewPlayerRepository(memory.SeedPlayers()))

	_, err := svc.Register(t.Context(), RegisterInput{Username: "casey2", Password: "secret-pw"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	// The rejection must happen before the upstream account is created, so
	// the username is still free for a complete retry.
	result, err := svc.Register(t.Context(), RegisterInput{
		Username: "casey2",
		Email:    "casey2@ninerleague.test",
		Password: "secret-pw",
	})
	if err != nil {
		t.Fatalf("retry with email failed: %v", err)
	}
	if result.Player.Email != "casey2@ninerleague.test" {
		t.Fatalf("unexpected player: %+v", result.Player)
	}
}

func TestAuthService_Logout(t *testing.T) {
	svc := NewAuthService(newStubProvider(), memory.NewPlayerRepository(memory.SeedPlayers()))

	result, err := svc.Login(t.Context(), "alex", "alex123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if err := svc.Logout(t.Context(), result.Token); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := svc.VerifyAccessToken(t.Context(), result.Token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected revoked token to be rejected, got %v", err)
	}
}
