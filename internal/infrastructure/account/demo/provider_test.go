package demo

import (
	"errors"
	"testing"
	"time"

	"github.com/openfairway/niner-league/internal/domain/player"
	"github.com/openfairway/niner-league/internal/usecase"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()

	p, err := NewProvider("test-secret", time.Hour, nil)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	if err := SeedFounders(p); err != nil {
		t.Fatalf("seed founders: %v", err)
	}

	return p
}

func TestProvider_AuthenticateAndVerify(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t)

	principal, token, err := p.Authenticate(t.Context(), "alex", "alex123")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if principal.Username != "alex" {
		t.Fatalf("unexpected principal: %+v", principal)
	}

	verified, err := p.VerifyAccessToken(t.Context(), token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if verified.UserID != principal.UserID || verified.Username != "alex" {
		t.Fatalf("verified principal mismatch: %+v", verified)
	}
}

func TestProvider_Authenticate_WrongPassword(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t)

	_, _, err := p.Authenticate(t.Context(), "alex", "nope")
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	_, _, err = p.Authenticate(t.Context(), "ghost", "alex123")
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unknown user, got %v", err)
	}
}

func TestProvider_VerifyAccessToken_Expired(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t)
	issued := time.Now()
	p.now = func() time.Time { return issued }

	_, token, err := p.Authenticate(t.Context(), "jeb", "jeb123")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}

	p.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = p.VerifyAccessToken(t.Context(), token)
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired token, got %v", err)
	}
}

func TestProvider_VerifyAccessToken_Garbage(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t)

	_, err := p.VerifyAccessToken(t.Context(), "not-a-jwt")
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestProvider_Register(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t)

	principal, err := p.Register(t.Context(), "pat", "pat@ninerleague.test", "secret-pw")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if principal.UserID == "" || principal.Username != "pat" {
		t.Fatalf("unexpected principal: %+v", principal)
	}

	if _, _, err := p.Authenticate(t.Context(), "pat", "secret-pw"); err != nil {
		t.Fatalf("authenticate after register failed: %v", err)
	}

	if _, err := p.Register(t.Context(), "pat", "", "other-pw"); !errors.Is(err, player.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestProvider_Revoke(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t)

	_, token, err := p.Authenticate(t.Context(), "alex", "alex123")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}

	if err := p.Revoke(t.Context(), token); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if _, err := p.VerifyAccessToken(t.Context(), token); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected revoked token to be rejected, got %v", err)
	}

	// Garbage revokes to nothing.
	if err := p.Revoke(t.Context(), "not-a-jwt"); err != nil {
		t.Fatalf("revoking garbage must not error: %v", err)
	}
}
