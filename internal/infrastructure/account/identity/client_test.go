package identity

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openfairway/niner-league/internal/domain/player"
	"github.com/openfairway/niner-league/internal/platform/logging"
	"github.com/openfairway/niner-league/internal/platform/resilience"
	"github.com/openfairway/niner-league/internal/usecase"
)

func newTestClient(t *testing.T, handler http.Handler, breaker *resilience.CircuitBreaker) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	endpoints := Endpoints{
		Login:      "/v1/auth/login",
		Register:   "/v1/auth/register",
		Introspect: "/v1/auth/introspect",
		Logout:     "/v1/auth/logout",
	}

	return NewClient(server.Client(), server.URL, endpoints, breaker, logging.NewNop())
}

func TestClient_Authenticate(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/auth/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-1","user_id":"user-alex","username":"alex","email":"alex@ninerleague.test"}`))
	})

	client := newTestClient(t, handler, nil)

	principal, token, err := client.Authenticate(t.Context(), "alex", "alex123")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if token != "tok-1" {
		t.Fatalf("unexpected token %q", token)
	}
	if principal.UserID != "user-alex" || principal.Username != "alex" {
		t.Fatalf("unexpected principal: %+v", principal)
	}
}

func TestClient_Authenticate_Denied(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	client := newTestClient(t, handler, nil)

	_, _, err := client.Authenticate(t.Context(), "alex", "wrong")
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestClient_VerifyAccessToken_Inactive(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"active":false}`))
	})

	client := newTestClient(t, handler, nil)

	_, err := client.VerifyAccessToken(t.Context(), "stale-token")
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestClient_Register(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/auth/register" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user_id":"user-dana","username":"dana","email":"dana@ninerleague.test"}`))
	})

	client := newTestClient(t, handler, nil)

	principal, err := client.Register(t.Context(), "dana", "dana@ninerleague.test", "dana123")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if principal.UserID != "user-dana" || principal.Username != "dana" {
		t.Fatalf("unexpected principal: %+v", principal)
	}
}

func TestClient_Register_Duplicate(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	client := newTestClient(t, handler, nil)

	_, err := client.Register(t.Context(), "alex", "alex@ninerleague.test", "alex123")
	if !errors.Is(err, player.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestClient_Revoke(t *testing.T) {
	t.Parallel()

	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/v1/auth/logout" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	client := newTestClient(t, handler, nil)

	if err := client.Revoke(t.Context(), "tok-1"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one logout call, got %d", calls)
	}

	// An empty token is a no-op, not an error.
	if err := client.Revoke(t.Context(), ""); err != nil {
		t.Fatalf("empty token revoke failed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("empty token must not hit the IdP, got %d calls", calls)
	}
}

func TestClient_Revoke_UnknownTokenIsAlreadyRevoked(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	client := newTestClient(t, handler, nil)

	if err := client.Revoke(t.Context(), "long-gone"); err != nil {
		t.Fatalf("expected already-revoked token to succeed, got %v", err)
	}
}

func TestClient_BreakerOpensOnServerErrors(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	breaker := resilience.NewCircuitBreaker(2, time.Minute, 1)
	client := newTestClient(t, handler, breaker)

	for i := 0; i < 2; i++ {
		_, err := client.VerifyAccessToken(t.Context(), "tok")
		if !errors.Is(err, usecase.ErrDependencyUnavailable) {
			t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
		}
	}

	// Third call must be rejected without touching the server.
	_, err := client.VerifyAccessToken(t.Context(), "tok")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected fast failure from open breaker, got %v", err)
	}
	if breaker.State() != resilience.CircuitStateOpen {
		t.Fatalf("expected open breaker, got %s", breaker.State())
	}
}

func TestClient_DenialsDoNotTripBreaker(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	breaker := resilience.NewCircuitBreaker(2, time.Minute, 1)
	client := newTestClient(t, handler, breaker)

	for i := 0; i < 5; i++ {
		if _, err := client.VerifyAccessToken(t.Context(), "tok"); !errors.Is(err, usecase.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	}

	if breaker.State() != resilience.CircuitStateClosed {
		t.Fatalf("denials must keep the breaker closed, got %s", breaker.State())
	}
}
