// Package demo is the self-contained account provider used when no external
// identity provider is configured. Credentials live in memory, passwords are
// bcrypt-hashed, and access tokens are short-lived HS256 JWTs.
package demo

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/openfairway/niner-league/internal/domain/player"
	"github.com/openfairway/niner-league/internal/domain/user"
	"github.com/openfairway/niner-league/internal/platform/id"
	"github.com/openfairway/niner-league/internal/usecase"
)

const tokenIssuer = "niner-league"

type credential struct {
	principal    user.Principal
	passwordHash []byte
}

type Provider struct {
	secret []byte
	ttl    time.Duration
	ids    id.Generator
	now    func() time.Time

	mu      sync.RWMutex
	creds   map[string]credential
	revoked map[string]time.Time
}

func NewProvider(secret string, ttl time.Duration, ids id.Generator) (*Provider, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("token secret is required")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	if ids == nil {
		ids = id.NewRandomGenerator()
	}

	return &Provider{
		secret:  []byte(secret),
		ttl:     ttl,
		ids:     ids,
		now:     time.Now,
		creds:   make(map[string]credential),
		revoked: make(map[string]time.Time),
	}, nil
}

// RegisterPrincipal adds or replaces a credential with a fixed identity.
// Used at startup to seed the founding accounts and by tests.
func (p *Provider) RegisterPrincipal(principal user.Principal, password string) error {
	if strings.TrimSpace(principal.UserID) == "" || strings.TrimSpace(principal.Username) == "" {
		return fmt.Errorf("%w: principal needs user id and username", usecase.ErrInvalidInput)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", usecase.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	p.mu.Lock()
	p.creds[principal.Username] = credential{principal: principal, passwordHash: hash}
	p.mu.Unlock()

	return nil
}

// Register creates a fresh account with a generated user id. Usernames are
// first come, first served.
func (p *Provider) Register(_ context.Context, username, email, password string) (user.Principal, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return user.Principal{}, fmt.Errorf("%w: username and password are required", usecase.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.Principal{}, fmt.Errorf("hash password: %w", err)
	}

	suffix, err := p.ids.NewID()
	if err != nil {
		return user.Principal{}, fmt.Errorf("generate user id: %w", err)
	}
	principal := user.Principal{
		UserID:   "user-" + suffix,
		Username: username,
		Email:    strings.TrimSpace(email),
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, taken := p.creds[username]; taken {
		return user.Principal{}, fmt.Errorf("%w: %s", player.ErrDuplicateUsername, username)
	}
	p.creds[username] = credential{principal: principal, passwordHash: hash}

	return principal, nil
}

func (p *Provider) Authenticate(_ context.Context, username, password string) (user.Principal, string, error) {
	p.mu.RLock()
	cred, ok := p.creds[strings.TrimSpace(username)]
	p.mu.RUnlock()
	if !ok {
		return user.Principal{}, "", fmt.Errorf("%w: unknown username", usecase.ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword(cred.passwordHash, []byte(password)); err != nil {
		return user.Principal{}, "", fmt.Errorf("%w: wrong password", usecase.ErrUnauthorized)
	}

	token, err := p.issueToken(cred.principal)
	if err != nil {
		return user.Principal{}, "", err
	}

	return cred.principal, token, nil
}

type accessClaims struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func (p *Provider) issueToken(principal user.Principal) (string, error) {
	now := p.now().UTC()
	jti, err := p.ids.NewID()
	if err != nil {
		return "", fmt.Errorf("generate token id: %w", err)
	}
	claims := accessClaims{
		Username: principal.Username,
		Email:    principal.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   principal.UserID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}

	return signed, nil
}

func (p *Provider) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	var claims accessClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(func() time.Time { return p.now() }),
	)
	if err != nil || !parsed.Valid {
		return user.Principal{}, fmt.Errorf("%w: invalid access token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return user.Principal{}, fmt.Errorf("%w: token has no subject", usecase.ErrUnauthorized)
	}

	p.mu.RLock()
	_, dead := p.revoked[claims.ID]
	p.mu.RUnlock()
	if dead {
		return user.Principal{}, fmt.Errorf("%w: token has been revoked", usecase.ErrUnauthorized)
	}

	return user.Principal{
		UserID:   claims.Subject,
		Username: claims.Username,
		Email:    claims.Email,
	}, nil
}

// Revoke blacklists the token's id until it would have expired anyway.
// Unparseable tokens revoke to nothing, which is fine.
func (p *Provider) Revoke(_ context.Context, token string) error {
	var claims accessClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(func() time.Time { return p.now() }),
	)
	if err != nil || !parsed.Valid || strings.TrimSpace(claims.ID) == "" {
		return nil
	}

	expiry := p.now().UTC().Add(p.ttl)
	if claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.now().UTC()
	for jti, exp := range p.revoked {
		if exp.Before(now) {
			delete(p.revoked, jti)
		}
	}
	p.revoked[claims.ID] = expiry

	return nil
}
