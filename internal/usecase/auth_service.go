package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/openfairway/niner-league/internal/domain/player"
	"github.com/openfairway/niner-league/internal/domain/user"
)

// AccountProvider manages credentials and issued tokens.
// Implementations live under infrastructure/account.
type AccountProvider interface {
	Authenticate(ctx context.Context, username, password string) (user.Principal, string, error)
	Register(ctx context.Context, username, email, password string) (user.Principal, error)
	VerifyAccessToken(ctx context.Context, token string) (user.Principal, error)
	Revoke(ctx context.Context, token string) error
}

type LoginResult struct {
	Token  string
	Player player.Player
}

type AuthService struct {
	provider   AccountProvider
	playerRepo player.Repository
}

func NewAuthService(provider AccountProvider, playerRepo player.Repository) *AuthService {
	return &AuthService{
		provider:   provider,
		playerRepo: playerRepo,
	}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Login")
	defer span.End()

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return LoginResult{}, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	principal, token, err := s.provider.Authenticate(ctx, username, password)
	if err != nil {
		return LoginResult{}, err
	}

	item, exists, err := s.playerRepo.GetByUsername(ctx, principal.Username)
	if err != nil {
		return LoginResult{}, fmt.Errorf("get player by username: %w", err)
	}
	if !exists {
		// Account exists upstream but has no roster entry yet.
		item = player.Player{
			ID:       principal.UserID,
			Username: principal.Username,
			Email:    principal.Email,
			Name:     principal.Username,
		}
		if err := s.playerRepo.Upsert(ctx, item); err != nil {
			return LoginResult{}, fmt.Errorf("register player on first login: %w", err)
		}
	}

	return LoginResult{Token: token, Player: item}, nil
}

type RegisterInput struct {
	Username string
	Email    string
	Name     string
	Password string
}

// Register creates the account upstream, adds the roster entry, and logs the
// new player straight in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (LoginResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Register")
	defer span.End()

	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	input.Name = strings.TrimSpace(input.Name)
	if input.Username == "" || input.Password == "" {
		return LoginResult{}, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	// The roster entry needs an email, so reject before the account exists
	// upstream. Once the provider holds the credential the username can
	// never be registered again.
	if input.Email == "" {
		return LoginResult{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	if _, exists, err := s.playerRepo.GetByUsername(ctx, input.Username); err != nil {
		return LoginResult{}, fmt.Errorf("check username: %w", err)
	} else if exists {
		return LoginResult{}, fmt.Errorf("%w: %s", player.ErrDuplicateUsername, input.Username)
	}

	principal, err := s.provider.Register(ctx, input.Username, input.Email, input.Password)
	if err != nil {
		return LoginResult{}, err
	}

	item := player.Player{
		ID:       principal.UserID,
		Username: principal.Username,
		Email:    principal.Email,
		Name:     input.Name,
	}
	if item.Name == "" {
		item.Name = item.Username
	}
	if err := s.playerRepo.Upsert(ctx, item); err != nil {
		return LoginResult{}, fmt.Errorf("add player to roster: %w", err)
	}

	_, token, err := s.provider.Authenticate(ctx, input.Username, input.Password)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{Token: token, Player: item}, nil
}

// Logout revokes the presented token. Idempotent; revoking an already dead
// token is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Logout")
	defer span.End()

	return s.provider.Revoke(ctx, token)
}

func (s *AuthService) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	return s.provider.VerifyAccessToken(ctx, token)
}
