// Package identity talks to an external identity provider over HTTP. It is
// used instead of the demo provider when IDP_BASE_URL is configured. Calls
// run behind a circuit breaker so a struggling IdP fails fast instead of
// stalling every login.
package identity

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/openfairway/niner-league/internal/domain/player"
	"github.com/openfairway/niner-league/internal/domain/user"
	"github.com/openfairway/niner-league/internal/platform/logging"
	"github.com/openfairway/niner-league/internal/platform/resilience"
	"github.com/openfairway/niner-league/internal/usecase"
)

const maxResponseBytes = 1 << 20

type Client struct {
	httpClient    *http.Client
	loginURL      string
	registerURL   string
	introspectURL string
	logoutURL     string
	breaker       *resilience.CircuitBreaker
	logger        *logging.Logger
}

// Endpoints are the IdP paths relative to its base URL.
type Endpoints struct {
	Login      string
	Register   string
	Introspect string
	Logout     string
}

func NewClient(httpClient *http.Client, baseURL string, endpoints Endpoints, breaker *resilience.CircuitBreaker, logger *logging.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &Client{
		httpClient:    httpClient,
		loginURL:      buildURL(baseURL, endpoints.Login),
		registerURL:   buildURL(baseURL, endpoints.Register),
		introspectURL: buildURL(baseURL, endpoints.Introspect),
		logoutURL:     buildURL(baseURL, endpoints.Logout),
		breaker:       breaker,
		logger:        logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
}

func (c *Client) Authenticate(ctx context.Context, username, password string) (user.Principal, string, error) {
	var decoded loginResponse
	err := c.post(ctx, c.loginURL, loginRequest{Username: username, Password: password}, &decoded)
	if err != nil {
		return user.Principal{}, "", err
	}

	if strings.TrimSpace(decoded.AccessToken) == "" || strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, "", errors.New("identity login response is missing token or user id")
	}

	principal := user.Principal{
		UserID:   decoded.UserID,
		Username: decoded.Username,
		Email:    decoded.Email,
	}
	if principal.Username == "" {
		principal.Username = strings.TrimSpace(username)
	}

	return principal, decoded.AccessToken, nil
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type registerResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (c *Client) Register(ctx context.Context, username, email, password string) (user.Principal, error) {
	var decoded registerResponse
	err := c.post(ctx, c.registerURL, registerRequest{Username: username, Email: email, Password: password}, &decoded)
	if err != nil {
		return user.Principal{}, err
	}

	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, errors.New("identity register response is missing user id")
	}

	principal := user.Principal{
		UserID:   decoded.UserID,
		Username: decoded.Username,
		Email:    decoded.Email,
	}
	if principal.Username == "" {
		principal.Username = strings.TrimSpace(username)
	}

	return principal, nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active   bool   `json:"active"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	var decoded introspectResponse
	if err := c.post(ctx, c.introspectURL, introspectRequest{Token: token}, &decoded); err != nil {
		return user.Principal{}, err
	}

	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, errors.New("identity introspect response is missing user id")
	}

	return user.Principal{
		UserID:   decoded.UserID,
		Username: decoded.Username,
		Email:    decoded.Email,
	}, nil
}

type logoutRequest struct {
	Token string `json:"token"`
}

// Revoke tells the IdP to kill the session. A token the IdP no longer knows
// is treated as already revoked.
func (c *Client) Revoke(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}

	err := c.post(ctx, c.logoutURL, logoutRequest{Token: token}, nil)
	if err != nil && !errors.Is(err, usecase.ErrUnauthorized) {
		return err
	}

	return nil
}

func (c *Client) post(ctx context.Context, url string, payload, out any) error {
	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			return fmt.Errorf("%w: identity provider circuit open", usecase.ErrDependencyUnavailable)
		}
	}

	err := c.doPost(ctx, url, payload, out)
	if c.breaker != nil {
		// Denials are the IdP doing its job, not an outage.
		switch {
		case err == nil, errors.Is(err, usecase.ErrUnauthorized), errors.Is(err, player.ErrDuplicateUsername):
			c.breaker.RecordSuccess()
		default:
			c.breaker.RecordFailure()
		}
	}

	return err
}

func (c *Client) doPost(ctx context.Context, url string, payload, out any) error {
	encoded, err := sonic.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "encode identity request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return errors.Wrap(err, "create identity request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: identity provider denied the request", usecase.ErrUnauthorized)
	}
	if resp.StatusCode == http.StatusConflict {
		return fmt.Errorf("%w: identity provider reports the username is taken", player.ErrDuplicateUsername)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return errors.Wrap(err, "read identity response")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.WarnContext(ctx, "identity provider non-200", "status_code", resp.StatusCode)
		return fmt.Errorf("%w: identity provider returned status %d", usecase.ErrDependencyUnavailable, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, "decode identity response")
	}

	return nil
}

func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	if path == "" {
		return baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return baseURL + path
}
