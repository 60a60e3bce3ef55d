package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/openfairway/niner-league/internal/platform/logging"
	"github.com/openfairway/niner-league/internal/usecase"
)

type Handler struct {
	authService        *usecase.AuthService
	playerService      *usecase.PlayerService
	roundService       *usecase.RoundService
	weekService        *usecase.WeekService
	leaderboardService *usecase.LeaderboardService
	feed               *Hub
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	authService *usecase.AuthService,
	playerService *usecase.PlayerService,
	roundService *usecase.RoundService,
	weekService *usecase.WeekService,
	leaderboardService *usecase.LeaderboardService,
	feed *Hub,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		authService:        authService,
		playerService:      playerService,
		roundService:       roundService,
		weekService:        weekService,
		leaderboardService: leaderboardService,
		feed:               feed,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}
