package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/openfairway/niner-league/internal/domain/round"
	"github.com/openfairway/niner-league/internal/domain/user"
	"github.com/openfairway/niner-league/internal/usecase"
)

func weekFromPath(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.PathValue("week"))
	weekNumber, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: week must be a number, got %q", usecase.ErrInvalidInput, raw)
	}

	return weekNumber, nil
}

func requestPrincipal(w http.ResponseWriter, r *http.Request) (user.Principal, bool) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(r.Context(), w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
	}

	return principal, ok
}

func (h *Handler) DeclareRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeclareRound")
	defer span.End()

	principal, ok := requestPrincipal(w, r)
	if !ok {
		return
	}

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	weekNumber, err := weekFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.roundService.Declare(ctx, principal.UserID, playerID, weekNumber)
	if err != nil {
		h.logger.WarnContext(ctx, "declare round failed", "player_id", playerID, "week", weekNumber, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.notifyFeed(ctx, FeedEventRounds)
	writeSuccess(ctx, w, http.StatusOK, roundToDTO(item))
}

type submitScoreRequest struct {
	Scores   []holeScoreDTO `json:"scores" validate:"required,len=9,dive"`
	PhotoURL string         `json:"photo_url" validate:"omitempty,url,max=2048"`
}

func (h *Handler) SubmitRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitRound")
	defer span.End()

	principal, ok := requestPrincipal(w, r)
	if !ok {
		return
	}

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	weekNumber, err := weekFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req submitScoreRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.roundService.Submit(ctx, usecase.SubmitScoreInput{
		ActorID:  principal.UserID,
		PlayerID: playerID,
		Week:     weekNumber,
		Scores:   scoresFromDTO(req.Scores),
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit round failed", "player_id", playerID, "week", weekNumber, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.notifyFeed(ctx, FeedEventRounds)
	writeSuccess(ctx, w, http.StatusOK, roundToDTO(item))
}

type editScoreRequest struct {
	Scores []holeScoreDTO `json:"scores" validate:"required,len=9,dive"`
}

func (h *Handler) EditRoundScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EditRoundScore")
	defer span.End()

	principal, ok := requestPrincipal(w, r)
	if !ok {
		return
	}

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	weekNumber, err := weekFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req editScoreRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.roundService.EditScore(ctx, principal.UserID, playerID, weekNumber, scoresFromDTO(req.Scores))
	if err != nil {
		h.logger.WarnContext(ctx, "edit round failed", "player_id", playerID, "week", weekNumber, "actor_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.notifyFeed(ctx, FeedEventRounds)
	writeSuccess(ctx, w, http.StatusOK, roundToDTO(item))
}

func (h *Handler) LockRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LockRound")
	defer span.End()

	principal, ok := requestPrincipal(w, r)
	if !ok {
		return
	}

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	weekNumber, err := weekFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.roundService.Lock(ctx, principal.UserID, playerID, weekNumber)
	if err != nil {
		h.logger.WarnContext(ctx, "lock round failed", "player_id", playerID, "week", weekNumber, "actor_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.notifyFeed(ctx, FeedEventRounds)
	writeSuccess(ctx, w, http.StatusOK, roundToDTO(item))
}

func (h *Handler) GetRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRound")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	weekNumber, err := weekFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, exists, err := h.roundService.GetByPlayerWeek(ctx, playerID, weekNumber)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if !exists {
		writeError(ctx, w, fmt.Errorf("%w: round %s", usecase.ErrNotFound, round.ID(playerID, weekNumber)))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundToDTO(item))
}

func (h *Handler) ListPlayerRounds(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayerRounds")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	items, err := h.roundService.ListByPlayer(ctx, playerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]roundDTO, 0, len(items))
	for _, item := range items {
		out = append(out, roundToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}
