package httpapi

import (
	"net/http"
)

func (h *Handler) GetWeeklyLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetWeeklyLeaderboard")
	defer span.End()

	weekNumber, err := weekFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	board, available, err := h.leaderboardService.Weekly(ctx, weekNumber)
	if err != nil {
		h.logger.ErrorContext(ctx, "weekly leaderboard failed", "week", weekNumber, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, weeklyBoardToDTO(board, available))
}

func (h *Handler) GetSeasonLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeasonLeaderboard")
	defer span.End()

	board, available, err := h.leaderboardService.Season(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "season leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, seasonBoardToDTO(board, available))
}
