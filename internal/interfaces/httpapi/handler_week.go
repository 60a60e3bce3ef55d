package httpapi

import (
	"net/http"
)

func (h *Handler) ListActiveWeeks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListActiveWeeks")
	defer span.End()

	weeks, err := h.weekService.ActiveWeeks(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list active weeks failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"active_weeks": weeks})
}

func (h *Handler) StartWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartWeek")
	defer span.End()

	principal, ok := requestPrincipal(w, r)
	if !ok {
		return
	}

	weekNumber, err := weekFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.weekService.StartWeek(ctx, principal.UserID, weekNumber); err != nil {
		h.logger.WarnContext(ctx, "start week failed", "week", weekNumber, "actor_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.notifyFeed(ctx, FeedEventWeeks)
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"week": weekNumber, "active": true})
}
