package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/auth/register", handler.Register)
	mux.HandleFunc("POST /v1/auth/login", handler.Login)

	// The feed carries change pings only, never data, so it stays public.
	if handler.feed != nil {
		mux.HandleFunc("GET /v1/ws", handler.feed.ServeFeed)
	}

	mux.HandleFunc("GET /v1/leaderboards/weekly/{week}", handler.GetWeeklyLeaderboard)
	mux.HandleFunc("GET /v1/leaderboards/season", handler.GetSeasonLeaderboard)
	mux.HandleFunc("GET /v1/weeks", handler.ListActiveWeeks)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/auth/logout", RequireAuth(verifier, http.HandlerFunc(handler.Logout)))
	mux.Handle("GET /v1/me", RequireAuth(verifier, http.HandlerFunc(handler.Me)))

	mux.Handle("GET /v1/players", RequireAuth(verifier, http.HandlerFunc(handler.ListPlayers)))
	mux.Handle("GET /v1/players/{playerID}", RequireAuth(verifier, http.HandlerFunc(handler.GetPlayer)))
	mux.Handle("PUT /v1/players/{playerID}/buy-in", RequireAuth(verifier, http.HandlerFunc(handler.SetBuyInPaid)))

	mux.Handle("GET /v1/players/{playerID}/rounds", RequireAuth(verifier, http.HandlerFunc(handler.ListPlayerRounds)))
	mux.Handle("GET /v1/players/{playerID}/rounds/{week}", RequireAuth(verifier, http.HandlerFunc(handler.GetRound)))
	mux.Handle("POST /v1/players/{playerID}/rounds/{week}/declare", RequireAuth(verifier, http.HandlerFunc(handler.DeclareRound)))
	mux.Handle("POST /v1/players/{playerID}/rounds/{week}/submit", RequireAuth(verifier, http.HandlerFunc(handler.SubmitRound)))
	mux.Handle("PUT /v1/players/{playerID}/rounds/{week}/scores", RequireAuth(verifier, http.HandlerFunc(handler.EditRoundScore)))
	mux.Handle("POST /v1/players/{playerID}/rounds/{week}/lock", RequireAuth(verifier, http.HandlerFunc(handler.LockRound)))

	mux.Handle("POST /v1/weeks/{week}/start", RequireAuth(verifier, http.HandlerFunc(handler.StartWeek)))
}
