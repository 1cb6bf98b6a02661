package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/{playerID}/profile", handler.GetPlayerProfile)
	mux.HandleFunc("GET /v1/predictions/players/{playerID}", handler.PredictPlayer)
	mux.HandleFunc("POST /v1/predictions/squad", handler.PredictSquad)
	mux.HandleFunc("POST /v1/lineups/optimal", handler.OptimalLineup)
	mux.HandleFunc("POST /v1/matchups/win-probability", handler.WinProbability)
	mux.HandleFunc("GET /v1/standings", handler.ListStandings)
	mux.HandleFunc("GET /v1/reports/{reportID}", handler.GetReport)
	mux.HandleFunc("GET /v1/reports/{reportID}/export", handler.ExportReport)
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalAPIKey string) {
	mux.Handle("POST /v1/standings/refresh", RequireInternalAPIKey(internalAPIKey, http.HandlerFunc(handler.RefreshStandings)))
	mux.Handle("POST /v1/match-records", RequireInternalAPIKey(internalAPIKey, http.HandlerFunc(handler.IngestMatchRecords)))
	mux.Handle("POST /v1/reports", RequireInternalAPIKey(internalAPIKey, http.HandlerFunc(handler.BuildReport)))
}
