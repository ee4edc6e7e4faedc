package httpapi

import (
	"net/http"

	"github.com/riskibarqy/league-auction/internal/domain/user"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool, metricsHandler http.Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/tournaments/{tournamentID}/categories", handler.ListSportCategories)
	mux.HandleFunc("GET /api/auction/display-config", handler.GetDisplayConfig)

	mux.HandleFunc("POST /api/tournaments/register", handler.SubmitRegistration)
	mux.HandleFunc("POST /api/tournaments/register/validate", handler.ValidateRegistration)
	mux.HandleFunc("GET /api/tournaments/register/reference", handler.LookupRegistrationReference)
	mux.HandleFunc("POST /api/tournaments/register/upload-image", handler.UploadRegistrationImage)
	mux.HandleFunc("GET /api/tournaments/register/{registrationID}/receipt", handler.GetRegistrationReceipt)
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	authed := func(fn http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, fn)
	}

	mux.Handle("GET /api/teams", authed(handler.ListTeams))
	mux.Handle("GET /api/teams/{teamID}/budget", authed(handler.GetTeamBudget))
	mux.Handle("GET /api/teams/{teamID}/composition", authed(handler.GetTeamComposition))
	mux.Handle("GET /api/teams/{teamID}/simulation", authed(handler.SimulateTeam))
	mux.Handle("GET /api/teams/{teamID}/players", authed(handler.ListTeamPlayers))
	mux.Handle("GET /api/teams/{teamID}/available-players", authed(handler.ListTeamAvailablePlayers))
	mux.Handle("GET /api/teams/{teamID}/preferred-players", authed(handler.ListPreferredPlayers))
	mux.Handle("POST /api/teams/{teamID}/preferred-players", authed(handler.SavePreferredPlayer))
	mux.Handle("DELETE /api/teams/{teamID}/preferred-players/{playerID}", authed(handler.RemovePreferredPlayer))
}

func registerAuctionRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	authed := func(fn http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, fn)
	}
	admin := func(fn http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, RequireRole(user.RoleAdmin, fn))
	}

	mux.Handle("GET /api/auction/players", authed(handler.ListAuctionPlayers))
	mux.Handle("POST /api/auction/bid", admin(handler.RecordBid))
	mux.Handle("POST /api/auction/undo-bid", admin(handler.UndoBid))
	mux.Handle("POST /api/auction/mark-unallocated", admin(handler.MarkUnallocated))

	mux.Handle("GET /api/auction/queue", authed(handler.ListQueue))
	mux.Handle("POST /api/auction/queue", admin(handler.AddQueueItem))
	mux.Handle("POST /api/auction/queue/bulk", admin(handler.BulkAddQueueItems))
	mux.Handle("POST /api/auction/queue/reorder", admin(handler.ReorderQueue))
	mux.Handle("POST /api/auction/queue/clear", admin(handler.ClearQueue))
	mux.Handle("POST /api/auction/queue/{itemID}/processed", admin(handler.MarkQueueItemProcessed))
	mux.Handle("DELETE /api/auction/queue/{itemID}", admin(handler.RemoveQueueItem))

	mux.Handle("PUT /api/auction/display-config", admin(handler.UpdateDisplayConfig))
}

func registerConsoleRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	admin := func(fn http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, RequireRole(user.RoleAdmin, fn))
	}

	mux.Handle("GET /api/auction/console", admin(handler.GetConsole))
	mux.Handle("GET /api/auction/console/diagnose", admin(handler.ConsoleDiagnose))
	mux.Handle("GET /api/auction/console/ws", admin(handler.ConsoleFeed))
	mux.Handle("POST /api/auction/console/select", admin(handler.ConsoleSelectPlayer))
	mux.Handle("POST /api/auction/console/bid", admin(handler.ConsoleRecordBid))
	mux.Handle("POST /api/auction/console/undo-bid", admin(handler.ConsoleUndoBid))
	mux.Handle("POST /api/auction/console/mark-unallocated", admin(handler.ConsoleMarkUnallocated))
	mux.Handle("POST /api/auction/console/queue/bulk", admin(handler.ConsoleBulkAdd))
	mux.Handle("POST /api/auction/console/queue/reorder", admin(handler.ConsoleReorderQueue))
	mux.Handle("POST /api/auction/console/queue/clear", admin(handler.ConsoleClearQueue))
	mux.Handle("POST /api/auction/console/queue/remove", admin(handler.ConsoleRemoveFromQueue))
	mux.Handle("POST /api/auction/console/refresh", admin(handler.ConsoleRefresh))
}
