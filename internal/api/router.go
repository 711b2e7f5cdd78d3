package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	apiMiddleware "github.com/tarots-ai/tarots-api/internal/api/middleware"
	"github.com/tarots-ai/tarots-api/internal/api/shared"
	"github.com/tarots-ai/tarots-api/internal/service"
	"github.com/tarots-ai/tarots-api/internal/service/auth"
)

// Dependencies are the services the router exposes.
type Dependencies struct {
	Readings *service.ReadingService
	Settings *service.SettingsService
	Backup   *service.BackupService
	// JWT enables bearer authentication on /api when set.
	JWT    auth.JWTService
	Logger *slog.Logger
	// AccessLog enables chi's request logger.
	AccessLog bool
}

// NewRouter creates the application router with every route and middleware.
func NewRouter(deps Dependencies) http.Handler {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if deps.AccessLog {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(log))

	catalog := NewCatalogHandler(deps.Readings, log)
	draws := NewDrawHandler(deps.Readings, log)
	readings := NewReadingHandler(deps.Readings, log)
	backup := NewBackupHandler(deps.Backup, log)
	settings := NewSettingsHandler(deps.Settings, log)

	r.Route("/api", func(r chi.Router) {
		if deps.JWT != nil {
			r.Use(apiMiddleware.NewAuthMiddleware(deps.JWT).Authenticate)
		}

		r.Get("/decks", catalog.ListDecks)
		r.Get("/decks/{id}", catalog.GetDeck)
		r.Get("/spreads", catalog.ListSpreads)
		r.Get("/spreads/{id}", catalog.GetSpread)

		r.Post("/draw", draws.DrawCard)
		r.Post("/draw/spread", draws.DrawSpread)
		r.Get("/daily", draws.Daily)
		r.Get("/moon", draws.Moon)
		r.Post("/interpret", draws.Interpret)

		r.Route("/readings", func(r chi.Router) {
			r.Get("/", readings.ListReadings)
			r.Post("/", readings.SaveReading)
			r.Delete("/", readings.ClearHistory)
			r.Get("/{id}", readings.GetReading)
			r.Delete("/{id}", readings.DeleteReading)
			r.Put("/{id}/notes", readings.UpdateNotes)
			r.Put("/{id}/interpretation", readings.UpdateInterpretation)
			r.Post("/{id}/interpret", readings.InterpretReading)
		})
		r.Get("/stats", readings.Stats)

		r.Get("/backup", backup.Export)
		r.Post("/backup", backup.Import)

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", settings.GetSettings)
			r.Delete("/", settings.ResetSettings)
			r.Patch("/preferences", settings.UpdatePreferences)
			r.Patch("/ai", settings.UpdateAI)
			r.Patch("/appearance", settings.UpdateAppearance)
			r.Put("/active-deck", settings.SetActiveDeck)
			r.Post("/onboarding", settings.CompleteOnboarding)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}
