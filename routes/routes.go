package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/openbracket/openbracket/handlers"
	"github.com/openbracket/openbracket/middleware"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Tournament  *handlers.TournamentHandler
	Event       *handlers.EventHandler
	Entrant     *handlers.EntrantHandler
	Stage       *handlers.StageHandler
	Progression *handlers.ProgressionHandler
	Match       *handlers.MatchHandler
	WebSocket   *handlers.WebSocketHandler
}

func SetupRoutes(h Handlers, jwtSecret string) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	authenticate := middleware.Authenticate([]byte(jwtSecret))

	router.Post("/auth/register", h.Auth.Register)
	router.Post("/auth/login", h.Auth.Login)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", h.Tournament.List)
		r.Get("/{slug}", h.Tournament.GetBySlug)
		r.Get("/{tournamentID}/events", h.Event.ListByTournament)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/", h.Tournament.Create)
			r.Put("/{tournamentID}", h.Tournament.Update)
			r.Delete("/{tournamentID}", h.Tournament.Delete)
			r.Post("/{tournamentID}/banner", h.Tournament.UploadBanner)
			r.Post("/{tournamentID}/events", h.Event.Create)
		})
	})

	router.Route("/events/{eventID}", func(r chi.Router) {
		r.Get("/", h.Event.GetByID)
		r.Get("/entrants", h.Entrant.ListByEvent)
		r.Get("/stages", h.Stage.ListByEvent)
		r.Get("/progressions", h.Progression.ListByEvent)
		r.Get("/bracketing", h.Stage.Bracketing)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Put("/", h.Event.Update)
			r.Delete("/", h.Event.Delete)
			r.Post("/cover", h.Event.UploadCover)
			r.Post("/entrants", h.Entrant.Add)
			r.Put("/entrants/seeding", h.Entrant.UpdateSeeding)
			r.Delete("/entrants/seeding", h.Entrant.ClearSeeding)
			r.Post("/stages", h.Stage.Create)
			r.Post("/progressions", h.Progression.Create)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Delete("/entrants/{entrantID}", h.Entrant.Remove)
		r.Put("/stages/{stageID}/pool-count", h.Stage.UpdatePoolCount)
		r.Delete("/stages/{stageID}", h.Stage.Remove)
		r.Put("/progressions/{progressionID}", h.Progression.Update)
		r.Delete("/progressions/{progressionID}", h.Progression.Remove)
	})

	router.Get("/stages/{stageID}/groups", h.Stage.ListGroups)
	router.Get("/groups/{groupID}/matches", h.Match.ListByGroup)
	router.Get("/matches/{matchID}", h.Match.GetByID)

	router.Get("/ws/events/{eventID}", h.WebSocket.ServeWs)

	return router
}
