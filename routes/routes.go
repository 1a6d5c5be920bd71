package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/bracketforge/tournament-system/handlers"
	"github.com/bracketforge/tournament-system/middleware"
	"github.com/bracketforge/tournament-system/models"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Tournament  *handlers.TournamentHandler
	Participant *handlers.ParticipantHandler
	Phase       *handlers.PhaseHandler
	Match       *handlers.MatchHandler
	WebSocket   *handlers.WebSocketHandler
}

func InitRoutes(h Handlers, auth *middleware.Authenticator) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.Handler())

	router.Post("/auth/register", h.Auth.Register)
	router.Post("/auth/login", h.Auth.Login)

	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(middleware.Authorize(models.RoleAdmin))

		r.Patch("/users/{userID}/role", h.Auth.ChangeUserRoleHandler)
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", h.Tournament.ListHandler)
		r.Get("/{tournamentID}", h.Tournament.GetByIDHandler)
		r.Get("/{tournamentID}/participants", h.Participant.ListHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Post("/{tournamentID}/participants", h.Participant.RegisterHandler)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authorize(models.RoleOrganizer, models.RoleAdmin))

				r.Post("/", h.Tournament.CreateHandler)
				r.Put("/{tournamentID}", h.Tournament.UpdateDetailsHandler)
				r.Patch("/{tournamentID}/status", h.Tournament.UpdateStatusHandler)
				r.Post("/{tournamentID}/logo", h.Tournament.UploadLogoHandler)

				r.Post("/{tournamentID}/phases", h.Phase.CreateHandler)
			})
		})
	})

	router.Route("/participants", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(models.RoleOrganizer, models.RoleAdmin))

			r.Patch("/{participantID}/status", h.Participant.UpdateStatusHandler)
			r.Patch("/{participantID}/seed", h.Participant.SetSeedHandler)
		})
	})

	router.Route("/phases", func(r chi.Router) {
		r.Get("/{phaseID}", h.Phase.GetFullDataHandler)
		r.Get("/{phaseID}/matches", h.Phase.ListMatchesHandler)
		r.Get("/{phaseID}/match-count", h.Phase.PreviewMatchCountHandler)
		r.Get("/{phaseID}/drift", h.Phase.DriftReportHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(models.RoleOrganizer, models.RoleAdmin))

			r.Post("/{phaseID}/bracket", h.Phase.GenerateBracketHandler)
			r.Post("/{phaseID}/bracket/regenerate", h.Phase.RegenerateBracketHandler)
			r.Delete("/{phaseID}", h.Phase.DeleteHandler)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", h.Match.GetByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.Authorize(models.RoleOrganizer, models.RoleAdmin))

			r.Post("/{matchID}/result", h.Match.ReportResultHandler)
			r.Post("/{matchID}/reset", h.Match.ResetResultHandler)
			r.Put("/{matchID}/pairing", h.Match.SetPairingHandler)
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)

	return router
}
