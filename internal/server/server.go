// Package server exposes the ledger over a JSON HTTP API.
//
// Admin sessions manage the roster and the full ledger; parent sessions are
// limited to their own balance, history and contributions.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kassa/internal/auth"
	"kassa/internal/middleware"
	"kassa/internal/service"
	"kassa/internal/storage"
)

// Server wires the services into an HTTP router.
type Server struct {
	ledger        *service.LedgerService
	participants  *service.ParticipantService
	files         storage.Files
	authenticator *auth.Authenticator
	jwtManager    *auth.JWTManager
	uploadDir     string
}

// New creates a Server around the given services.
func New(
	ledger *service.LedgerService,
	participants *service.ParticipantService,
	files storage.Files,
	authenticator *auth.Authenticator,
	jwtManager *auth.JWTManager,
	uploadDir string,
) *Server {
	return &Server{
		ledger:        ledger,
		participants:  participants,
		files:         files,
		authenticator: authenticator,
		jwtManager:    jwtManager,
		uploadDir:     uploadDir,
	}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.Logging)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/api/auth/login", s.handleLogin)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequireAuth(s.jwtManager))

		r.Route("/participants", func(r chi.Router) {
			r.Get("/", s.handleListParticipants)
			r.Get("/{id}", s.handleGetParticipant)
			r.Get("/{id}/balance", s.handleGetBalance)
			r.Get("/{id}/transactions", s.handleParticipantTransactions)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/", s.handleCreateParticipant)
				r.Put("/{id}", s.handleUpdateParticipant)
				r.Delete("/{id}", s.handleDeleteParticipant)
			})
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", s.handleListTransactions)
			r.Get("/statistics", s.handleStatistics)
			r.Get("/{id}/distribution", s.handleDistribution)
			r.Get("/{id}/files", s.handleListFiles)
			r.Get("/files/{fileID}", s.handleDownloadFile)

			r.Post("/contribution", s.handleContribution)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/expense", s.handleExpense)
				r.Post("/{id}/cancel", s.handleCancel)
				r.Post("/{id}/reapply", s.handleReapply)
				r.Post("/{id}/files", s.handleUploadFile)
				r.Put("/{id}", s.handleUpdateTransaction)
				r.Delete("/{id}", s.handleDeleteTransaction)
				r.Delete("/files/{fileID}", s.handleDeleteFile)
			})
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}
