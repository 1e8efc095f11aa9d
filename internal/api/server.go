package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/pmguide/internal/config"
	"github.com/dgallion1/pmguide/internal/pipeline"
	"github.com/dgallion1/pmguide/internal/store"
)

// Repository is the storage the API serves.
type Repository interface {
	Standards() store.StandardStore
	Sections() store.SectionStore
	Comparisons() store.ComparisonStore
	Bookmarks() store.BookmarkStore
	Templates() store.TemplateStore
	Ping(ctx context.Context) error
}

// Server is the HTTP API server for pmguide.
type Server struct {
	router       chi.Router
	repo         Repository
	orchestrator *pipeline.Orchestrator
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(repo Repository, orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		repo:         repo,
		orchestrator: orch,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	admin := AdminAuth(s.cfg.AdminAPIKey, s.log)
	sessions := RequireSession(s.log)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", s.handleCreateSession)
		r.Post("/format", s.handleFormatText)
		r.Get("/insights", s.handleInsights)
		r.Post("/process-generator", s.handleGenerateProcess)

		r.Route("/standards", func(r chi.Router) {
			r.Get("/", s.handleListStandards)
			r.Get("/{id}", s.handleGetStandard)
			r.With(admin).Post("/", s.handleCreateStandard)
			r.With(admin).Put("/{id}", s.handleUpdateStandard)
			r.With(admin).Delete("/{id}", s.handleDeleteStandard)
			r.With(admin).Post("/{id}/import", s.handleImport)
		})

		r.With(admin).Get("/import/{jobID}/status", s.handleImportStatus)
		r.With(admin).Get("/stats/imports", s.handleImportStats)

		r.Route("/sections", func(r chi.Router) {
			r.Get("/", s.handleListSections)
			r.Get("/{id}", s.handleGetSection)
			r.Get("/{id}/formatted", s.handleFormattedSection)
			r.With(admin).Post("/", s.handleCreateSection)
		})

		r.Route("/comparisons", func(r chi.Router) {
			r.Get("/", s.handleListComparisons)
			r.Get("/{id}", s.handleGetComparison)
			r.With(admin).Post("/", s.handleCreateComparison)
			r.With(admin).Put("/{id}", s.handleUpdateComparison)
			r.With(admin).Delete("/{id}", s.handleDeleteComparison)
		})

		r.Route("/bookmarks", func(r chi.Router) {
			r.Use(sessions)
			r.Get("/", s.handleListBookmarks)
			r.Post("/", s.handleCreateBookmark)
			r.Delete("/{id}", s.handleDeleteBookmark)
		})

		r.Route("/process-templates", func(r chi.Router) {
			r.Get("/", s.handleListTemplates)
			r.With(admin).Post("/", s.handleCreateTemplate)
			r.Get("/{id}/export", s.handleExportTemplate)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if err := s.repo.Ping(r.Context()); err != nil {
		s.log.Error("health check failed", "error", err)
		status, code = "degraded", http.StatusServiceUnavailable
	}
	body := map[string]any{"status": status}
	if s.orchestrator != nil {
		body["queue_depth"] = s.orchestrator.QueueDepth()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
