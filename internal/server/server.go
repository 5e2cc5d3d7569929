package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/flowfocus/internal/achievements"
	"github.com/claude/flowfocus/internal/analytics"
	"github.com/claude/flowfocus/internal/ingest"
	"github.com/claude/flowfocus/internal/notify"
	"github.com/claude/flowfocus/internal/storage"
	"github.com/claude/flowfocus/internal/timer"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db        *storage.DB
	provider  *ingest.Provider
	engine    *timer.Engine
	evaluator *achievements.Evaluator
	agg       *analytics.Aggregator
	notifier  *notify.Broadcaster
	log       *slog.Logger
	apiKey    string
	whois     whoisClient
	router    chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, provider *ingest.Provider, engine *timer.Engine, evaluator *achievements.Evaluator, agg *analytics.Aggregator, notifier *notify.Broadcaster, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:        db,
		provider:  provider,
		engine:    engine,
		evaluator: evaluator,
		agg:       agg,
		notifier:  notifier,
		log:       log,
		apiKey:    apiKey,
		router:    chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(s.identity)

	// Ingest endpoint (API key required)
	s.router.Route("/api/v1/ingest", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/", s.handleIngest)
	})

	// Read API endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/sessions", s.handleSessions)
	s.router.Get("/api/v1/sessions/{id}", s.handleGetSession)
	s.router.Get("/api/v1/achievements", s.handleAchievements)
	s.router.Get("/api/v1/achievements/catalog", s.handleAchievementCatalog)
	s.router.Get("/api/v1/analytics/summary", s.handleAnalyticsSummary)
	s.router.Get("/api/v1/analytics/weekly", s.handleWeeklyFocus)
	s.router.Get("/api/v1/analytics/streaks", s.handleStreaks)
	s.router.Get("/api/v1/stats", s.handleDataStats)
	s.router.Get("/api/v1/imports", s.handleImportLogs)
	s.router.Get("/api/v1/changes", s.handleChanges)
	s.router.Get("/api/v1/me", s.handleMe)

	// Timer control. State is readable by anyone on the tailnet;
	// transitions require the API key.
	s.router.Route("/api/v1/timer", func(r chi.Router) {
		r.Get("/", s.handleTimerState)
		r.Get("/settings", s.handleGetTimerSettings)

		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/start", s.handleTimerStart)
			r.Post("/pause", s.handleTimerPause)
			r.Post("/accept", s.handleTimerAccept)
			r.Post("/reject", s.handleTimerReject)
			r.Post("/settings/open", s.handleTimerOpenSettings)
			r.Post("/settings/close", s.handleTimerCloseSettings)
			r.Put("/settings", s.handleTimerSettings)
		})
	})
}
