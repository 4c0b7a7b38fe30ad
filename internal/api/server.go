package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/testgest/internal/config"
	"github.com/dgallion1/testgest/internal/generate"
	"github.com/dgallion1/testgest/internal/parser"
	"github.com/dgallion1/testgest/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server exposes job submission, polling, synchronous parsing and LLM stats.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	stats        *generate.LLMStats
	log          *slog.Logger
	cfg          config.Config
}

// NewServer wires the routes. A nil stats disables /api/stats/llm.
func NewServer(orch *pipeline.Orchestrator, stats *generate.LLMStats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		stats:        stats,
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
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/generate", s.handleGenerate)
		r.Post("/parse", s.handleParse)
		r.Route("/jobs/{jobID}", func(r chi.Router) {
			r.Get("/status", s.handleJobStatus)
			r.Get("/result", s.handleJobResult)
		})
		r.Get("/stats/llm", s.handleLLMStats)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, "not found", http.StatusNotFound)
	})
	s.router = r
}

func (s *Server) parserOptions() parser.Options {
	return parser.Options{FallbackPdftotext: s.cfg.PDFFallbackPdftotext}
}
