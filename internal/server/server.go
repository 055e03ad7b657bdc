package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ga4-dashboard/internal/handlers"
	"ga4-dashboard/internal/services"
)

type Server struct {
	analytics   *services.Analytics
	router      chi.Router
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(analytics *services.Analytics, logger *slog.Logger, templateHandlers *TemplateHandlers, maxUploadBytes int64) *Server {
	s := &Server{
		analytics:   analytics,
		router:      chi.NewRouter(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(analytics, logger),
		sseHandlers: handlers.NewSSEHandlers(analytics, logger, maxUploadBytes),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	s.router.Get("/", templateHandlers.Dashboard)
	s.router.Get("/health", s.apiHandlers.HandleHealth)
	s.router.Get("/admin/stats", s.apiHandlers.HandleStats)
	s.router.Handle("/metrics", promhttp.Handler())

	// REST API: same views as the UI, for programmatic consumers.
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", s.apiHandlers.HandleDashboard)
		r.Get("/countries", s.apiHandlers.HandleCountries)
		r.Get("/summary", s.apiHandlers.HandleSummary)
		r.Get("/top-active-users", s.apiHandlers.HandleTopActiveUsers)
		r.Get("/top-revenue", s.apiHandlers.HandleTopRevenue)
		r.Get("/funnel", s.apiHandlers.HandleFunnel)
		r.Get("/revenue-share", s.apiHandlers.HandleRevenueShare)
	})

	// Datastar SSE: drives the reactive page.
	s.router.Route("/sse", func(r chi.Router) {
		r.Post("/upload", s.sseHandlers.HandleUpload)
		r.Post("/update", s.sseHandlers.HandleUpdate)
		r.Get("/refresh", s.sseHandlers.HandleRefresh)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
