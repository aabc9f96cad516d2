package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"webforge/internal/usecase"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	jobUC  usecase.JobUseCase
	siteUC usecase.SiteUseCase
	db     Pinger
	log    *zerolog.Logger
}

func NewServer(jobUC usecase.JobUseCase, siteUC usecase.SiteUseCase, db Pinger, logger *zerolog.Logger) *Server {
	return &Server{jobUC: jobUC, siteUC: siteUC, db: db, log: logger}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", healthHandler(s.db))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/jobs", jobCreateHandler(s.jobUC))
		r.Get("/jobs/{jobID}", jobStatusHandler(s.jobUC))
		r.Get("/sites", sitesListHandler(s.siteUC))
		r.Get("/sites/{identifier}/artifact", artifactHandler(s.siteUC))
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}
