package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"ugc-video-pipeline/internal/domain/model"
	"ugc-video-pipeline/internal/infra/logging"
	"ugc-video-pipeline/internal/infra/worker"
	"ugc-video-pipeline/internal/usecase"
)

// Pipeline is the slice of the orchestrator the HTTP layer needs.
type Pipeline interface {
	Generate(ctx context.Context, p usecase.GenerateParams) (*model.VideoResult, error)
	Lookup(ctx context.Context, jobID string) (*model.VideoResult, error)
}

type Server struct {
	pipeline   Pipeline
	pool       *worker.Pool
	tracker    *Tracker
	textModel  string
	videoModel string
	srv        *http.Server
	log        *zerolog.Logger
}

func NewServer(pipeline Pipeline, pool *worker.Pool, textModel, videoModel string, logger *zerolog.Logger) *Server {
	return &Server{
		pipeline:   pipeline,
		pool:       pool,
		tracker:    NewTracker(),
		textModel:  textModel,
		videoModel: videoModel,
		log:        logger,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.traceMiddleware)

	r.Get("/", s.handleInfo)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/videos", s.handleGenerate)
		r.Post("/videos/async", s.handleGenerateAsync)
		r.Get("/videos/async/{invocationID}", s.handleAsyncStatus)
		r.Get("/videos/{jobID}", s.handleGetResult)
	})
	return r
}

func (s *Server) Start(host string, port int) error {
	s.srv = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", host, port),
		Handler: s.Router(),
	}
	s.log.Info().Str("addr", s.srv.Addr).Msg("HTTP server listening")
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// traceMiddleware tags every request with a trace id and logs its outcome.
func (s *Server) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := uuid.NewString()
		ctx := logging.WithTraceID(r.Context(), traceID)
		w.Header().Set("X-Trace-ID", traceID)

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))
		logging.With(ctx, s.log).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request served")
	})
}
