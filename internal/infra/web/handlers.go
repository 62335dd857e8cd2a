package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ugc-video-pipeline/internal/domain"
	"ugc-video-pipeline/internal/infra/logging"
	"ugc-video-pipeline/internal/usecase"
)

type generateRequest struct {
	Topic    string `json:"topic"`
	Duration int    `json:"duration,omitempty"`
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "UGC Video Generation API",
		"version": "1.0.0",
		"status":  "operational",
		"endpoints": map[string]string{
			"generate_video":       "/api/v1/videos",
			"generate_video_async": "/api/v1/videos/async",
			"get_result":           "/api/v1/videos/{job_id}",
			"health":               "/health",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":      "healthy",
		"model_text":  s.textModel,
		"model_video": s.videoModel,
	})
}

// handleGenerate runs the whole pipeline synchronously. The response may take
// minutes; callers wanting to return earlier use the async variant.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}

	result, err := s.pipeline.Generate(r.Context(), usecase.GenerateParams{
		Topic:         req.Topic,
		Duration:      req.Duration,
		StoreResult:   true,
		DownloadVideo: true,
	})
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGenerateAsync schedules the pipeline on the worker pool and returns
// an invocation id immediately.
func (s *Server) handleGenerateAsync(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}

	inv := s.tracker.Create(req.Topic)
	task := func(ctx context.Context) error {
		ctx = logging.WithTraceID(ctx, inv.ID)
		s.tracker.SetRunning(inv.ID)
		result, err := s.pipeline.Generate(ctx, usecase.GenerateParams{
			Topic:         req.Topic,
			Duration:      req.Duration,
			StoreResult:   true,
			DownloadVideo: true,
		})
		if err != nil {
			jobID := ""
			if result != nil {
				jobID = result.JobID
			}
			s.tracker.Fail(inv.ID, jobID, err.Error())
			return nil // already recorded; don't double-log through the pool
		}
		s.tracker.Complete(inv.ID, result.JobID)
		return nil
	}
	if err := s.pool.Submit(task); err != nil {
		writeError(w, http.StatusServiceUnavailable, "generation queue is full, try again later")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"invocation_id": inv.ID,
		"status":        string(inv.Status),
		"message":       "video generation started in background",
	})
}

func (s *Server) handleAsyncStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "invocationID")
	inv, ok := s.tracker.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown invocation id")
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	result, err := s.pipeline.Lookup(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no result for job id "+jobID)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load result")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// statusForError maps the error taxonomy to HTTP codes: timeout means "try
// again later", validation means the model output was unusable, a failed
// render is an upstream fault.
func statusForError(err error) int {
	var (
		ve *domain.ValidationError
		rf *domain.RenderFailedError
		te *domain.TimeoutError
	)
	switch {
	case errors.As(err, &te):
		return http.StatusGatewayTimeout
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &rf):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
