package video

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"ugc-video-pipeline/internal/domain/model"
	"ugc-video-pipeline/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.VideoRenderer = (*SoraRenderer)(nil)

// SoraRenderer implements adapter.VideoRenderer against the OpenAI /videos
// API. Submission returns a job id; the job is then observed via Status until
// terminal, and the finished bytes are fetched from /videos/{id}/content.
type SoraRenderer struct {
	apiKey string
	base   string // e.g., https://api.openai.com/v1
	model  string
	client *http.Client
}

func NewSoraRenderer(apiKey, baseURL, model string) (*SoraRenderer, error) {
	if apiKey == "" {
		return nil, errors.New("sora: api key empty")
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "sora-2"
	}
	return &SoraRenderer{
		apiKey: apiKey,
		base:   baseURL,
		model:  model,
		// Downloads of finished videos can be large; generous timeout.
		client: &http.Client{Timeout: 5 * time.Minute},
	}, nil
}

func (s *SoraRenderer) Submit(ctx context.Context, req adapter.RenderRequest) (string, error) {
	// The API expects seconds as a string.
	body := struct {
		Model   string `json:"model"`
		Prompt  string `json:"prompt"`
		Seconds string `json:"seconds"`
		Size    string `json:"size"`
	}{Model: s.model, Prompt: req.Prompt, Seconds: strconv.Itoa(req.Seconds), Size: req.Size}

	var payload struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := s.do(ctx, http.MethodPost, "/videos", body, &payload); err != nil {
		return "", err
	}
	if payload.ID == "" {
		return "", errors.New("sora: submit returned no job id")
	}
	return payload.ID, nil
}

func (s *SoraRenderer) Status(ctx context.Context, jobID string) (model.VideoJobStatus, error) {
	var payload struct {
		ID       string `json:"id"`
		Status   string `json:"status"`
		Progress int    `json:"progress"`
		Error    *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := s.do(ctx, http.MethodGet, "/videos/"+jobID, nil, &payload); err != nil {
		return model.VideoJobStatus{}, err
	}

	st := model.VideoJobStatus{
		JobID:    jobID,
		Status:   mapStatus(payload.Status),
		Progress: payload.Progress,
	}
	if payload.Error != nil {
		st.Error = payload.Error.Message
	}
	if st.Status == model.VideoStatusCompleted {
		// The API exposes no direct URL; content is fetched separately.
		st.VideoURL = "sora:" + jobID
	}
	return st, nil
}

func (s *SoraRenderer) DownloadContent(ctx context.Context, jobID string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base+"/videos/"+jobID+"/content", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, fmt.Errorf("sora: content fetch http %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func (s *SoraRenderer) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.base+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sora: http %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func mapStatus(s string) model.VideoStatus {
	switch s {
	case "queued":
		return model.VideoStatusQueued
	case "in_progress":
		return model.VideoStatusInProgress
	case "completed":
		return model.VideoStatusCompleted
	case "failed":
		return model.VideoStatusFailed
	default:
		// Unknown states are treated as still queued, same as any
		// non-terminal report.
		return model.VideoStatusQueued
	}
}
