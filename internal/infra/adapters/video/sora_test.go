package video

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ugc-video-pipeline/internal/domain/model"
	"ugc-video-pipeline/internal/domain/ports/adapter"
)

func newTestRenderer(t *testing.T, handler http.HandlerFunc) *SoraRenderer {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	r, err := NewSoraRenderer("sk-test", srv.URL, "sora-2")
	if err != nil {
		t.Fatalf("NewSoraRenderer() error = %v", err)
	}
	return r
}

func TestSoraSubmit(t *testing.T) {
	var gotBody map[string]any
	r := newTestRenderer(t, func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost || req.URL.Path != "/videos" {
			t.Errorf("unexpected request %s %s", req.Method, req.URL.Path)
		}
		if auth := req.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("authorization = %q", auth)
		}
		_ = json.NewDecoder(req.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "video_123", "status": "queued"})
	})

	jobID, err := r.Submit(context.Background(), adapter.RenderRequest{Prompt: "a calm scene", Seconds: 8, Size: "1280x720"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if jobID != "video_123" {
		t.Errorf("jobID = %q, want video_123", jobID)
	}
	if gotBody["seconds"] != "8" {
		t.Errorf("seconds = %v, must be sent as a string", gotBody["seconds"])
	}
	if gotBody["model"] != "sora-2" {
		t.Errorf("model = %v", gotBody["model"])
	}
}

func TestSoraSubmit_HTTPError(t *testing.T) {
	r := newTestRenderer(t, func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	})
	if _, err := r.Submit(context.Background(), adapter.RenderRequest{Prompt: "x", Seconds: 8, Size: "1280x720"}); err == nil {
		t.Fatal("Submit() = nil error on HTTP 429")
	}
}

func TestSoraStatus(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		want     model.VideoStatus
		wantURL  string
		wantErr  string
		progress int
	}{
		{"queued", `{"id":"v1","status":"queued"}`, model.VideoStatusQueued, "", "", 0},
		{"in progress", `{"id":"v1","status":"in_progress","progress":40}`, model.VideoStatusInProgress, "", "", 40},
		{"completed", `{"id":"v1","status":"completed","progress":100}`, model.VideoStatusCompleted, "sora:v1", "", 100},
		{"failed", `{"id":"v1","status":"failed","error":{"code":"policy","message":"content rejected"}}`, model.VideoStatusFailed, "", "content rejected", 0},
		{"unknown state", `{"id":"v1","status":"preprocessing"}`, model.VideoStatusQueued, "", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRenderer(t, func(w http.ResponseWriter, req *http.Request) {
				if req.URL.Path != "/videos/v1" {
					t.Errorf("path = %s", req.URL.Path)
				}
				_, _ = w.Write([]byte(tt.payload))
			})
			st, err := r.Status(context.Background(), "v1")
			if err != nil {
				t.Fatalf("Status() error = %v", err)
			}
			if st.Status != tt.want {
				t.Errorf("status = %q, want %q", st.Status, tt.want)
			}
			if st.VideoURL != tt.wantURL {
				t.Errorf("video url = %q, want %q", st.VideoURL, tt.wantURL)
			}
			if st.Error != tt.wantErr {
				t.Errorf("error = %q, want %q", st.Error, tt.wantErr)
			}
			if st.Progress != tt.progress {
				t.Errorf("progress = %d, want %d", st.Progress, tt.progress)
			}
		})
	}
}

func TestSoraDownloadContent(t *testing.T) {
	r := newTestRenderer(t, func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/videos/v1/content" {
			t.Errorf("path = %s", req.URL.Path)
		}
		_, _ = w.Write([]byte("mp4 bytes"))
	})
	body, err := r.DownloadContent(context.Background(), "v1")
	if err != nil {
		t.Fatalf("DownloadContent() error = %v", err)
	}
	defer body.Close()
	data, _ := io.ReadAll(body)
	if string(data) != "mp4 bytes" {
		t.Errorf("content = %q", data)
	}
}
