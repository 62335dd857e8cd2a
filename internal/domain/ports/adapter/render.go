package adapter

import (
	"context"
	"io"

	"ugc-video-pipeline/internal/domain/model"
)

// RenderRequest carries the parameters for one video render submission.
type RenderRequest struct {
	Prompt  string
	Seconds int
	Size    string // "WxH", e.g. "1280x720"
}

// VideoRenderer is the port for the video-generation collaborator.
type VideoRenderer interface {
	// Submit starts a render job and returns its opaque job identifier.
	Submit(ctx context.Context, req RenderRequest) (string, error)

	// Status reports the current state of a submitted job.
	Status(ctx context.Context, jobID string) (model.VideoJobStatus, error)

	// DownloadContent streams the raw video bytes of a job. Valid only once
	// a status check has observed the completed state.
	DownloadContent(ctx context.Context, jobID string) (io.ReadCloser, error)
}
