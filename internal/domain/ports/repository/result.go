package repository

import (
	"context"

	"ugc-video-pipeline/internal/domain/model"
)

// ResultRepository persists final pipeline records. Store writes the record
// (and, when downloadVideo is set and the record completed, the binary video
// content alongside it) and returns a location reference. Load returns
// domain.ErrNotFound for unknown job identifiers.
type ResultRepository interface {
	Store(ctx context.Context, result *model.VideoResult, downloadVideo bool) (string, error)
	Load(ctx context.Context, jobID string) (*model.VideoResult, error)
}

// ResultCache is a best-effort, TTL-bound copy of recent records used by the
// read path. Misses and errors fall through to the repository.
type ResultCache interface {
	Put(ctx context.Context, result *model.VideoResult) error
	Get(ctx context.Context, jobID string) (*model.VideoResult, error)
}
