package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"ugc-video-pipeline/internal/domain"
	"ugc-video-pipeline/internal/domain/model"
	"ugc-video-pipeline/internal/domain/ports/repository"
)

// ContentFetcher is the slice of the render port the store needs to pull
// finished video bytes.
type ContentFetcher interface {
	DownloadContent(ctx context.Context, jobID string) (io.ReadCloser, error)
}

var _ repository.ResultRepository = (*LocalResultRepo)(nil)

// LocalResultRepo persists one directory per job id under root, holding
// metadata.json and, when downloaded, video.mp4.
type LocalResultRepo struct {
	root    string
	fetcher ContentFetcher
	log     *zerolog.Logger
}

func NewLocalResultRepo(root string, fetcher ContentFetcher, log *zerolog.Logger) (*LocalResultRepo, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &LocalResultRepo{root: root, fetcher: fetcher, log: log}, nil
}

func (r *LocalResultRepo) Store(ctx context.Context, result *model.VideoResult, downloadVideo bool) (string, error) {
	jobDir := filepath.Join(r.root, result.JobID)
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		return "", fmt.Errorf("create job dir: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	metaPath := filepath.Join(jobDir, "metadata.json")
	if err := os.WriteFile(metaPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}

	if downloadVideo && result.Status == model.VideoStatusCompleted && result.VideoURL != "" {
		// Download failures leave the metadata in place; the video can be
		// re-fetched later from the job id.
		if err := r.downloadVideo(ctx, result.JobID, filepath.Join(jobDir, "video.mp4")); err != nil {
			r.log.Error().Err(err).Str("job_id", result.JobID).Msg("video download failed")
		}
	}

	r.log.Info().Str("job_id", result.JobID).Str("path", metaPath).Msg("result stored")
	return metaPath, nil
}

func (r *LocalResultRepo) downloadVideo(ctx context.Context, jobID, path string) error {
	if r.fetcher == nil {
		return errors.New("no content fetcher configured")
	}
	body, err := r.fetcher.DownloadContent(ctx, jobID)
	if err != nil {
		return err
	}
	defer body.Close()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := io.Copy(f, body); err != nil {
		return err
	}
	r.log.Info().Str("job_id", jobID).Str("path", path).Msg("video downloaded")
	return nil
}

func (r *LocalResultRepo) Load(ctx context.Context, jobID string) (*model.VideoResult, error) {
	data, err := os.ReadFile(filepath.Join(r.root, jobID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var result model.VideoResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode metadata for job %s: %w", jobID, err)
	}
	return &result, nil
}
