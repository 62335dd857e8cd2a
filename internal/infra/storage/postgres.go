package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"

	"ugc-video-pipeline/internal/domain"
	"ugc-video-pipeline/internal/domain/model"
	"ugc-video-pipeline/internal/domain/ports/repository"
)

var _ repository.ResultRepository = (*PostgresResultRepo)(nil)

// PostgresResultRepo keeps one row per job id in video_results. Binary video
// content is not stored in the database; downloadVideo is acknowledged with a
// log line only.
type PostgresResultRepo struct {
	pool *pgxpool.Pool
	log  *zerolog.Logger
}

func NewPostgresResultRepo(pool *pgxpool.Pool, log *zerolog.Logger) *PostgresResultRepo {
	return &PostgresResultRepo{pool: pool, log: log}
}

// NewPgxPool connects with a short timeout so a dead database fails fast at
// startup.
func NewPgxPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return pgxpool.Connect(ctx, url)
}

func (r *PostgresResultRepo) Store(ctx context.Context, result *model.VideoResult, downloadVideo bool) (string, error) {
	const q = `
INSERT INTO video_results
  (job_id, topic, script, sora_prompt, video_url, duration, tone, hashtags, target_audience,
   status, created_at, completed_at, error)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (job_id) DO UPDATE SET
  status = EXCLUDED.status,
  video_url = EXCLUDED.video_url,
  completed_at = EXCLUDED.completed_at,
  error = EXCLUDED.error;`

	_, err := r.pool.Exec(ctx, q,
		result.JobID, result.Topic, result.Script, result.SoraPrompt, result.VideoURL,
		result.Metadata.Duration, result.Metadata.Tone, result.Metadata.Hashtags,
		result.Metadata.TargetAudience, string(result.Status),
		result.CreatedAt, result.CompletedAt, result.Error)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return "", fmt.Errorf("store result %s: %s (%s)", result.JobID, pgErr.Message, pgErr.Code)
		}
		return "", fmt.Errorf("store result %s: %w", result.JobID, err)
	}

	if downloadVideo && result.Status == model.VideoStatusCompleted {
		r.log.Debug().Str("job_id", result.JobID).Msg("postgres storage keeps metadata only; video stays with the provider")
	}
	return "pg:video_results/" + result.JobID, nil
}

func (r *PostgresResultRepo) Load(ctx context.Context, jobID string) (*model.VideoResult, error) {
	const q = `
SELECT job_id, topic, script, sora_prompt, video_url, duration, tone, hashtags, target_audience,
       status, created_at, completed_at, error
FROM video_results
WHERE job_id = $1;`

	var (
		result    model.VideoResult
		statusStr string
	)
	err := r.pool.QueryRow(ctx, q, jobID).Scan(
		&result.JobID, &result.Topic, &result.Script, &result.SoraPrompt, &result.VideoURL,
		&result.Metadata.Duration, &result.Metadata.Tone, &result.Metadata.Hashtags,
		&result.Metadata.TargetAudience, &statusStr,
		&result.CreatedAt, &result.CompletedAt, &result.Error)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	result.Status = model.VideoStatus(statusStr)
	return &result, nil
}
