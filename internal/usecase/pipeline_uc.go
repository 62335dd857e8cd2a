package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ugc-video-pipeline/internal/domain"
	"ugc-video-pipeline/internal/domain/model"
	"ugc-video-pipeline/internal/domain/ports/repository"
	"ugc-video-pipeline/internal/infra/logging"
	"ugc-video-pipeline/internal/infra/metrics"
)

// GenerateParams are the inputs of one pipeline run. Duration <= 0 means the
// configured default.
type GenerateParams struct {
	Topic         string
	Duration      int
	StoreResult   bool
	DownloadVideo bool
}

// PipelineUseCase orchestrates one generation request end to end:
// script -> submit -> poll -> finalize. Every invocation produces exactly one
// VideoResult; on failure the record (status failed, best-effort persisted)
// is returned together with the original error.
type PipelineUseCase struct {
	script          *ScriptUseCase
	render          *RenderUseCase
	repo            repository.ResultRepository
	cache           repository.ResultCache // nil when the cache is disabled
	videoSize       string
	defaultDuration int
	now             func() time.Time
	log             *zerolog.Logger
}

func NewPipelineUseCase(
	script *ScriptUseCase,
	render *RenderUseCase,
	repo repository.ResultRepository,
	cache repository.ResultCache,
	videoSize string,
	defaultDuration int,
	log *zerolog.Logger,
) *PipelineUseCase {
	return &PipelineUseCase{
		script:          script,
		render:          render,
		repo:            repo,
		cache:           cache,
		videoSize:       videoSize,
		defaultDuration: defaultDuration,
		now:             time.Now,
		log:             log,
	}
}

func (uc *PipelineUseCase) Generate(ctx context.Context, p GenerateParams) (*model.VideoResult, error) {
	ctx = logging.WithTopic(ctx, p.Topic)
	logger := logging.With(ctx, uc.log)
	defer logging.TraceDuration(logger, "PipelineUseCase.Generate")()

	createdAt := uc.now().UTC()
	jobID := ""

	fail := func(cause error) (*model.VideoResult, error) {
		duration := p.Duration
		if duration <= 0 {
			duration = uc.defaultDuration
		}
		rec := &model.VideoResult{
			JobID: jobID,
			Topic: p.Topic,
			Metadata: model.ScriptMetadata{
				Duration:       duration,
				Tone:           "unknown",
				Hashtags:       []string{},
				TargetAudience: "unknown",
			},
			Status:      model.VideoStatusFailed,
			CreatedAt:   createdAt,
			CompletedAt: uc.now().UTC(),
			Error:       cause.Error(),
		}
		if rec.JobID == "" {
			rec.JobID = model.UnknownJobID
		}
		// Best effort only: a storage error here must never mask the
		// original failure.
		if p.StoreResult {
			if _, serr := uc.repo.Store(ctx, rec, false); serr != nil {
				logger.Error().Err(serr).Msg("could not store failure record")
			}
		}
		uc.cachePut(ctx, rec, logger)
		metrics.IncPipelineRun("failed")
		metrics.ObservePipelineDuration("failed", rec.CompletedAt.Sub(rec.CreatedAt).Seconds())
		logger.Error().Err(cause).Str("job_id", rec.JobID).Msg("pipeline failed")
		return rec, cause
	}

	if strings.TrimSpace(p.Topic) == "" {
		return fail(fmt.Errorf("%w: topic is empty", domain.ErrInvalidArgument))
	}

	logger.Info().Msg("step 1/4: generating script")
	script, err := uc.script.Generate(ctx, p.Topic, p.Duration)
	if err != nil {
		return fail(err)
	}

	logger.Info().Msg("step 2/4: submitting render job")
	jobID, err = uc.render.Submit(ctx, script.SoraPrompt, script.Metadata.Duration, uc.videoSize)
	if err != nil {
		return fail(err)
	}
	ctx = logging.WithJobID(ctx, jobID)
	logger = logging.With(ctx, uc.log)

	logger.Info().Msg("step 3/4: polling for completion")
	status, err := uc.render.PollUntilTerminal(ctx, jobID, func(s model.VideoJobStatus) {
		logger.Debug().Str("status", string(s.Status)).Int("progress", s.Progress).Msg("render progress")
	})
	if err != nil {
		return fail(err)
	}
	if status.VideoURL == "" {
		return fail(errors.New("render completed but no video reference returned"))
	}

	logger.Info().Msg("step 4/4: finalizing result")
	rec := &model.VideoResult{
		JobID:       jobID,
		Topic:       p.Topic,
		Script:      script.Script,
		SoraPrompt:  script.SoraPrompt,
		VideoURL:    status.VideoURL,
		Metadata:    script.Metadata,
		Status:      model.VideoStatusCompleted,
		CreatedAt:   createdAt,
		CompletedAt: uc.now().UTC(),
	}
	if p.StoreResult {
		loc, serr := uc.repo.Store(ctx, rec, p.DownloadVideo)
		if serr != nil {
			return fail(fmt.Errorf("store result: %w", serr))
		}
		logger.Info().Str("location", loc).Msg("result stored")
	}
	uc.cachePut(ctx, rec, logger)

	metrics.IncPipelineRun("completed")
	metrics.ObservePipelineDuration("completed", rec.CompletedAt.Sub(rec.CreatedAt).Seconds())
	logger.Info().Dur("elapsed", rec.CompletedAt.Sub(rec.CreatedAt)).Msg("pipeline completed")
	return rec, nil
}

// Lookup serves a previously generated record: cache first, then durable
// storage.
func (uc *PipelineUseCase) Lookup(ctx context.Context, jobID string) (*model.VideoResult, error) {
	if uc.cache != nil {
		if rec, err := uc.cache.Get(ctx, jobID); err == nil {
			return rec, nil
		}
	}
	return uc.repo.Load(ctx, jobID)
}

func (uc *PipelineUseCase) cachePut(ctx context.Context, rec *model.VideoResult, logger *zerolog.Logger) {
	if uc.cache == nil || rec.JobID == model.UnknownJobID {
		return
	}
	if err := uc.cache.Put(ctx, rec); err != nil {
		logger.Warn().Err(err).Msg("result cache write failed")
	}
}
