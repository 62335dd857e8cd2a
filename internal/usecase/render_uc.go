package usecase

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"ugc-video-pipeline/internal/domain"
	"ugc-video-pipeline/internal/domain/model"
	"ugc-video-pipeline/internal/domain/ports/adapter"
	"ugc-video-pipeline/internal/infra/logging"
	"ugc-video-pipeline/internal/infra/metrics"
)

// ProgressFunc receives every successfully observed job status. Informational
// only; it never influences state transitions.
type ProgressFunc func(model.VideoJobStatus)

// RenderUseCase drives one render job from submission to a terminal state.
type RenderUseCase struct {
	renderer        adapter.VideoRenderer
	retry           RetryPolicy
	maxPollAttempts int
	pollInterval    time.Duration
	sleep           sleepFunc
	log             *zerolog.Logger
}

func NewRenderUseCase(renderer adapter.VideoRenderer, retry RetryPolicy, maxPollAttempts int, pollInterval time.Duration, log *zerolog.Logger) *RenderUseCase {
	return &RenderUseCase{
		renderer:        renderer,
		retry:           retry,
		maxPollAttempts: maxPollAttempts,
		pollInterval:    pollInterval,
		sleep:           ctxSleep,
		log:             log,
	}
}

// Submit starts a render job, retrying transient submission failures. A job
// id, once returned, is never resubmitted.
func (uc *RenderUseCase) Submit(ctx context.Context, prompt string, seconds int, size string) (string, error) {
	logger := logging.With(ctx, uc.log)
	logger.Info().Int("seconds", seconds).Str("size", size).Msg("submitting render job")

	var jobID string
	err := retryDo(ctx, uc.retry, uc.sleep, logger, "render.submit",
		metrics.IncSubmitRetry,
		func(ctx context.Context) error {
			id, cerr := uc.renderer.Submit(ctx, adapter.RenderRequest{Prompt: prompt, Seconds: seconds, Size: size})
			if cerr != nil {
				return cerr
			}
			jobID = id
			return nil
		})
	if err != nil {
		return "", err
	}
	logger.Info().Str("job_id", jobID).Msg("render job created")
	return jobID, nil
}

// PollUntilTerminal queries the job status until it is terminal or the
// attempt budget runs out. Transient status-check errors are tolerated and
// consume budget; a reported failed state aborts immediately with a
// RenderFailedError; budget exhaustion yields a TimeoutError.
func (uc *RenderUseCase) PollUntilTerminal(ctx context.Context, jobID string, onProgress ProgressFunc) (model.VideoJobStatus, error) {
	logger := logging.With(logging.WithJobID(ctx, jobID), uc.log)
	logger.Info().Int("max_attempts", uc.maxPollAttempts).Dur("interval", uc.pollInterval).Msg("polling render job")

	var last model.VideoJobStatus
	for attempt := 1; attempt <= uc.maxPollAttempts; attempt++ {
		st, err := uc.renderer.Status(ctx, jobID)
		if err != nil {
			// The check failed, not the job. Keep polling while budget lasts.
			logger.Warn().Err(err).Int("attempt", attempt).Msg("status check failed")
			if attempt == uc.maxPollAttempts {
				metrics.IncRenderJob("error")
				return last, err
			}
			if serr := uc.sleep(ctx, uc.pollInterval); serr != nil {
				return last, serr
			}
			continue
		}

		last = st
		if onProgress != nil {
			onProgress(st)
		}

		switch st.Status {
		case model.VideoStatusCompleted:
			metrics.IncRenderJob("completed")
			metrics.ObservePollAttempts(attempt)
			logger.Info().Int("attempt", attempt).Msg("render completed")
			return st, nil
		case model.VideoStatusFailed:
			reason := st.Error
			if reason == "" {
				reason = "unknown error"
			}
			metrics.IncRenderJob("failed")
			metrics.ObservePollAttempts(attempt)
			return st, &domain.RenderFailedError{JobID: jobID, Reason: reason}
		}

		logger.Info().Int("attempt", attempt).Str("status", string(st.Status)).Int("progress", st.Progress).Msg("render not finished")
		if attempt == uc.maxPollAttempts {
			break
		}
		if serr := uc.sleep(ctx, uc.pollInterval); serr != nil {
			return last, serr
		}
	}

	metrics.IncRenderJob("timeout")
	return last, &domain.TimeoutError{JobID: jobID, Attempts: uc.maxPollAttempts}
}

// Download streams the finished video. Callers must only invoke this after a
// poll has observed the completed state.
func (uc *RenderUseCase) Download(ctx context.Context, jobID string) (io.ReadCloser, error) {
	return uc.renderer.DownloadContent(ctx, jobID)
}
