package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"ugc-video-pipeline/internal/domain"
)

// sleepFunc waits for d or until ctx is done. Injected so tests can observe
// backoff timing instead of sleeping through it.
type sleepFunc func(ctx context.Context, d time.Duration) error

func ctxSleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RetryPolicy describes how transient collaborator failures are retried:
// up to MaxAttempts tries with exponential backoff BaseDelay, 2*BaseDelay,
// 4*BaseDelay, ... capped at MaxDelay.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	d := p.BaseDelay << (attempt - 1)
	if d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

// retryDo runs fn up to p.MaxAttempts times. Fatal errors (validation,
// render-failed, timeout) abort immediately; once attempts run out the last
// transient error is returned unchanged. onRetry fires before each backoff.
func retryDo(ctx context.Context, p RetryPolicy, sleep sleepFunc, log *zerolog.Logger, op string, onRetry func(), fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if domain.IsFatal(err) || attempt == p.MaxAttempts {
			return err
		}
		if onRetry != nil {
			onRetry()
		}
		wait := p.delay(attempt)
		log.Warn().Err(err).Str("op", op).Int("attempt", attempt).Dur("backoff", wait).Msg("transient failure, retrying")
		if serr := sleep(ctx, wait); serr != nil {
			return serr
		}
	}
	return err
}
