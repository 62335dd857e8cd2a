package usecase

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"ugc-video-pipeline/internal/domain"
	"ugc-video-pipeline/internal/domain/model"
	"ugc-video-pipeline/internal/domain/ports/adapter"
	"ugc-video-pipeline/internal/infra/logging"
	"ugc-video-pipeline/internal/infra/metrics"
)

// ScriptUseCase asks the text-generation collaborator for a UGC script and
// validates the structured reply. Transient call failures are retried; a
// malformed or incomplete reply is a ValidationError and is not.
type ScriptUseCase struct {
	client          adapter.ScriptClient
	retry           RetryPolicy
	defaultDuration int
	sleep           sleepFunc
	log             *zerolog.Logger
}

func NewScriptUseCase(client adapter.ScriptClient, retry RetryPolicy, defaultDuration int, log *zerolog.Logger) *ScriptUseCase {
	return &ScriptUseCase{
		client:          client,
		retry:           retry,
		defaultDuration: defaultDuration,
		sleep:           ctxSleep,
		log:             log,
	}
}

// Generate requests one script for the topic. A non-positive duration means
// the configured default.
func (uc *ScriptUseCase) Generate(ctx context.Context, topic string, duration int) (*model.GeneratedScript, error) {
	if duration <= 0 {
		duration = uc.defaultDuration
	}
	logger := logging.With(ctx, uc.log)
	provider := uc.client.Provider()
	logger.Info().Str("provider", provider).Int("duration", duration).Msg("generating script")

	var raw string
	err := retryDo(ctx, uc.retry, uc.sleep, logger, "script.complete",
		func() { metrics.IncScriptRetry(provider) },
		func(ctx context.Context) error {
			var cerr error
			raw, cerr = uc.client.Complete(ctx, scriptSystemPrompt, scriptUserPrompt(topic, duration))
			return cerr
		})
	if err != nil {
		metrics.IncScriptRequest(provider, "error")
		return nil, err
	}

	script, err := parseScript(raw)
	if err != nil {
		metrics.IncScriptRequest(provider, "validation_error")
		logger.Error().Err(err).Msg("script reply rejected")
		return nil, err
	}

	metrics.IncScriptRequest(provider, "ok")
	logger.Info().Int("script_chars", len(script.Script)).Str("tone", script.Metadata.Tone).Msg("script generated")
	return script, nil
}

// parseScript validates the collaborator reply against the three-field
// contract. Pointer fields distinguish "absent" from "zero".
func parseScript(raw string) (*model.GeneratedScript, error) {
	var payload struct {
		Script     *string `json:"script"`
		SoraPrompt *string `json:"sora_prompt"`
		Metadata   *struct {
			Duration       *int      `json:"duration"`
			Tone           *string   `json:"tone"`
			Hashtags       *[]string `json:"hashtags"`
			TargetAudience *string   `json:"target_audience"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, &domain.ValidationError{Reason: "invalid JSON: " + err.Error()}
	}

	switch {
	case payload.Script == nil:
		return nil, &domain.ValidationError{Field: "script", Reason: "missing"}
	case payload.SoraPrompt == nil:
		return nil, &domain.ValidationError{Field: "sora_prompt", Reason: "missing"}
	case payload.Metadata == nil:
		return nil, &domain.ValidationError{Field: "metadata", Reason: "missing"}
	case payload.Metadata.Duration == nil:
		return nil, &domain.ValidationError{Field: "metadata.duration", Reason: "missing"}
	case payload.Metadata.Tone == nil:
		return nil, &domain.ValidationError{Field: "metadata.tone", Reason: "missing"}
	case payload.Metadata.Hashtags == nil:
		return nil, &domain.ValidationError{Field: "metadata.hashtags", Reason: "missing"}
	case payload.Metadata.TargetAudience == nil:
		return nil, &domain.ValidationError{Field: "metadata.target_audience", Reason: "missing"}
	}
	if *payload.Metadata.Duration <= 0 {
		return nil, &domain.ValidationError{Field: "metadata.duration", Reason: "must be a positive integer"}
	}

	hashtags := *payload.Metadata.Hashtags
	if hashtags == nil {
		hashtags = []string{}
	}
	return &model.GeneratedScript{
		Script:     *payload.Script,
		SoraPrompt: *payload.SoraPrompt,
		Metadata: model.ScriptMetadata{
			Duration:       *payload.Metadata.Duration,
			Tone:           *payload.Metadata.Tone,
			Hashtags:       hashtags,
			TargetAudience: *payload.Metadata.TargetAudience,
		},
	}, nil
}
