// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ugc-video-pipeline/internal/config"
	"ugc-video-pipeline/internal/domain/ports/adapter"
	"ugc-video-pipeline/internal/domain/ports/repository"
	aiAdapters "ugc-video-pipeline/internal/infra/adapters/ai"
	videoAdapters "ugc-video-pipeline/internal/infra/adapters/video"
	"ugc-video-pipeline/internal/infra/logging"
	"ugc-video-pipeline/internal/infra/metrics"
	red "ugc-video-pipeline/internal/infra/redis"
	"ugc-video-pipeline/internal/infra/storage"
	"ugc-video-pipeline/internal/infra/web"
	"ugc-video-pipeline/internal/infra/worker"
	"ugc-video-pipeline/internal/usecase"
)

func main() {
	// .env is optional; deployments set real environment variables.
	_ = godotenv.Load()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Runtime.Dev {
		log.Printf("[DEV MODE] Enabled")
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- Script client (OpenAI | Gemini) ----
	var scriptClient adapter.ScriptClient
	switch cfg.Pipeline.ScriptProvider {
	case "gemini":
		scriptClient, err = aiAdapters.NewGeminiScriptClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.BaseURL, cfg.Gemini.Model)
	default:
		scriptClient, err = aiAdapters.NewOpenAIScriptClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.TextModel)
	}
	if err != nil {
		log.Fatalf("script client: %v", err)
	}
	logger.Info().Str("provider", scriptClient.Provider()).Msg("script client ready")

	// ---- Renderer ----
	renderer, err := videoAdapters.NewSoraRenderer(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.VideoModel)
	if err != nil {
		log.Fatalf("renderer: %v", err)
	}

	// ---- Storage (local | postgres) ----
	var repo repository.ResultRepository
	switch cfg.Storage.Type {
	case "postgres":
		pool, perr := storage.NewPgxPool(ctx, cfg.Storage.DatabaseURL)
		if perr != nil {
			log.Fatalf("postgres: %v", perr)
		}
		defer pool.Close()
		repo = storage.NewPostgresResultRepo(pool, logger)
	default:
		repo, err = storage.NewLocalResultRepo(cfg.Storage.Path, renderer, logger)
		if err != nil {
			log.Fatalf("storage: %v", err)
		}
	}

	// ---- Redis result cache (optional) ----
	var cache repository.ResultCache
	if cfg.Redis.URL != "" {
		redisClient, rerr := red.NewClient(ctx, &cfg.Redis)
		if rerr != nil {
			log.Fatalf("redis: %v", rerr)
		}
		defer redisClient.Close()
		cache = red.NewResultCache(redisClient, cfg.Redis.TTL)
	}

	// ---- Use cases ----
	retry := usecase.RetryPolicy{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   cfg.Retry.BaseDelay,
		MaxDelay:    cfg.Retry.MaxDelay,
	}
	scriptUC := usecase.NewScriptUseCase(scriptClient, retry, cfg.Pipeline.DefaultDuration, logger)
	renderUC := usecase.NewRenderUseCase(renderer, retry, cfg.Pipeline.MaxPollAttempts, cfg.Pipeline.PollInterval, logger)
	pipelineUC := usecase.NewPipelineUseCase(scriptUC, renderUC, repo, cache, cfg.Pipeline.VideoSize, cfg.Pipeline.DefaultDuration, logger)

	// ---- Worker pool for async API requests ----
	pool := worker.NewPool(cfg.Pipeline.AsyncWorkers)
	pool.Start(ctx)
	defer pool.Stop()

	// ---- HTTP API ----
	srv := web.NewServer(pipelineUC, pool, cfg.OpenAI.TextModel, cfg.OpenAI.VideoModel, logger)
	go func() {
		if serr := srv.Start(cfg.API.Host, cfg.API.Port); serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			logger.Fatal().Err(serr).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
