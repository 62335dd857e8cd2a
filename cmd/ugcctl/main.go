// File: cmd/ugcctl/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"ugc-video-pipeline/internal/config"
	"ugc-video-pipeline/internal/domain/ports/adapter"
	"ugc-video-pipeline/internal/domain/ports/repository"
	aiAdapters "ugc-video-pipeline/internal/infra/adapters/ai"
	videoAdapters "ugc-video-pipeline/internal/infra/adapters/video"
	"ugc-video-pipeline/internal/infra/logging"
	"ugc-video-pipeline/internal/infra/metrics"
	"ugc-video-pipeline/internal/infra/storage"
	"ugc-video-pipeline/internal/usecase"
)

var (
	cfgPath string
	devMode bool

	genDuration   int
	genNoStore    bool
	genNoDownload bool
)

var rootCmd = &cobra.Command{
	Use:   "ugcctl",
	Short: "Generate UGC-style marketing videos from the command line",
}

var generateCmd = &cobra.Command{
	Use:   "generate <topic>",
	Short: "Run the full pipeline for one topic and print the result",
	Long: `Run the full pipeline for one topic: script generation, video render
submission, polling until the render finishes, and storing the result.

Examples:
  ugcctl generate "breathing exercise"
  ugcctl generate "panic relief tool" --duration 12 --no-download`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

var showCmd = &cobra.Command{
	Use:   "show <job-id>",
	Short: "Print a previously stored result",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "path to YAML config file")
	rootCmd.PersistentFlags().BoolVar(&devMode, "dev", false, "developer mode (console logs)")

	generateCmd.Flags().IntVar(&genDuration, "duration", 0, "video duration in seconds (0 = configured default)")
	generateCmd.Flags().BoolVar(&genNoStore, "no-store", false, "don't store the result")
	generateCmd.Flags().BoolVar(&genNoDownload, "no-download", false, "don't download the video file")

	rootCmd.AddCommand(generateCmd, showCmd)
}

func buildPipeline(ctx context.Context) (*usecase.PipelineUseCase, func(), error) {
	cfg, err := config.LoadConfig(cfgPath, devMode)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	var scriptClient adapter.ScriptClient
	switch cfg.Pipeline.ScriptProvider {
	case "gemini":
		scriptClient, err = aiAdapters.NewGeminiScriptClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.BaseURL, cfg.Gemini.Model)
	default:
		scriptClient, err = aiAdapters.NewOpenAIScriptClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.TextModel)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("script client: %w", err)
	}

	renderer, err := videoAdapters.NewSoraRenderer(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.VideoModel)
	if err != nil {
		return nil, nil, fmt.Errorf("renderer: %w", err)
	}

	var repo repository.ResultRepository
	cleanup := func() {}
	switch cfg.Storage.Type {
	case "postgres":
		pool, perr := storage.NewPgxPool(ctx, cfg.Storage.DatabaseURL)
		if perr != nil {
			return nil, nil, fmt.Errorf("postgres: %w", perr)
		}
		cleanup = pool.Close
		repo = storage.NewPostgresResultRepo(pool, logger)
	default:
		repo, err = storage.NewLocalResultRepo(cfg.Storage.Path, renderer, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("storage: %w", err)
		}
	}

	retry := usecase.RetryPolicy{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   cfg.Retry.BaseDelay,
		MaxDelay:    cfg.Retry.MaxDelay,
	}
	scriptUC := usecase.NewScriptUseCase(scriptClient, retry, cfg.Pipeline.DefaultDuration, logger)
	renderUC := usecase.NewRenderUseCase(renderer, retry, cfg.Pipeline.MaxPollAttempts, cfg.Pipeline.PollInterval, logger)
	pipelineUC := usecase.NewPipelineUseCase(scriptUC, renderUC, repo, nil, cfg.Pipeline.VideoSize, cfg.Pipeline.DefaultDuration, logger)
	return pipelineUC, cleanup, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	pipeline, cleanup, err := buildPipeline(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := pipeline.Generate(ctx, usecase.GenerateParams{
		Topic:         args[0],
		Duration:      genDuration,
		StoreResult:   !genNoStore,
		DownloadVideo: !genNoDownload,
	})
	if err != nil {
		return err
	}

	line := strings.Repeat("=", 80)
	fmt.Println("\n" + line)
	fmt.Println("VIDEO GENERATION COMPLETED")
	fmt.Println(line)
	fmt.Printf("\nJob ID: %s\n", result.JobID)
	fmt.Printf("Topic: %s\n", result.Topic)
	fmt.Printf("Duration: %ds\n", result.Metadata.Duration)
	fmt.Printf("Tone: %s\n", result.Metadata.Tone)
	fmt.Printf("Target Audience: %s\n", result.Metadata.TargetAudience)
	fmt.Printf("\nHashtags: %s\n", strings.Join(result.Metadata.Hashtags, ", "))
	fmt.Printf("\nScript:\n%s\n", result.Script)
	fmt.Printf("\nVideo URL: %s\n", result.VideoURL)
	fmt.Printf("\nCompleted in: %.1fs\n", result.CompletedAt.Sub(result.CreatedAt).Seconds())
	fmt.Println(line)
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	pipeline, cleanup, err := buildPipeline(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := pipeline.Lookup(ctx, args[0])
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
