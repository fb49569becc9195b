package cmd

import (
	"context"
	"fmt"

	"github.com/jobradar/jobradar/internal/ai"
	"github.com/jobradar/jobradar/internal/ai/gemini"
	"github.com/jobradar/jobradar/internal/fetcher"
	"github.com/jobradar/jobradar/internal/job"
	"github.com/jobradar/jobradar/internal/jobboard"
	"github.com/jobradar/jobradar/internal/pipeline"
	"github.com/jobradar/jobradar/internal/resume"
	"github.com/jobradar/jobradar/internal/secrets"
	"github.com/jobradar/jobradar/internal/store"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// buildPipeline assembles the run collaborators from the resolved config.
// The text-intelligence backend is only constructed when the operation needs
// it, so fetch-only runs work without an API key.
func buildPipeline(ctx context.Context, config *Config, logger *zap.Logger, withAI bool) (*pipeline.Pipeline, error) {
	board := jobboard.New(logger)
	board.Debug = viper.GetBool("debug")

	if config.Board != nil {
		if config.Board.APIURL != "" {
			board.APIURL = config.Board.APIURL
		}
		if config.Board.UserAgent != "" {
			board.UserAgent = config.Board.UserAgent
		}
		board.SetRateLimit(config.Board.RequestsPerSecond, config.Board.Burst)
	}

	deps := pipeline.Deps{
		Fetcher: fetcher.New(board, logger, fetcher.Config{}),
		Store:   store.New(viper.GetString("storage-path"), logger),
		Logger:  logger,
	}

	if withAI {
		var embedder ai.Embedder
		var extractor ai.Extractor

		client, err := buildGemini(ctx, config, logger)
		if err != nil {
			return nil, err
		}
		embedder = client
		extractor = client

		deps.Embedder = embedder
		deps.Extractor = extractor
	}

	cfg := pipeline.Config{
		Location:      config.Search.Location,
		ResultsWanted: config.Search.ResultsWanted,
		Distance:      config.Search.Distance,
		Sites:         config.Search.Sites,
		ProcessWithAI: config.ProcessWithAI,
		ReprocessAll:  viper.GetBool("reprocess-all"),
		TopN:          viper.GetInt("top"),
	}

	return pipeline.New(cfg, deps), nil
}

func buildGemini(ctx context.Context, config *Config, logger *zap.Logger) (*gemini.Client, error) {
	geminiCfg := &GeminiConfig{}
	if config.AI != nil && config.AI.Gemini != nil {
		geminiCfg = config.AI.Gemini
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: geminiCfg.APIKey,
		File:  geminiCfg.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	client, err := gemini.NewClient(ctx, apiKey, geminiCfg.Model, geminiCfg.EmbeddingModel, geminiCfg.MaxRetries,
		logger.With(zap.String("provider", "gemini")),
	)
	if err != nil {
		return nil, fmt.Errorf("building gemini client: %w", err)
	}

	return client, nil
}

// loadResume reads the configured resume file, failing fast when the path is
// not configured.
func loadResume(config *Config) (string, error) {
	if config.ResumePath == "" {
		return "", fmt.Errorf("resume path is required (set resume-path or --resume)")
	}
	return resume.Load(config.ResumePath)
}

func printTopMatches(records []job.Record) {
	if len(records) == 0 {
		fmt.Println("no ranked matches yet")
		return
	}

	fmt.Printf("top %d matches:\n", len(records))
	for i, rec := range records {
		fmt.Printf("%2d. %-50s %-25s %-25s", i+1, truncate(rec.Title, 50), truncate(rec.Company, 25), truncate(rec.Location, 25))
		if rec.HasSimilarity() {
			fmt.Printf("  %.4f", *rec.Similarity)
		}
		fmt.Println()
	}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
