package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/joho/godotenv"

	"kagi-go/internal/config"
	"kagi-go/internal/logger"
	"kagi-go/kagi"
)

// API is the client surface commands depend on, split out as an
// interface so tests can substitute a mock.
type API interface {
	FastGPT(ctx context.Context, req kagi.FastGPTRequest) (*kagi.FastGPTResponse, error)
	EnrichWeb(ctx context.Context, query string) (*kagi.EnrichResponse, error)
	EnrichNews(ctx context.Context, query string) (*kagi.EnrichResponse, error)
	Summarize(ctx context.Context, req kagi.SummarizeRequest) (*kagi.SummarizeResponse, error)
}

// Deps bundles common runtime dependencies for commands.
type Deps struct {
	Config config.Config
	Log    *slog.Logger
	API    API
}

// Build loads env, config, and the API client. A missing .env file is
// fine; any other load failure is not.
func Build() (Deps, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Deps{}, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	client, err := buildClient(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize API client: %w", err)
	}
	return Deps{
		Config: cfg,
		Log:    log,
		API:    client,
	}, nil
}

func buildClient(cfg config.Config, log *slog.Logger) (*kagi.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("KAGI_API_KEY is required")
	}
	client, err := kagi.NewClient(cfg.APIKey,
		kagi.WithBaseURL(cfg.APIBase),
		kagi.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		kagi.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Kagi client: %w", err)
	}
	log.Debug("using Kagi API", "base", cfg.APIBase)
	return client, nil
}
