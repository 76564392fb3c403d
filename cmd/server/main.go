// Command server runs the food recommendation API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/0xcro3dile/makanapa-go/internal/adapters/filewatcher"
	"github.com/0xcro3dile/makanapa-go/internal/adapters/history"
	"github.com/0xcro3dile/makanapa-go/internal/adapters/llm"
	"github.com/0xcro3dile/makanapa-go/internal/adapters/overpass"
	"github.com/0xcro3dile/makanapa-go/internal/config"
	"github.com/0xcro3dile/makanapa-go/internal/domain/ports"
	"github.com/0xcro3dile/makanapa-go/internal/domain/usecases"
	httpserver "github.com/0xcro3dile/makanapa-go/internal/infrastructure/http"
	"github.com/0xcro3dile/makanapa-go/internal/infrastructure/supervisor"
	"github.com/0xcro3dile/makanapa-go/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Fatal().Err(err).Msg("Server exited")
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("llm_provider", cfg.LLM.Provider).
		Str("database_driver", cfg.Database.Driver).
		Str("config_file", cfg.Source).
		Msg("Configuration loaded")

	store, closer, err := newHistoryStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer closer.Close()

	generator, err := newTextGenerator(cfg.LLM)
	if err != nil {
		return err
	}

	recommend := usecases.NewRecommendUseCase(
		newPlaceSearcher(cfg.Overpass),
		usecases.NewRecommendationGenerator(generator),
		store,
		cfg.Server.RequestTimeout,
	)

	var health httpserver.HealthChecker
	if h, ok := store.(httpserver.HealthChecker); ok {
		health = h
	}
	server := httpserver.NewServer(recommend, health, httpserver.Options{
		Addr:            cfg.Addr(),
		Production:      cfg.IsProduction(),
		CORSOrigins:     cfg.Server.CORSOrigins,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddAPIService(supervisor.NewHTTPServerService(server))

	if cfg.Source != "" {
		watcher, err := filewatcher.NewFSNotifyWatcher()
		if err != nil {
			return fmt.Errorf("creating config watcher: %w", err)
		}
		defer watcher.Stop()
		tree.AddSupportService(supervisor.NewConfigWatcherService(cfg.Source, watcher, reloadLogLevel(cfg.Source)))
	}

	return tree.Serve(ctx)
}

// reloadLogLevel re-reads the config file and applies its log level.
// Other settings need a restart.
func reloadLogLevel(path string) func() error {
	return func() error {
		next, err := config.LoadFrom(path)
		if err != nil {
			return err
		}
		logging.SetLevel(next.Logging.Level)
		return nil
	}
}

func newPlaceSearcher(cfg config.OverpassConfig) ports.PlaceSearcher {
	client := overpass.NewClient(cfg.URL, cfg.Timeout)
	if !cfg.BreakerEnabled {
		return client
	}
	return overpass.NewCircuitBreakerClient(client, overpass.DefaultBreakerConfig())
}

func newTextGenerator(cfg config.LLMConfig) (ports.TextGenerator, error) {
	opts := llm.Options{
		Timeout:     cfg.Timeout,
		MaxRetries:  cfg.MaxRetries,
		MaxTokens:   cfg.MaxTokens,
		Temperature: &cfg.Temperature,
	}
	switch cfg.Provider {
	case "openai":
		opts.Model = cfg.OpenAIModel
		return llm.NewOpenAIAdapter(cfg.OpenAIBaseURL, cfg.OpenAIKey, opts), nil
	case "ollama":
		opts.Model = cfg.OllamaModel
		return llm.NewOllamaLLMAdapter(cfg.OllamaURL, opts), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func newHistoryStore(ctx context.Context, cfg config.DatabaseConfig) (ports.HistoryStore, io.Closer, error) {
	switch cfg.Driver {
	case "sqlite":
		store, err := history.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite history store: %w", err)
		}
		return store, store, nil
	case "postgres":
		store, err := history.NewPostgresStore(ctx, cfg.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("opening postgres history store: %w", err)
		}
		return store, store, nil
	case "memory":
		return history.NewMemoryStore(), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
