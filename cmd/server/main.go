// Command server runs the bionic reader HTTP backend.
//
// Configuration comes from the environment, optionally seeded from a .env
// file in the working directory. See internal/config for the variables.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/porticus-lab/bionic-api/internal/ai"
	"github.com/porticus-lab/bionic-api/internal/ai/gemini"
	"github.com/porticus-lab/bionic-api/internal/ai/openai"
	"github.com/porticus-lab/bionic-api/internal/config"
	"github.com/porticus-lab/bionic-api/internal/extract"
	"github.com/porticus-lab/bionic-api/internal/logger"
	"github.com/porticus-lab/bionic-api/internal/metrics"
	"github.com/porticus-lab/bionic-api/internal/render"
	"github.com/porticus-lab/bionic-api/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		logger.Error("server stopped", logger.Err(err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Configure(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	model, err := newModel(ctx, cfg)
	if err != nil {
		return err
	}
	if model == nil {
		logger.Warn("AI credential not configured; AI routes will fail", "provider", cfg.AIProvider)
	}
	gateway := ai.NewGateway(model,
		ai.WithProviderLabel(cfg.ProviderLabel()),
		ai.WithTimeout(cfg.AITimeout),
		ai.WithMetrics(m),
	)

	converter := render.NewConverter(converterOptions(cfg)...)
	defer converter.Close()
	go func() {
		if err := converter.Start(); err != nil {
			logger.Warn("browser not started; will retry on first PDF request", logger.Err(err))
			return
		}
		logger.Info("browser started")
	}()

	srv := server.New(server.Deps{
		Extractor:     extract.New(),
		Renderer:      render.NewRenderer(converter),
		Assistant:     gateway,
		Metrics:       m,
		RendererReady: converter.Started,
	}, server.Config{
		BodyLimit:   cfg.MaxUploadBytes,
		CORSOrigins: cfg.CORSOrigins,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr(), "provider", cfg.AIProvider, "ai", gateway.Available())
		errCh <- srv.Listen(cfg.Addr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newModel returns the configured AI backend, or nil when its credential is
// absent.
func newModel(ctx context.Context, cfg *config.Config) (ai.Model, error) {
	key := cfg.APIKey()
	if key == "" {
		return nil, nil
	}
	switch cfg.AIProvider {
	case config.ProviderOpenAI:
		return openai.New(key,
			openai.WithTextModel(cfg.TextModel),
			openai.WithSpeechModel(cfg.SpeechModel),
			openai.WithVoice(cfg.Voice),
		), nil
	default:
		return gemini.New(ctx, key,
			gemini.WithTextModel(cfg.TextModel),
			gemini.WithSpeechModel(cfg.SpeechModel),
			gemini.WithVoice(cfg.Voice),
		)
	}
}

func converterOptions(cfg *config.Config) []render.Option {
	opts := []render.Option{render.WithTimeout(cfg.RenderTimeout)}
	if cfg.ChromePath != "" {
		opts = append(opts, render.WithChromePath(cfg.ChromePath))
	}
	if cfg.ChromeNoSandbox {
		opts = append(opts, render.WithNoSandbox())
	}
	if cfg.ChromeAutoDownload {
		opts = append(opts, render.WithAutoDownload())
	}
	return opts
}
