package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/educationrisehub/faceless-reels-generator/internal/ai"
	"github.com/educationrisehub/faceless-reels-generator/internal/config"
	"github.com/educationrisehub/faceless-reels-generator/internal/server"
	"github.com/educationrisehub/faceless-reels-generator/internal/session"
	"github.com/educationrisehub/faceless-reels-generator/internal/storage/sqlite"
	"github.com/educationrisehub/faceless-reels-generator/pkg/logger"
	"github.com/educationrisehub/faceless-reels-generator/pkg/ratelimit"
)

func main() {
	var cfgFile string
	flag.StringVar(&cfgFile, "config", "", "config file (default is ./configs/config.yaml)")
	flag.Parse()

	if err := run(cfgFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfgFile string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	repo, err := sqlite.New(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer repo.Close()

	limiter := ratelimit.NewLimiter(cfg.RateLimit.AnthropicRequestsPerMinute)
	aiClient := ai.NewClient(cfg.Anthropic, limiter, log)
	generator := ai.NewGenerator(aiClient, log)
	sess := session.New(context.Background(), cfg.SessionConfig(), generator, repo, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.New(sess, log).Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute, // generation calls are slow
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
