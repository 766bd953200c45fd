package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jholhewres/floppa/pkg/floppa/bot"
	"github.com/jholhewres/floppa/pkg/floppa/channels/discord"
	"github.com/jholhewres/floppa/pkg/floppa/health"
	"github.com/jholhewres/floppa/pkg/floppa/history"
	"github.com/spf13/cobra"
)

// newServeCmd creates the `floppa serve` command that starts the daemon.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the bot daemon",
		Long: `Start Floppa as a daemon service: connects to Discord, answers
mentions via the completion API, and serves the liveness endpoint.

Examples:
  floppa serve
  floppa serve --config ./config.yaml`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	// ── Load config ──
	configPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := bot.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Missing credentials are fatal at startup.
	if err := cfg.Validate(); err != nil {
		return err
	}

	// ── Configure logger ──
	verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")
	logLevel := slog.LevelInfo
	if verbose || cfg.Logging.Level == "debug" {
		logLevel = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.Logging.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	}
	logger := slog.New(handler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Open the history store ──
	store, err := history.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening history store: %w", err)
	}
	defer store.Close()

	// ── Create assistant ──
	llm := bot.NewLLMClient(cfg, logger)
	assistant := bot.New(cfg, store, llm, logger)

	// ── Register channels ──
	dc := discord.New(cfg.Discord, logger)
	if err := assistant.ChannelManager().Register(dc); err != nil {
		return fmt.Errorf("registering Discord channel: %w", err)
	}

	// ── Start liveness endpoint ──
	// Started before the gateway connection so container health checks
	// pass during the Discord handshake.
	if cfg.Health.Port > 0 {
		hs := health.NewServer(cfg.Health.Port, logger)
		if err := hs.Start(ctx); err != nil {
			return err
		}
	}

	// ── Start ──
	if err := assistant.Start(ctx); err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}

	// ── Stats job ──
	stats := bot.NewStatsJob(store, assistant.ChannelManager(), logger)
	if cfg.Stats.Enabled {
		if err := stats.Start(cfg.Stats.Schedule); err != nil {
			logger.Error("failed to schedule stats job", "error", err)
		}
	}

	// ── Wait for shutdown ──
	logger.Info("Floppa running. Press Ctrl+C to stop.",
		"name", cfg.Name,
		"model", cfg.Model,
		"health_port", cfg.Health.Port,
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received, stopping...")

	// Graceful shutdown with timeout.
	done := make(chan struct{})
	go func() {
		stats.Stop()
		assistant.Stop()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("shutdown complete")
	case <-time.After(10 * time.Second):
		logger.Warn("shutdown timed out after 10s, forcing exit")
	}

	return nil
}
