package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"navermap_bot/internal/bot"
	"navermap_bot/internal/discord"
	apphttp "navermap_bot/internal/http"
	"navermap_bot/internal/http/router"
	"navermap_bot/internal/navermap"
	"navermap_bot/internal/whatsapp"
	"navermap_bot/platform/config"
	"navermap_bot/platform/logger"
	"navermap_bot/platform/metrics"
	"navermap_bot/platform/validator"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env)
	log.Info("starting bot", "env", cfg.Env, "addr", cfg.HTTPAddr, "name", cfg.BotName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Resolution Layer
	// ========================================================================

	m := metrics.New()
	val := validator.New()

	navermapModule := navermap.NewModule(cfg, nil, log, m)
	mapBot := bot.New(cfg, navermapModule.Service(), navermapModule.Links(), log, m)

	modules := []apphttp.Module{
		navermapModule,
		bot.NewModule(mapBot, val),
	}

	// ========================================================================
	// Chat Surfaces
	// ========================================================================

	if waClient := whatsapp.NewClient(cfg, log, m); waClient != nil {
		modules = append(modules, whatsapp.NewModule(mapBot, waClient, log))
		log.Info("whatsapp surface enabled")
	}

	var discordAdapter *discord.Adapter
	if cfg.IsDiscordEnabled() {
		discordAdapter = discord.New(cfg, mapBot, log)
		if err := withRetry(ctx, log, "discord session", 5, 2*time.Second, func() error {
			return discordAdapter.Open(ctx)
		}); err != nil {
			log.Error("failed to open discord session", "error", err)
			os.Exit(1)
		}
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:  cfg,
		Logger:  log,
		Metrics: m,
		Modules: modules,
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if discordAdapter != nil {
		g.Go(func() error {
			return discordAdapter.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("bot stopped")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return fmt.Errorf("%s: %w", name, lastErr)
}
