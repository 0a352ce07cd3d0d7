// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/hazelbot/hazel/internal/api"
	"github.com/hazelbot/hazel/internal/chat"
	"github.com/hazelbot/hazel/internal/config"
	"github.com/hazelbot/hazel/internal/intent"
	"github.com/hazelbot/hazel/internal/knowledge"
	"github.com/hazelbot/hazel/internal/llm"
	hzlog "github.com/hazelbot/hazel/internal/log"
	"github.com/hazelbot/hazel/internal/menu"
	"github.com/hazelbot/hazel/internal/order"
	"github.com/hazelbot/hazel/internal/session"
	"github.com/hazelbot/hazel/internal/telemetry"
	"github.com/hazelbot/hazel/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		daemonLog := hzlog.WithComponent("daemon")
		daemonLog.Fatal().Err(err).Msg("daemon exited")
	}
}

func run(ctx context.Context) error {
	envCfg := config.FromEnv()
	if err := envCfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	cfg := &envCfg

	hzlog.Configure(hzlog.Config{
		Level:   cfg.LogLevel,
		Service: "hazel",
		Version: version.Version,
	})
	logger := hzlog.WithComponent("daemon")

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.TracingEnabled,
		ServiceName:    "hazel",
		ServiceVersion: version.Version,
		ExporterType:   cfg.TracingExporter,
		Endpoint:       cfg.TracingEndpoint,
		SamplingRate:   cfg.TracingSample,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("telemetry shutdown failed")
		}
	}()

	knowledgePath := filepath.Join(cfg.DataDir, "knowledge.yaml")
	kb, err := knowledge.Load(knowledgePath)
	if err != nil {
		return fmt.Errorf("knowledge: %w", err)
	}
	m, err := menu.Load(filepath.Join(cfg.DataDir, "menu.yaml"))
	if err != nil {
		return fmt.Errorf("menu: %w", err)
	}
	logger.Info().
		Int("intents", len(kb.Intents())).
		Int("menu_items", len(m.Items)).
		Str("data_dir", cfg.DataDir).
		Msg("knowledge and menu loaded")

	store, err := session.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn().Err(err).Msg("store close failed")
		}
	}()

	matcher, err := intent.ForName(cfg.MatchStrategy)
	if err != nil {
		return err
	}
	ids, err := order.GeneratorForMode(cfg.OrderIDMode)
	if err != nil {
		return err
	}
	llmClient, err := llm.FromConfig(cfg, kb.Store())
	if err != nil {
		return fmt.Errorf("llm: %w", err)
	}

	tracker := order.NewTracker(func(ctx context.Context, orderID string, status order.Status) error {
		return store.UpdateOrderStatus(ctx, orderID, status)
	}, cfg.PrepareDelay)
	defer tracker.Close()

	engine := chat.New(chat.Options{
		Knowledge: kb,
		Menu:      m,
		Store:     store,
		Matcher:   matcher,
		LLM:       llmClient,
		IDs:       ids,
		Tracker:   tracker,
	})

	srv := api.New(api.Options{
		Config:        cfg,
		Engine:        engine,
		Knowledge:     kb,
		Menu:          m,
		Store:         store,
		IDs:           ids,
		Tracker:       tracker,
		KnowledgePath: knowledgePath,
	})

	apiServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Router(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout / 2,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", cfg.ListenAddr).Msg("API server listening")
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info().Str("addr", cfg.MetricsAddr).Msg("metrics server listening")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}

	if cfg.WatchKnowledge {
		g.Go(func() error {
			if err := kb.Watch(ctx, knowledgePath); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn().Err(err).Msg("knowledge watcher stopped")
			}
			return nil
		})
	}

	// Shutdown on signal or first fatal error.
	g.Go(func() error {
		<-ctx.Done()
		logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("api server shutdown failed")
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn().Err(err).Msg("metrics server shutdown failed")
			}
		}
		return nil
	})

	return g.Wait()
}
