package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/prediction-league/external/sportsfeed"
	"github.com/riskibarqy/prediction-league/internal/app"
	"github.com/riskibarqy/prediction-league/internal/config"
	"github.com/riskibarqy/prediction-league/internal/listener"
	"github.com/riskibarqy/prediction-league/internal/observability"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)

	if !cfg.FeedEnabled {
		logger.Error("listener requires FEED_ENABLED=true")
		os.Exit(1)
	}
	if cfg.GatewayURL == "" {
		logger.Error("listener requires GATEWAY_URL")
		os.Exit(1)
	}

	uptraceShutdown, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}

	container, err := app.NewContainer(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	gateway := sportsfeed.NewGateway(sportsfeed.GatewayConfig{
		URL:              cfg.GatewayURL,
		Token:            cfg.FeedToken,
		HandshakeTimeout: cfg.GatewayHandshakeTimeout,
	})

	manager := listener.NewManager(
		gateway,
		container.Questions,
		container.Matches,
		container.Reconciliation,
		container.Settlement,
		listener.Config{
			HeartbeatInterval:   cfg.ListenerHeartbeatInterval,
			LivenessTimeout:     cfg.ListenerLivenessTimeout,
			RefreshInterval:     cfg.ListenerRefreshInterval,
			ReconnectMin:        cfg.ListenerReconnectMin,
			ReconnectMax:        cfg.ListenerReconnectMax,
			FinishedStatusCodes: cfg.ListenerFinishedStatusCodes,
		},
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Periodic reconciliation covers results the stream missed while
	// the listener was disconnected.
	go func() {
		ticker := time.NewTicker(cfg.ReconcileInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := container.Reconciliation.SettlePendingFutureQuestions(ctx); err != nil {
					logger.Error("periodic reconciliation failed", "error", err)
				}
			}
		}
	}()

	logger.Info("listener starting", "gateway_url", cfg.GatewayURL)
	if err := manager.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("listener stopped with error", "error", err)
	}

	if err := container.Close(); err != nil {
		logger.Error("close container", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if uptraceShutdown != nil {
		if err := uptraceShutdown(shutdownCtx); err != nil {
			logger.Error("shutdown uptrace", "error", err)
		}
	}

	logger.Info("listener stopped")
}
