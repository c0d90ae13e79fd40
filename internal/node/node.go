// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	_ "net/http/pprof" // #nosec G108
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/public-awesome/badges"
	"github.com/public-awesome/badges/internal/config"
)

// Options translates the loaded configuration into node options
func Options(cfg *config.Config, logger *slog.Logger) []badges.ConfigOptionFunc {
	return []badges.ConfigOptionFunc{
		badges.WithLogger(logger),
		badges.WithDatabasePath(cfg.DatabasePath),
		badges.WithJournalDSN(cfg.JournalDsn),
		badges.WithBadgerCacheSizes(
			cfg.BadgerBlockCacheSize,
			cfg.BadgerIndexCacheSize,
		),
		badges.WithBech32Prefix(cfg.Bech32Prefix),
		badges.WithDenom(cfg.Denom),
		badges.WithChainID(cfg.ChainID),
		badges.WithContractAddress(cfg.ContractAddr),
		badges.WithNftAddress(cfg.NftAddr),
		badges.WithTracing(cfg.TracingEnabled),
		badges.WithTracingStdout(cfg.TracingStdout),
	}
}

// Open creates a node from the configuration and opens its database, for
// commands that apply a single operation and exit
func Open(cfg *config.Config, logger *slog.Logger) (*badges.Node, error) {
	n, err := badges.New(badges.NewConfig(Options(cfg, logger)...))
	if err != nil {
		return nil, err
	}
	if err := n.Open(); err != nil {
		_ = n.Stop()
		return nil, err
	}
	return n, nil
}

func Run(cfg *config.Config, logger *slog.Logger) error {
	logger.Debug(fmt.Sprintf("config: %+v", cfg), "component", "node")
	shutdownTimeout, err := cfg.ShutdownTimeoutDuration()
	if err != nil {
		return err
	}
	opts := Options(cfg, logger)
	opts = append(
		opts,
		badges.WithShutdownTimeout(shutdownTimeout),
		// Enable metrics with default prometheus registry
		badges.WithPrometheusRegistry(prometheus.DefaultRegisterer),
	)
	if cfg.ApiPort > 0 {
		opts = append(
			opts,
			badges.WithApiListenAddress(
				fmt.Sprintf("%s:%d", cfg.BindAddr, cfg.ApiPort),
			),
		)
	}
	n, err := badges.New(badges.NewConfig(opts...))
	if err != nil {
		return err
	}
	// Metrics and debug listener
	http.Handle("/metrics", promhttp.Handler())
	metricsAddr := fmt.Sprintf("%s:%d", cfg.BindAddr, cfg.MetricsPort)
	logger.Info(
		"serving prometheus metrics on "+metricsAddr,
		"component", "node",
	)
	metricsServer := &http.Server{
		Addr:              metricsAddr,
		ReadHeaderTimeout: 60 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	// Wait for interrupt/termination signal
	signalCtx, signalCtxStop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer signalCtxStop()

	// The first component to fail cancels ctx and brings the rest down
	g, ctx := errgroup.WithContext(signalCtx)
	g.Go(func() error {
		if err := metricsServer.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start metrics listener: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := n.Run(); err != nil {
			logger.Error("node error", "error", err)
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		if signalCtx.Err() != nil {
			logger.Info("signal received, initiating graceful shutdown")
		}
		//nolint:contextcheck
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			shutdownTimeout,
		)
		defer cancel()
		//nolint:contextcheck
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", "error", err)
		}
		if err := n.Stop(); err != nil {
			logger.Error("shutdown errors occurred", "error", err)
			return err
		}
		logger.Info("shutdown complete")
		return nil
	})
	return g.Wait()
}
