// Copyright 2026 Blink Labs Software
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
	"os/signal"
	"syscall"

	"github.com/blinklabs-io/daocake"
	"github.com/blinklabs-io/daocake/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// New builds a node from the loaded configuration without opening it
func New(
	cfg *config.Config,
	logger *slog.Logger,
	promRegistry prometheus.Registerer,
	logEvents bool,
) (*daocake.Node, error) {
	shutdownTimeout, err := cfg.ShutdownTimeoutDuration()
	if err != nil {
		return nil, err
	}
	return daocake.New(
		daocake.NewConfig(
			daocake.WithLogger(logger),
			daocake.WithDatabasePath(cfg.DatabasePath),
			daocake.WithBlobPlugin(cfg.BlobPlugin),
			daocake.WithSingleMembership(cfg.SingleMembership),
			daocake.WithEventLogging(logEvents),
			daocake.WithTracing(cfg.TracingEnabled),
			daocake.WithTracingStdout(cfg.TracingStdout),
			daocake.WithShutdownTimeout(shutdownTimeout),
			daocake.WithPrometheusRegistry(promRegistry),
		),
	)
}

// Run hosts the governance node with a metrics listener until SIGINT or
// SIGTERM
func Run(cfg *config.Config, logger *slog.Logger) error {
	logger.Debug(fmt.Sprintf("config: %+v", cfg), "component", "node")
	shutdownTimeout, err := cfg.ShutdownTimeoutDuration()
	if err != nil {
		return err
	}
	// Enable metrics with default prometheus registry
	d, err := New(cfg, logger, prometheus.DefaultRegisterer, true)
	if err != nil {
		return err
	}
	if err := d.Open(); err != nil {
		_ = d.Stop()
		return err
	}
	// Metrics listener
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	metricsServer := newMetricsServer(cfg, mux)
	logger.Info(
		"serving prometheus metrics on "+metricsServer.Addr,
		"component", "node",
	)
	serverErr := make(chan error, 1)
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()
	// Wait for interrupt/termination signal
	signalCtx, signalCtxStop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer signalCtxStop()

	// Run node in goroutine
	errChan := make(chan error, 1)
	go func() {
		errChan <- d.Run()
	}()

	var runErr error
	select {
	case <-signalCtx.Done():
		logger.Info("signal received, initiating graceful shutdown", "component", "node")
	case err := <-serverErr:
		logger.Error("failed to start metrics listener", "component", "node", "error", err)
		runErr = err
	case err := <-errChan:
		if err != nil {
			logger.Error("node error", "component", "node", "error", err)
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown error", "component", "node", "error", err)
	}
	if err := d.Stop(); err != nil {
		logger.Error("shutdown errors occurred", "component", "node", "error", err)
		return errors.Join(runErr, err)
	}
	logger.Info("shutdown complete", "component", "node")
	return runErr
}
