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

package daocake

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/blinklabs-io/daocake/database"
	"github.com/blinklabs-io/daocake/database/plugin/blob"
	"github.com/blinklabs-io/daocake/governance"
	"github.com/prometheus/client_golang/prometheus"
)

type Config struct {
	promRegistry     prometheus.Registerer
	logger           *slog.Logger
	blobStore        blob.BlobStore
	idGenerator      governance.IdGenerator
	dataDir          string
	blobPlugin       string
	tracing          bool
	tracingStdout    bool
	singleMembership bool
	logEvents        bool
	shutdownTimeout  time.Duration
}

func (n *Node) configValidate() error {
	if n.config.blobStore == nil && n.config.blobPlugin == "" {
		return errors.New("no blob plugin specified")
	}
	if n.config.shutdownTimeout < 0 {
		return errors.New("shutdown timeout must not be negative")
	}
	return nil
}

// ConfigOptionFunc is a type that represents functions that modify the node config
type ConfigOptionFunc func(*Config)

// NewConfig creates a new daocake config with the specified options
func NewConfig(opts ...ConfigOptionFunc) Config {
	c := Config{
		// Default logger will throw away logs
		// We do this so we don't have to add guards around every log operation
		logger:     slog.New(slog.NewJSONHandler(io.Discard, nil)),
		blobPlugin: database.DefaultBlobPlugin,
	}
	// Apply options
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithDatabasePath specifies the persistent data directory to use. The default is to store everything in memory
func WithDatabasePath(dataDir string) ConfigOptionFunc {
	return func(c *Config) {
		c.dataDir = dataDir
	}
}

// WithBlobPlugin specifies the blob storage plugin to use.
func WithBlobPlugin(plugin string) ConfigOptionFunc {
	return func(c *Config) {
		c.blobPlugin = plugin
	}
}

// WithBlobStore specifies an already opened blob store, bypassing the plugin registry
func WithBlobStore(store blob.BlobStore) ConfigOptionFunc {
	return func(c *Config) {
		c.blobStore = store
	}
}

// WithLogger specifies the logger to use. This defaults to discarding log output
func WithLogger(logger *slog.Logger) ConfigOptionFunc {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithPrometheusRegistry specifies a prometheus.Registerer instance to add metrics to
func WithPrometheusRegistry(registry prometheus.Registerer) ConfigOptionFunc {
	return func(c *Config) {
		c.promRegistry = registry
	}
}

// WithIdGenerator specifies how identifiers are generated for records created without one
func WithIdGenerator(idGenerator governance.IdGenerator) ConfigOptionFunc {
	return func(c *Config) {
		c.idGenerator = idGenerator
	}
}

// WithSingleMembership limits each principal to its first member record across all organisations
func WithSingleMembership(singleMembership bool) ConfigOptionFunc {
	return func(c *Config) {
		c.singleMembership = singleMembership
	}
}

// WithEventLogging logs every governance event at info level
func WithEventLogging(logEvents bool) ConfigOptionFunc {
	return func(c *Config) {
		c.logEvents = logEvents
	}
}

// WithTracing enables tracing. By default, spans are submitted to a HTTP(s) endpoint using OTLP. This can be configured
// using the OTEL_EXPORTER_OTLP_* env vars documented in the README for [go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp]
func WithTracing(tracing bool) ConfigOptionFunc {
	return func(c *Config) {
		c.tracing = tracing
	}
}

// WithTracingStdout enables tracing output to stdout. This also requires tracing to enabled separately. This is mostly useful for debugging
func WithTracingStdout(stdout bool) ConfigOptionFunc {
	return func(c *Config) {
		c.tracingStdout = stdout
	}
}

// WithShutdownTimeout specifies the timeout for graceful shutdown. The default is 30 seconds
func WithShutdownTimeout(timeout time.Duration) ConfigOptionFunc {
	return func(c *Config) {
		c.shutdownTimeout = timeout
	}
}
