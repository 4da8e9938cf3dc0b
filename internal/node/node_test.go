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
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blinklabs-io/daocake/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewRejectsBadShutdownTimeout(t *testing.T) {
	_, err := New(&config.Config{BlobPlugin: "badger", ShutdownTimeout: "later"}, discardLogger(), nil, false)
	require.Error(t, err)
}

func TestNewOpensInMemoryNode(t *testing.T) {
	reg := prometheus.NewRegistry()
	d, err := New(&config.Config{BlobPlugin: "badger"}, discardLogger(), reg, false)
	require.NoError(t, err)
	require.NoError(t, d.Open())
	assert.NotNil(t, d.Governance())
	require.NoError(t, d.Stop())
}

func TestMetricsServer(t *testing.T) {
	cfg := &config.Config{BindAddr: "127.0.0.1", MetricsPort: 12345}
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "daocake_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()
	srv := newMetricsServer(cfg, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	assert.Equal(t, "127.0.0.1:12345", srv.Addr)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "daocake_test_total 1")
}
