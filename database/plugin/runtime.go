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

package plugin

import (
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// RuntimeConfig carries the settings shared by every plugin constructed from
// the registry
type RuntimeConfig struct {
	Logger       *slog.Logger
	PromRegistry prometheus.Registerer
	// DataDir is the storage directory for local backends. Empty selects
	// non-persistent storage
	DataDir string
}

var (
	runtimeConfig RuntimeConfig
	runtimeMu     sync.RWMutex
)

// SetRuntime sets the values handed to plugins on construction
func SetRuntime(cfg RuntimeConfig) {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()
	runtimeConfig = cfg
}

// Runtime returns the values set by SetRuntime
func Runtime() RuntimeConfig {
	runtimeMu.RLock()
	defer runtimeMu.RUnlock()
	return runtimeConfig
}
