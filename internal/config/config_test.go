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

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/blinklabs-io/daocake/database/plugin"
)

type configTestPlugin struct{}

func (configTestPlugin) Start() error { return nil }
func (configTestPlugin) Stop() error  { return nil }

var configTestDataDir string

func init() {
	plugin.Register(plugin.PluginEntry{
		Type:               plugin.PluginTypeBlob,
		Name:               "cfgtest",
		NewFromOptionsFunc: func() plugin.Plugin { return configTestPlugin{} },
		Options: []plugin.PluginOption{
			{
				Name:         "data-dir",
				Type:         plugin.PluginOptionTypeString,
				DefaultValue: "",
				Dest:         &configTestDataDir,
			},
		},
	})
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "daocake.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoad_CompareFullStruct(t *testing.T) {
	path := writeConfig(t, `
blobPlugin: sqlite
databasePath: /var/lib/daocake
bindAddr: 0.0.0.0
shutdownTimeout: 10s
metricsPort: 9100
caller: "abcd"
singleMembership: true
tracingEnabled: true
tracingStdout: true
`)
	expected := &Config{
		BlobPlugin:       "sqlite",
		DatabasePath:     "/var/lib/daocake",
		BindAddr:         "0.0.0.0",
		ShutdownTimeout:  "10s",
		MetricsPort:      9100,
		Caller:           "abcd",
		SingleMembership: true,
		TracingEnabled:   true,
		TracingStdout:    true,
	}
	actual, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if !reflect.DeepEqual(actual, expected) {
		t.Errorf(
			"Loaded config does not match expected.\nActual: %+v\nExpected: %+v",
			actual,
			expected,
		)
	}
	if GetConfig() != actual {
		t.Errorf("GetConfig does not return the loaded config")
	}
}

func TestLoad_ConfigSectionOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
config:
  metricsPort: 9200
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	expected := defaultConfig()
	expected.MetricsPort = 9200
	if !reflect.DeepEqual(cfg, expected) {
		t.Errorf("config mismatch:\nExpected: %+v\nGot:      %+v", expected, cfg)
	}
}

func TestLoad_ConfigSectionKeepsStorageDefaults(t *testing.T) {
	path := writeConfig(t, "config:\n  singleMembership: true\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	defaults := defaultConfig()
	if !cfg.SingleMembership {
		t.Errorf("expected singleMembership to be set")
	}
	if cfg.DatabasePath != defaults.DatabasePath {
		t.Errorf("expected database path %q, got: %q", defaults.DatabasePath, cfg.DatabasePath)
	}
	if cfg.BlobPlugin != defaults.BlobPlugin {
		t.Errorf("expected blob plugin %q, got: %q", defaults.BlobPlugin, cfg.BlobPlugin)
	}
	if cfg.BindAddr != defaults.BindAddr {
		t.Errorf("expected bind address %q, got: %q", defaults.BindAddr, cfg.BindAddr)
	}
	if cfg.ShutdownTimeout != defaults.ShutdownTimeout {
		t.Errorf("expected shutdown timeout %q, got: %q", defaults.ShutdownTimeout, cfg.ShutdownTimeout)
	}
}

func TestLoad_DatabaseSectionConfiguresPlugin(t *testing.T) {
	path := writeConfig(t, `
database:
  blob:
    plugin: cfgtest
    cfgtest:
      data-dir: /tmp/cfgtest
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.BlobPlugin != "cfgtest" {
		t.Errorf("expected blob plugin cfgtest, got: %s", cfg.BlobPlugin)
	}
	if configTestDataDir != "/tmp/cfgtest" {
		t.Errorf("expected plugin data-dir /tmp/cfgtest, got: %s", configTestDataDir)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `
blobPlugin: sqlite
metricsPort: 9100
`)
	t.Setenv("DAOCAKE_BLOB_PLUGIN", "badger")
	t.Setenv("DAOCAKE_METRICS_PORT", "9300")
	t.Setenv("DAOCAKE_BLOB_CFGTEST_DATA_DIR", "/tmp/from-env")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.BlobPlugin != "badger" {
		t.Errorf("expected blob plugin badger, got: %s", cfg.BlobPlugin)
	}
	if cfg.MetricsPort != 9300 {
		t.Errorf("expected metrics port 9300, got: %d", cfg.MetricsPort)
	}
	if configTestDataDir != "/tmp/from-env" {
		t.Errorf("expected plugin data-dir /tmp/from-env, got: %s", configTestDataDir)
	}
}

func TestLoad_Invalid(t *testing.T) {
	testDefs := map[string]string{
		"caller conflict":  "caller: abcd\ncallerKeyFile: payment.skey\n",
		"bad timeout":      "shutdownTimeout: soon\n",
		"malformed yaml":   "metricsPort: [\n",
		"bad plugin value": "blob:\n  cfgtest:\n    data-dir: [1, 2]\n",
	}
	for name, content := range testDefs {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, content)); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

func TestShutdownTimeoutDuration(t *testing.T) {
	cfg := &Config{}
	d, err := cfg.ShutdownTimeoutDuration()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if d != 30*time.Second {
		t.Errorf("expected default of 30s, got: %s", d)
	}
}
