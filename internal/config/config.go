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
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"time"

	"github.com/blinklabs-io/daocake/database/plugin"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "daocake.config"

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

const (
	DefaultBlobPlugin      = "badger"
	DefaultShutdownTimeout = "30s"
	DefaultMetricsPort     = 12799
)

// ErrPluginListRequested is returned when the user requests to list available plugins
// This is not an error condition but a successful operation that displays plugin information
var ErrPluginListRequested = errors.New("plugin list requested")

var ErrConfigNotLoaded = errors.New("config not loaded")

type tempConfig struct {
	Config   *yaml.Node                `yaml:"config,omitempty"`
	Database *databaseConfig           `yaml:"database,omitempty"`
	Blob     map[string]map[string]any `yaml:"blob,omitempty"`
}

type databaseConfig struct {
	Blob map[string]any `yaml:"blob,omitempty"`
}

type Config struct {
	BlobPlugin      string `yaml:"blobPlugin"      split_words:"true"`
	DatabasePath    string `yaml:"databasePath"    split_words:"true"`
	BindAddr        string `yaml:"bindAddr"        split_words:"true"`
	ShutdownTimeout string `yaml:"shutdownTimeout" split_words:"true"`
	MetricsPort     uint   `yaml:"metricsPort"     split_words:"true"`
	// Caller is the hex key hash operations run as, unless CallerKeyFile
	// is set
	Caller        string `yaml:"caller"`
	CallerKeyFile string `yaml:"callerKeyFile"   split_words:"true"`
	// SingleMembership limits each principal to its first member record
	// across all organisations
	SingleMembership bool `yaml:"singleMembership" split_words:"true"`
	TracingEnabled   bool `yaml:"tracingEnabled"   split_words:"true"`
	// TracingStdout exports spans to stdout instead of OTLP
	TracingStdout bool `yaml:"tracingStdout" split_words:"true"`
}

// ShutdownTimeoutDuration parses ShutdownTimeout, falling back to the
// default on an empty value
func (c *Config) ShutdownTimeoutDuration() (time.Duration, error) {
	if c.ShutdownTimeout == "" {
		return time.ParseDuration(DefaultShutdownTimeout)
	}
	d, err := time.ParseDuration(c.ShutdownTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid shutdownTimeout %q: %w", c.ShutdownTimeout, err)
	}
	return d, nil
}

func defaultConfig() *Config {
	return &Config{
		BlobPlugin:      DefaultBlobPlugin,
		DatabasePath:    ".daocake",
		BindAddr:        "127.0.0.1",
		ShutdownTimeout: DefaultShutdownTimeout,
		MetricsPort:     DefaultMetricsPort,
	}
}

var globalConfig = defaultConfig()

// LoadConfig builds the configuration from defaults, the YAML config file
// and the environment, in that order. Plugin sections of the file and
// DAOCAKE_BLOB_* variables are applied to the plugin registry
func LoadConfig(configFile string) (*Config, error) {
	cfg := defaultConfig()
	if configFile == "" {
		configFile = findConfigFile()
	}
	if configFile != "" {
		if err := loadConfigFile(configFile, cfg); err != nil {
			return nil, err
		}
	}
	// Process environment variables
	if err := envconfig.Process("daocake", cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	// Process plugin environment variables
	if err := plugin.ProcessEnvVars(); err != nil {
		return nil, fmt.Errorf(
			"error processing plugin environment variables: %w",
			err,
		)
	}
	if cfg.Caller != "" && cfg.CallerKeyFile != "" {
		return nil, errors.New("caller and callerKeyFile are mutually exclusive")
	}
	if _, err := cfg.ShutdownTimeoutDuration(); err != nil {
		return nil, err
	}
	globalConfig = cfg
	return cfg, nil
}

func GetConfig() *Config {
	return globalConfig
}

func findConfigFile() string {
	// Check for config file in this path: ~/.daocake/daocake.yaml
	if homeDir, err := os.UserHomeDir(); err == nil {
		userPath := filepath.Join(homeDir, ".daocake", "daocake.yaml")
		if _, err := os.Stat(userPath); err == nil {
			return userPath
		}
	}
	systemPath := "/etc/daocake/daocake.yaml"
	if _, err := os.Stat(systemPath); err == nil {
		return systemPath
	}
	return ""
}

func loadConfigFile(configFile string, cfg *Config) error {
	buf, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	// First unmarshal into temp config to handle plugin sections
	var tempCfg tempConfig
	if err := yaml.Unmarshal(buf, &tempCfg); err != nil {
		return fmt.Errorf("error parsing config file: %w", err)
	}
	if tempCfg.Config != nil {
		// Decode only the keys present over the existing defaults
		if err := tempCfg.Config.Decode(cfg); err != nil {
			return fmt.Errorf("error parsing config section: %w", err)
		}
	} else if err := yaml.Unmarshal(buf, cfg); err != nil {
		return fmt.Errorf("error parsing config file: %w", err)
	}
	blobConfig := make(map[string]map[string]any)
	if tempCfg.Blob != nil {
		maps.Copy(blobConfig, tempCfg.Blob)
	}
	if tempCfg.Database != nil && tempCfg.Database.Blob != nil {
		// Extract plugin name if specified
		if pluginVal, exists := tempCfg.Database.Blob["plugin"]; exists {
			if pluginName, ok := pluginVal.(string); ok {
				cfg.BlobPlugin = pluginName
				delete(tempCfg.Database.Blob, "plugin")
			}
		}
		for k, v := range tempCfg.Database.Blob {
			switch val := v.(type) {
			case map[string]any:
				blobConfig[k] = val
			case map[any]any:
				stringAnyMap := make(map[string]any)
				for vk, vv := range val {
					if keyStr, ok := vk.(string); ok {
						stringAnyMap[keyStr] = vv
					}
				}
				blobConfig[k] = stringAnyMap
			default:
				fmt.Fprintf(os.Stderr, "warning: skipping blob config entry %q: expected map, got %T\n", k, v)
			}
		}
	}
	if len(blobConfig) > 0 {
		err := plugin.ProcessConfig(map[string]map[string]map[string]any{
			plugin.PluginTypeName(plugin.PluginTypeBlob): blobConfig,
		})
		if err != nil {
			return fmt.Errorf("error processing plugin config: %w", err)
		}
	}
	return nil
}
