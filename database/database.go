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

package database

import (
	"errors"
	"io"
	"log/slog"

	"github.com/blinklabs-io/daocake/database/plugin"
	"github.com/blinklabs-io/daocake/database/plugin/blob"
	"github.com/prometheus/client_golang/prometheus"

	// Register storage backends
	_ "github.com/blinklabs-io/daocake/database/plugin/blob/badger"
	_ "github.com/blinklabs-io/daocake/database/plugin/blob/mysql"
	_ "github.com/blinklabs-io/daocake/database/plugin/blob/postgres"
	_ "github.com/blinklabs-io/daocake/database/plugin/blob/sqlite"
)

const DefaultBlobPlugin = "badger"

// Config holds the options used to open a Database
type Config struct {
	// BlobStore is used as-is when set, instead of a registered plugin
	BlobStore    blob.BlobStore
	Logger       *slog.Logger
	PromRegistry prometheus.Registerer
	// BlobPlugin names the registered storage backend to start
	BlobPlugin string
	// DataDir is the storage directory for local backends. An empty value
	// selects non-persistent storage
	DataDir string
}

// Database is the identity store for organisations, members, proposals and
// votes and the indices between them
type Database struct {
	logger  *slog.Logger
	blob    blob.BlobStore
	dataDir string
}

// Blob returns the underling blob store instance
func (d *Database) Blob() blob.BlobStore {
	return d.blob
}

// DataDir returns the path to the data directory used for storage
func (d *Database) DataDir() string {
	return d.dataDir
}

// Logger returns the logger instance
func (d *Database) Logger() *slog.Logger {
	return d.logger
}

// Transaction starts a new database transaction and returns a handle to it
func (d *Database) Transaction(readWrite bool) *Txn {
	return NewTxn(d, readWrite)
}

// Close cleans up the database connections
func (d *Database) Close() error {
	if d.blob == nil {
		return nil
	}
	return d.blob.Close()
}

func (d *Database) init() error {
	if d.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		d.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if d.blob == nil {
		return errors.New("no blob store configured")
	}
	ts, err := d.CommitTimestamp()
	if err != nil {
		return err
	}
	if ts > 0 {
		d.logger.Debug(
			"opened existing database",
			"component", "database",
			"commit_timestamp", ts,
		)
	}
	return nil
}

// New creates a new database instance from the provided config
func New(cfg *Config) (*Database, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	blobStore := cfg.BlobStore
	if blobStore == nil {
		pluginName := cfg.BlobPlugin
		if pluginName == "" {
			pluginName = DefaultBlobPlugin
		}
		plugin.SetRuntime(plugin.RuntimeConfig{
			Logger:       cfg.Logger,
			PromRegistry: cfg.PromRegistry,
			DataDir:      cfg.DataDir,
		})
		var err error
		blobStore, err = blob.New(pluginName)
		if err != nil {
			return nil, err
		}
	}
	db := &Database{
		logger:  cfg.Logger,
		blob:    blobStore,
		dataDir: cfg.DataDir,
	}
	if err := db.init(); err != nil {
		// Database is available for recovery, so return it with error
		return db, err
	}
	return db, nil
}
