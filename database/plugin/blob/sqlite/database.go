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

package sqlite

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/blinklabs-io/daocake/database/plugin/blob/internal/sqlkv"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	dbFileName     = "kv.sqlite"
	vacuumInterval = 24 * time.Hour
)

// BlobStoreSqlite stores the key space in a single SQLite table
type BlobStoreSqlite struct {
	*sqlkv.Store
	promRegistry prometheus.Registerer
	logger       *slog.Logger
	timerVacuum  *time.Timer
	timerMutex   sync.Mutex
	dataDir      string
	tempDir      string
	closed       bool
	vacuumWG     sync.WaitGroup
}

// New creates a SQLite blob store. Without a data dir the database lives in
// a temporary directory that is removed on Close
func New(opts ...BlobStoreSqliteOptionFunc) (*BlobStoreSqlite, error) {
	db := &BlobStoreSqlite{}
	for _, opt := range opts {
		opt(db)
	}
	if db.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		db.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	dbDir := db.dataDir
	if dbDir == "" {
		// A shared-cache memory database fails writes with SQLITE_LOCKED
		// while another connection holds a read transaction
		tempDir, err := os.MkdirTemp("", "daocake-sqlite-")
		if err != nil {
			return nil, fmt.Errorf("failed to create temp dir: %w", err)
		}
		db.tempDir = tempDir
		dbDir = tempDir
	} else {
		// Make sure that we can read data dir, and create if it doesn't exist
		if _, err := os.Stat(db.dataDir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read data dir: %w", err)
			}
			if err := os.MkdirAll(db.dataDir, fs.ModePerm); err != nil {
				return nil, fmt.Errorf("failed to create data dir: %w", err)
			}
		}
	}
	// WAL journal mode, wait on a locked database instead of failing
	connOpts := "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=cache_size(-50000)"
	dsn := fmt.Sprintf(
		"file:%s?%s",
		filepath.Join(dbDir, dbFileName),
		connOpts,
	)
	store, err := sqlkv.New(sqlkv.Config{
		Dialector:    sqlite.Open(dsn),
		Logger:       db.logger,
		PromRegistry: db.promRegistry,
		Component:    "sqlite",
		ColumnTypes: sqlkv.ColumnTypes{
			Key:   "BLOB",
			Value: "BLOB",
		},
	})
	if err != nil {
		db.removeTempDir()
		return nil, err
	}
	db.Store = store
	db.scheduleDailyVacuum()
	return db, nil
}

func (d *BlobStoreSqlite) runVacuum() error {
	d.timerMutex.Lock()
	if d.dataDir == "" || d.closed {
		d.timerMutex.Unlock()
		return nil
	}
	d.vacuumWG.Add(1)
	d.timerMutex.Unlock()
	defer d.vacuumWG.Done()
	return d.DB().Exec("VACUUM").Error
}

func (d *BlobStoreSqlite) scheduleDailyVacuum() {
	d.timerMutex.Lock()
	defer d.timerMutex.Unlock()
	if d.dataDir == "" || d.closed {
		return
	}
	d.timerVacuum = time.AfterFunc(vacuumInterval, func() {
		if err := d.runVacuum(); err != nil {
			d.logger.Error(
				"failed to vacuum database",
				"component", "database",
				"error", err,
			)
		}
		d.scheduleDailyVacuum()
	})
}

func (d *BlobStoreSqlite) Stop() error {
	return d.Close()
}

func (d *BlobStoreSqlite) Close() error {
	d.timerMutex.Lock()
	if d.closed {
		d.timerMutex.Unlock()
		return nil
	}
	d.closed = true
	if d.timerVacuum != nil {
		d.timerVacuum.Stop()
	}
	d.timerMutex.Unlock()
	d.vacuumWG.Wait()
	err := d.Store.Close()
	d.removeTempDir()
	return err
}

func (d *BlobStoreSqlite) removeTempDir() {
	if d.tempDir == "" {
		return
	}
	if err := os.RemoveAll(d.tempDir); err != nil {
		d.logger.Warn(
			"failed to remove temporary database",
			"component", "database",
			"path", d.tempDir,
			"error", err,
		)
	}
}
