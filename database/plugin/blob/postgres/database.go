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

package postgres

import (
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/blinklabs-io/daocake/database/plugin/blob/internal/sqlkv"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/driver/postgres"
)

// BlobStorePostgres stores the key space in a single Postgres table. The
// connection is opened by Start
type BlobStorePostgres struct {
	*sqlkv.Store
	promRegistry prometheus.Registerer
	logger       *slog.Logger
	host         string
	user         string
	password     string
	database     string
	sslMode      string
	timeZone     string
	dsn          string
	port         uint
}

func New(opts ...BlobStorePostgresOptionFunc) (*BlobStorePostgres, error) {
	db := &BlobStorePostgres{
		host:     "localhost",
		port:     5432,
		user:     "postgres",
		database: "postgres",
		sslMode:  "disable",
		timeZone: "UTC",
	}
	for _, opt := range opts {
		opt(db)
	}
	if db.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		db.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return db, nil
}

// DSN returns the connection string used by Start
func (d *BlobStorePostgres) DSN() string {
	if dsn := strings.TrimSpace(d.dsn); dsn != "" {
		return dsn
	}
	parts := []string{
		"host=" + d.host,
		"user=" + d.user,
		"password=" + d.password,
		"dbname=" + d.database,
		"port=" + strconv.FormatUint(uint64(d.port), 10),
		"sslmode=" + d.sslMode,
	}
	if d.timeZone != "" {
		parts = append(parts, "TimeZone="+d.timeZone)
	}
	return strings.Join(parts, " ")
}

// Start implements the plugin.Plugin interface
func (d *BlobStorePostgres) Start() error {
	if d.Store != nil {
		return nil
	}
	store, err := sqlkv.New(sqlkv.Config{
		Dialector:    postgres.Open(d.DSN()),
		Logger:       d.logger,
		PromRegistry: d.promRegistry,
		Component:    "postgres",
		ColumnTypes: sqlkv.ColumnTypes{
			Key:   "BYTEA",
			Value: "BYTEA",
		},
	})
	if err != nil {
		return err
	}
	sqlDB, err := store.DB().DB()
	if err != nil {
		return errors.Join(err, store.Close())
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	d.logger.Info(
		"connected to postgres blob store",
		"component", "database",
		"host", d.host,
		"port", d.port,
		"database", d.database,
	)
	d.Store = store
	return nil
}

func (d *BlobStorePostgres) Stop() error {
	return d.Close()
}

func (d *BlobStorePostgres) Close() error {
	if d.Store == nil {
		return nil
	}
	return d.Store.Close()
}
