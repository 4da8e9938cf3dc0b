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

package mysql

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/blinklabs-io/daocake/database/plugin/blob/internal/sqlkv"
	"github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus"
	gormmysql "gorm.io/driver/mysql"
)

// BlobStoreMysql stores the key space in a single MySQL table. The
// connection is opened by Start
type BlobStoreMysql struct {
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

func New(opts ...BlobStoreMysqlOptionFunc) (*BlobStoreMysql, error) {
	db := &BlobStoreMysql{
		host:     "localhost",
		port:     3306,
		user:     "root",
		database: "daocake",
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
func (d *BlobStoreMysql) DSN() string {
	if dsn := strings.TrimSpace(d.dsn); dsn != "" {
		return dsn
	}
	cfg := mysql.Config{
		User:   d.user,
		Passwd: d.password,
		Net:    "tcp",
		Addr: fmt.Sprintf(
			"%s:%s",
			d.host,
			strconv.FormatUint(uint64(d.port), 10),
		),
		DBName:               d.database,
		ParseTime:            true,
		AllowNativePasswords: true,
	}
	if d.timeZone != "" {
		loc, err := time.LoadLocation(d.timeZone)
		if err != nil {
			loc = time.UTC
		}
		cfg.Loc = loc
	}
	if d.sslMode != "" {
		if cfg.Params == nil {
			cfg.Params = map[string]string{}
		}
		cfg.Params["tls"] = d.sslMode
	}
	return cfg.FormatDSN()
}

// Start implements the plugin.Plugin interface
func (d *BlobStoreMysql) Start() error {
	if d.Store != nil {
		return nil
	}
	store, err := sqlkv.New(sqlkv.Config{
		Dialector:    gormmysql.Open(d.DSN()),
		Logger:       d.logger,
		PromRegistry: d.promRegistry,
		Component:    "mysql",
		ColumnTypes: sqlkv.ColumnTypes{
			Key:   "VARBINARY(255)",
			Value: "LONGBLOB",
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
		"connected to mysql blob store",
		"component", "database",
		"host", d.host,
		"port", d.port,
		"database", d.database,
	)
	d.Store = store
	return nil
}

func (d *BlobStoreMysql) Stop() error {
	return d.Close()
}

func (d *BlobStoreMysql) Close() error {
	if d.Store == nil {
		return nil
	}
	return d.Store.Close()
}
