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

// Package sqlkv implements the blob store interface on top of a single
// two-column table, for any SQL database gorm has a dialector for
package sqlkv

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/blinklabs-io/daocake/database/types"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

const tableName = "kv"

// KeyValue is a single row of the kv table
type KeyValue struct {
	Key   []byte `gorm:"column:kv_key;primaryKey"`
	Value []byte `gorm:"column:kv_value"`
}

func (KeyValue) TableName() string {
	return tableName
}

// ColumnTypes describes the dialect-specific column types for the kv table.
// The key type must compare bytewise so that range scans follow key order
type ColumnTypes struct {
	Key   string
	Value string
}

type Config struct {
	Dialector    gorm.Dialector
	Logger       *slog.Logger
	PromRegistry prometheus.Registerer
	ColumnTypes  ColumnTypes
	// Component is used as the log component name and metric label
	Component string
}

// Store is a transactional key/value store backed by a SQL table
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
	config Config
}

func New(cfg Config) (*Store, error) {
	if cfg.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	db, err := gorm.Open(
		cfg.Dialector,
		&gorm.Config{
			Logger:                 gormlogger.Discard,
			SkipDefaultTransaction: true,
		},
	)
	if err != nil {
		return nil, err
	}
	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}
	s := &Store{
		db:     db,
		logger: cfg.Logger,
		config: cfg,
	}
	if err := s.createTable(); err != nil {
		return nil, err
	}
	if cfg.PromRegistry != nil {
		s.registerMetrics()
	}
	return s, nil
}

func (s *Store) createTable() error {
	s.logger.Debug(
		"creating table: "+tableName,
		"component", s.config.Component,
	)
	stmt := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (kv_key %s NOT NULL PRIMARY KEY, kv_value %s NOT NULL)",
		tableName,
		s.config.ColumnTypes.Key,
		s.config.ColumnTypes.Value,
	)
	if result := s.db.Exec(stmt); result.Error != nil {
		return fmt.Errorf("create %s table: %w", tableName, result.Error)
	}
	return nil
}

// DB returns the underlying gorm handle
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Start() error {
	return nil
}

func (s *Store) Stop() error {
	return s.Close()
}

func (s *Store) Close() error {
	sqlDb, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDb.Close()
}

type sqlTxn struct {
	store     *Store
	tx        *gorm.DB
	err       error
	readWrite bool
	finished  bool
}

func (t *sqlTxn) Commit() error {
	if t.finished {
		return nil
	}
	t.finished = true
	if t.err != nil {
		return t.err
	}
	if !t.readWrite {
		return t.tx.Rollback().Error
	}
	return t.tx.Commit().Error
}

func (t *sqlTxn) Rollback() error {
	if t.finished {
		return nil
	}
	t.finished = true
	if t.err != nil {
		return nil
	}
	return t.tx.Rollback().Error
}

// NewTransaction begins a new SQL transaction. A failure to begin is
// reported by the first operation on the returned transaction
func (s *Store) NewTransaction(readWrite bool) types.Txn {
	tx := s.db.Begin()
	return &sqlTxn{
		store:     s,
		tx:        tx,
		err:       tx.Error,
		readWrite: readWrite,
	}
}

func (s *Store) validateTxn(txn types.Txn) (*sqlTxn, error) {
	if txn == nil {
		return nil, types.ErrNilTxn
	}
	t, ok := txn.(*sqlTxn)
	if !ok {
		return nil, types.ErrTxnWrongType
	}
	if t.store != s {
		return nil, errors.New("transaction from different store")
	}
	if t.finished {
		return nil, types.ErrTxnFinished
	}
	if t.err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrBlobStoreUnavailable, t.err)
	}
	return t, nil
}

func (s *Store) Get(txn types.Txn, key []byte) ([]byte, error) {
	t, err := s.validateTxn(txn)
	if err != nil {
		return nil, err
	}
	var rows []KeyValue
	result := t.tx.Where("kv_key = ?", key).Limit(1).Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	if len(rows) == 0 {
		return nil, types.ErrBlobKeyNotFound
	}
	return rows[0].Value, nil
}

func (s *Store) Set(txn types.Txn, key, val []byte) error {
	t, err := s.validateTxn(txn)
	if err != nil {
		return err
	}
	if !t.readWrite {
		return types.ErrReadOnlyTxn
	}
	if val == nil {
		val = []byte{}
	}
	result := t.tx.Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "kv_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"kv_value"}),
		},
	).Create(&KeyValue{Key: key, Value: val})
	return result.Error
}

func (s *Store) Delete(txn types.Txn, key []byte) error {
	t, err := s.validateTxn(txn)
	if err != nil {
		return err
	}
	if !t.readWrite {
		return types.ErrReadOnlyTxn
	}
	return t.tx.Where("kv_key = ?", key).Delete(&KeyValue{}).Error
}

// NewIterator loads the rows matching the prefix within the transaction and
// returns an iterator over them
func (s *Store) NewIterator(
	txn types.Txn,
	opts types.BlobIteratorOptions,
) types.BlobIterator {
	t, err := s.validateTxn(txn)
	if err != nil {
		return &sliceIterator{err: err}
	}
	query := t.tx.Model(&KeyValue{})
	if len(opts.Prefix) > 0 {
		query = query.Where("kv_key >= ?", opts.Prefix)
		if end := prefixEnd(opts.Prefix); end != nil {
			query = query.Where("kv_key < ?", end)
		}
	}
	query = query.Order("kv_key ASC")
	var rows []KeyValue
	if result := query.Find(&rows); result.Error != nil {
		return &sliceIterator{err: result.Error}
	}
	return &sliceIterator{
		rows:   rows,
		prefix: opts.Prefix,
	}
}

// prefixEnd returns the smallest key greater than every key with the given
// prefix, or nil if there is none
func prefixEnd(prefix []byte) []byte {
	end := bytes.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
