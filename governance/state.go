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

// Package governance implements organisations, membership, proposals and
// quorum voting on top of the identity store in the database package.
//
// Every write operation runs in a single read-write transaction, so it
// either commits all of its record and index updates or none of them.
// Write operations are serialised; queries run concurrently in their own
// read-only transactions.
package governance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/blinklabs-io/daocake/database"
	"github.com/blinklabs-io/daocake/database/models"
	"github.com/blinklabs-io/daocake/event"
	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/blinklabs-io/daocake/governance"

type Config struct {
	Database     *database.Database
	EventBus     *event.EventBus
	Logger       *slog.Logger
	PromRegistry prometheus.Registerer
	IdGenerator  IdGenerator
	// SingleMembership resolves a principal to its first member record
	// across all organisations instead of its record in the organisation
	// being acted on
	SingleMembership bool
}

// Caller is the authenticated identity on whose behalf an operation runs
type Caller struct {
	Principal lcommon.Blake2b224
	// Token is recorded on proposals and votes but otherwise opaque
	Token []byte
}

type State struct {
	config  Config
	db      *database.Database
	tracer  trace.Tracer
	metrics stateMetrics
	writeMu sync.Mutex
}

// emitFunc queues an event for publication once the operation commits
type emitFunc func(event.EventType, any)

func New(cfg Config) (*State, error) {
	if cfg.Database == nil {
		return nil, errors.New("governance: database is required")
	}
	if cfg.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.IdGenerator == nil {
		cfg.IdGenerator = NewRandomIdGenerator(nil)
	}
	s := &State{
		config: cfg,
		db:     cfg.Database,
		tracer: otel.Tracer(tracerName),
	}
	s.metrics.init(cfg.PromRegistry)
	return s, nil
}

// Database returns the underlying identity store
func (s *State) Database() *database.Database {
	return s.db
}

// update runs fn in a read-write transaction, holding the write lock. Events
// emitted by fn are published only if the transaction commits
func (s *State) update(
	ctx context.Context,
	op string,
	fn func(txn *database.Txn, emit emitFunc) error,
) error {
	_, span := s.tracer.Start(ctx, "governance."+op)
	defer span.End()
	var pending []event.Event
	emit := func(eventType event.EventType, data any) {
		pending = append(pending, event.NewEvent(eventType, data))
	}
	s.writeMu.Lock()
	err := s.db.Transaction(true).Do(func(txn *database.Txn) error {
		return fn(txn, emit)
	})
	s.writeMu.Unlock()
	s.metrics.operations.WithLabelValues(op, errorKind(err)).Inc()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, ErrInvariantViolation) {
			s.metrics.invariantViolations.Inc()
			s.config.Logger.Error(
				"governance state is inconsistent",
				"component", "governance",
				"operation", op,
				"error", err,
			)
		}
		return err
	}
	if s.config.EventBus != nil {
		for _, evt := range pending {
			s.config.EventBus.Publish(evt.Type, evt)
		}
	}
	return nil
}

func validateCaller(caller Caller) error {
	if caller.Principal == (lcommon.Blake2b224{}) {
		return fmt.Errorf("%w: caller principal is required", ErrInvalidArgument)
	}
	return nil
}

// parseId validates an identifier supplied by a caller
func parseId(name string, data []byte) (models.Id, error) {
	id, err := models.NewId(data)
	if err != nil {
		return models.Id{}, fmt.Errorf("%w: %s: %w", ErrInvalidArgument, name, err)
	}
	return id, nil
}

// resolveId returns the explicit identifier when one is given, and
// otherwise generates one from the context fields
func (s *State) resolveId(
	name string,
	explicit []byte,
	fields ...[]byte,
) (models.Id, error) {
	if explicit != nil {
		return parseId(name, explicit)
	}
	id, err := s.config.IdGenerator.NewId(fields...)
	if err != nil {
		return models.Id{}, fmt.Errorf("generate %s: %w", name, err)
	}
	return id, nil
}

// invariant wraps a description of inconsistent state
func invariant(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}
