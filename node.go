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

package daocake

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blinklabs-io/daocake/database"
	"github.com/blinklabs-io/daocake/event"
	"github.com/blinklabs-io/daocake/governance"
)

// Node hosts the governance state machine: it owns the identity store,
// the event bus and tracing, and applies one operation at a time
type Node struct {
	eventBus      *event.EventBus
	db            *database.Database
	governance    *governance.State
	shutdownFuncs []func(context.Context) error
	config        Config
	done          chan struct{}
	openOnce      sync.Once
	openErr       error
	shutdownOnce  sync.Once
}

func New(cfg Config) (*Node, error) {
	n := &Node{
		config: cfg,
		done:   make(chan struct{}),
	}
	if err := n.configValidate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	n.eventBus = event.NewEventBus(cfg.promRegistry, cfg.logger)
	return n, nil
}

// Open starts tracing, opens the database and loads the governance state.
// It is safe to call more than once
func (n *Node) Open() error {
	n.openOnce.Do(func() {
		n.openErr = n.open()
	})
	return n.openErr
}

func (n *Node) open() error {
	// Configure tracing
	if n.config.tracing {
		if err := n.setupTracing(); err != nil {
			return err
		}
	}
	// Load database
	db, err := database.New(&database.Config{
		BlobStore:    n.config.blobStore,
		BlobPlugin:   n.config.blobPlugin,
		DataDir:      n.config.dataDir,
		Logger:       n.config.logger,
		PromRegistry: n.config.promRegistry,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	n.db = db
	// Load governance state
	state, err := governance.New(governance.Config{
		Database:         n.db,
		EventBus:         n.eventBus,
		Logger:           n.config.logger,
		PromRegistry:     n.config.promRegistry,
		IdGenerator:      n.config.idGenerator,
		SingleMembership: n.config.singleMembership,
	})
	if err != nil {
		return fmt.Errorf("failed to load governance state: %w", err)
	}
	n.governance = state
	if n.config.logEvents {
		for _, eventType := range governance.EventTypes {
			n.eventBus.SubscribeFunc(eventType, n.logEvent)
		}
	}
	n.config.logger.Info(
		"governance state loaded",
		"component", "node",
		"blob_plugin", n.config.blobPlugin,
		"data_dir", n.config.dataDir,
	)
	return nil
}

// Run opens the node and blocks until Stop is called
func (n *Node) Run() error {
	if err := n.Open(); err != nil {
		return err
	}
	// Wait for shutdown signal
	<-n.done
	return nil
}

// Governance returns the governance state. It is nil until Open succeeds
func (n *Node) Governance() *governance.State {
	return n.governance
}

// EventBus returns the bus governance events are published on
func (n *Node) EventBus() *event.EventBus {
	return n.eventBus
}

func (n *Node) logEvent(evt event.Event) {
	n.config.logger.Info(
		"governance event",
		"component", "node",
		"type", evt.Type,
		"data", evt.Data,
	)
}

func (n *Node) Stop() error {
	var err error
	n.shutdownOnce.Do(func() {
		err = n.shutdown()
	})
	return err
}

func (n *Node) shutdown() error {
	// Create shutdown context with timeout (default 30s if not configured)
	shutdownTimeout := 30 * time.Second
	if n.config.shutdownTimeout > 0 {
		shutdownTimeout = n.config.shutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var err error

	n.config.logger.Debug("starting graceful shutdown", "component", "node")

	// Stop event delivery first so handlers don't outlive the database
	if n.eventBus != nil {
		n.eventBus.Stop()
	}

	if n.db != nil {
		if closeErr := n.db.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("database close: %w", closeErr))
		}
	}

	// Call registered shutdown functions
	for _, fn := range n.shutdownFuncs {
		if fnErr := fn(ctx); fnErr != nil {
			err = errors.Join(err, fmt.Errorf("shutdown function: %w", fnErr))
		}
	}
	n.shutdownFuncs = nil

	n.config.logger.Debug("graceful shutdown complete", "component", "node")
	close(n.done)
	return err
}
