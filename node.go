// Copyright 2025 Blink Labs Software
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

package badges

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/public-awesome/badges/badge"
	"github.com/public-awesome/badges/database"
	"github.com/public-awesome/badges/event"
	"github.com/public-awesome/badges/hub"
	"github.com/public-awesome/badges/internal/httpapi"
	"github.com/public-awesome/badges/state"
)

// ErrNotOpen is returned by operations on a node whose database is not open
var ErrNotOpen = errors.New("node is not open")

// Node hosts a badge registry. Every operation runs in its own block and
// its state changes and journal entry are committed together.
type Node struct {
	config        Config
	hub           *hub.Hub
	db            *database.Database
	eventBus      *event.EventBus
	httpApi       *httpapi.Server
	contract      badge.Addr
	height        state.Item[uint64]
	shutdownFuncs []func(context.Context) error
	done          chan struct{}
	// Operations are applied one at a time
	mu           sync.RWMutex
	shutdownOnce sync.Once
}

var _ httpapi.Registry = (*Node)(nil)

func New(cfg Config) (*Node, error) {
	if cfg.clock == nil {
		cfg.clock = time.Now
	}
	api := cfg.api
	if api == nil {
		api = hub.DefaultAPI{Prefix: cfg.bech32Prefix}
	}
	n := &Node{
		config:   cfg,
		contract: badge.Addr(cfg.contractAddr),
		height:   state.NewHostItem[uint64]("height"),
		done:     make(chan struct{}),
	}
	n.hub = hub.New(hub.HubConfig{
		API:          api,
		Logger:       cfg.logger,
		PromRegistry: cfg.promRegistry,
		Denom:        cfg.denom,
	})
	if err := n.configValidate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	n.eventBus = event.NewEventBus(cfg.promRegistry, cfg.logger)
	return n, nil
}

// EventBus returns the bus that committed operations are published on
func (n *Node) EventBus() *event.EventBus {
	return n.eventBus
}

// Open configures tracing and opens the database. It is called by Run, and
// only needs to be called directly when using the node without Run.
func (n *Node) Open() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.db != nil {
		return nil
	}
	// Configure tracing
	if n.config.tracing {
		if err := n.setupTracing(); err != nil {
			return err
		}
	}
	// Load database
	dbConfig := &database.Config{
		DataDir:        n.config.dataDir,
		JournalDSN:     n.config.journalDSN,
		Logger:         n.config.logger,
		PromRegistry:   n.config.promRegistry,
		BlockCacheSize: n.config.blockCacheSize,
		IndexCacheSize: n.config.indexCacheSize,
	}
	db, err := database.New(dbConfig)
	if err != nil {
		// The journal and the state disagree about the last commit and there
		// is no block source to replay from
		if db != nil {
			_ = db.Close()
		}
		var dbErr database.CommitTimestampError
		if errors.As(err, &dbErr) {
			n.config.logger.Error(
				"database stores are out of sync",
				"error", err,
			)
		}
		return fmt.Errorf("failed to open database: %w", err)
	}
	n.db = db
	return nil
}

func (n *Node) Run() error {
	if err := n.Open(); err != nil {
		return err
	}
	// Configure HTTP API
	if n.config.apiListenAddress != "" {
		n.httpApi = httpapi.New(
			httpapi.ServerConfig{
				ListenAddress: n.config.apiListenAddress,
			},
			n,
			n.config.logger,
		)
		if err := n.httpApi.Start(context.Background()); err != nil {
			return err
		}
	}
	height, err := n.Height(context.Background())
	if err != nil {
		return err
	}
	n.config.logger.Info(
		"badge hub started",
		"contract", n.contract.String(),
		"height", height,
	)

	// Wait for shutdown signal
	<-n.done
	return nil
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

	n.config.logger.Debug("starting graceful shutdown")

	// Phase 1: Stop accepting new work
	n.config.logger.Debug("shutdown phase 1: stopping new work")

	if n.httpApi != nil {
		if stopErr := n.httpApi.Stop(ctx); stopErr != nil {
			err = errors.Join(err, fmt.Errorf("API shutdown: %w", stopErr))
		}
	}

	// Phase 2: Close database once in-flight operations finish
	n.config.logger.Debug("shutdown phase 2: closing database")

	n.mu.Lock()
	if n.db != nil {
		if closeErr := n.db.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("database close: %w", closeErr))
		}
		n.db = nil
	}
	n.mu.Unlock()

	// Phase 3: Cleanup resources
	n.config.logger.Debug("shutdown phase 3: cleanup resources")

	// Call registered shutdown functions
	for _, fn := range n.shutdownFuncs {
		if fnErr := fn(ctx); fnErr != nil {
			err = errors.Join(err, fmt.Errorf("shutdown function: %w", fnErr))
		}
	}
	n.shutdownFuncs = nil

	if n.eventBus != nil {
		n.eventBus.Stop()
	}

	n.config.logger.Debug("graceful shutdown complete")
	close(n.done)
	return err
}
