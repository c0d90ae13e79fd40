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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/public-awesome/badges/hub"
)

type Config struct {
	promRegistry     prometheus.Registerer
	logger           *slog.Logger
	api              hub.API
	clock            func() time.Time
	dataDir          string
	journalDSN       string
	bech32Prefix     string
	denom            string
	chainID          string
	contractAddr     string
	nftAddr          string
	apiListenAddress string
	blockCacheSize   uint64
	indexCacheSize   uint64
	tracing          bool
	tracingStdout    bool
	shutdownTimeout  time.Duration
}

func (n *Node) configValidate() error {
	if n.config.contractAddr == "" {
		return errors.New("no contract address defined")
	}
	if n.config.denom == "" {
		return errors.New("no fee denom defined")
	}
	if _, err := n.hub.API().AddrValidate(n.config.contractAddr); err != nil {
		return fmt.Errorf("invalid contract address: %w", err)
	}
	if n.config.nftAddr != "" {
		if _, err := n.hub.API().AddrValidate(n.config.nftAddr); err != nil {
			return fmt.Errorf("invalid NFT address: %w", err)
		}
	}
	return nil
}

// ConfigOptionFunc is a type that represents functions that modify the node config
type ConfigOptionFunc func(*Config)

// NewConfig creates a new node config with the specified options
func NewConfig(opts ...ConfigOptionFunc) Config {
	c := Config{
		// Default logger will throw away logs
		// We do this so we don't have to add guards around every log operation
		logger:       slog.New(slog.NewJSONHandler(io.Discard, nil)),
		clock:        time.Now,
		bech32Prefix: "stars",
		denom:        hub.DefaultDenom,
	}
	// Apply options
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithDatabasePath specifies the persistent data directory to use. The default is to store everything in memory
func WithDatabasePath(dataDir string) ConfigOptionFunc {
	return func(c *Config) {
		c.dataDir = dataDir
	}
}

// WithJournalDSN keeps the operation journal in an external PostgreSQL or
// MySQL database
func WithJournalDSN(dsn string) ConfigOptionFunc {
	return func(c *Config) {
		c.journalDSN = dsn
	}
}

// WithBadgerCacheSizes specifies the badger block and index cache sizes in bytes
func WithBadgerCacheSizes(blockCacheSize, indexCacheSize uint64) ConfigOptionFunc {
	return func(c *Config) {
		c.blockCacheSize = blockCacheSize
		c.indexCacheSize = indexCacheSize
	}
}

// WithLogger specifies the logger to use. This defaults to discarding log output
func WithLogger(logger *slog.Logger) ConfigOptionFunc {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithPrometheusRegistry specifies a prometheus.Registerer instance to add metrics to
func WithPrometheusRegistry(registry prometheus.Registerer) ConfigOptionFunc {
	return func(c *Config) {
		c.promRegistry = registry
	}
}

// WithAPI replaces the host API used for address validation and signature
// checks. The default validates bech32 addresses with the configured prefix.
func WithAPI(api hub.API) ConfigOptionFunc {
	return func(c *Config) {
		c.api = api
	}
}

// WithBech32Prefix specifies the human readable part of valid addresses
func WithBech32Prefix(prefix string) ConfigOptionFunc {
	return func(c *Config) {
		c.bech32Prefix = prefix
	}
}

// WithDenom specifies the coin denomination fees are paid in
func WithDenom(denom string) ConfigOptionFunc {
	return func(c *Config) {
		c.denom = denom
	}
}

func WithChainID(chainID string) ConfigOptionFunc {
	return func(c *Config) {
		c.chainID = chainID
	}
}

// WithContractAddress specifies the address the registry runs under
func WithContractAddress(addr string) ConfigOptionFunc {
	return func(c *Config) {
		c.contractAddr = addr
	}
}

// WithNftAddress specifies the address reported as the deployed NFT
// sub-ledger after instantiation. When unset, the deployment must be
// reported with Reply or set_nft.
func WithNftAddress(addr string) ConfigOptionFunc {
	return func(c *Config) {
		c.nftAddr = addr
	}
}

// WithApiListenAddress specifies the listen address of the HTTP API. The API is disabled when empty
func WithApiListenAddress(addr string) ConfigOptionFunc {
	return func(c *Config) {
		c.apiListenAddress = addr
	}
}

// WithClock specifies the source of block times. This defaults to time.Now
func WithClock(clock func() time.Time) ConfigOptionFunc {
	return func(c *Config) {
		c.clock = clock
	}
}

// WithTracing enables tracing. By default, spans are submitted to a HTTP(s) endpoint using OTLP. This can be configured
// using the OTEL_EXPORTER_OTLP_* env vars documented in the README for [go.opentelemetry.io/otel/exporters/otlp/otlptrace]
func WithTracing(tracing bool) ConfigOptionFunc {
	return func(c *Config) {
		c.tracing = tracing
	}
}

// WithTracingStdout enables tracing output to stdout. This also requires tracing to enabled separately. This is mostly useful for debugging
func WithTracingStdout(stdout bool) ConfigOptionFunc {
	return func(c *Config) {
		c.tracingStdout = stdout
	}
}

// WithShutdownTimeout specifies the timeout for graceful shutdown. The default is 30 seconds
func WithShutdownTimeout(timeout time.Duration) ConfigOptionFunc {
	return func(c *Config) {
		c.shutdownTimeout = timeout
	}
}
