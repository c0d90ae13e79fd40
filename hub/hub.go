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

package hub

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/blinklabs-io/gouroboros/cbor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/public-awesome/badges/badge"
	"github.com/public-awesome/badges/fee"
	"github.com/public-awesome/badges/response"
	"github.com/public-awesome/badges/state"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	ContractName    = "crates.io:badge-hub"
	ContractVersion = "1.2.0"

	DefaultDenom = "ustars"
	DefaultLimit = 10
	MaxLimit     = 30

	actionPrefix = "badges/hub/"
	nftReplyID   = 1
	tracerName   = "github.com/public-awesome/badges/hub"
)

// ContractInfo identifies the code that last wrote the registry state
type ContractInfo struct {
	cbor.StructAsArray
	Name    string
	Version string
}

// Env describes the context an operation executes in
type Env struct {
	Block    badge.BlockInfo `json:"block"`
	Contract badge.Addr      `json:"contract"`
}

// MessageInfo describes who sent a message and the coins attached to it
type MessageInfo struct {
	Sender badge.Addr      `json:"sender"`
	Funds  []response.Coin `json:"funds"`
}

type HubConfig struct {
	API          API
	Logger       *slog.Logger
	PromRegistry prometheus.Registerer
	// Denom is the only denomination accepted for fees
	Denom string
}

// Hub is the badge registry. It holds no state of its own: every operation
// reads and writes through the provided state.Store, which the caller
// commits or discards as a unit.
type Hub struct {
	config  HubConfig
	api     API
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *hubMetrics
	denom   string

	contract   state.Item[ContractInfo]
	developer  state.Item[badge.Addr]
	nft        state.Item[badge.Addr]
	feeRate    state.Item[fee.Rate]
	badgeCount state.Item[uint64]
	badges     state.Map[badge.Badge]
	keys       state.Set
	owners     state.Set
}

func New(cfg HubConfig) *Hub {
	h := &Hub{
		config:     cfg,
		api:        cfg.API,
		denom:      cfg.Denom,
		tracer:     otel.Tracer(tracerName),
		contract:   state.NewItem[ContractInfo]("contract"),
		developer:  state.NewItem[badge.Addr]("developer"),
		nft:        state.NewItem[badge.Addr]("nft"),
		feeRate:    state.NewItem[fee.Rate]("fee_rate"),
		badgeCount: state.NewItem[uint64]("badge_count"),
		badges:     state.NewMap[badge.Badge]("badge", "b"),
		keys:       state.NewSet("key", "k"),
		owners:     state.NewSet("owner", "o"),
	}
	if cfg.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		h.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	} else {
		h.logger = cfg.Logger
	}
	h.logger = h.logger.With("component", "hub")
	if h.api == nil {
		h.api = DefaultAPI{Prefix: "stars"}
	}
	if h.denom == "" {
		h.denom = DefaultDenom
	}
	h.metrics = newHubMetrics(cfg.PromRegistry)
	return h
}

// Denom returns the fee denomination
func (h *Hub) Denom() string {
	return h.denom
}

func (h *Hub) API() API {
	return h.api
}

func (h *Hub) loadBadge(s state.Store, id uint64) (badge.Badge, error) {
	b, err := h.badges.Load(s, id)
	if err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return b, fmt.Errorf("%w: %d", ErrBadgeNotFound, id)
		}
		return b, err
	}
	b.ID = id
	return b, nil
}

func (h *Hub) loadNft(s state.Store) (badge.Addr, error) {
	nft, ok, err := h.nft.MayLoad(s)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNftNotSet
	}
	return nft, nil
}

func (h *Hub) meter(s state.Store) (fee.Meter, fee.Rate, error) {
	developer, err := h.developer.Load(s)
	if err != nil {
		return fee.Meter{}, fee.Rate{}, err
	}
	rate, err := h.feeRate.Load(s)
	if err != nil {
		return fee.Meter{}, fee.Rate{}, err
	}
	return fee.Meter{Denom: h.denom, Developer: developer}, rate, nil
}

func action(name string) string {
	return actionPrefix + name
}

func clampLimit(limit *uint32) int {
	if limit == nil {
		return DefaultLimit
	}
	return int(min(*limit, MaxLimit))
}
