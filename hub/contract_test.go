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

package hub_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/public-awesome/badges/badge"
	"github.com/public-awesome/badges/fee"
	"github.com/public-awesome/badges/hub"
	"github.com/public-awesome/badges/response"
	"github.com/public-awesome/badges/state"
)

func TestInstantiate(t *testing.T) {
	h := hub.New(hub.HubConfig{API: mockAPI{}})
	store := newTestStore(t)
	rate := fee.Rate{
		Metadata: decimal.RequireFromString("0.5"),
		Key:      decimal.NewFromInt(2),
	}
	res, err := h.Instantiate(
		t.Context(),
		store,
		testEnv,
		hub.MessageInfo{Sender: testDeveloper},
		hub.InstantiateMsg{
			NftCodeID: 123,
			NftInfo:   response.CollectionInfo{Creator: "larry", Description: "badges"},
			FeeRate:   rate,
		},
	)
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	msg, ok := res.Messages[0].(response.InstantiateNft)
	require.True(t, ok)
	assert.Equal(t, uint64(123), msg.CodeID)
	assert.Equal(t, testDeveloper, msg.Admin)
	assert.Equal(t, testEnv.Contract, msg.Minter)
	assert.Equal(t, uint64(1), msg.ReplyID)
	name, _ := res.Attribute("contract_name")
	assert.Equal(t, hub.ContractName, name)

	cfg, err := h.QueryConfig(store)
	require.NoError(t, err)
	assert.Equal(t, "larry", cfg.Developer)
	assert.Empty(t, cfg.Nft)
	assert.Zero(t, cfg.BadgeCount)
	assert.True(t, rate.Metadata.Equal(cfg.FeeRate.Metadata))
	assert.True(t, rate.Key.Equal(cfg.FeeRate.Key))

	_, err = h.Instantiate(
		t.Context(),
		newTestStore(t),
		testEnv,
		hub.MessageInfo{Sender: testDeveloper},
		hub.InstantiateMsg{FeeRate: fee.Rate{Metadata: decimal.NewFromInt(-1)}},
	)
	require.ErrorIs(t, err, fee.ErrNegativeRate)
}

func TestReply(t *testing.T) {
	h := hub.New(hub.HubConfig{API: mockAPI{}})
	store := newTestStore(t)
	_, err := h.Instantiate(
		t.Context(),
		store,
		testEnv,
		hub.MessageInfo{Sender: testDeveloper},
		hub.InstantiateMsg{},
	)
	require.NoError(t, err)

	_, err = h.Reply(t.Context(), store, hub.ReplyMsg{ID: 2, ContractAddress: "nft"})
	require.ErrorIs(t, err, hub.InvalidReplyIDError{ID: 2})
	assert.EqualError(t, err, "invalid reply id 2; must be 1")

	_, err = h.Reply(t.Context(), store, hub.ReplyMsg{ID: 1, ContractAddress: "NFT"})
	require.ErrorIs(t, err, hub.ErrInvalidAddress)

	res, err := h.Reply(t.Context(), store, hub.ReplyMsg{ID: 1, ContractAddress: "nft"})
	require.NoError(t, err)
	assert.Equal(t, []response.Msg{response.NftReady{Contract: "nft"}}, res.Messages)

	_, err = h.Reply(t.Context(), store, hub.ReplyMsg{ID: 1, ContractAddress: "nft2"})
	require.ErrorIs(t, err, hub.ErrNftAlreadySet)

	cfg, err := h.QueryConfig(store)
	require.NoError(t, err)
	assert.Equal(t, "nft", cfg.Nft)
}

func TestSetNft(t *testing.T) {
	h := hub.New(hub.HubConfig{API: mockAPI{}})
	store := newTestStore(t)
	_, err := h.Instantiate(
		t.Context(),
		store,
		testEnv,
		hub.MessageInfo{Sender: testDeveloper},
		hub.InstantiateMsg{},
	)
	require.NoError(t, err)
	_, err = h.SetNft(store, hub.MessageInfo{Sender: "jake"}, "nft")
	require.ErrorIs(t, err, hub.ErrNotDeveloper)
	_, err = h.SetNft(store, hub.MessageInfo{Sender: testDeveloper}, "nft")
	require.NoError(t, err)
	_, err = h.SetNft(store, hub.MessageInfo{Sender: testDeveloper}, "nft")
	require.ErrorIs(t, err, hub.ErrNftAlreadySet)
}

func TestSudoSetFeeRate(t *testing.T) {
	h, store := setupHub(t)
	rate := fee.Rate{Metadata: decimal.NewFromInt(3), Key: decimal.NewFromInt(4)}
	_, err := h.Sudo(t.Context(), store, hub.SudoMsg{})
	require.ErrorIs(t, err, hub.ErrInvalidMsg)
	_, err = h.Sudo(t.Context(), store, hub.SudoMsg{SetFeeRate: &hub.SetFeeRateMsg{FeeRate: rate}})
	require.NoError(t, err)
	cfg, err := h.QueryConfig(store)
	require.NoError(t, err)
	assert.True(t, rate.Metadata.Equal(cfg.FeeRate.Metadata))
	assert.True(t, rate.Key.Equal(cfg.FeeRate.Key))
}

func TestMigrate(t *testing.T) {
	h, store := setupHub(t)
	contract := state.NewItem[hub.ContractInfo]("contract")
	legacy := state.NewItem[string]("fee_per_byte")

	// Current version cannot be migrated again
	_, err := h.Migrate(t.Context(), store)
	require.ErrorIs(t, err, hub.IncorrectContractVersionError{Expected: "1.1.0", Found: hub.ContractVersion})

	require.NoError(t, contract.Save(store, hub.ContractInfo{Name: hub.ContractName, Version: "1.0.0"}))
	require.NoError(t, legacy.Save(store, "0.25"))
	res, err := h.Migrate(t.Context(), store)
	require.NoError(t, err)
	from, _ := res.Attribute("from_version")
	assert.Equal(t, "1.0.0", from)
	cfg, err := h.QueryConfig(store)
	require.NoError(t, err)
	assert.Equal(t, "0.25", cfg.FeeRate.Metadata.String())
	assert.Equal(t, "0.25", cfg.FeeRate.Key.String())
	_, found, err := legacy.MayLoad(store)
	require.NoError(t, err)
	assert.False(t, found)
	info, err := contract.Load(store)
	require.NoError(t, err)
	assert.Equal(t, hub.ContractVersion, info.Version)

	require.NoError(t, contract.Save(store, hub.ContractInfo{Name: hub.ContractName, Version: "1.1.0"}))
	_, err = h.Migrate(t.Context(), store)
	require.NoError(t, err)

	require.NoError(t, contract.Save(store, hub.ContractInfo{Name: "crates.io:other", Version: "1.1.0"}))
	_, err = h.Migrate(t.Context(), store)
	require.ErrorIs(t, err, hub.IncorrectContractNameError{Expected: hub.ContractName, Found: "crates.io:other"})
}

func TestObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := hub.New(hub.HubConfig{API: mockAPI{}, PromRegistry: reg})
	var res response.Response
	res.AddMessages(
		response.MintNft{Contract: "nft", TokenID: "1|1", Owner: "a"},
		response.MintNft{Contract: "nft", TokenID: "1|2", Owner: "b"},
		response.BankBurn{Amount: []response.Coin{{Denom: "ustars", Amount: 40}}},
	)
	res.AddAttribute("keys_purged", "3")
	h.Observe("mint_by_minter", &res, nil)
	h.Observe("create_badge", &response.Response{}, nil)
	h.Observe("create_badge", nil, hub.ErrExpired)

	count, err := testutil.GatherAndCount(reg, "badgehub_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	mf, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, family := range mf {
		for _, metric := range family.GetMetric() {
			if metric.GetCounter() != nil {
				values[family.GetName()] += metric.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, float64(2), values["badgehub_tokens_minted_total"])
	assert.Equal(t, float64(1), values["badgehub_badges_created_total"])
	assert.Equal(t, float64(3), values["badgehub_keys_purged_total"])
	assert.Equal(t, float64(40), values["badgehub_fee_collected_total"])
	assert.Equal(t, float64(3), values["badgehub_operations_total"])
}

func TestExecuteDispatch(t *testing.T) {
	h, store := setupHub(t)
	info := hub.MessageInfo{Sender: "jake"}

	_, err := h.Execute(t.Context(), store, testEnv, info, hub.ExecuteMsg{})
	require.ErrorIs(t, err, hub.ErrInvalidMsg)

	_, err = h.Execute(t.Context(), store, testEnv, info, hub.ExecuteMsg{
		EditBadge: &hub.EditBadgeMsg{ID: 1},
		AddKeys:   &hub.AddKeysMsg{ID: 1},
	})
	require.ErrorIs(t, err, hub.ErrInvalidMsg)

	minter := "larry"
	_, err = h.Execute(t.Context(), store, testEnv, info, hub.ExecuteMsg{
		CreateBadge: &hub.CreateBadgeMsg{
			Manager: "Jake",
			Rule:    hub.MintRuleMsg{ByMinter: &minter},
		},
	})
	require.ErrorIs(t, err, hub.ErrInvalidAddress)

	res, err := h.Execute(t.Context(), store, testEnv, info, hub.ExecuteMsg{
		CreateBadge: &hub.CreateBadgeMsg{
			Manager:   "jake",
			Rule:      hub.MintRuleMsg{ByMinter: &minter},
			MaxSupply: ptr(uint64(10)),
		},
	})
	require.NoError(t, err)
	act, _ := res.Attribute("action")
	assert.Equal(t, "badges/hub/create_badge", act)

	_, err = h.Execute(t.Context(), store, testEnv, hub.MessageInfo{Sender: "larry"}, hub.ExecuteMsg{
		MintByMinter: &hub.MintByMinterMsg{ID: 1, Owners: badge.NewSortedSet("b", "A")},
	})
	require.ErrorIs(t, err, hub.ErrInvalidAddress)

	res, err = h.Execute(t.Context(), store, testEnv, hub.MessageInfo{Sender: "larry"}, hub.ExecuteMsg{
		MintByMinter: &hub.MintByMinterMsg{ID: 1, Owners: badge.NewSortedSet("b", "a")},
	})
	require.NoError(t, err)
	assert.Len(t, res.Mints(), 2)

	result, err := h.Query(t.Context(), store, hub.QueryMsg{Badge: &hub.BadgeQuery{ID: 1}})
	require.NoError(t, err)
	b, ok := result.(hub.BadgeResponse)
	require.True(t, ok)
	assert.Equal(t, uint64(2), b.CurrentSupply)
	assert.Equal(t, badge.ByMinter{Minter: "larry"}, b.Rule)

	_, err = h.Query(t.Context(), store, hub.QueryMsg{})
	require.ErrorIs(t, err, hub.ErrInvalidMsg)
	// Several queries in one envelope are refused like several operations
	_, err = h.Query(t.Context(), store, hub.QueryMsg{
		Config: &struct{}{},
		Badge:  &hub.BadgeQuery{ID: 1},
	})
	require.ErrorIs(t, err, hub.ErrInvalidMsg)
}
