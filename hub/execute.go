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
	"slices"

	"github.com/public-awesome/badges/badge"
	"github.com/public-awesome/badges/response"
	"github.com/public-awesome/badges/state"
)

// CreateBadge registers a new badge and assigns it the next id. The
// CurrentSupply of b is ignored.
func (h *Hub) CreateBadge(
	s state.Store,
	env Env,
	info MessageInfo,
	b badge.Badge,
) (response.Response, error) {
	var res response.Response
	b.CurrentSupply = 0
	// A badge that could never be minted is rejected up front
	if err := AssertAvailable(&b, env.Block, 1); err != nil {
		return res, err
	}
	if rule, ok := b.Rule.(badge.ByKey); ok {
		if err := validatePubkey(rule.Pubkey); err != nil {
			return res, err
		}
	}
	meter, rate, err := h.meter(s)
	if err != nil {
		return res, err
	}
	feeRes, _, err := meter.Handle(info.Funds, nil, b, rate.Metadata)
	if err != nil {
		return res, err
	}
	count, err := h.badgeCount.Load(s)
	if err != nil {
		return res, err
	}
	id := count + 1
	b.ID = id
	if err := h.badges.Save(s, id, b); err != nil {
		return res, err
	}
	if err := h.badgeCount.Save(s, id); err != nil {
		return res, err
	}
	res.Merge(feeRes)
	res.AddAttribute("action", action("create_badge")).
		AddUint("id", id).
		AddAttribute("fee", response.CoinsString(info.Funds))
	return res, nil
}

// EditBadge replaces the metadata of a badge. Only the manager may call it.
func (h *Hub) EditBadge(
	s state.Store,
	info MessageInfo,
	id uint64,
	metadata badge.Metadata,
) (response.Response, error) {
	var res response.Response
	b, err := h.loadBadge(s, id)
	if err != nil {
		return res, err
	}
	if info.Sender != b.Manager {
		return res, ErrNotManager
	}
	meter, rate, err := h.meter(s)
	if err != nil {
		return res, err
	}
	feeRes, _, err := meter.Handle(
		info.Funds,
		b.Metadata,
		metadata,
		rate.Metadata,
	)
	if err != nil {
		return res, err
	}
	b.Metadata = metadata
	if err := h.badges.Save(s, id, b); err != nil {
		return res, err
	}
	res.Merge(feeRes)
	res.AddAttribute("action", action("edit_badge")).
		AddUint("id", id).
		AddAttribute("fee", response.CoinsString(info.Funds))
	return res, nil
}

// AddKeys whitelists claim keys for a by_keys badge. Every key is validated
// before any of them is stored.
func (h *Hub) AddKeys(
	s state.Store,
	env Env,
	info MessageInfo,
	id uint64,
	keys badge.SortedSet,
) (response.Response, error) {
	var res response.Response
	b, err := h.loadBadge(s, id)
	if err != nil {
		return res, err
	}
	if info.Sender != b.Manager {
		return res, ErrNotManager
	}
	if _, ok := b.Rule.(badge.ByKeys); !ok {
		return res, WrongMintRuleError{
			Expected: badge.RuleNameByKeys,
			Found:    ruleString(b.Rule),
		}
	}
	meter, rate, err := h.meter(s)
	if err != nil {
		return res, err
	}
	feeRes, _, err := meter.Handle(info.Funds, nil, keys.Items(), rate.Key)
	if err != nil {
		return res, err
	}
	if err := AssertAvailable(&b, env.Block, 1); err != nil {
		return res, err
	}
	for _, key := range keys.Items() {
		if err := validatePubkey(key); err != nil {
			return res, err
		}
	}
	for _, key := range keys.Items() {
		inserted, err := h.keys.Insert(s, id, key)
		if err != nil {
			return res, err
		}
		if !inserted {
			return res, KeyExistsError{ID: id, Key: key}
		}
	}
	res.Merge(feeRes)
	res.AddAttribute("action", action("add_keys")).
		AddUint("id", id).
		AddAttribute("fee", response.CoinsString(info.Funds)).
		AddUint("keys_added", uint64(keys.Len()))
	return res, nil
}

// PurgeKeys deletes up to limit whitelisted keys of a badge that can no
// longer be minted. Purging an empty whitelist succeeds.
func (h *Hub) PurgeKeys(
	s state.Store,
	env Env,
	id uint64,
	limit *uint32,
) (response.Response, error) {
	var res response.Response
	b, err := h.loadBadge(s, id)
	if err != nil {
		return res, err
	}
	if _, ok := b.Rule.(badge.ByKeys); !ok {
		return res, WrongMintRuleError{
			Expected: badge.RuleNameByKeys,
			Found:    ruleString(b.Rule),
		}
	}
	if err := AssertUnavailable(&b, env.Block); err != nil {
		return res, err
	}
	purged, err := h.purge(s, h.keys, id, limit)
	if err != nil {
		return res, err
	}
	res.AddAttribute("action", action("purge_keys")).
		AddUint("id", id).
		AddUint("keys_purged", uint64(purged))
	return res, nil
}

// PurgeOwners deletes up to limit claimant records of a badge that can no
// longer be minted
func (h *Hub) PurgeOwners(
	s state.Store,
	env Env,
	id uint64,
	limit *uint32,
) (response.Response, error) {
	var res response.Response
	b, err := h.loadBadge(s, id)
	if err != nil {
		return res, err
	}
	if err := AssertUnavailable(&b, env.Block); err != nil {
		return res, err
	}
	purged, err := h.purge(s, h.owners, id, limit)
	if err != nil {
		return res, err
	}
	res.AddAttribute("action", action("purge_owners")).
		AddUint("id", id).
		AddUint("owners_purged", uint64(purged))
	return res, nil
}

func (h *Hub) purge(
	s state.Store,
	set state.Set,
	id uint64,
	limit *uint32,
) (int, error) {
	members, err := set.Range(s, id, "", clampLimit(limit))
	if err != nil {
		return 0, err
	}
	for _, member := range members {
		if err := set.Remove(s, id, member); err != nil {
			return 0, err
		}
	}
	return len(members), nil
}

// MintByMinter mints one instance of a by_minter badge to each owner. Serial
// numbers follow the lexicographic order of the owners.
func (h *Hub) MintByMinter(
	s state.Store,
	env Env,
	info MessageInfo,
	id uint64,
	owners []badge.Addr,
) (response.Response, error) {
	var res response.Response
	nft, err := h.loadNft(s)
	if err != nil {
		return res, err
	}
	b, err := h.loadBadge(s, id)
	if err != nil {
		return res, err
	}
	owners = slices.Clone(owners)
	slices.Sort(owners)
	owners = slices.Compact(owners)
	amount := uint64(len(owners))
	start := b.CurrentSupply + 1
	if err := AssertAvailable(&b, env.Block, amount); err != nil {
		return res, err
	}
	if err := AssertCanMintByMinter(&b, info.Sender); err != nil {
		return res, err
	}
	b.CurrentSupply += amount
	if err := h.badges.Save(s, id, b); err != nil {
		return res, err
	}
	for idx, owner := range owners {
		res.AddMessages(response.MintNft{
			Contract: nft,
			TokenID:  badge.TokenID(id, start+uint64(idx)),
			Owner:    owner,
		})
	}
	res.AddAttribute("action", action("mint_by_minter")).
		AddUint("id", id).
		AddUint("amount", amount)
	return res, nil
}

// MintByKey mints an instance of a by_key badge to owner, who proves
// possession of the badge's key with signature
func (h *Hub) MintByKey(
	s state.Store,
	env Env,
	id uint64,
	owner badge.Addr,
	signature string,
) (response.Response, error) {
	var res response.Response
	nft, err := h.loadNft(s)
	if err != nil {
		return res, err
	}
	b, err := h.loadBadge(s, id)
	if err != nil {
		return res, err
	}
	if err := AssertAvailable(&b, env.Block, 1); err != nil {
		return res, err
	}
	if err := h.assertEligible(s, id, owner); err != nil {
		return res, err
	}
	if err := AssertCanMintByKey(h.api, &b, owner, signature); err != nil {
		return res, err
	}
	return h.mintOne(s, nft, &b, owner, action("mint_by_key"))
}

// MintByKeys mints an instance of a by_keys badge to owner and consumes the
// whitelisted key that signed the claim
func (h *Hub) MintByKeys(
	s state.Store,
	env Env,
	id uint64,
	owner badge.Addr,
	pubkey string,
	signature string,
) (response.Response, error) {
	var res response.Response
	nft, err := h.loadNft(s)
	if err != nil {
		return res, err
	}
	b, err := h.loadBadge(s, id)
	if err != nil {
		return res, err
	}
	if err := AssertAvailable(&b, env.Block, 1); err != nil {
		return res, err
	}
	if err := h.assertEligible(s, id, owner); err != nil {
		return res, err
	}
	if err := h.assertCanMintByKeys(s, &b, owner, pubkey, signature); err != nil {
		return res, err
	}
	if err := h.keys.Remove(s, id, pubkey); err != nil {
		return res, err
	}
	return h.mintOne(s, nft, &b, owner, action("mint_by_keys"))
}

// mintOne bumps the supply of b, records owner as a claimant and emits the
// mint instruction
func (h *Hub) mintOne(
	s state.Store,
	nft badge.Addr,
	b *badge.Badge,
	owner badge.Addr,
	act string,
) (response.Response, error) {
	var res response.Response
	b.CurrentSupply++
	if err := h.badges.Save(s, b.ID, *b); err != nil {
		return res, err
	}
	if _, err := h.owners.Insert(s, b.ID, owner.String()); err != nil {
		return res, err
	}
	res.AddMessages(response.MintNft{
		Contract: nft,
		TokenID:  badge.TokenID(b.ID, b.CurrentSupply),
		Owner:    owner,
	})
	res.AddAttribute("action", act).
		AddUint("id", b.ID).
		AddUint("serial", b.CurrentSupply).
		AddAttribute("recipient", owner.String())
	return res, nil
}

// SetNft records the address of the NFT sub-ledger. Only the developer may
// call it, and only once.
func (h *Hub) SetNft(
	s state.Store,
	info MessageInfo,
	nft badge.Addr,
) (response.Response, error) {
	var res response.Response
	developer, err := h.developer.Load(s)
	if err != nil {
		return res, err
	}
	if info.Sender != developer {
		return res, ErrNotDeveloper
	}
	if err := h.saveNft(s, nft); err != nil {
		return res, err
	}
	res.AddMessages(response.NftReady{Contract: nft})
	res.AddAttribute("action", action("set_nft")).
		AddAttribute("nft", nft.String())
	return res, nil
}

func (h *Hub) saveNft(s state.Store, nft badge.Addr) error {
	_, found, err := h.nft.MayLoad(s)
	if err != nil {
		return err
	}
	if found {
		return ErrNftAlreadySet
	}
	return h.nft.Save(s, nft)
}
