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
	"github.com/public-awesome/badges/badge"
	"github.com/public-awesome/badges/fee"
	"github.com/public-awesome/badges/state"
)

type ConfigResponse struct {
	Developer  string   `json:"developer"`
	Nft        string   `json:"nft,omitempty"`
	BadgeCount uint64   `json:"badge_count"`
	FeeRate    fee.Rate `json:"fee_rate"`
}

type BadgeResponse struct {
	ID            uint64           `json:"id"`
	Manager       string           `json:"manager"`
	Metadata      badge.Metadata   `json:"metadata"`
	Transferrable bool             `json:"transferrable"`
	Rule          badge.MintRule   `json:"rule"`
	Expiry        badge.Expiration `json:"expiry"`
	MaxSupply     *uint64          `json:"max_supply"`
	CurrentSupply uint64           `json:"current_supply"`
}

func newBadgeResponse(b badge.Badge) BadgeResponse {
	return BadgeResponse{
		ID:            b.ID,
		Manager:       b.Manager.String(),
		Metadata:      b.Metadata,
		Transferrable: b.Transferrable,
		Rule:          b.Rule,
		Expiry:        b.Expiry,
		MaxSupply:     b.MaxSupply,
		CurrentSupply: b.CurrentSupply,
	}
}

type BadgesResponse struct {
	Badges []BadgeResponse `json:"badges"`
}

type KeyResponse struct {
	Key         string `json:"key"`
	Whitelisted bool   `json:"whitelisted"`
}

type KeysResponse struct {
	Keys []string `json:"keys"`
}

type OwnerResponse struct {
	User    string `json:"user"`
	Claimed bool   `json:"claimed"`
}

type OwnersResponse struct {
	Owners []string `json:"owners"`
}

func (h *Hub) QueryConfig(s state.Store) (ConfigResponse, error) {
	var ret ConfigResponse
	developer, err := h.developer.Load(s)
	if err != nil {
		return ret, err
	}
	// The NFT address is unset until the deployment handshake completes
	nft, _, err := h.nft.MayLoad(s)
	if err != nil {
		return ret, err
	}
	count, err := h.badgeCount.Load(s)
	if err != nil {
		return ret, err
	}
	rate, err := h.feeRate.Load(s)
	if err != nil {
		return ret, err
	}
	ret = ConfigResponse{
		Developer:  developer.String(),
		Nft:        nft.String(),
		BadgeCount: count,
		FeeRate:    rate,
	}
	return ret, nil
}

func (h *Hub) QueryBadge(s state.Store, id uint64) (BadgeResponse, error) {
	b, err := h.loadBadge(s, id)
	if err != nil {
		return BadgeResponse{}, err
	}
	return newBadgeResponse(b), nil
}

// QueryBadges lists badges in ascending id order, starting after startAfter
func (h *Hub) QueryBadges(
	s state.Store,
	startAfter *uint64,
	limit *uint32,
) (BadgesResponse, error) {
	entries, err := h.badges.Range(s, startAfter, clampLimit(limit))
	if err != nil {
		return BadgesResponse{}, err
	}
	ret := BadgesResponse{Badges: make([]BadgeResponse, 0, len(entries))}
	for _, entry := range entries {
		b := entry.Value
		b.ID = entry.ID
		ret.Badges = append(ret.Badges, newBadgeResponse(b))
	}
	return ret, nil
}

func (h *Hub) QueryKey(s state.Store, id uint64, pubkey string) (KeyResponse, error) {
	found, err := h.keys.Contains(s, id, pubkey)
	if err != nil {
		return KeyResponse{}, err
	}
	return KeyResponse{Key: pubkey, Whitelisted: found}, nil
}

func (h *Hub) QueryKeys(
	s state.Store,
	id uint64,
	startAfter *string,
	limit *uint32,
) (KeysResponse, error) {
	keys, err := h.keys.Range(s, id, deref(startAfter), clampLimit(limit))
	if err != nil {
		return KeysResponse{}, err
	}
	return KeysResponse{Keys: keys}, nil
}

func (h *Hub) QueryOwner(s state.Store, id uint64, user string) (OwnerResponse, error) {
	found, err := h.owners.Contains(s, id, user)
	if err != nil {
		return OwnerResponse{}, err
	}
	return OwnerResponse{User: user, Claimed: found}, nil
}

func (h *Hub) QueryOwners(
	s state.Store,
	id uint64,
	startAfter *string,
	limit *uint32,
) (OwnersResponse, error) {
	owners, err := h.owners.Range(s, id, deref(startAfter), clampLimit(limit))
	if err != nil {
		return OwnersResponse{}, err
	}
	return OwnersResponse{Owners: owners}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
