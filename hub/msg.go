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
	"encoding/json"
	"fmt"

	"github.com/public-awesome/badges/badge"
	"github.com/public-awesome/badges/fee"
	"github.com/public-awesome/badges/response"
)

type InstantiateMsg struct {
	NftCodeID uint64                  `json:"nft_code_id"`
	NftInfo   response.CollectionInfo `json:"nft_info"`
	FeeRate   fee.Rate                `json:"fee_rate"`
}

// ReplyMsg carries the result of the NFT sub-ledger deployment
type ReplyMsg struct {
	ID              uint64 `json:"id"`
	ContractAddress string `json:"contract_address"`
}

// MintRuleMsg is a mint rule as submitted in a message, before any address
// in it has been validated. Its JSON form is {"by_minter":"<addr>"},
// {"by_key":"<hex>"} or "by_keys".
type MintRuleMsg struct {
	ByMinter *string
	ByKey    *string
	ByKeys   bool
}

func (r MintRuleMsg) MarshalJSON() ([]byte, error) {
	switch {
	case r.ByMinter != nil:
		return json.Marshal(map[string]string{badge.RuleNameByMinter: *r.ByMinter})
	case r.ByKey != nil:
		return json.Marshal(map[string]string{badge.RuleNameByKey: *r.ByKey})
	case r.ByKeys:
		return json.Marshal(badge.RuleNameByKeys)
	}
	return nil, fmt.Errorf("%w: empty mint rule", ErrInvalidMsg)
}

func (r *MintRuleMsg) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		if name != badge.RuleNameByKeys {
			return fmt.Errorf("%w: unknown mint rule %q", ErrInvalidMsg, name)
		}
		*r = MintRuleMsg{ByKeys: true}
		return nil
	}
	var tmp map[string]string
	if err := json.Unmarshal(data, &tmp); err != nil {
		return fmt.Errorf("%w: mint rule: %w", ErrInvalidMsg, err)
	}
	if len(tmp) != 1 {
		return fmt.Errorf("%w: mint rule must have exactly one variant", ErrInvalidMsg)
	}
	*r = MintRuleMsg{}
	for k, v := range tmp {
		switch k {
		case badge.RuleNameByMinter:
			r.ByMinter = &v
		case badge.RuleNameByKey:
			r.ByKey = &v
		default:
			return fmt.Errorf("%w: unknown mint rule %q", ErrInvalidMsg, k)
		}
	}
	return nil
}

type CreateBadgeMsg struct {
	Manager       string            `json:"manager"`
	Metadata      badge.Metadata    `json:"metadata"`
	Transferrable bool              `json:"transferrable"`
	Rule          MintRuleMsg       `json:"rule"`
	Expiry        *badge.Expiration `json:"expiry,omitempty"`
	MaxSupply     *uint64           `json:"max_supply,omitempty"`
}

type EditBadgeMsg struct {
	ID       uint64         `json:"id"`
	Metadata badge.Metadata `json:"metadata"`
}

type AddKeysMsg struct {
	ID   uint64          `json:"id"`
	Keys badge.SortedSet `json:"keys"`
}

type PurgeMsg struct {
	ID    uint64  `json:"id"`
	Limit *uint32 `json:"limit,omitempty"`
}

type MintByMinterMsg struct {
	ID     uint64          `json:"id"`
	Owners badge.SortedSet `json:"owners"`
}

type MintByKeyMsg struct {
	ID        uint64 `json:"id"`
	Owner     string `json:"owner"`
	Signature string `json:"signature"`
}

type MintByKeysMsg struct {
	ID        uint64 `json:"id"`
	Owner     string `json:"owner"`
	Pubkey    string `json:"pubkey"`
	Signature string `json:"signature"`
}

type SetNftMsg struct {
	Nft string `json:"nft"`
}

// ExecuteMsg is the envelope for registry operations. Exactly one field must
// be set.
type ExecuteMsg struct {
	CreateBadge  *CreateBadgeMsg  `json:"create_badge,omitempty"`
	EditBadge    *EditBadgeMsg    `json:"edit_badge,omitempty"`
	AddKeys      *AddKeysMsg      `json:"add_keys,omitempty"`
	PurgeKeys    *PurgeMsg        `json:"purge_keys,omitempty"`
	PurgeOwners  *PurgeMsg        `json:"purge_owners,omitempty"`
	MintByMinter *MintByMinterMsg `json:"mint_by_minter,omitempty"`
	MintByKey    *MintByKeyMsg    `json:"mint_by_key,omitempty"`
	MintByKeys   *MintByKeysMsg   `json:"mint_by_keys,omitempty"`
	SetNft       *SetNftMsg       `json:"set_nft,omitempty"`
}

// Action returns the name of the operation carried by the message
func (m ExecuteMsg) Action() (string, error) {
	var ret string
	count := 0
	set := func(isSet bool, name string) {
		if isSet {
			ret = name
			count++
		}
	}
	set(m.CreateBadge != nil, "create_badge")
	set(m.EditBadge != nil, "edit_badge")
	set(m.AddKeys != nil, "add_keys")
	set(m.PurgeKeys != nil, "purge_keys")
	set(m.PurgeOwners != nil, "purge_owners")
	set(m.MintByMinter != nil, "mint_by_minter")
	set(m.MintByKey != nil, "mint_by_key")
	set(m.MintByKeys != nil, "mint_by_keys")
	set(m.SetNft != nil, "set_nft")
	if count != 1 {
		return "", fmt.Errorf(
			"%w: expected exactly one operation, found %d",
			ErrInvalidMsg,
			count,
		)
	}
	return ret, nil
}

type SetFeeRateMsg struct {
	FeeRate fee.Rate `json:"fee_rate"`
}

// SudoMsg carries privileged operations invoked by the host itself
type SudoMsg struct {
	SetFeeRate *SetFeeRateMsg `json:"set_fee_rate,omitempty"`
}

type BadgeQuery struct {
	ID uint64 `json:"id"`
}

type BadgesQuery struct {
	StartAfter *uint64 `json:"start_after,omitempty"`
	Limit      *uint32 `json:"limit,omitempty"`
}

type KeyQuery struct {
	ID     uint64 `json:"id"`
	Pubkey string `json:"pubkey"`
}

type OwnerQuery struct {
	ID    uint64 `json:"id"`
	Owner string `json:"owner"`
}

// UnmarshalJSON also accepts the member under "user", as sent by older
// clients
func (q *OwnerQuery) UnmarshalJSON(data []byte) error {
	type ownerQuery OwnerQuery
	var tmp struct {
		ownerQuery
		User *string `json:"user"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*q = OwnerQuery(tmp.ownerQuery)
	if tmp.User != nil {
		if q.Owner != "" && q.Owner != *tmp.User {
			return fmt.Errorf("%w: conflicting owner and user", ErrInvalidMsg)
		}
		q.Owner = *tmp.User
	}
	return nil
}

type MembersQuery struct {
	ID         uint64  `json:"id"`
	StartAfter *string `json:"start_after,omitempty"`
	Limit      *uint32 `json:"limit,omitempty"`
}

// QueryMsg is the envelope for read-only queries. Exactly one field must be
// set.
type QueryMsg struct {
	Config *struct{}     `json:"config,omitempty"`
	Badge  *BadgeQuery   `json:"badge,omitempty"`
	Badges *BadgesQuery  `json:"badges,omitempty"`
	Key    *KeyQuery     `json:"key,omitempty"`
	Keys   *MembersQuery `json:"keys,omitempty"`
	Owner  *OwnerQuery   `json:"owner,omitempty"`
	Owners *MembersQuery `json:"owners,omitempty"`
}

// Kind returns the name of the single query carried by m
func (m QueryMsg) Kind() (string, error) {
	var ret string
	count := 0
	set := func(isSet bool, name string) {
		if isSet {
			ret = name
			count++
		}
	}
	set(m.Config != nil, "config")
	set(m.Badge != nil, "badge")
	set(m.Badges != nil, "badges")
	set(m.Key != nil, "key")
	set(m.Keys != nil, "keys")
	set(m.Owner != nil, "owner")
	set(m.Owners != nil, "owners")
	if count != 1 {
		return "", fmt.Errorf(
			"%w: expected exactly one query, found %d",
			ErrInvalidMsg,
			count,
		)
	}
	return ret, nil
}
