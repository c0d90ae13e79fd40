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

package badge

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/gouroboros/cbor"
)

// Addr is an account identifier that has been accepted by the host's
// address validation. Raw strings from messages must never be converted to
// an Addr directly.
type Addr string

func (a Addr) String() string {
	return string(a)
}

// BlockInfo describes the block in which an operation executes
type BlockInfo struct {
	Height  uint64 `json:"height"`
	Time    uint64 `json:"time"` // unix seconds
	ChainID string `json:"chain_id"`
}

// Trait is a single OpenSea-style metadata attribute
type Trait struct {
	DisplayType string `cbor:"display_type,omitempty" json:"display_type,omitempty"`
	TraitType   string `cbor:"trait_type"             json:"trait_type"`
	Value       string `cbor:"value"                  json:"value"`
}

// Metadata is the descriptive document attached to a badge. The registry
// treats it as opaque apart from its serialized size.
type Metadata struct {
	Image           string  `cbor:"image,omitempty"            json:"image,omitempty"`
	ImageData       string  `cbor:"image_data,omitempty"       json:"image_data,omitempty"`
	ExternalURL     string  `cbor:"external_url,omitempty"     json:"external_url,omitempty"`
	Description     string  `cbor:"description,omitempty"      json:"description,omitempty"`
	Name            string  `cbor:"name,omitempty"             json:"name,omitempty"`
	Attributes      []Trait `cbor:"attributes,omitempty"       json:"attributes,omitempty"`
	BackgroundColor string  `cbor:"background_color,omitempty" json:"background_color,omitempty"`
	AnimationURL    string  `cbor:"animation_url,omitempty"    json:"animation_url,omitempty"`
	YoutubeURL      string  `cbor:"youtube_url,omitempty"      json:"youtube_url,omitempty"`
}

// Badge is a badge definition as stored in the registry. ID is derived from
// the storage key and is not part of the encoded record.
type Badge struct {
	ID            uint64
	Manager       Addr
	Metadata      Metadata
	Transferrable bool
	Rule          MintRule
	Expiry        Expiration
	MaxSupply     *uint64
	CurrentSupply uint64
}

// Remaining returns the number of instances that can still be minted and
// whether the badge has a supply cap at all
func (b *Badge) Remaining() (uint64, bool) {
	if b.MaxSupply == nil {
		return 0, false
	}
	if b.CurrentSupply >= *b.MaxSupply {
		return 0, true
	}
	return *b.MaxSupply - b.CurrentSupply, true
}

type badgeRecord struct {
	cbor.StructAsArray
	Manager       string
	Metadata      Metadata
	Transferrable bool
	RuleKind      uint8
	RuleValue     string
	ExpiryKind    uint8
	ExpiryValue   uint64
	MaxSupply     *uint64
	CurrentSupply uint64
}

var ErrUnknownRuleKind = errors.New("unknown mint rule kind")

func (b Badge) MarshalCBOR() ([]byte, error) {
	rec := badgeRecord{
		Manager:       string(b.Manager),
		Metadata:      b.Metadata,
		Transferrable: b.Transferrable,
		ExpiryKind:    uint8(b.Expiry.Kind),
		ExpiryValue:   b.Expiry.Value,
		MaxSupply:     b.MaxSupply,
		CurrentSupply: b.CurrentSupply,
	}
	switch r := b.Rule.(type) {
	case ByMinter:
		rec.RuleKind = ruleKindByMinter
		rec.RuleValue = string(r.Minter)
	case ByKey:
		rec.RuleKind = ruleKindByKey
		rec.RuleValue = r.Pubkey
	case ByKeys:
		rec.RuleKind = ruleKindByKeys
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownRuleKind, b.Rule)
	}
	return cbor.Encode(&rec)
}

func (b *Badge) UnmarshalCBOR(data []byte) error {
	var rec badgeRecord
	if _, err := cbor.Decode(data, &rec); err != nil {
		return err
	}
	switch rec.RuleKind {
	case ruleKindByMinter:
		b.Rule = ByMinter{Minter: Addr(rec.RuleValue)}
	case ruleKindByKey:
		b.Rule = ByKey{Pubkey: rec.RuleValue}
	case ruleKindByKeys:
		b.Rule = ByKeys{}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownRuleKind, rec.RuleKind)
	}
	if rec.ExpiryKind > uint8(ExpiresAtTime) {
		return fmt.Errorf("unknown expiration kind: %d", rec.ExpiryKind)
	}
	b.Manager = Addr(rec.Manager)
	b.Metadata = rec.Metadata
	b.Transferrable = rec.Transferrable
	b.Expiry = Expiration{
		Kind:  ExpirationKind(rec.ExpiryKind),
		Value: rec.ExpiryValue,
	}
	b.MaxSupply = rec.MaxSupply
	b.CurrentSupply = rec.CurrentSupply
	return nil
}
