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
	"encoding/hex"
	"fmt"

	"github.com/public-awesome/badges/badge"
	"github.com/public-awesome/badges/internal/secp256k1"
	"github.com/public-awesome/badges/state"
)

func ruleString(rule badge.MintRule) string {
	if rule == nil {
		return "none"
	}
	return rule.String()
}

// AssertCanMintByMinter checks that b uses the by_minter rule and that caller
// is its minter
func AssertCanMintByMinter(b *badge.Badge, caller badge.Addr) error {
	rule, ok := b.Rule.(badge.ByMinter)
	if !ok {
		return WrongMintRuleError{
			Expected: badge.RuleNameByMinter,
			Found:    ruleString(b.Rule),
		}
	}
	if rule.Minter != caller {
		return ErrNotMinter
	}
	return nil
}

// AssertCanMintByKey checks that b uses the by_key rule and that signature is
// a valid signature of the claim message for owner by the badge's key
func AssertCanMintByKey(
	api API,
	b *badge.Badge,
	owner badge.Addr,
	signature string,
) error {
	rule, ok := b.Rule.(badge.ByKey)
	if !ok {
		return WrongMintRuleError{
			Expected: badge.RuleNameByKey,
			Found:    ruleString(b.Rule),
		}
	}
	return assertValidSignature(api, b.ID, owner, rule.Pubkey, signature)
}

// assertCanMintByKeys checks that b uses the by_keys rule, that pubkey is
// whitelisted and that signature is valid for it
func (h *Hub) assertCanMintByKeys(
	s state.Store,
	b *badge.Badge,
	owner badge.Addr,
	pubkey string,
	signature string,
) error {
	if _, ok := b.Rule.(badge.ByKeys); !ok {
		return WrongMintRuleError{
			Expected: badge.RuleNameByKeys,
			Found:    ruleString(b.Rule),
		}
	}
	found, err := h.keys.Contains(s, b.ID, pubkey)
	if err != nil {
		return err
	}
	if !found {
		return KeyDoesNotExistError{ID: b.ID}
	}
	return assertValidSignature(h.api, b.ID, owner, pubkey, signature)
}

// assertEligible checks that owner has not claimed the badge before
func (h *Hub) assertEligible(s state.Store, id uint64, owner badge.Addr) error {
	claimed, err := h.owners.Contains(s, id, owner.String())
	if err != nil {
		return err
	}
	if claimed {
		return AlreadyClaimedError{ID: id, User: owner.String()}
	}
	return nil
}

func assertValidSignature(
	api API,
	id uint64,
	owner badge.Addr,
	pubkeyHex string,
	signatureHex string,
) error {
	pubkey, err := hex.DecodeString(pubkeyHex)
	if err != nil {
		return HexError{Field: "pubkey", Err: err}
	}
	signature, err := hex.DecodeString(signatureHex)
	if err != nil {
		return HexError{Field: "signature", Err: err}
	}
	msgHash := secp256k1.Hash([]byte(badge.ClaimMessage(id, owner.String())))
	ok, err := api.Secp256k1Verify(msgHash, signature, pubkey)
	if err != nil {
		return VerificationError{Err: err}
	}
	if !ok {
		return ErrInvalidSignature
	}
	return nil
}

// validatePubkey checks that pubkeyHex is a hex encoded secp256k1 public key
// in compressed or uncompressed form
func validatePubkey(pubkeyHex string) error {
	data, err := hex.DecodeString(pubkeyHex)
	if err != nil {
		return HexError{Field: "pubkey", Err: err}
	}
	if _, err := secp256k1.ParsePubkey(data); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidPubkey, pubkeyHex, err)
	}
	return nil
}
