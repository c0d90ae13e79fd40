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
	"encoding/json"
)

const (
	ruleKindByMinter uint8 = iota
	ruleKindByKey
	ruleKindByKeys
)

// Rule names as they appear in error messages and JSON
const (
	RuleNameByMinter = "by_minter"
	RuleNameByKey    = "by_key"
	RuleNameByKeys   = "by_keys"
)

// MintRule determines who may mint instances of a badge. The set of
// variants is closed: ByMinter, ByKey and ByKeys.
type MintRule interface {
	// Name returns the variant name without its payload
	Name() string
	String() string
	isMintRule()
}

// ByMinter allows a single designated account to mint to any owners
type ByMinter struct {
	Minter Addr
}

func (ByMinter) isMintRule() {}

func (ByMinter) Name() string { return RuleNameByMinter }

func (r ByMinter) String() string {
	return RuleNameByMinter + ":" + string(r.Minter)
}

func (r ByMinter) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{RuleNameByMinter: string(r.Minter)})
}

// ByKey allows anyone holding the private key for Pubkey to sign a claim
type ByKey struct {
	Pubkey string
}

func (ByKey) isMintRule() {}

func (ByKey) Name() string { return RuleNameByKey }

func (r ByKey) String() string {
	return RuleNameByKey + ":" + r.Pubkey
}

func (r ByKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{RuleNameByKey: r.Pubkey})
}

// ByKeys allows each whitelisted key to sign exactly one claim
type ByKeys struct{}

func (ByKeys) isMintRule() {}

func (ByKeys) Name() string { return RuleNameByKeys }

func (ByKeys) String() string { return RuleNameByKeys }

func (ByKeys) MarshalJSON() ([]byte, error) {
	return json.Marshal(RuleNameByKeys)
}
