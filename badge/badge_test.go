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

package badge_test

import (
	"encoding/json"
	"testing"

	"github.com/blinklabs-io/gouroboros/cbor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/public-awesome/badges/badge"
)

func TestExpirationIsExpired(t *testing.T) {
	testDefs := []struct {
		name    string
		expiry  badge.Expiration
		block   badge.BlockInfo
		expired bool
	}{
		{"height before", badge.AtHeight(100), badge.BlockInfo{Height: 99}, false},
		{"height reached", badge.AtHeight(100), badge.BlockInfo{Height: 100}, true},
		{"time before", badge.AtTime(10000), badge.BlockInfo{Time: 9999}, false},
		{"time reached", badge.AtTime(10000), badge.BlockInfo{Time: 10000}, true},
		{"time after", badge.AtTime(10000), badge.BlockInfo{Time: 10001}, true},
		{"never", badge.Never(), badge.BlockInfo{Height: ^uint64(0), Time: ^uint64(0)}, false},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			assert.Equal(t, testDef.expired, testDef.expiry.IsExpired(testDef.block))
		})
	}
}

func TestExpirationJSON(t *testing.T) {
	var e badge.Expiration
	require.NoError(t, json.Unmarshal([]byte(`{"at_time":12345}`), &e))
	assert.Equal(t, badge.AtTime(12345), e)
	require.NoError(t, json.Unmarshal([]byte(`{"never":{}}`), &e))
	assert.Equal(t, badge.Never(), e)
	require.Error(t, json.Unmarshal([]byte(`{}`), &e))
	out, err := json.Marshal(badge.AtHeight(7))
	require.NoError(t, err)
	assert.JSONEq(t, `{"at_height":7}`, string(out))
}

func TestTokenID(t *testing.T) {
	assert.Equal(t, "69|420", badge.TokenID(69, 420))
	for _, pair := range [][2]uint64{{1, 1}, {17, 3000}, {^uint64(0), 0}} {
		id, serial, err := badge.ParseTokenID(badge.TokenID(pair[0], pair[1]))
		require.NoError(t, err)
		assert.Equal(t, pair[0], id)
		assert.Equal(t, pair[1], serial)
	}
	for _, bad := range []string{"", "12", "a|1", "1|b", "1|2|3"} {
		_, _, err := badge.ParseTokenID(bad)
		require.ErrorIs(t, err, badge.ErrInvalidTokenID, bad)
	}
}

func TestClaimMessage(t *testing.T) {
	assert.Equal(
		t,
		"claim badge 1 for user stars1abc",
		badge.ClaimMessage(1, "stars1abc"),
	)
}

func TestMintRuleString(t *testing.T) {
	assert.Equal(t, "by_minter:larry", badge.ByMinter{Minter: "larry"}.String())
	assert.Equal(t, "by_key:02ab", badge.ByKey{Pubkey: "02ab"}.String())
	assert.Equal(t, "by_keys", badge.ByKeys{}.String())
	out, err := json.Marshal(badge.ByKeys{})
	require.NoError(t, err)
	assert.Equal(t, `"by_keys"`, string(out))
	out, err = json.Marshal(badge.ByMinter{Minter: "larry"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"by_minter":"larry"}`, string(out))
}

func TestBadgeCborRoundTrip(t *testing.T) {
	maxSupply := uint64(100)
	rules := []badge.MintRule{
		badge.ByMinter{Minter: "larry"},
		badge.ByKey{Pubkey: "026f476708bd8fcc8a58bae717ee6922cdefd7917492dbc1a4c2f96d22ba30e470"},
		badge.ByKeys{},
	}
	for _, rule := range rules {
		orig := badge.Badge{
			Manager: "jake",
			Metadata: badge.Metadata{
				Name: "first badge",
				Attributes: []badge.Trait{
					{TraitType: "level", Value: "1"},
				},
			},
			Transferrable: true,
			Rule:          rule,
			Expiry:        badge.AtTime(12345),
			MaxSupply:     &maxSupply,
			CurrentSupply: 99,
		}
		data, err := cbor.Encode(orig)
		require.NoError(t, err)
		var decoded badge.Badge
		_, err = cbor.Decode(data, &decoded)
		require.NoError(t, err)
		assert.Equal(t, orig, decoded, rule.String())
	}
}

func TestBadgeRemaining(t *testing.T) {
	b := badge.Badge{CurrentSupply: 5}
	_, capped := b.Remaining()
	assert.False(t, capped)
	maxSupply := uint64(7)
	b.MaxSupply = &maxSupply
	remaining, capped := b.Remaining()
	assert.True(t, capped)
	assert.Equal(t, uint64(2), remaining)
}

func TestSortedSet(t *testing.T) {
	s := badge.NewSortedSet("c", "a", "b", "a")
	assert.Equal(t, []string{"a", "b", "c"}, s.Items())
	var decoded badge.SortedSet
	require.NoError(t, json.Unmarshal([]byte(`["z","y","z"]`), &decoded))
	assert.Equal(t, []string{"y", "z"}, decoded.Items())
	assert.Equal(t, 2, decoded.Len())
}
