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

package response_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/public-awesome/badges/response"
)

func TestCoinsString(t *testing.T) {
	assert.Equal(t, "", response.CoinsString(nil))
	assert.Equal(
		t,
		"100ustars,5uatom",
		response.CoinsString([]response.Coin{
			{Denom: "ustars", Amount: 100},
			{Denom: "uatom", Amount: 5},
		}),
	)
}

func TestResponseAttributes(t *testing.T) {
	var res response.Response
	res.AddAttribute("action", "badges/hub/create_badge").AddUint("id", 1)
	val, ok := res.Attribute("id")
	require.True(t, ok)
	assert.Equal(t, "1", val)
	_, ok = res.Attribute("missing")
	assert.False(t, ok)
}

func TestResponseMints(t *testing.T) {
	var res response.Response
	res.AddMessages(
		response.BankBurn{Amount: []response.Coin{{Denom: "ustars", Amount: 1}}},
		response.MintNft{Contract: "nft", TokenID: "1|1", Owner: "larry"},
	)
	mints := res.Mints()
	require.Len(t, mints, 1)
	assert.Equal(t, "1|1", mints[0].TokenID)
}

func TestResponseJSON(t *testing.T) {
	var res response.Response
	res.AddMessages(response.MintNft{Contract: "nft", TokenID: "1|1", Owner: "larry"})
	out, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(
		t,
		`{"messages":[{"type":"mint_nft","msg":{"contract":"nft","token_id":"1|1","owner":"larry"}}],"attributes":[],"events":[]}`,
		string(out),
	)
}
