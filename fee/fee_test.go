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

package fee_test

import (
	"testing"

	"github.com/blinklabs-io/gouroboros/cbor"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/public-awesome/badges/badge"
	"github.com/public-awesome/badges/fee"
	"github.com/public-awesome/badges/response"
)

func TestCompute(t *testing.T) {
	small := badge.Metadata{Name: "a"}
	large := badge.Metadata{Name: "a much longer badge name", Description: "with a description"}
	smallSize, err := fee.Size(small)
	require.NoError(t, err)
	largeSize, err := fee.Size(large)
	require.NoError(t, err)
	require.Greater(t, largeSize, smallSize)

	rate := decimal.RequireFromString("2.5")
	// Nil old data has zero size
	amount, err := fee.Compute(nil, small, rate)
	require.NoError(t, err)
	assert.Equal(t, decimal.NewFromInt(int64(smallSize)).Mul(rate).Floor().IntPart(), int64(amount))
	// Growth is charged on the difference only
	amount, err = fee.Compute(small, large, rate)
	require.NoError(t, err)
	assert.Equal(t, decimal.NewFromInt(int64(largeSize-smallSize)).Mul(rate).Floor().IntPart(), int64(amount))
	// Shrinking is free
	amount, err = fee.Compute(large, small, rate)
	require.NoError(t, err)
	assert.Zero(t, amount)
	// Fractional fees round down
	amount, err = fee.Compute(nil, []byte{}, decimal.RequireFromString("0.5"))
	require.NoError(t, err)
	assert.Zero(t, amount)
	_, err = fee.Compute(nil, small, decimal.NewFromInt(-1))
	require.ErrorIs(t, err, fee.ErrNegativeRate)
}

func TestCheckPayment(t *testing.T) {
	testDefs := []struct {
		name  string
		funds []response.Coin
		check func(*testing.T, error)
	}{
		{
			name:  "no funds",
			funds: nil,
			check: func(t *testing.T, err error) { require.ErrorIs(t, err, fee.ErrNoFunds) },
		},
		{
			name:  "zero amount",
			funds: []response.Coin{{Denom: "ustars", Amount: 0}},
			check: func(t *testing.T, err error) { require.ErrorIs(t, err, fee.ErrNoFunds) },
		},
		{
			name: "multiple denoms",
			funds: []response.Coin{
				{Denom: "ustars", Amount: 100},
				{Denom: "uatom", Amount: 100},
			},
			check: func(t *testing.T, err error) { require.ErrorIs(t, err, fee.ErrMultipleDenoms) },
		},
		{
			name:  "wrong denom",
			funds: []response.Coin{{Denom: "uatom", Amount: 100}},
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, fee.MissingDenomError{Denom: "ustars"})
			},
		},
		{
			name:  "insufficient",
			funds: []response.Coin{{Denom: "ustars", Amount: 99}},
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, fee.InsufficientFeeError{Required: 100, Paid: 99})
			},
		},
		{
			name:  "overpaid",
			funds: []response.Coin{{Denom: "ustars", Amount: 101}},
			check: func(t *testing.T, err error) { require.NoError(t, err) },
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			_, err := fee.CheckPayment(testDef.funds, "ustars", 100)
			testDef.check(t, err)
		})
	}
}

func TestSplit(t *testing.T) {
	testDefs := []struct {
		amount, dev, burn, dist uint64
	}{
		{100, 10, 40, 50},
		{1000, 100, 400, 500},
		{7, 0, 3, 4},
		{1, 0, 0, 1},
		{^uint64(0), 1844674407370955161, 7378697629483820646, 9223372036854775808},
	}
	for _, testDef := range testDefs {
		dev, burn, dist := fee.Split(testDef.amount)
		assert.Equal(t, testDef.dev, dev, "dev %d", testDef.amount)
		assert.Equal(t, testDef.burn, burn, "burn %d", testDef.amount)
		assert.Equal(t, testDef.dist, dist, "dist %d", testDef.amount)
		assert.Equal(t, testDef.amount, dev+burn+dist)
	}
}

func TestDistribute(t *testing.T) {
	msgs, event := fee.Distribute("dev", "ustars", 100)
	require.Equal(
		t,
		[]response.Msg{
			response.BankSend{
				ToAddress: "dev",
				Amount:    []response.Coin{{Denom: "ustars", Amount: 10}},
			},
			response.BankBurn{Amount: []response.Coin{{Denom: "ustars", Amount: 40}}},
			response.FundCommunityPool{Amount: []response.Coin{{Denom: "ustars", Amount: 50}}},
		},
		msgs,
	)
	assert.Equal(t, fee.FairBurnEventType, event.Type)
	assert.Equal(
		t,
		[]response.Attribute{
			{Key: "dev", Value: "dev"},
			{Key: "dev_amount", Value: "10"},
			{Key: "burn_amount", Value: "40"},
			{Key: "dist_amount", Value: "50"},
		},
		event.Attributes,
	)
	// Shares that round to zero are omitted
	msgs, event = fee.Distribute("dev", "ustars", 1)
	require.Len(t, msgs, 1)
	assert.IsType(t, response.FundCommunityPool{}, msgs[0])
	assert.Equal(t, []response.Attribute{{Key: "dist_amount", Value: "1"}}, event.Attributes)
}

func TestMeterHandle(t *testing.T) {
	meter := fee.Meter{Denom: "ustars", Developer: "dev"}
	data := badge.Metadata{Name: "badge"}
	size, err := fee.Size(data)
	require.NoError(t, err)
	rate := decimal.NewFromInt(10)
	required := size * 10

	res, amount, err := meter.Handle(
		[]response.Coin{{Denom: "ustars", Amount: required}},
		nil,
		data,
		rate,
	)
	require.NoError(t, err)
	assert.Equal(t, required, amount)
	assert.Len(t, res.Messages, 3)
	require.Len(t, res.Events, 1)

	_, _, err = meter.Handle(
		[]response.Coin{{Denom: "ustars", Amount: required - 1}},
		nil,
		data,
		rate,
	)
	require.ErrorIs(t, err, fee.InsufficientFeeError{Required: required, Paid: required - 1})

	// A zero fee needs no payment
	res, amount, err = meter.Handle(nil, data, data, rate)
	require.NoError(t, err)
	assert.Zero(t, amount)
	assert.Empty(t, res.Messages)
}

func TestRateCbor(t *testing.T) {
	orig := fee.Rate{
		Metadata: decimal.RequireFromString("0.25"),
		Key:      decimal.NewFromInt(10),
	}
	data, err := cbor.Encode(orig)
	require.NoError(t, err)
	var decoded fee.Rate
	_, err = cbor.Decode(data, &decoded)
	require.NoError(t, err)
	assert.True(t, orig.Metadata.Equal(decoded.Metadata))
	assert.True(t, orig.Key.Equal(decoded.Key))
	require.ErrorIs(t, fee.Rate{Metadata: decimal.NewFromInt(-1)}.Validate(), fee.ErrNegativeRate)
}
