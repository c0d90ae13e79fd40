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

// Package fee meters the storage consumed by registry operations and turns
// the resulting fee into distribution instructions
package fee

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/blinklabs-io/gouroboros/cbor"
	"github.com/public-awesome/badges/badge"
	"github.com/public-awesome/badges/response"
	"github.com/shopspring/decimal"
)

const (
	// DeveloperPercent of each fee is sent to the developer
	DeveloperPercent = 10
	// BurnPercent of each fee, including the developer share, leaves the
	// community pool
	BurnPercent = 50

	FairBurnEventType = "fair-burn"
)

var (
	ErrNoFunds        = errors.New("no funds sent")
	ErrMultipleDenoms = errors.New("sent more than one denomination")
	ErrNegativeRate   = errors.New("fee rate must not be negative")
	ErrFeeOverflow    = errors.New("fee exceeds maximum amount")
)

type MissingDenomError struct {
	Denom string
}

func (e MissingDenomError) Error() string {
	return "must send reserve token '" + e.Denom + "'"
}

type InsufficientFeeError struct {
	Required uint64
	Paid     uint64
}

func (e InsufficientFeeError) Error() string {
	return fmt.Sprintf(
		"insufficient fee: expecting %d, received %d",
		e.Required,
		e.Paid,
	)
}

// Size returns the encoded size of v in bytes. A nil value has no size.
func Size(v any) (uint64, error) {
	if v == nil {
		return 0, nil
	}
	data, err := cbor.Encode(v)
	if err != nil {
		return 0, fmt.Errorf("encode data for fee: %w", err)
	}
	return uint64(len(data)), nil
}

// Compute returns the fee for replacing oldData with newData. Shrinking data
// is free.
func Compute(oldData, newData any, rate decimal.Decimal) (uint64, error) {
	if rate.IsNegative() {
		return 0, ErrNegativeRate
	}
	oldSize, err := Size(oldData)
	if err != nil {
		return 0, err
	}
	newSize, err := Size(newData)
	if err != nil {
		return 0, err
	}
	if newSize <= oldSize {
		return 0, nil
	}
	diff := decimal.NewFromBigInt(
		new(big.Int).SetUint64(newSize-oldSize),
		0,
	)
	fee := diff.Mul(rate).Floor().BigInt()
	if !fee.IsUint64() {
		return 0, ErrFeeOverflow
	}
	return fee.Uint64(), nil
}

// CheckPayment verifies that funds consist of a single non-zero coin of
// denom covering at least required
func CheckPayment(funds []response.Coin, denom string, required uint64) (uint64, error) {
	switch len(funds) {
	case 0:
		return 0, ErrNoFunds
	case 1:
	default:
		return 0, ErrMultipleDenoms
	}
	coin := funds[0]
	if coin.Amount == 0 {
		return 0, ErrNoFunds
	}
	if coin.Denom != denom {
		return 0, MissingDenomError{Denom: denom}
	}
	if coin.Amount < required {
		return 0, InsufficientFeeError{Required: required, Paid: coin.Amount}
	}
	return coin.Amount, nil
}

// Split divides amount into the developer, burn and community pool shares
func Split(amount uint64) (uint64, uint64, uint64) {
	// Widen to avoid overflow when multiplying
	burnTotal := new(big.Int).Mul(
		new(big.Int).SetUint64(amount),
		big.NewInt(BurnPercent),
	)
	burnTotal.Quo(burnTotal, big.NewInt(100))
	dev := new(big.Int).Mul(
		new(big.Int).SetUint64(amount),
		big.NewInt(DeveloperPercent),
	)
	dev.Quo(dev, big.NewInt(100))
	devAmount := dev.Uint64()
	burnAmount := burnTotal.Uint64() - devAmount
	return devAmount, burnAmount, amount - devAmount - burnAmount
}

// Distribute returns the instructions that pay out amount and the event
// describing the split. Zero shares produce no instruction.
func Distribute(
	developer badge.Addr,
	denom string,
	amount uint64,
) ([]response.Msg, response.Event) {
	devAmount, burnAmount, distAmount := Split(amount)
	var msgs []response.Msg
	event := response.NewEvent(FairBurnEventType)
	if devAmount > 0 {
		msgs = append(msgs, response.BankSend{
			ToAddress: developer,
			Amount:    []response.Coin{{Denom: denom, Amount: devAmount}},
		})
		event = event.
			Add("dev", developer.String()).
			Add("dev_amount", strconv.FormatUint(devAmount, 10))
	}
	if burnAmount > 0 {
		msgs = append(msgs, response.BankBurn{
			Amount: []response.Coin{{Denom: denom, Amount: burnAmount}},
		})
		event = event.Add("burn_amount", strconv.FormatUint(burnAmount, 10))
	}
	if distAmount > 0 {
		msgs = append(msgs, response.FundCommunityPool{
			Amount: []response.Coin{{Denom: denom, Amount: distAmount}},
		})
		event = event.Add("dist_amount", strconv.FormatUint(distAmount, 10))
	}
	return msgs, event
}

// Meter charges fees in a single denomination on behalf of a developer
type Meter struct {
	Denom     string
	Developer badge.Addr
}

// Handle computes the fee for replacing oldData with newData, checks that
// funds cover it and returns the distribution instructions along with the
// fee amount. A zero fee requires no payment.
func (m Meter) Handle(
	funds []response.Coin,
	oldData, newData any,
	rate decimal.Decimal,
) (response.Response, uint64, error) {
	var res response.Response
	amount, err := Compute(oldData, newData, rate)
	if err != nil {
		return res, 0, err
	}
	if amount == 0 {
		return res, 0, nil
	}
	if _, err := CheckPayment(funds, m.Denom, amount); err != nil {
		return res, 0, err
	}
	msgs, event := Distribute(m.Developer, m.Denom, amount)
	res.AddMessages(msgs...).AddEvents(event)
	return res, amount, nil
}
