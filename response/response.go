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

// Package response describes the outcome of a registry operation: the
// instructions the host must dispatch after commit and the attributes and
// events that describe what happened
package response

import (
	"strconv"

	"github.com/public-awesome/badges/badge"
)

type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type Event struct {
	Type       string      `json:"type"`
	Attributes []Attribute `json:"attributes"`
}

func NewEvent(eventType string) Event {
	return Event{Type: eventType}
}

func (e Event) Add(key, value string) Event {
	e.Attributes = append(e.Attributes, Attribute{Key: key, Value: value})
	return e
}

type Response struct {
	Messages   []Msg       `json:"messages"`
	Attributes []Attribute `json:"attributes"`
	Events     []Event     `json:"events"`
}

func (r *Response) AddAttribute(key, value string) *Response {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: value})
	return r
}

func (r *Response) AddUint(key string, value uint64) *Response {
	return r.AddAttribute(key, strconv.FormatUint(value, 10))
}

func (r *Response) AddMessages(msgs ...Msg) *Response {
	r.Messages = append(r.Messages, msgs...)
	return r
}

func (r *Response) AddEvents(events ...Event) *Response {
	r.Events = append(r.Events, events...)
	return r
}

// Merge appends the messages, attributes and events of other
func (r *Response) Merge(other Response) *Response {
	r.Messages = append(r.Messages, other.Messages...)
	r.Attributes = append(r.Attributes, other.Attributes...)
	r.Events = append(r.Events, other.Events...)
	return r
}

// Attribute returns the value of the first attribute with the given key
func (r *Response) Attribute(key string) (string, bool) {
	for _, attr := range r.Attributes {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

// Mints returns the NFT mint instructions carried by the response
func (r *Response) Mints() []MintNft {
	var ret []MintNft
	for _, msg := range r.Messages {
		if m, ok := msg.(MintNft); ok {
			ret = append(ret, m)
		}
	}
	return ret
}

// Coin is an amount of a single denomination
type Coin struct {
	Denom  string `json:"denom"`
	Amount uint64 `json:"amount,string"`
}

func (c Coin) String() string {
	return strconv.FormatUint(c.Amount, 10) + c.Denom
}

// CoinsString formats coins the way they appear in attributes
func CoinsString(coins []Coin) string {
	ret := ""
	for idx, coin := range coins {
		if idx > 0 {
			ret += ","
		}
		ret += coin.String()
	}
	return ret
}

// Msg is an instruction for the host to dispatch once the operation has
// been committed
type Msg interface {
	// Type identifies the instruction in JSON output and logs
	Type() string
	isMsg()
}

// BankSend transfers coins to an account
type BankSend struct {
	ToAddress badge.Addr `json:"to_address"`
	Amount    []Coin     `json:"amount"`
}

// BankBurn destroys coins
type BankBurn struct {
	Amount []Coin `json:"amount"`
}

// FundCommunityPool sends coins to the chain's community pool
type FundCommunityPool struct {
	Amount []Coin `json:"amount"`
}

// MintNft mints a single badge instance on the NFT sub-ledger
type MintNft struct {
	Contract badge.Addr `json:"contract"`
	TokenID  string     `json:"token_id"`
	Owner    badge.Addr `json:"owner"`
}

// InstantiateNft deploys the NFT sub-ledger. The host reports the deployed
// address back through a reply carrying ReplyID.
type InstantiateNft struct {
	CodeID         uint64         `json:"code_id"`
	Admin          badge.Addr     `json:"admin"`
	Label          string         `json:"label"`
	Name           string         `json:"name"`
	Symbol         string         `json:"symbol"`
	Minter         badge.Addr     `json:"minter"`
	CollectionInfo CollectionInfo `json:"collection_info"`
	ReplyID        uint64         `json:"reply_id"`
}

type CollectionInfo struct {
	Creator      string `json:"creator"`
	Description  string `json:"description"`
	Image        string `json:"image"`
	ExternalLink string `json:"external_link,omitempty"`
}

// NftReady notifies the NFT sub-ledger that its minter is ready
type NftReady struct {
	Contract badge.Addr `json:"contract"`
}

func (BankSend) isMsg()          {}
func (BankBurn) isMsg()          {}
func (FundCommunityPool) isMsg() {}
func (MintNft) isMsg()           {}
func (InstantiateNft) isMsg()    {}
func (NftReady) isMsg()          {}

func (BankSend) Type() string          { return "bank_send" }
func (BankBurn) Type() string          { return "bank_burn" }
func (FundCommunityPool) Type() string { return "fund_community_pool" }
func (MintNft) Type() string           { return "mint_nft" }
func (InstantiateNft) Type() string    { return "instantiate_nft" }
func (NftReady) Type() string          { return "nft_ready" }
