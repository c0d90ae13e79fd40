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
	"fmt"

	"github.com/public-awesome/badges/fee"
	"github.com/public-awesome/badges/response"
	"github.com/public-awesome/badges/state"
	"github.com/shopspring/decimal"
)

const (
	nftLabel  = "badge-nft"
	nftName   = "Badges"
	nftSymbol = "B"
)

// Versions that Migrate can upgrade from
const (
	versionSingleRate = "1.0.0"
	versionSplitRate  = "1.1.0"
)

// legacyFeeRate is the single per-byte rate used before metadata and keys
// were priced separately
var legacyFeeRate = state.NewItem[string]("fee_per_byte")

func (h *Hub) instantiate(
	s state.Store,
	env Env,
	info MessageInfo,
	msg InstantiateMsg,
) (response.Response, error) {
	var res response.Response
	if err := msg.FeeRate.Validate(); err != nil {
		return res, err
	}
	err := h.contract.Save(
		s,
		ContractInfo{Name: ContractName, Version: ContractVersion},
	)
	if err != nil {
		return res, err
	}
	if err := h.developer.Save(s, info.Sender); err != nil {
		return res, err
	}
	if err := h.badgeCount.Save(s, 0); err != nil {
		return res, err
	}
	if err := h.feeRate.Save(s, msg.FeeRate); err != nil {
		return res, err
	}
	res.AddMessages(response.InstantiateNft{
		CodeID:         msg.NftCodeID,
		Admin:          info.Sender,
		Label:          nftLabel,
		Name:           nftName,
		Symbol:         nftSymbol,
		Minter:         env.Contract,
		CollectionInfo: msg.NftInfo,
		ReplyID:        nftReplyID,
	})
	res.AddAttribute("action", action("init")).
		AddAttribute("contract_name", ContractName).
		AddAttribute("contract_version", ContractVersion)
	return res, nil
}

// reply completes the deployment handshake with the NFT sub-ledger
func (h *Hub) reply(s state.Store, msg ReplyMsg) (response.Response, error) {
	var res response.Response
	if msg.ID != nftReplyID {
		return res, InvalidReplyIDError{ID: msg.ID}
	}
	nft, err := h.api.AddrValidate(msg.ContractAddress)
	if err != nil {
		return res, err
	}
	if err := h.saveNft(s, nft); err != nil {
		return res, err
	}
	res.AddMessages(response.NftReady{Contract: nft})
	res.AddAttribute("action", action("init_hook")).
		AddAttribute("nft", nft.String())
	return res, nil
}

func (h *Hub) setFeeRate(s state.Store, rate fee.Rate) (response.Response, error) {
	var res response.Response
	if err := rate.Validate(); err != nil {
		return res, err
	}
	if err := h.feeRate.Save(s, rate); err != nil {
		return res, err
	}
	res.AddAttribute("action", action("set_fee_rate")).
		AddAttribute("metadata", rate.Metadata.String()).
		AddAttribute("key", rate.Key.String())
	return res, nil
}

func (h *Hub) migrate(s state.Store) (response.Response, error) {
	var res response.Response
	info, err := h.contract.Load(s)
	if err != nil {
		return res, err
	}
	if info.Name != ContractName {
		return res, IncorrectContractNameError{
			Expected: ContractName,
			Found:    info.Name,
		}
	}
	switch info.Version {
	case versionSingleRate:
		legacy, err := legacyFeeRate.Load(s)
		if err != nil {
			return res, err
		}
		rate, err := decimal.NewFromString(legacy)
		if err != nil {
			return res, fmt.Errorf("parse legacy fee rate: %w", err)
		}
		if err := h.feeRate.Save(s, fee.Rate{Metadata: rate, Key: rate}); err != nil {
			return res, err
		}
		if err := legacyFeeRate.Remove(s); err != nil {
			return res, err
		}
	case versionSplitRate:
	default:
		return res, IncorrectContractVersionError{
			Expected: versionSplitRate,
			Found:    info.Version,
		}
	}
	err = h.contract.Save(
		s,
		ContractInfo{Name: ContractName, Version: ContractVersion},
	)
	if err != nil {
		return res, err
	}
	res.AddAttribute("action", action("migrate")).
		AddAttribute("from_version", info.Version).
		AddAttribute("to_version", ContractVersion)
	return res, nil
}
