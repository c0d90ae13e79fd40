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

package httpapi

import (
	"encoding/json"

	"github.com/public-awesome/badges/database/models"
	"github.com/public-awesome/badges/event"
	"github.com/public-awesome/badges/hub"
	"github.com/public-awesome/badges/response"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	StatusCode int    `json:"status_code"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	IsHealthy bool   `json:"is_healthy"`
	Height    uint64 `json:"height"`
}

// ExecuteRequest is the body of POST /api/v1/execute
type ExecuteRequest struct {
	Sender string          `json:"sender"`
	Funds  []response.Coin `json:"funds,omitempty"`
	Msg    hub.ExecuteMsg  `json:"msg"`
}

// OperationResponse is the committed result of an operation
type OperationResponse struct {
	Action   string            `json:"action"`
	Sender   string            `json:"sender"`
	Height   uint64            `json:"height"`
	Time     uint64            `json:"time"`
	Response response.Response `json:"response"`
}

func newOperationResponse(evt event.OperationEvent) OperationResponse {
	return OperationResponse{
		Action:   evt.Action,
		Sender:   evt.Sender,
		Height:   evt.Height,
		Time:     evt.Time,
		Response: evt.Response,
	}
}

// TokenResponse describes a minted badge instance
type TokenResponse struct {
	Cursor   uint   `json:"cursor"`
	TokenID  string `json:"token_id"`
	BadgeID  uint64 `json:"badge_id"`
	Serial   uint64 `json:"serial"`
	Owner    string `json:"owner"`
	Contract string `json:"contract"`
}

func newTokenResponse(m models.Mint) TokenResponse {
	return TokenResponse{
		Cursor:   m.ID,
		TokenID:  m.TokenID,
		BadgeID:  uint64(m.BadgeID),
		Serial:   uint64(m.Serial),
		Owner:    m.Owner,
		Contract: m.Contract,
	}
}

type TokensResponse struct {
	Tokens []TokenResponse `json:"tokens"`
}

// FeeResponse describes a collected fee and its distribution
type FeeResponse struct {
	Denom           string `json:"denom"`
	Amount          uint64 `json:"amount,string"`
	DeveloperAmount uint64 `json:"developer_amount,string"`
	BurnAmount      uint64 `json:"burn_amount,string"`
	PoolAmount      uint64 `json:"pool_amount,string"`
}

// OperationRecord is a journaled operation
type OperationRecord struct {
	Action     string          `json:"action"`
	Sender     string          `json:"sender"`
	BadgeID    uint64          `json:"badge_id,omitempty"`
	Height     uint64          `json:"height"`
	Time       uint64          `json:"time"`
	Attributes json.RawMessage `json:"attributes,omitempty"`
	Tokens     []string        `json:"tokens,omitempty"`
	Fee        *FeeResponse    `json:"fee,omitempty"`
}

func newOperationRecord(op models.Operation) OperationRecord {
	ret := OperationRecord{
		Action:  op.Action,
		Sender:  op.Sender,
		BadgeID: uint64(op.BadgeID),
		Height:  uint64(op.Height),
		Time:    uint64(op.Time),
	}
	if len(op.Attributes) > 0 {
		ret.Attributes = json.RawMessage(op.Attributes)
	}
	for _, mint := range op.Mints {
		ret.Tokens = append(ret.Tokens, mint.TokenID)
	}
	if op.FeePayment != nil {
		ret.Fee = &FeeResponse{
			Denom:           op.FeePayment.Denom,
			Amount:          uint64(op.FeePayment.Amount),
			DeveloperAmount: uint64(op.FeePayment.DeveloperAmount),
			BurnAmount:      uint64(op.FeePayment.BurnAmount),
			PoolAmount:      uint64(op.FeePayment.PoolAmount),
		}
	}
	return ret
}

type OperationsResponse struct {
	Operations []OperationRecord `json:"operations"`
}
