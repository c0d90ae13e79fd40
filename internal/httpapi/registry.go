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
	"context"

	"github.com/public-awesome/badges/database/models"
	"github.com/public-awesome/badges/event"
	"github.com/public-awesome/badges/hub"
	"github.com/public-awesome/badges/response"
)

// Registry is the interface the HTTP API uses to reach the badge registry.
// It decouples the server from the concrete node and allows testing with
// mock implementations.
type Registry interface {
	// Execute runs a registry operation in its own block and returns the
	// committed result
	Execute(
		ctx context.Context,
		sender string,
		funds []response.Coin,
		msg hub.ExecuteMsg,
	) (event.OperationEvent, error)

	// Query answers a read-only registry query
	Query(ctx context.Context, msg hub.QueryMsg) (any, error)

	// Height returns the height of the last committed block
	Height(ctx context.Context) (uint64, error)

	// Token returns the journaled mint of a token, or nil if unknown
	Token(ctx context.Context, tokenID string) (*models.Mint, error)

	TokensByBadge(
		ctx context.Context,
		badgeID uint64,
		after uint,
		limit int,
	) ([]models.Mint, error)

	TokensByOwner(
		ctx context.Context,
		owner string,
		after uint,
		limit int,
	) ([]models.Mint, error)

	// Operations returns the most recent journaled operations, newest first
	Operations(
		ctx context.Context,
		badgeID *uint64,
		limit int,
	) ([]models.Operation, error)
}
