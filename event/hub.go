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

package event

import (
	"github.com/public-awesome/badges/response"
)

const (
	// OperationEventType is published for every committed registry operation
	OperationEventType = EventType("hub.operation")
	// MintEventType is published once per minted badge instance
	MintEventType = EventType("hub.mint")
)

// OperationEvent describes a committed registry operation. It is also the
// result returned to the submitter of the operation.
type OperationEvent struct {
	// Action is the operation name, e.g. "create_badge"
	Action string
	Sender string
	// Height and Time describe the block the operation executed in
	Height   uint64
	Time     uint64
	Response response.Response
}

// MintEvent describes a single minted badge instance
type MintEvent struct {
	BadgeID uint64
	Serial  uint64
	TokenID string
	Owner   string
	Height  uint64
}
