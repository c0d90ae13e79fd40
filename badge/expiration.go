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
	"errors"
	"fmt"
)

type ExpirationKind uint8

const (
	ExpiresNever ExpirationKind = iota
	ExpiresAtHeight
	ExpiresAtTime
)

// Expiration is the deadline after which a badge can no longer be minted.
// The zero value never expires.
type Expiration struct {
	Kind  ExpirationKind
	Value uint64
}

func AtHeight(height uint64) Expiration {
	return Expiration{Kind: ExpiresAtHeight, Value: height}
}

// AtTime returns an expiration at the given unix time in seconds
func AtTime(unixSeconds uint64) Expiration {
	return Expiration{Kind: ExpiresAtTime, Value: unixSeconds}
}

func Never() Expiration {
	return Expiration{}
}

// IsExpired reports whether the block has reached the expiration point
func (e Expiration) IsExpired(block BlockInfo) bool {
	switch e.Kind {
	case ExpiresAtHeight:
		return block.Height >= e.Value
	case ExpiresAtTime:
		return block.Time >= e.Value
	default:
		return false
	}
}

func (e Expiration) String() string {
	switch e.Kind {
	case ExpiresAtHeight:
		return fmt.Sprintf("expiration height: %d", e.Value)
	case ExpiresAtTime:
		return fmt.Sprintf("expiration time: %d", e.Value)
	default:
		return "expiration: never"
	}
}

type expirationJSON struct {
	AtHeight *uint64   `json:"at_height,omitempty"`
	AtTime   *uint64   `json:"at_time,omitempty"`
	Never    *struct{} `json:"never,omitempty"`
}

func (e Expiration) MarshalJSON() ([]byte, error) {
	var tmp expirationJSON
	switch e.Kind {
	case ExpiresAtHeight:
		tmp.AtHeight = &e.Value
	case ExpiresAtTime:
		tmp.AtTime = &e.Value
	default:
		tmp.Never = &struct{}{}
	}
	return json.Marshal(tmp)
}

func (e *Expiration) UnmarshalJSON(data []byte) error {
	var tmp expirationJSON
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	set := 0
	if tmp.AtHeight != nil {
		*e = AtHeight(*tmp.AtHeight)
		set++
	}
	if tmp.AtTime != nil {
		*e = AtTime(*tmp.AtTime)
		set++
	}
	if tmp.Never != nil {
		*e = Never()
		set++
	}
	if set != 1 {
		return errors.New(
			"expiration must specify exactly one of at_height, at_time or never",
		)
	}
	return nil
}
