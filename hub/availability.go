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
	"github.com/public-awesome/badges/badge"
)

// AssertAvailable returns nil if amount more instances of b can be minted in
// block. The deadline is checked before the supply cap.
func AssertAvailable(b *badge.Badge, block badge.BlockInfo, amount uint64) error {
	if b.Expiry.IsExpired(block) {
		return ErrExpired
	}
	if remaining, capped := b.Remaining(); capped && amount > remaining {
		return ErrSoldOut
	}
	return nil
}

// AssertUnavailable returns nil if no further instance of b can be minted
func AssertUnavailable(b *badge.Badge, block badge.BlockInfo) error {
	if !IsUnavailable(b, block) {
		return ErrAvailable
	}
	return nil
}

func IsAvailable(b *badge.Badge, block badge.BlockInfo, amount uint64) bool {
	return AssertAvailable(b, block, amount) == nil
}

func IsUnavailable(b *badge.Badge, block badge.BlockInfo) bool {
	return !IsAvailable(b, block, 1)
}
