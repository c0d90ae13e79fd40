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
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const tokenIDSeparator = "|"

var ErrInvalidTokenID = errors.New("invalid token id")

// TokenID returns the NFT token id for an instance of a badge
func TokenID(id, serial uint64) string {
	return strconv.FormatUint(id, 10) + tokenIDSeparator + strconv.FormatUint(serial, 10)
}

// ParseTokenID splits a token id produced by TokenID
func ParseTokenID(tokenID string) (uint64, uint64, error) {
	idStr, serialStr, ok := strings.Cut(tokenID, tokenIDSeparator)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTokenID, tokenID)
	}
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %w", ErrInvalidTokenID, tokenID, err)
	}
	serial, err := strconv.ParseUint(serialStr, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %w", ErrInvalidTokenID, tokenID, err)
	}
	return id, serial, nil
}

// ClaimMessage returns the message a claim key signs to authorize minting
// badge id to user
func ClaimMessage(id uint64, user string) string {
	return fmt.Sprintf("claim badge %d for user %s", id, user)
}
