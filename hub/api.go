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
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/public-awesome/badges/badge"
	"github.com/public-awesome/badges/internal/secp256k1"
)

var ErrInvalidAddress = errors.New("invalid address")

// API is the set of primitives the host provides to the registry
type API interface {
	// AddrValidate checks that addr is a canonical account address for the
	// host chain
	AddrValidate(addr string) (badge.Addr, error)
	// Secp256k1Verify checks a 64-byte compact signature over a 32-byte
	// message hash. Malformed inputs return an error, a well-formed signature
	// that does not verify returns false.
	Secp256k1Verify(msgHash, signature, pubkey []byte) (bool, error)
}

// DefaultAPI validates bech32 account addresses with the configured
// human-readable prefix
type DefaultAPI struct {
	Prefix string
}

func (a DefaultAPI) AddrValidate(addr string) (badge.Addr, error) {
	if addr == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidAddress)
	}
	if strings.ToLower(addr) != addr {
		return "", fmt.Errorf("%w: %s: not normalized", ErrInvalidAddress, addr)
	}
	hrp, data, err := bech32.DecodeToBase256(addr)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvalidAddress, addr, err)
	}
	if hrp != a.Prefix {
		return "", fmt.Errorf(
			"%w: %s: unexpected prefix %q",
			ErrInvalidAddress,
			addr,
			hrp,
		)
	}
	// 20 bytes for accounts, 32 bytes for contracts
	if len(data) != 20 && len(data) != 32 {
		return "", fmt.Errorf(
			"%w: %s: unexpected length %d",
			ErrInvalidAddress,
			addr,
			len(data),
		)
	}
	return badge.Addr(addr), nil
}

func (a DefaultAPI) Secp256k1Verify(
	msgHash, signature, pubkey []byte,
) (bool, error) {
	return secp256k1.Verify(msgHash, signature, pubkey)
}
