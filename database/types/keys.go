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

package types

import (
	"encoding/binary"
	"slices"
)

const (
	ContractKeyPrefix = "c:"
	BadgeKeyPrefix    = "b"
	KeyKeyPrefix      = "k"
	OwnerKeyPrefix    = "o"
	HostKeyPrefix     = "h:"
)

// Uint64ToBytes encodes input as big-endian so that numeric order matches
// byte order
func Uint64ToBytes(input uint64) []byte {
	ret := make([]byte, 8)
	binary.BigEndian.PutUint64(ret, input)
	return ret
}

// BytesToUint64 decodes a value produced by Uint64ToBytes
func BytesToUint64(input []byte) (uint64, bool) {
	if len(input) != 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(input), true
}

func ContractKey(name string) []byte {
	return []byte(ContractKeyPrefix + name)
}

func HostKey(name string) []byte {
	return []byte(HostKeyPrefix + name)
}

// IDKey builds a key of the form prefix + id
func IDKey(prefix string, id uint64) []byte {
	return slices.Concat([]byte(prefix), Uint64ToBytes(id))
}

// MemberKey builds a key of the form prefix + id + member
func MemberKey(prefix string, id uint64, member string) []byte {
	return slices.Concat([]byte(prefix), Uint64ToBytes(id), []byte(member))
}
