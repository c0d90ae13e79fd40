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

// Package secp256k1 provides the signature primitives used to verify badge
// claims and to produce them in off-chain tooling
package secp256k1

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

const (
	HashLength      = 32
	SignatureLength = 64
)

var (
	ErrInvalidHashFormat      = errors.New("invalid hash format")
	ErrInvalidSignatureFormat = errors.New("invalid signature format")
	ErrInvalidPubkeyFormat    = errors.New("invalid public key format")
)

// Hash returns the SHA-256 digest of msg
func Hash(msg []byte) []byte {
	tmp := sha256.Sum256(msg)
	return tmp[:]
}

// ParsePubkey parses a compressed (33 byte) or uncompressed (65 byte)
// public key
func ParsePubkey(pubkey []byte) (*secp256k1.PublicKey, error) {
	switch len(pubkey) {
	case secp256k1.PubKeyBytesLenCompressed, secp256k1.PubKeyBytesLenUncompressed:
	default:
		return nil, fmt.Errorf(
			"%w: unexpected length %d",
			ErrInvalidPubkeyFormat,
			len(pubkey),
		)
	}
	key, err := secp256k1.ParsePubKey(pubkey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPubkeyFormat, err)
	}
	return key, nil
}

// Verify checks a 64 byte compact (r || s) signature over msgHash. Malformed
// inputs return an error, while a well-formed signature that does not match
// returns false. A high S value is normalized to its low form before
// verifying, so both encodings of a signature are accepted.
func Verify(msgHash, signature, pubkey []byte) (bool, error) {
	if len(msgHash) != HashLength {
		return false, fmt.Errorf(
			"%w: expected %d bytes, got %d",
			ErrInvalidHashFormat,
			HashLength,
			len(msgHash),
		)
	}
	if len(signature) != SignatureLength {
		return false, fmt.Errorf(
			"%w: expected %d bytes, got %d",
			ErrInvalidSignatureFormat,
			SignatureLength,
			len(signature),
		)
	}
	key, err := ParsePubkey(pubkey)
	if err != nil {
		return false, err
	}
	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(signature[:32]); overflow || r.IsZero() {
		return false, fmt.Errorf("%w: invalid r value", ErrInvalidSignatureFormat)
	}
	if overflow := s.SetByteSlice(signature[32:]); overflow || s.IsZero() {
		return false, fmt.Errorf("%w: invalid s value", ErrInvalidSignatureFormat)
	}
	if s.IsOverHalfOrder() {
		s.Negate()
	}
	return ecdsa.NewSignature(&r, &s).Verify(msgHash, key), nil
}

// SigningKey is a claim key held by a badge manager
type SigningKey struct {
	key *secp256k1.PrivateKey
}

// GenerateSigningKey creates a new random signing key
func GenerateSigningKey() (*SigningKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	return &SigningKey{key: key}, nil
}

// SigningKeyFromBytes loads a 32 byte private key
func SigningKeyFromBytes(data []byte) (*SigningKey, error) {
	if len(data) != secp256k1.PrivKeyBytesLen {
		return nil, fmt.Errorf(
			"invalid private key length: expected %d bytes, got %d",
			secp256k1.PrivKeyBytesLen,
			len(data),
		)
	}
	key := secp256k1.PrivKeyFromBytes(data)
	if key.Key.IsZero() {
		return nil, errors.New("invalid private key: zero scalar")
	}
	return &SigningKey{key: key}, nil
}

func SigningKeyFromHex(data string) (*SigningKey, error) {
	tmp, err := hex.DecodeString(data)
	if err != nil {
		return nil, err
	}
	return SigningKeyFromBytes(tmp)
}

// Bytes returns the raw private key
func (k *SigningKey) Bytes() []byte {
	return k.key.Serialize()
}

// Pubkey returns the compressed public key
func (k *SigningKey) Pubkey() []byte {
	return k.key.PubKey().SerializeCompressed()
}

func (k *SigningKey) PubkeyHex() string {
	return hex.EncodeToString(k.Pubkey())
}

// Sign returns a 64 byte compact (r || s) signature over the SHA-256 hash of
// msg. The signature is deterministic and always has a low S value.
func (k *SigningKey) Sign(msg []byte) []byte {
	// The first byte of a compact signature is the recovery code
	sig := ecdsa.SignCompact(k.key, Hash(msg), true)
	return sig[1:]
}
