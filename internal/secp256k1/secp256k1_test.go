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

package secp256k1_test

import (
	"encoding/hex"
	"testing"

	dsecp "github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/public-awesome/badges/internal/secp256k1"
)

const (
	testPrivkeyHex = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	// ed25519 ssh public key blob, not a secp256k1 key
	testInvalidKeyHex = "0000000b7373682d6564323535313900000020060892d88619ba6f56bc2ec5f1daec09529fbfc4f7a6723006f19e724c3deea5"
)

func TestHash(t *testing.T) {
	assert.Equal(
		t,
		"d7a8fbb307d7809469ca9abcb0082e4f8d5651e46d3cdb762d02d0bf37c9e592",
		hex.EncodeToString(secp256k1.Hash([]byte("The quick brown fox jumps over the lazy dog"))),
	)
}

func TestSignVerify(t *testing.T) {
	key, err := secp256k1.SigningKeyFromHex(testPrivkeyHex)
	require.NoError(t, err)
	msg := []byte("claim badge 1 for user larry")
	sig := key.Sign(msg)
	require.Len(t, sig, secp256k1.SignatureLength)
	ok, err := secp256k1.Verify(secp256k1.Hash(msg), sig, key.Pubkey())
	require.NoError(t, err)
	assert.True(t, ok)
	// Signature over a different message
	ok, err = secp256k1.Verify(
		secp256k1.Hash([]byte("claim badge 1 for user jake")),
		sig,
		key.Pubkey(),
	)
	require.NoError(t, err)
	assert.False(t, ok)
	// Different key
	other, err := secp256k1.GenerateSigningKey()
	require.NoError(t, err)
	ok, err = secp256k1.Verify(secp256k1.Hash(msg), sig, other.Pubkey())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyHighS(t *testing.T) {
	key, err := secp256k1.SigningKeyFromHex(testPrivkeyHex)
	require.NoError(t, err)
	msg := []byte("claim badge 2 for user jake")
	sig := key.Sign(msg)
	var s dsecp.ModNScalar
	require.False(t, s.SetByteSlice(sig[32:]))
	require.False(t, s.IsOverHalfOrder())
	highS := s.Negate().Bytes()
	highSig := append(append([]byte{}, sig[:32]...), highS[:]...)
	require.NotEqual(t, sig, highSig)
	ok, err := secp256k1.Verify(secp256k1.Hash(msg), highSig, key.Pubkey())
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = secp256k1.Verify(
		secp256k1.Hash([]byte("claim badge 2 for user larry")),
		highSig,
		key.Pubkey(),
	)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyMalformed(t *testing.T) {
	key, err := secp256k1.SigningKeyFromHex(testPrivkeyHex)
	require.NoError(t, err)
	msg := []byte("hello")
	sig := key.Sign(msg)
	_, err = secp256k1.Verify([]byte{1, 2, 3}, sig, key.Pubkey())
	require.ErrorIs(t, err, secp256k1.ErrInvalidHashFormat)
	_, err = secp256k1.Verify(secp256k1.Hash(msg), sig[:63], key.Pubkey())
	require.ErrorIs(t, err, secp256k1.ErrInvalidSignatureFormat)
	invalidKey, err := hex.DecodeString(testInvalidKeyHex)
	require.NoError(t, err)
	_, err = secp256k1.Verify(secp256k1.Hash(msg), sig, invalidKey)
	require.ErrorIs(t, err, secp256k1.ErrInvalidPubkeyFormat)
}

func TestParsePubkey(t *testing.T) {
	for _, keyHex := range []string{
		"026f476708bd8fcc8a58bae717ee6922cdefd7917492dbc1a4c2f96d22ba30e470",
		"03858cd06aadf3e26b05bc3d5ceacae2fb1ea4027b2c63730e3de39abea255ee8c",
	} {
		tmp, err := hex.DecodeString(keyHex)
		require.NoError(t, err)
		_, err = secp256k1.ParsePubkey(tmp)
		require.NoError(t, err, keyHex)
	}
	tmp, err := hex.DecodeString(testInvalidKeyHex)
	require.NoError(t, err)
	_, err = secp256k1.ParsePubkey(tmp)
	require.ErrorIs(t, err, secp256k1.ErrInvalidPubkeyFormat)
}

func TestSigningKeyFromBytesInvalid(t *testing.T) {
	_, err := secp256k1.SigningKeyFromBytes(make([]byte, 31))
	require.Error(t, err)
	_, err = secp256k1.SigningKeyFromBytes(make([]byte, 32))
	require.Error(t, err)
}
