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

package keystore

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/blinklabs-io/gouroboros/cbor"

	"github.com/public-awesome/badges/internal/secp256k1"
)

const (
	// SigningKeyType is the envelope type of a claim signing key file
	SigningKeyType = "ClaimSigningKeySecp256k1"
	// VerificationKeyType is the envelope type of a claim public key file
	VerificationKeyType = "ClaimVerificationKeySecp256k1"

	SigningKeyExt      = ".skey"
	VerificationKeyExt = ".vkey"

	// Valid key files are well under this size
	maxKeyFileSize = 1 << 20
)

// keyFileEnvelope is the JSON structure of a key file. The key bytes are
// stored CBOR encoded and hex wrapped.
type keyFileEnvelope struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	CborHex     string `json:"cborHex"`
}

// loadedKey holds the parsed contents of a key file
type loadedKey struct {
	Type        string
	Description string
	// SKey is only set for signing key files
	SKey   *secp256k1.SigningKey
	Pubkey []byte
}

// loadKeyFromFile loads a claim signing key. It returns ErrInsecureFileMode
// if the file is readable by anyone but its owner.
//
// Permissions are checked on the open handle so the file cannot be swapped
// between the check and the read.
func loadKeyFromFile(path string) (*loadedKey, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open key file %q: %w", path, err)
	}
	defer f.Close()

	if err := checkOpenFilePermissions(f); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(f, maxKeyFileSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read key file %q: %w", path, err)
	}
	if isEncrypted(data) {
		data, err = decryptKeyFile(data)
		if err != nil {
			return nil, fmt.Errorf("key file %q: %w", path, err)
		}
	}
	key, err := parseKeyEnvelope(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse key file %q: %w", path, err)
	}
	if key.SKey == nil {
		return nil, fmt.Errorf(
			"key file %q: expected %s, got %s",
			path,
			SigningKeyType,
			key.Type,
		)
	}
	return key, nil
}

// parseKeyEnvelope decodes a key file of either type
func parseKeyEnvelope(fileBytes []byte) (*loadedKey, error) {
	var env keyFileEnvelope
	if err := json.Unmarshal(fileBytes, &env); err != nil {
		return nil, fmt.Errorf("could not parse key file envelope: %w", err)
	}
	cborData, err := hex.DecodeString(env.CborHex)
	if err != nil {
		return nil, fmt.Errorf("could not decode key from hex: %w", err)
	}
	var keyBytes []byte
	if _, err := cbor.Decode(cborData, &keyBytes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal key CBOR: %w", err)
	}
	lk := &loadedKey{
		Type:        env.Type,
		Description: env.Description,
	}
	switch env.Type {
	case SigningKeyType:
		sk, err := secp256k1.SigningKeyFromBytes(keyBytes)
		if err != nil {
			return nil, err
		}
		// Derive the pubkey rather than trusting file contents
		lk.SKey = sk
		lk.Pubkey = sk.Pubkey()
	case VerificationKeyType:
		if _, err := secp256k1.ParsePubkey(keyBytes); err != nil {
			return nil, err
		}
		lk.Pubkey = keyBytes
	default:
		return nil, fmt.Errorf("unknown key type: %s", env.Type)
	}
	return lk, nil
}

func encodeKeyEnvelope(keyType, description string, keyBytes []byte) ([]byte, error) {
	cborData, err := cbor.Encode(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode key CBOR: %w", err)
	}
	return json.MarshalIndent(
		keyFileEnvelope{
			Type:        keyType,
			Description: description,
			CborHex:     hex.EncodeToString(cborData),
		},
		"",
		"    ",
	)
}

// writeKeyFile writes a new file with owner-only permissions. Existing files
// are never overwritten.
func writeKeyFile(path string, data []byte, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrKeyExists, path)
		}
		return fmt.Errorf("failed to create key file %q: %w", path, err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("failed to write key file %q: %w", path, err)
	}
	return f.Close()
}
