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

// Package keystore manages the claim keys badge managers use to authorize
// mints. Keys are kept in JSON envelope files, one key per file, named after
// the hex public key.
package keystore

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/public-awesome/badges/badge"
	"github.com/public-awesome/badges/internal/secp256k1"
)

const keyFileMode os.FileMode = 0o600

var (
	ErrKeyNotFound      = errors.New("key not found")
	ErrKeyExists        = errors.New("key file already exists")
	ErrInsecureFileMode = errors.New("insecure file permissions")
	ErrNotEnoughKeys    = errors.New("not enough keys for the requested claims")
)

// Claim is a signed authorization for one owner to mint one badge instance
type Claim struct {
	BadgeID   uint64 `json:"id"`
	Owner     string `json:"owner"`
	Pubkey    string `json:"pubkey"`
	Signature string `json:"signature"`
}

// KeyStoreConfig holds configuration for the KeyStore
type KeyStoreConfig struct {
	// Dir holds the key files. An empty Dir keeps keys in memory only.
	Dir    string
	Logger *slog.Logger
	// Encrypt stores new signing key files SOPS encrypted with the KMS
	// master keys named in the environment
	Encrypt bool
}

// KeyStore holds claim signing keys indexed by hex public key
type KeyStore struct {
	config KeyStoreConfig
	logger *slog.Logger
	mu     sync.RWMutex
	keys   map[string]*secp256k1.SigningKey
}

// NewKeyStore creates an empty KeyStore with the given configuration
func NewKeyStore(config KeyStoreConfig) *KeyStore {
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &KeyStore{
		config: config,
		logger: config.Logger.With("component", "keystore"),
		keys:   make(map[string]*secp256k1.SigningKey),
	}
}

// Generate creates count new keys and, if a directory is configured, saves
// each of them. It returns the new public keys in hex.
func (ks *KeyStore) Generate(count int, description string) ([]string, error) {
	ret := make([]string, 0, count)
	for range count {
		sk, err := secp256k1.GenerateSigningKey()
		if err != nil {
			return ret, fmt.Errorf("failed to generate key: %w", err)
		}
		if ks.config.Dir != "" {
			if err := ks.save(sk, description); err != nil {
				return ret, err
			}
		}
		ks.mu.Lock()
		ks.keys[sk.PubkeyHex()] = sk
		ks.mu.Unlock()
		ret = append(ret, sk.PubkeyHex())
	}
	ks.logger.Info(
		"generated claim keys",
		"count", len(ret),
		"dir", ks.config.Dir,
	)
	return ret, nil
}

// save writes the signing key and its public key next to each other
func (ks *KeyStore) save(sk *secp256k1.SigningKey, description string) error {
	if err := os.MkdirAll(ks.config.Dir, 0o700); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}
	base := filepath.Join(ks.config.Dir, sk.PubkeyHex())
	skData, err := encodeKeyEnvelope(SigningKeyType, description, sk.Bytes())
	if err != nil {
		return err
	}
	if ks.config.Encrypt {
		skData, err = encryptKeyFile(skData)
		if err != nil {
			return err
		}
	}
	if err := writeKeyFile(base+SigningKeyExt, skData, keyFileMode); err != nil {
		return err
	}
	vkData, err := encodeKeyEnvelope(VerificationKeyType, description, sk.Pubkey())
	if err != nil {
		return err
	}
	return writeKeyFile(base+VerificationKeyExt, vkData, 0o644)
}

// LoadFile loads a single signing key file and returns its public key
func (ks *KeyStore) LoadFile(path string) (string, error) {
	lk, err := loadKeyFromFile(path)
	if err != nil {
		return "", err
	}
	pubkey := hex.EncodeToString(lk.Pubkey)
	ks.mu.Lock()
	ks.keys[pubkey] = lk.SKey
	ks.mu.Unlock()
	ks.logger.Debug("loaded claim key", "path", path, "pubkey", pubkey)
	return pubkey, nil
}

// LoadDir loads every signing key file in the configured directory
func (ks *KeyStore) LoadDir() (int, error) {
	if ks.config.Dir == "" {
		return 0, errors.New("no key directory configured")
	}
	entries, err := os.ReadDir(ks.config.Dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read key directory: %w", err)
	}
	count := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), SigningKeyExt) {
			continue
		}
		if _, err := ks.LoadFile(filepath.Join(ks.config.Dir, entry.Name())); err != nil {
			return count, err
		}
		count++
	}
	ks.logger.Info("loaded claim keys", "count", count, "dir", ks.config.Dir)
	return count, nil
}

// Pubkeys returns the hex public keys of all loaded keys in sorted order
func (ks *KeyStore) Pubkeys() []string {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	ret := make([]string, 0, len(ks.keys))
	for k := range ks.keys {
		ret = append(ret, k)
	}
	slices.Sort(ret)
	return ret
}

// SignClaim signs the claim message for badge id and owner with the key
// identified by pubkey
func (ks *KeyStore) SignClaim(pubkey string, id uint64, owner string) (Claim, error) {
	ks.mu.RLock()
	sk, ok := ks.keys[strings.ToLower(pubkey)]
	ks.mu.RUnlock()
	if !ok {
		return Claim{}, fmt.Errorf("%w: %s", ErrKeyNotFound, pubkey)
	}
	sig := sk.Sign([]byte(badge.ClaimMessage(id, owner)))
	return Claim{
		BadgeID:   id,
		Owner:     owner,
		Pubkey:    sk.PubkeyHex(),
		Signature: hex.EncodeToString(sig),
	}, nil
}

// SignClaims pairs each owner with a distinct key, in sorted key order, and
// signs one claim per owner. This matches the one-claim-per-key rule of
// whitelisted key badges.
func (ks *KeyStore) SignClaims(id uint64, owners []string) ([]Claim, error) {
	pubkeys := ks.Pubkeys()
	if len(owners) > len(pubkeys) {
		return nil, fmt.Errorf(
			"%w: %d owners, %d keys",
			ErrNotEnoughKeys,
			len(owners),
			len(pubkeys),
		)
	}
	ret := make([]Claim, 0, len(owners))
	for i, owner := range owners {
		claim, err := ks.SignClaim(pubkeys[i], id, owner)
		if err != nil {
			return nil, err
		}
		ret = append(ret, claim)
	}
	return ret, nil
}

// ReadPubkeyFile returns the hex public key stored in a key file of either
// type. Public key files are not permission checked.
func ReadPubkeyFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read key file %q: %w", path, err)
	}
	lk, err := parseKeyEnvelope(data)
	if err != nil {
		return "", fmt.Errorf("failed to parse key file %q: %w", path, err)
	}
	return hex.EncodeToString(lk.Pubkey), nil
}
