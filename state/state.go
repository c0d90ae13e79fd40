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

// Package state provides typed storage slots on top of the ordered
// key-value store supplied by the host
package state

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/gouroboros/cbor"
	"github.com/public-awesome/badges/database/types"
)

// ErrNotFound is returned when a slot or map entry has never been written
var ErrNotFound = errors.New("not found")

// Store is an ordered key-value store scoped to a single transaction.
// Writes become visible to later reads within the same transaction and are
// committed or discarded together by the host.
type Store interface {
	Get(key []byte) ([]byte, error)
	Set(key, val []byte) error
	Delete(key []byte) error
	NewIterator(opts types.BlobIteratorOptions) types.BlobIterator
}

// Item is a singleton slot holding a value of type T
type Item[T any] struct {
	name string
	key  []byte
}

func NewItem[T any](name string) Item[T] {
	return Item[T]{name: name, key: types.ContractKey(name)}
}

// NewHostItem returns a slot in the host's key space, outside the registry
// state
func NewHostItem[T any](name string) Item[T] {
	return Item[T]{name: name, key: types.HostKey(name)}
}

func (i Item[T]) Name() string {
	return i.name
}

// Load returns the stored value or an error wrapping ErrNotFound
func (i Item[T]) Load(s Store) (T, error) {
	ret, ok, err := i.MayLoad(s)
	if err != nil {
		return ret, err
	}
	if !ok {
		return ret, fmt.Errorf("%s: %w", i.name, ErrNotFound)
	}
	return ret, nil
}

// MayLoad returns the stored value and whether it exists
func (i Item[T]) MayLoad(s Store) (T, bool, error) {
	var ret T
	val, err := s.Get(i.key)
	if err != nil {
		if errors.Is(err, types.ErrBlobKeyNotFound) {
			return ret, false, nil
		}
		return ret, false, fmt.Errorf("load %s: %w", i.name, err)
	}
	if _, err := cbor.Decode(val, &ret); err != nil {
		return ret, false, fmt.Errorf("decode %s: %w", i.name, err)
	}
	return ret, true, nil
}

func (i Item[T]) Save(s Store, val T) error {
	data, err := cbor.Encode(val)
	if err != nil {
		return fmt.Errorf("encode %s: %w", i.name, err)
	}
	return s.Set(i.key, data)
}

func (i Item[T]) Remove(s Store) error {
	return s.Delete(i.key)
}
