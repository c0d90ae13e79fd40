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

package state

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/gouroboros/cbor"
	"github.com/public-awesome/badges/database/types"
)

// Map holds values of type V keyed by a numeric id, iterated in ascending
// id order
type Map[V any] struct {
	name   string
	prefix string
}

type Entry[V any] struct {
	ID    uint64
	Value V
}

func NewMap[V any](name string, prefix string) Map[V] {
	return Map[V]{name: name, prefix: prefix}
}

func (m Map[V]) key(id uint64) []byte {
	return types.IDKey(m.prefix, id)
}

func (m Map[V]) Load(s Store, id uint64) (V, error) {
	var ret V
	val, err := s.Get(m.key(id))
	if err != nil {
		if errors.Is(err, types.ErrBlobKeyNotFound) {
			return ret, fmt.Errorf("%s %d: %w", m.name, id, ErrNotFound)
		}
		return ret, fmt.Errorf("load %s %d: %w", m.name, id, err)
	}
	if _, err := cbor.Decode(val, &ret); err != nil {
		return ret, fmt.Errorf("decode %s %d: %w", m.name, id, err)
	}
	return ret, nil
}

func (m Map[V]) Has(s Store, id uint64) (bool, error) {
	_, err := s.Get(m.key(id))
	if err != nil {
		if errors.Is(err, types.ErrBlobKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (m Map[V]) Save(s Store, id uint64, val V) error {
	data, err := cbor.Encode(val)
	if err != nil {
		return fmt.Errorf("encode %s %d: %w", m.name, id, err)
	}
	return s.Set(m.key(id), data)
}

// Range returns up to limit entries in ascending id order, starting after
// startAfter when it is not nil
func (m Map[V]) Range(s Store, startAfter *uint64, limit int) ([]Entry[V], error) {
	prefix := []byte(m.prefix)
	it := s.NewIterator(types.BlobIteratorOptions{Prefix: prefix})
	defer it.Close()
	if startAfter != nil {
		it.Seek(m.key(*startAfter))
	} else {
		it.Seek(prefix)
	}
	ret := []Entry[V]{}
	for ; it.ValidForPrefix(prefix) && len(ret) < limit; it.Next() {
		item := it.Item()
		id, ok := types.BytesToUint64(item.Key()[len(prefix):])
		if !ok {
			return nil, fmt.Errorf("%s: malformed key %x", m.name, item.Key())
		}
		if startAfter != nil && id <= *startAfter {
			continue
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		var tmp V
		if _, err := cbor.Decode(val, &tmp); err != nil {
			return nil, fmt.Errorf("decode %s %d: %w", m.name, id, err)
		}
		ret = append(ret, Entry[V]{ID: id, Value: tmp})
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}
