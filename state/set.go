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

	"github.com/public-awesome/badges/database/types"
)

// Set records membership of (id, member) pairs. Members of the same id are
// iterated in ascending byte order.
type Set struct {
	name   string
	prefix string
}

func NewSet(name string, prefix string) Set {
	return Set{name: name, prefix: prefix}
}

// Insert adds a member and reports whether it was newly added
func (s Set) Insert(st Store, id uint64, member string) (bool, error) {
	ok, err := s.Contains(st, id, member)
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}
	if err := st.Set(types.MemberKey(s.prefix, id, member), []byte{}); err != nil {
		return false, fmt.Errorf("insert %s: %w", s.name, err)
	}
	return true, nil
}

func (s Set) Remove(st Store, id uint64, member string) error {
	if err := st.Delete(types.MemberKey(s.prefix, id, member)); err != nil {
		return fmt.Errorf("remove %s: %w", s.name, err)
	}
	return nil
}

func (s Set) Contains(st Store, id uint64, member string) (bool, error) {
	_, err := st.Get(types.MemberKey(s.prefix, id, member))
	if err != nil {
		if errors.Is(err, types.ErrBlobKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load %s: %w", s.name, err)
	}
	return true, nil
}

// Range returns up to limit members of id in ascending order. An empty
// startAfter starts from the first member, otherwise iteration starts after
// it.
func (s Set) Range(st Store, id uint64, startAfter string, limit int) ([]string, error) {
	prefix := types.IDKey(s.prefix, id)
	it := st.NewIterator(types.BlobIteratorOptions{Prefix: prefix})
	defer it.Close()
	it.Seek(types.MemberKey(s.prefix, id, startAfter))
	ret := []string{}
	for ; it.ValidForPrefix(prefix) && len(ret) < limit; it.Next() {
		member := string(it.Item().Key()[len(prefix):])
		if startAfter != "" && member <= startAfter {
			continue
		}
		ret = append(ret, member)
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}
