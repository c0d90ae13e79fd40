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
	"encoding/json"
	"slices"
)

// SortedSet is an ordered collection of unique strings
type SortedSet struct {
	items []string
}

func NewSortedSet(items ...string) SortedSet {
	tmp := slices.Clone(items)
	slices.Sort(tmp)
	return SortedSet{items: slices.Compact(tmp)}
}

// Items returns the members in ascending order
func (s SortedSet) Items() []string {
	return s.items
}

func (s SortedSet) Len() int {
	return len(s.items)
}

func (s SortedSet) MarshalJSON() ([]byte, error) {
	if s.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.items)
}

func (s *SortedSet) UnmarshalJSON(data []byte) error {
	var tmp []string
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*s = NewSortedSet(tmp...)
	return nil
}
