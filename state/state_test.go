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

package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/public-awesome/badges/badge"
	"github.com/public-awesome/badges/database"
	"github.com/public-awesome/badges/state"
)

func newTestStore(t *testing.T) state.Store {
	t.Helper()
	db, err := database.New(nil)
	require.NoError(t, err)
	txn := database.NewBlobOnlyTxn(db, true)
	t.Cleanup(func() {
		txn.Release()
		require.NoError(t, db.Close())
	})
	return txn
}

func TestItem(t *testing.T) {
	store := newTestStore(t)
	counter := state.NewItem[uint64]("badge_count")
	_, err := counter.Load(store)
	require.ErrorIs(t, err, state.ErrNotFound)
	_, ok, err := counter.MayLoad(store)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, counter.Save(store, 42))
	val, err := counter.Load(store)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), val)
	require.NoError(t, counter.Remove(store))
	_, ok, err = counter.MayLoad(store)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMap(t *testing.T) {
	store := newTestStore(t)
	badges := state.NewMap[badge.Badge]("badge", "b")
	_, err := badges.Load(store, 1)
	require.ErrorIs(t, err, state.ErrNotFound)
	for id := uint64(1); id <= 5; id++ {
		require.NoError(t, badges.Save(store, id, badge.Badge{
			Manager:       "jake",
			Rule:          badge.ByKeys{},
			CurrentSupply: id,
		}))
	}
	// An id that would sort first as a string must still sort last
	require.NoError(t, badges.Save(store, 256, badge.Badge{
		Manager: "jake",
		Rule:    badge.ByKeys{},
	}))
	has, err := badges.Has(store, 3)
	require.NoError(t, err)
	assert.True(t, has)
	entries, err := badges.Range(store, nil, 10)
	require.NoError(t, err)
	require.Len(t, entries, 6)
	assert.Equal(t, uint64(256), entries[5].ID)
	startAfter := uint64(2)
	entries, err = badges.Range(store, &startAfter, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint64(3), entries[0].ID)
	assert.Equal(t, uint64(3), entries[0].Value.CurrentSupply)
	assert.Equal(t, uint64(4), entries[1].ID)
	startAfter = 256
	entries, err = badges.Range(store, &startAfter, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSet(t *testing.T) {
	store := newTestStore(t)
	owners := state.NewSet("owner", "o")
	added, err := owners.Insert(store, 1, "bob")
	require.NoError(t, err)
	assert.True(t, added)
	added, err = owners.Insert(store, 1, "bob")
	require.NoError(t, err)
	assert.False(t, added)
	for _, user := range []string{"dave", "alice", "carol"} {
		_, err := owners.Insert(store, 1, user)
		require.NoError(t, err)
	}
	// Members of another id are not visible
	_, err = owners.Insert(store, 2, "aaron")
	require.NoError(t, err)
	ok, err := owners.Contains(store, 1, "carol")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = owners.Contains(store, 2, "carol")
	require.NoError(t, err)
	assert.False(t, ok)

	members, err := owners.Range(store, 1, "", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol", "dave"}, members)
	members, err = owners.Range(store, 1, "bob", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"carol"}, members)
	// startAfter need not be a member
	members, err = owners.Range(store, 1, "bz", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"carol", "dave"}, members)

	require.NoError(t, owners.Remove(store, 1, "bob"))
	members, err = owners.Range(store, 1, "", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "carol", "dave"}, members)
}
