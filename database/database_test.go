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

package database_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/public-awesome/badges/database"
	"github.com/public-awesome/badges/database/models"
	"github.com/public-awesome/badges/database/types"
)

func newTestDatabase(t *testing.T, dataDir string) *database.Database {
	t.Helper()
	db, err := database.New(&database.Config{DataDir: dataDir})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})
	return db
}

func TestTxnDoCommit(t *testing.T) {
	db := newTestDatabase(t, "")
	txn := db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		if err := txn.Set([]byte("c:test"), []byte("value")); err != nil {
			return err
		}
		return txn.RecordOperation(&models.Operation{
			Action: "test",
			Mints: []models.Mint{
				{TokenID: "1|1", Owner: "larry", BadgeID: 1, Serial: 1},
			},
		})
	})
	require.NoError(t, err)
	readTxn := database.NewBlobOnlyTxn(db, false)
	defer readTxn.Release()
	val, err := readTxn.Get([]byte("c:test"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), val)
	mint, err := db.Metadata().GetMint("1|1", nil)
	require.NoError(t, err)
	require.NotNil(t, mint)
	assert.Equal(t, "larry", mint.Owner)
}

func TestTxnDoRollback(t *testing.T) {
	db := newTestDatabase(t, "")
	testErr := errors.New("test error")
	txn := db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		if err := txn.Set([]byte("c:test"), []byte("value")); err != nil {
			return err
		}
		return testErr
	})
	require.ErrorIs(t, err, testErr)
	readTxn := database.NewBlobOnlyTxn(db, false)
	defer readTxn.Release()
	_, err = readTxn.Get([]byte("c:test"))
	require.ErrorIs(t, err, types.ErrBlobKeyNotFound)
}

func TestTxnReadOnly(t *testing.T) {
	db := newTestDatabase(t, "")
	txn := database.NewBlobOnlyTxn(db, false)
	defer txn.Release()
	require.ErrorIs(t, txn.Set([]byte("c:test"), []byte("value")), database.ErrReadOnlyTxn)
	require.ErrorIs(t, txn.Delete([]byte("c:test")), database.ErrReadOnlyTxn)
}

func TestCommitTimestampLockstep(t *testing.T) {
	dataDir := t.TempDir()
	db, err := database.New(&database.Config{DataDir: dataDir})
	require.NoError(t, err)
	txn := db.Transaction(true)
	require.NoError(t, txn.Do(func(txn *database.Txn) error {
		return txn.Set([]byte("c:test"), []byte("value"))
	}))
	blobTs, err := db.Blob().GetCommitTimestamp()
	require.NoError(t, err)
	metadataTs, err := db.Metadata().GetCommitTimestamp()
	require.NoError(t, err)
	assert.Positive(t, blobTs)
	assert.Equal(t, blobTs, metadataTs)
	require.NoError(t, db.Close())

	// Reopening succeeds when both stores agree
	db, err = database.New(&database.Config{DataDir: dataDir})
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestCommitTimestampMismatch(t *testing.T) {
	dataDir := t.TempDir()
	db, err := database.New(&database.Config{DataDir: dataDir})
	require.NoError(t, err)
	// Advance the journal timestamp without touching state
	metaTxn := db.Metadata().Transaction()
	require.NoError(t, db.Metadata().SetCommitTimestamp(12345, metaTxn))
	require.NoError(t, metaTxn.Commit())
	require.NoError(t, db.Close())

	db, err = database.New(&database.Config{DataDir: dataDir})
	require.Error(t, err)
	var tsErr database.CommitTimestampError
	require.ErrorAs(t, err, &tsErr)
	assert.Equal(t, int64(12345), tsErr.JournalTimestamp)
	require.NotNil(t, db)
	require.NoError(t, db.Close())
}

func TestBackupRestore(t *testing.T) {
	src := newTestDatabase(t, "")
	err := src.Transaction(true).Do(func(txn *database.Txn) error {
		if err := txn.Set([]byte("c:badge"), []byte("value")); err != nil {
			return err
		}
		return txn.RecordOperation(&models.Operation{Action: "create_badge"})
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, src.Backup(&buf))
	require.NotZero(t, buf.Len())

	// A database with committed state refuses the snapshot
	require.ErrorIs(
		t,
		src.Restore(bytes.NewReader(buf.Bytes())),
		database.ErrSnapshotNotEmpty,
	)

	dst := newTestDatabase(t, t.TempDir())
	require.NoError(t, dst.Restore(bytes.NewReader(buf.Bytes())))
	readTxn := database.NewBlobOnlyTxn(dst, false)
	defer readTxn.Release()
	val, err := readTxn.Get([]byte("c:badge"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), val)
	ops, err := dst.Metadata().GetOperations(nil, 10, nil)
	require.NoError(t, err)
	assert.Empty(t, ops)
}
