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

package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
)

// Uint64 is a badge id, serial or height column. It is stored as text since
// SQL integers are signed.
//
//nolint:recvcheck
type Uint64 uint64

func (u Uint64) Value() (driver.Value, error) {
	return strconv.FormatUint(uint64(u), 10), nil
}

func (u *Uint64) Scan(val any) error {
	var v string
	switch tmp := val.(type) {
	case string:
		v = tmp
	case []byte:
		v = string(tmp)
	case int64:
		// Integer column affinity converts small values on write
		if tmp < 0 {
			return fmt.Errorf("negative value for unsigned column: %d", tmp)
		}
		*u = Uint64(tmp)
		return nil
	default:
		return fmt.Errorf("unexpected type %T for unsigned column", val)
	}
	tmpUint, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return err
	}
	*u = Uint64(tmpUint)
	return nil
}

var (
	// ErrBlobKeyNotFound means the state store has no value for the key
	ErrBlobKeyNotFound = errors.New("blob key not found")
	// ErrTxnWrongType means a transaction from another store was passed in
	ErrTxnWrongType = errors.New("invalid transaction type")
	ErrNilTxn       = errors.New("nil transaction")
	// ErrNoStoreAvailable means a read-write transaction has neither the
	// state nor the journal store to write to
	ErrNoStoreAvailable     = errors.New("no store available")
	ErrBlobStoreUnavailable = errors.New("blob store unavailable")
)

// BlobItem is a key and value found by a BlobIterator
type BlobItem interface {
	Key() []byte
	ValueCopy(dst []byte) ([]byte, error)
}

// BlobIterator walks state keys in byte order. Items are only valid until the
// transaction that created the iterator finishes.
type BlobIterator interface {
	Rewind()
	Seek(prefix []byte)
	Valid() bool
	ValidForPrefix(prefix []byte) bool
	Next()
	Item() BlobItem
	Close()
	Err() error
}

type BlobIteratorOptions struct {
	Prefix  []byte
	Reverse bool
}

// Txn is the handle of a single store's transaction. database.Txn commits
// the state and journal transactions together.
type Txn interface {
	Commit() error
	Rollback() error
}
