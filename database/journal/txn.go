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

package journal

import (
	"errors"

	"github.com/public-awesome/badges/database/types"
	"gorm.io/gorm"
)

// gormTxn wraps a GORM transaction and implements types.Txn
type gormTxn struct {
	store    *JournalStore
	tx       *gorm.DB
	finished bool
}

func (t *gormTxn) Commit() error {
	if t.finished {
		return nil
	}
	t.finished = true
	return t.tx.Commit().Error
}

func (t *gormTxn) Rollback() error {
	if t.finished {
		return nil
	}
	t.finished = true
	return t.tx.Rollback().Error
}

// Transaction creates a new database transaction.
func (d *JournalStore) Transaction() types.Txn {
	return &gormTxn{store: d, tx: d.DB().Begin()}
}

// resolveDB returns the GORM handle for txn, or the base handle when txn is
// nil
func (d *JournalStore) resolveDB(txn types.Txn) (*gorm.DB, error) {
	if txn == nil {
		return d.DB(), nil
	}
	tmpTxn, ok := txn.(*gormTxn)
	if !ok {
		return nil, types.ErrTxnWrongType
	}
	if tmpTxn.store != d {
		return nil, errors.New("transaction from different store")
	}
	if tmpTxn.finished {
		return nil, errors.New("transaction already finished")
	}
	if tmpTxn.tx.Error != nil {
		return nil, tmpTxn.tx.Error
	}
	return tmpTxn.tx, nil
}
