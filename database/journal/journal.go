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
	"fmt"

	"github.com/public-awesome/badges/database/models"
	"github.com/public-awesome/badges/database/types"
	"gorm.io/gorm"
)

// AddOperation records an operation along with its mints and fee payment
func (d *JournalStore) AddOperation(
	op *models.Operation,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	if result := db.Create(op); result.Error != nil {
		return fmt.Errorf("create operation: %w", result.Error)
	}
	d.observeOperation(op)
	return nil
}

// GetMint returns the mint record for a token id, or nil if it does not exist
func (d *JournalStore) GetMint(
	tokenID string,
	txn types.Txn,
) (*models.Mint, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	ret := &models.Mint{}
	result := db.Where("token_id = ?", tokenID).First(ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetMintsByBadge returns up to limit mints of a badge in the order they
// were recorded, starting after the given record id
func (d *JournalStore) GetMintsByBadge(
	badgeID uint64,
	afterID uint,
	limit int,
	txn types.Txn,
) ([]models.Mint, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	var ret []models.Mint
	result := db.
		Where("badge_id = ? AND id > ?", types.Uint64(badgeID), afterID).
		Order("id").
		Limit(limit).
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// GetMintsByOwner returns up to limit mints received by owner
func (d *JournalStore) GetMintsByOwner(
	owner string,
	afterID uint,
	limit int,
	txn types.Txn,
) ([]models.Mint, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	var ret []models.Mint
	result := db.
		Where("owner = ? AND id > ?", owner, afterID).
		Order("id").
		Limit(limit).
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// GetOperations returns up to limit of the most recent operations, newest
// first, optionally restricted to one badge
func (d *JournalStore) GetOperations(
	badgeID *uint64,
	limit int,
	txn types.Txn,
) ([]models.Operation, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	query := db.Preload("Mints").Preload("FeePayment")
	if badgeID != nil {
		query = query.Where("badge_id = ?", types.Uint64(*badgeID))
	}
	var ret []models.Operation
	result := query.Order("id DESC").Limit(limit).Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}
