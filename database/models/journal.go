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

package models

import "github.com/public-awesome/badges/database/types"

// Operation records a committed registry operation
type Operation struct {
	FeePayment *FeePayment  `gorm:"foreignKey:OperationID;references:ID;constraint:OnDelete:CASCADE"`
	Mints      []Mint       `gorm:"foreignKey:OperationID;references:ID;constraint:OnDelete:CASCADE"`
	Action     string       `gorm:"index"`
	Sender     string       `gorm:"index"`
	ID         uint         `gorm:"primaryKey"`
	BadgeID    types.Uint64 `gorm:"index"`

	// JSON encoded response attributes
	Attributes []byte
	Height     types.Uint64
	Time       types.Uint64
}

func (Operation) TableName() string {
	return "operation"
}

// Mint records an NFT mint instruction emitted for a badge instance
type Mint struct {
	TokenID     string       `gorm:"uniqueIndex"`
	Owner       string       `gorm:"index"`
	ID          uint         `gorm:"primaryKey"`
	OperationID uint         `gorm:"index"`
	BadgeID     types.Uint64 `gorm:"index"`

	Contract string
	Serial   types.Uint64
}

func (Mint) TableName() string {
	return "mint"
}

// FeePayment records a metered fee and how it was distributed
type FeePayment struct {
	Payer       string `gorm:"index"`
	ID          uint   `gorm:"primaryKey"`
	OperationID uint   `gorm:"uniqueIndex"`

	Denom           string
	Amount          types.Uint64
	DeveloperAmount types.Uint64
	BurnAmount      types.Uint64
	PoolAmount      types.Uint64
}

func (FeePayment) TableName() string {
	return "fee_payment"
}
