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

package hub

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSignature = errors.New("signature verification failed")
	ErrNotManager       = errors.New("unauthorized: sender is not badge manager")
	ErrNotMinter        = errors.New("unauthorized: sender is not badge minter")
	ErrNotDeveloper     = errors.New("unauthorized: sender is not developer")
	ErrAvailable        = errors.New(
		"expecting the badge to be unavailable but it is available",
	)
	ErrExpired       = errors.New("badge minting deadline has been exceeded")
	ErrSoldOut       = errors.New("badge max supply has been exceeded")
	ErrNftAlreadySet = errors.New("nft contract address has already been set")
	ErrNftNotSet     = errors.New("nft contract address has not been set")
	ErrInvalidPubkey = errors.New("invalid pubkey")
	ErrInvalidMsg    = errors.New("invalid message")
	ErrBadgeNotFound = errors.New("badge not found")
)

type InvalidReplyIDError struct {
	ID uint64
}

func (e InvalidReplyIDError) Error() string {
	return fmt.Sprintf("invalid reply id %d; must be %d", e.ID, nftReplyID)
}

type WrongMintRuleError struct {
	Expected string
	Found    string
}

func (e WrongMintRuleError) Error() string {
	return fmt.Sprintf(
		"wrong mint rule: expected %s, found %s",
		e.Expected,
		e.Found,
	)
}

type KeyExistsError struct {
	ID  uint64
	Key string
}

func (e KeyExistsError) Error() string {
	return fmt.Sprintf("key %s already exists for badge %d", e.Key, e.ID)
}

type KeyDoesNotExistError struct {
	ID uint64
}

func (e KeyDoesNotExistError) Error() string {
	return fmt.Sprintf("the provided key does not exist for badge %d", e.ID)
}

type AlreadyClaimedError struct {
	ID   uint64
	User string
}

func (e AlreadyClaimedError) Error() string {
	return fmt.Sprintf("user %s has already claimed badge %d", e.User, e.ID)
}

// HexError is returned when a hex encoded input cannot be decoded
type HexError struct {
	Field string
	Err   error
}

func (e HexError) Error() string {
	return fmt.Sprintf("invalid hex in %s: %s", e.Field, e.Err)
}

func (e HexError) Unwrap() error {
	return e.Err
}

// VerificationError is returned when the host's signature primitive rejects
// its inputs outright
type VerificationError struct {
	Err error
}

func (e VerificationError) Error() string {
	return fmt.Sprintf("signature verification error: %s", e.Err)
}

func (e VerificationError) Unwrap() error {
	return e.Err
}

type IncorrectContractNameError struct {
	Expected string
	Found    string
}

func (e IncorrectContractNameError) Error() string {
	return fmt.Sprintf(
		"incorrect contract name: expecting %s, found %s",
		e.Expected,
		e.Found,
	)
}

type IncorrectContractVersionError struct {
	Expected string
	Found    string
}

func (e IncorrectContractVersionError) Error() string {
	return fmt.Sprintf(
		"incorrect contract version: expecting %s, found %s",
		e.Expected,
		e.Found,
	)
}
