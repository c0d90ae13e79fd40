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

package database

import (
	"fmt"
)

// CommitTimestampError is returned by New when the journal and state stores
// were last committed by different transactions, which happens when the
// process dies between the two commits.
type CommitTimestampError struct {
	JournalTimestamp int64
	StateTimestamp   int64
}

func (e CommitTimestampError) Error() string {
	return fmt.Sprintf(
		"stores out of sync: journal committed at %d, state committed at %d",
		e.JournalTimestamp,
		e.StateTimestamp,
	)
}

func (d *Database) checkCommitTimestamp() error {
	journalTs, err := d.Metadata().GetCommitTimestamp()
	if err != nil {
		return fmt.Errorf("read journal commit timestamp: %w", err)
	}
	// Fresh journal, or one that never recorded a commit
	if journalTs <= 0 {
		return nil
	}
	stateTs, err := d.Blob().GetCommitTimestamp()
	if err != nil {
		return fmt.Errorf("read state commit timestamp: %w", err)
	}
	if stateTs == journalTs {
		return nil
	}
	return CommitTimestampError{
		JournalTimestamp: journalTs,
		StateTimestamp:   stateTs,
	}
}

// updateCommitTimestamp stamps both halves of txn with the same value
func (d *Database) updateCommitTimestamp(txn *Txn, ts int64) error {
	if err := d.Metadata().SetCommitTimestamp(ts, txn.Metadata()); err != nil {
		return fmt.Errorf("stamp journal: %w", err)
	}
	if err := d.Blob().SetCommitTimestamp(ts, txn.Blob()); err != nil {
		return fmt.Errorf("stamp state: %w", err)
	}
	return nil
}
