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
	"errors"
	"fmt"
	"io"
)

var (
	ErrSnapshotUnsupported = errors.New("state store does not support snapshots")
	ErrSnapshotNotEmpty    = errors.New("cannot restore a snapshot into a non-empty database")
)

// Snapshotter is implemented by blob stores that can stream a full copy of
// their contents
type Snapshotter interface {
	Backup(io.Writer) (uint64, error)
	Restore(io.Reader) error
}

// Backup writes a snapshot of the registry state to w. The operation journal
// is not part of the snapshot.
func (d *Database) Backup(w io.Writer) error {
	s, ok := d.blob.(Snapshotter)
	if !ok {
		return ErrSnapshotUnsupported
	}
	version, err := s.Backup(w)
	if err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	d.logger.Debug("wrote state snapshot", "version", version)
	return nil
}

// Restore loads a snapshot written by Backup. The database must not have any
// committed state.
func (d *Database) Restore(r io.Reader) error {
	s, ok := d.blob.(Snapshotter)
	if !ok {
		return ErrSnapshotUnsupported
	}
	blobTimestamp, err := d.blob.GetCommitTimestamp()
	if err != nil {
		return fmt.Errorf("failed to get state timestamp: %w", err)
	}
	metadataTimestamp, err := d.metadata.GetCommitTimestamp()
	if err != nil {
		return fmt.Errorf("failed to get journal timestamp: %w", err)
	}
	if blobTimestamp > 0 || metadataTimestamp > 0 {
		return ErrSnapshotNotEmpty
	}
	if err := s.Restore(r); err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	return nil
}
