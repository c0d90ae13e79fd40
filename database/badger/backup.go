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

package badger

import (
	"io"
)

// Number of pending writes allowed while loading a backup
const restoreMaxPendingWrites = 256

// Backup writes a full backup of the store to w and returns the version of
// the newest entry written
func (d *BlobStoreBadger) Backup(w io.Writer) (uint64, error) {
	return d.db.Backup(w, 0)
}

// Restore loads a backup produced by Backup into the store
func (d *BlobStoreBadger) Restore(r io.Reader) error {
	return d.db.Load(r, restoreMaxPendingWrites)
}
