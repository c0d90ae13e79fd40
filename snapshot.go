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

package badges

import (
	"context"
	"io"

	"github.com/public-awesome/badges/database"
)

// ExportSnapshot writes the registry state to w. The operation journal is
// not included.
func (n *Node) ExportSnapshot(_ context.Context, w io.Writer) error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.db == nil {
		return ErrNotOpen
	}
	return n.db.Backup(w)
}

// ImportSnapshot loads registry state written by ExportSnapshot into a node
// that has not committed any operations
func (n *Node) ImportSnapshot(_ context.Context, r io.Reader) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.db == nil {
		return ErrNotOpen
	}
	if err := n.db.Restore(r); err != nil {
		return err
	}
	txn := database.NewBlobOnlyTxn(n.db, false)
	defer txn.Release()
	height, _, err := n.height.MayLoad(txn)
	if err != nil {
		return err
	}
	n.config.logger.Info(
		"imported state snapshot",
		"height", height,
	)
	return nil
}
