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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/public-awesome/badges/hub"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.NotNil(t, cfg.logger)
	assert.NotNil(t, cfg.clock)
	assert.Equal(t, "stars", cfg.bech32Prefix)
	assert.Equal(t, hub.DefaultDenom, cfg.denom)
	assert.Empty(t, cfg.dataDir)
}

func TestConfigOptions(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	cfg := NewConfig(
		WithDatabasePath("/tmp/badgehub"),
		WithJournalDSN("postgres://localhost/badgehub"),
		WithBadgerCacheSizes(1<<20, 2<<20),
		WithChainID("badgehub-1"),
		WithDenom("ustars"),
		WithClock(func() time.Time { return now }),
		WithShutdownTimeout(5*time.Second),
	)
	assert.Equal(t, "/tmp/badgehub", cfg.dataDir)
	assert.Equal(t, "postgres://localhost/badgehub", cfg.journalDSN)
	assert.Equal(t, uint64(1<<20), cfg.blockCacheSize)
	assert.Equal(t, uint64(2<<20), cfg.indexCacheSize)
	assert.Equal(t, "badgehub-1", cfg.chainID)
	assert.Equal(t, "ustars", cfg.denom)
	assert.Equal(t, now, cfg.clock())
	assert.Equal(t, 5*time.Second, cfg.shutdownTimeout)
}
