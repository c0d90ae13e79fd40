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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "badgehub.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0o644))
	return tmpFile
}

func TestLoad_CompareFullStruct(t *testing.T) {
	tmpFile := writeConfigFile(t, `
databasePath: "/var/lib/badgehub"
keyDir: "/var/lib/badgehub/keys"
bindAddr: "127.0.0.1"
shutdownTimeout: "10s"
bech32Prefix: "stars"
denom: "ustars"
chainId: "stargaze-1"
contractAddr: "stars1hubcontract"
nftAddr: "stars1nftcontract"
developer: "stars1developer"
metadataFeeRate: "1.5"
keyFeeRate: "0.25"
nftCodeId: 42
apiPort: 9000
metricsPort: 9001
badgerBlockCacheSize: 8388608
badgerIndexCacheSize: 4194304
tracingEnabled: true
tracingStdout: true
`)
	expected := &Config{
		DatabasePath:         "/var/lib/badgehub",
		KeyDir:               "/var/lib/badgehub/keys",
		BindAddr:             "127.0.0.1",
		ShutdownTimeout:      "10s",
		Bech32Prefix:         "stars",
		Denom:                "ustars",
		ChainID:              "stargaze-1",
		ContractAddr:         "stars1hubcontract",
		NftAddr:              "stars1nftcontract",
		Developer:            "stars1developer",
		MetadataFeeRate:      "1.5",
		KeyFeeRate:           "0.25",
		NftCodeID:            42,
		ApiPort:              9000,
		MetricsPort:          9001,
		BadgerBlockCacheSize: 8388608,
		BadgerIndexCacheSize: 4194304,
		TracingEnabled:       true,
		TracingStdout:        true,
	}
	actual, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, expected, actual)
	assert.Same(t, actual, GetConfig())

	rate, err := actual.FeeRate()
	require.NoError(t, err)
	assert.True(t, rate.Metadata.Equal(decimal.RequireFromString("1.5")))
	assert.True(t, rate.Key.Equal(decimal.RequireFromString("0.25")))
	timeout, err := actual.ShutdownTimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, timeout)
}

func TestLoad_NestedConfigSection(t *testing.T) {
	tmpFile := writeConfigFile(t, `
config:
  denom: "uatom"
  apiPort: 1317
`)
	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "uatom", cfg.Denom)
	assert.Equal(t, uint(1317), cfg.ApiPort)
	// Unset values keep their defaults
	assert.Equal(t, DefaultBech32Prefix, cfg.Bech32Prefix)
}

func TestLoad_WithoutConfigFile_UsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	tmpFile := writeConfigFile(t, `
denom: "ufile"
metricsPort: 1000
`)
	t.Setenv("BADGEHUB_DENOM", "uenv")
	t.Setenv("BADGEHUB_METRICS_PORT", "2000")
	t.Setenv("BADGEHUB_KEY_FEE_RATE", "3")
	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "uenv", cfg.Denom)
	assert.Equal(t, uint(2000), cfg.MetricsPort)
	assert.Equal(t, "3", cfg.KeyFeeRate)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "denom: [unterminated"},
		{"negative rate", `metadataFeeRate: "-1"`},
		{"unparseable rate", `keyFeeRate: "lots"`},
		{"empty denom", `denom: ""`},
		{"bad timeout", `shutdownTimeout: "soon"`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfigFile(t, tc.content))
			assert.Error(t, err)
		})
	}
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))
	cfg := DefaultConfig()
	ctx := WithContext(context.Background(), cfg)
	assert.Same(t, cfg, FromContext(ctx))
}
