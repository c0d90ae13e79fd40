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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/public-awesome/badges/fee"
)

type ctxKey string

const configContextKey ctxKey = "badgehub.config"

const (
	DefaultShutdownTimeout = "30s"
	DefaultDatabasePath    = ".badgehub"
	DefaultKeyDir          = ".badgehub/keys"
	DefaultBech32Prefix    = "stars"
	DefaultDenom           = "ustars"
	DefaultChainID         = "badgehub-local"
	DefaultContractAddr    = "stars1d7ds5p4d9z8vqcc9eack5ntzyaefplt7m333h0"
	DefaultNftAddr         = "stars1jm4a55sp3sywsd80s0xzz4rc9n2mu3kcnun79x"
	DefaultFeeRate         = "0"

	envPrefix = "badgehub"
)

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

type tempConfig struct {
	Config *Config `yaml:"config,omitempty"`
}

type Config struct {
	DatabasePath    string `yaml:"databasePath"    split_words:"true"`
	// JournalDsn is an optional postgres:// or mysql:// journal database
	JournalDsn      string `yaml:"journalDsn"      split_words:"true"`
	KeyDir          string `yaml:"keyDir"          split_words:"true"`
	// KeyEncrypt SOPS encrypts generated signing key files
	KeyEncrypt      bool   `yaml:"keyEncrypt"      split_words:"true"`
	BindAddr        string `yaml:"bindAddr"        split_words:"true"`
	ShutdownTimeout string `yaml:"shutdownTimeout" split_words:"true"`
	Bech32Prefix    string `yaml:"bech32Prefix"    split_words:"true"`
	Denom           string `yaml:"denom"`
	ChainID         string `yaml:"chainId"         split_words:"true"`
	// ContractAddr is the address the registry runs under. It is the
	// minter of the NFT sub-ledger.
	ContractAddr    string `yaml:"contractAddr"    split_words:"true"`
	// NftAddr is reported as the deployed NFT sub-ledger when the
	// registry is instantiated. Leave empty to report it separately.
	NftAddr         string `yaml:"nftAddr"         split_words:"true"`
	Developer       string `yaml:"developer"`
	MetadataFeeRate string `yaml:"metadataFeeRate" split_words:"true"`
	KeyFeeRate      string `yaml:"keyFeeRate"      split_words:"true"`
	NftCodeID       uint64 `yaml:"nftCodeId"       envconfig:"NFT_CODE_ID"`
	ApiPort         uint   `yaml:"apiPort"         split_words:"true"`
	MetricsPort     uint   `yaml:"metricsPort"     split_words:"true"`
	// Badger cache sizes in bytes, 0 uses the store default
	BadgerBlockCacheSize uint64 `yaml:"badgerBlockCacheSize" split_words:"true"`
	BadgerIndexCacheSize uint64 `yaml:"badgerIndexCacheSize" split_words:"true"`
	// Credentials for snapshots in object storage
	GcsCredentialsFile   string `yaml:"gcsCredentialsFile"   split_words:"true"`
	AwsRegion            string `yaml:"awsRegion"            split_words:"true"`
	TracingEnabled       bool   `yaml:"tracingEnabled"       split_words:"true"`
	TracingStdout        bool   `yaml:"tracingStdout"        split_words:"true"`
}

// DefaultConfig returns a new Config populated with default values
func DefaultConfig() *Config {
	return &Config{
		DatabasePath:    DefaultDatabasePath,
		KeyDir:          DefaultKeyDir,
		BindAddr:        "0.0.0.0",
		ShutdownTimeout: DefaultShutdownTimeout,
		Bech32Prefix:    DefaultBech32Prefix,
		Denom:           DefaultDenom,
		ChainID:         DefaultChainID,
		ContractAddr:    DefaultContractAddr,
		NftAddr:         DefaultNftAddr,
		MetadataFeeRate: DefaultFeeRate,
		KeyFeeRate:      DefaultFeeRate,
		ApiPort:         8080,
		MetricsPort:     12799,
	}
}

var globalConfig = DefaultConfig()

// LoadConfig builds the configuration from defaults, the YAML config file
// and the environment, in that order of precedence. If configFile is empty,
// ~/.badgehub/badgehub.yaml and then /etc/badgehub/badgehub.yaml are tried.
func LoadConfig(configFile string) (*Config, error) {
	cfg := DefaultConfig()
	if configFile == "" {
		configFile = findConfigFile()
	}
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		var tempCfg tempConfig
		if err := yaml.Unmarshal(buf, &tempCfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
		if tempCfg.Config != nil {
			// Overlay the nested section onto the defaults
			configBytes, err := yaml.Marshal(tempCfg.Config)
			if err != nil {
				return nil, fmt.Errorf("error re-marshalling config: %w", err)
			}
			buf = configBytes
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %+w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	globalConfig = cfg
	return globalConfig, nil
}

func findConfigFile() string {
	if homeDir, err := os.UserHomeDir(); err == nil {
		userPath := filepath.Join(homeDir, ".badgehub", "badgehub.yaml")
		if _, err := os.Stat(userPath); err == nil {
			return userPath
		}
	}
	systemPath := "/etc/badgehub/badgehub.yaml"
	if _, err := os.Stat(systemPath); err == nil {
		return systemPath
	}
	return ""
}

func GetConfig() *Config {
	return globalConfig
}

// Validate checks the values that cannot be checked by parsing alone
func (c *Config) Validate() error {
	if c.Denom == "" {
		return errors.New("denom must not be empty")
	}
	if c.Bech32Prefix == "" {
		return errors.New("bech32Prefix must not be empty")
	}
	if _, err := c.FeeRate(); err != nil {
		return err
	}
	if _, err := c.ShutdownTimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// FeeRate returns the configured fee rate used when instantiating a registry
func (c *Config) FeeRate() (fee.Rate, error) {
	metadata, err := decimal.NewFromString(c.MetadataFeeRate)
	if err != nil {
		return fee.Rate{}, fmt.Errorf("invalid metadataFeeRate %q: %w", c.MetadataFeeRate, err)
	}
	key, err := decimal.NewFromString(c.KeyFeeRate)
	if err != nil {
		return fee.Rate{}, fmt.Errorf("invalid keyFeeRate %q: %w", c.KeyFeeRate, err)
	}
	ret := fee.Rate{Metadata: metadata, Key: key}
	if err := ret.Validate(); err != nil {
		return fee.Rate{}, err
	}
	return ret, nil
}

func (c *Config) ShutdownTimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.ShutdownTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid shutdownTimeout %q: %w", c.ShutdownTimeout, err)
	}
	return d, nil
}
