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
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/public-awesome/badges/database/badger"
	"github.com/public-awesome/badges/database/models"
	"github.com/public-awesome/badges/database/journal"
	"github.com/public-awesome/badges/database/types"
)

// BlobStore is the ordered key-value store holding registry state
type BlobStore interface {
	Close() error
	NewTransaction(bool) types.Txn
	Get(types.Txn, []byte) ([]byte, error)
	Set(types.Txn, []byte, []byte) error
	Delete(types.Txn, []byte) error
	NewIterator(types.Txn, types.BlobIteratorOptions) types.BlobIterator
	GetCommitTimestamp() (int64, error)
	SetCommitTimestamp(int64, types.Txn) error
}

// MetadataStore is the journal of committed operations
type MetadataStore interface {
	Close() error
	Transaction() types.Txn
	GetCommitTimestamp() (int64, error)
	SetCommitTimestamp(int64, types.Txn) error

	AddOperation(*models.Operation, types.Txn) error
	GetMint(string, types.Txn) (*models.Mint, error)
	GetMintsByBadge(uint64, uint, int, types.Txn) ([]models.Mint, error)
	GetMintsByOwner(string, uint, int, types.Txn) ([]models.Mint, error)
	GetOperations(*uint64, int, types.Txn) ([]models.Operation, error)
}

type Config struct {
	Logger         *slog.Logger
	PromRegistry   prometheus.Registerer
	DataDir        string
	// JournalDSN keeps the journal in an external PostgreSQL or MySQL
	// database instead of SQLite in DataDir
	JournalDSN     string
	BlockCacheSize uint64
	IndexCacheSize uint64
}

type Database struct {
	logger   *slog.Logger
	blob     BlobStore
	metadata MetadataStore
	dataDir  string
}

// Blob returns the underling blob store instance
func (d *Database) Blob() BlobStore {
	return d.blob
}

// DataDir returns the path to the data directory used for storage
func (d *Database) DataDir() string {
	return d.dataDir
}

// Logger returns the logger instance
func (d *Database) Logger() *slog.Logger {
	return d.logger
}

// Metadata returns the underlying metadata store instance
func (d *Database) Metadata() MetadataStore {
	return d.metadata
}

// Transaction starts a new database transaction and returns a handle to it
func (d *Database) Transaction(readWrite bool) *Txn {
	return NewTxn(d, readWrite)
}

// Close cleans up the database connections
func (d *Database) Close() error {
	var err error
	if d.metadata != nil {
		err = errors.Join(err, d.metadata.Close())
	}
	if d.blob != nil {
		err = errors.Join(err, d.blob.Close())
	}
	return err
}

func (d *Database) init() error {
	if d.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		d.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	// Check commit timestamp
	if err := d.checkCommitTimestamp(); err != nil {
		return err
	}
	return nil
}

// New creates a new database instance with optional persistence using the
// provided data directory
func New(cfg *Config) (*Database, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	blobDb, err := badger.New(
		badger.WithDataDir(cfg.DataDir),
		badger.WithLogger(cfg.Logger),
		badger.WithPromRegistry(cfg.PromRegistry),
		badger.WithBlockCacheSize(cfg.BlockCacheSize),
		badger.WithIndexCacheSize(cfg.IndexCacheSize),
	)
	if err != nil {
		return nil, err
	}
	var metadataDb *journal.JournalStore
	if cfg.JournalDSN != "" {
		metadataDb, err = journal.NewFromDSN(cfg.JournalDSN, cfg.Logger, cfg.PromRegistry)
	} else {
		metadataDb, err = journal.New(cfg.DataDir, cfg.Logger, cfg.PromRegistry)
	}
	if err != nil {
		if metadataDb != nil {
			_ = metadataDb.Close()
		}
		_ = blobDb.Close()
		return nil, err
	}
	db := &Database{
		logger:   cfg.Logger,
		blob:     blobDb,
		metadata: metadataDb,
		dataDir:  cfg.DataDir,
	}
	if err := db.init(); err != nil {
		// Database is available for recovery, so return it with error
		return db, err
	}
	return db, nil
}
