// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// badgerKeyPrefix namespaces snapshot blobs inside a shared BadgerDB.
const badgerKeyPrefix = "snapshot:"

// BadgerBlobs implements Blobs on top of BadgerDB.
type BadgerBlobs struct {
	db     *badger.DB
	ownsDB bool
}

// NewBadgerBlobs opens a BadgerDB at path. An empty path opens an in-memory
// database, which is useful for tests and the seeding tool's dry runs.
//
// Example:
//
//	blobs, err := NewBadgerBlobs("/data/models")
//	if err != nil {
//	    return err
//	}
//	defer blobs.Close()
func NewBadgerBlobs(path string) (*BadgerBlobs, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Suppress BadgerDB internal logs
	opts.ValueLogFileSize = 64 << 20
	opts.SyncWrites = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for snapshots: %w", err)
	}

	return &BadgerBlobs{db: db, ownsDB: true}, nil
}

// NewBadgerBlobsFromDB wraps an existing BadgerDB. Close does not close db.
func NewBadgerBlobsFromDB(db *badger.DB) *BadgerBlobs {
	return &BadgerBlobs{db: db}
}

// Get reads the blob for key.
func (b *BadgerBlobs) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerKeyPrefix + key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("get blob %s: %w", key, err)
	}
	return data, nil
}

// Put stores data under key in a single transaction.
func (b *BadgerBlobs) Put(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(badgerKeyPrefix+key), data)
	})
	if err != nil {
		return fmt.Errorf("put blob %s: %w", key, err)
	}
	return nil
}

// Close closes the database if this store opened it.
func (b *BadgerBlobs) Close() error {
	if !b.ownsDB {
		return nil
	}
	return b.db.Close()
}
