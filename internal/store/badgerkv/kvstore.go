// Package badgerkv provides a kv.Store backed by an embedded BadgerDB.
package badgerkv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/hay-kot/neighborly/internal/core/kv"
)

// KVStore implements kv.Store. Each value is stored as a JSON-encoded
// kv.Entry so creation times survive updates.
type KVStore struct {
	db *badger.DB
}

// Open opens the database in dir. An empty dir opens an in-memory database.
func Open(dir string) (*KVStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	return &KVStore{db: db}, nil
}

// New wraps an already opened database.
func New(db *badger.DB) *KVStore {
	return &KVStore{db: db}
}

// Close closes the underlying database.
func (s *KVStore) Close() error {
	return s.db.Close()
}

// Get returns an entry by key. Returns kv.ErrKeyNotFound if not found.
func (s *KVStore) Get(ctx context.Context, key string) (kv.Entry, error) {
	var entry kv.Entry

	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		entry, err = getEntry(txn, key)
		return err
	})
	if err != nil {
		return kv.Entry{}, err
	}

	return entry, nil
}

// Set creates or updates an entry.
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		now := time.Now()

		entry, err := getEntry(txn, key)
		switch {
		case errors.Is(err, kv.ErrKeyNotFound):
			entry = kv.Entry{Key: key, CreatedAt: now}
		case err != nil:
			return err
		}

		entry.Value = value
		entry.UpdatedAt = now

		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal entry: %w", err)
		}

		if err := txn.Set([]byte(key), data); err != nil {
			return fmt.Errorf("set %q: %w", key, err)
		}
		return nil
	})
}

// Delete removes an entry by key. Returns kv.ErrKeyNotFound if not found.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(key)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return kv.ErrKeyNotFound
			}
			return fmt.Errorf("get %q: %w", key, err)
		}

		return txn.Delete([]byte(key))
	})
}

// List returns all entries whose key starts with prefix, in key order.
func (s *KVStore) List(ctx context.Context, prefix string) ([]kv.Entry, error) {
	var entries []kv.Entry

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			var entry kv.Entry
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			})
			if err != nil {
				return fmt.Errorf("decode %q: %w", it.Item().Key(), err)
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func getEntry(txn *badger.Txn, key string) (kv.Entry, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return kv.Entry{}, kv.ErrKeyNotFound
	}
	if err != nil {
		return kv.Entry{}, fmt.Errorf("get %q: %w", key, err)
	}

	var entry kv.Entry
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &entry)
	})
	if err != nil {
		return kv.Entry{}, fmt.Errorf("decode %q: %w", key, err)
	}

	return entry, nil
}
