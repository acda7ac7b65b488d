// Package storage persists engine settings between sessions in a small
// Badger database. A nil *Store is valid and stores nothing, so the
// engine runs unchanged when no database can be opened.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
)

const keyOptions = "uci_options"

// Store wraps the settings database.
type Store struct {
	db *badger.DB
}

// DefaultDir returns the per-user settings directory.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "gannet"), nil
}

// Open opens (or creates) the settings database at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Options returns the persisted option values. A missing record yields
// an empty map.
func (s *Store) Options() (map[string]string, error) {
	opts := map[string]string{}
	if s == nil || s.db == nil {
		return opts, nil
	}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyOptions))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &opts)
		})
	})
	return opts, err
}

// SetOption records one option value.
func (s *Store) SetOption(name, value string) error {
	if s == nil || s.db == nil {
		return nil
	}
	opts, err := s.Options()
	if err != nil {
		return err
	}
	opts[name] = value
	data, err := json.Marshal(opts)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyOptions), data)
	})
}
