// Package kv provides the local key-value stores the vault persists into.
// Every Put replaces the whole value stored under a key.
package kv

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Store is a durable string-keyed byte store.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	// Put replaces the value for key.
	Put(key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
	// Keys lists stored keys sharing prefix, sorted.
	Keys(prefix string) ([]string, error)
	Close() error
}

// Backend names a Store implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendBolt   Backend = "bolt"
	BackendSQLite Backend = "sqlite"
)

// Open opens the named backend rooted at dir.
func Open(backend Backend, dir string) (Store, error) {
	switch Backend(strings.ToLower(string(backend))) {
	case BackendFile, "":
		return NewFileStore(dir)
	case BackendBolt:
		return NewBoltStore(filepath.Join(dir, "vault.db"))
	case BackendSQLite:
		return NewSQLiteStore(filepath.Join(dir, "vault.sqlite"))
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}
