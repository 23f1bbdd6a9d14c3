// Copyright 2018 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package memorydb implements an in-memory, ordered key-value store used
// as the key-value engine behind diskstore's EngineMemory, for ephemeral
// deployments that don't need a persistent chain store.
package memorydb

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

// ErrMemorydbClosed is returned when an operation is attempted on a closed
// database.
var ErrMemorydbClosed = errors.New("database closed")

// ErrMemorydbNotFound is returned when a key lookup misses.
var ErrMemorydbNotFound = errors.New("memorydb: not found")

// Database is an ephemeral key-value store, keyed and iterated in
// lexicographic byte order.
type Database struct {
	lock sync.RWMutex
	db   map[string][]byte
}

// New returns a newly allocated, empty Database.
func New() *Database {
	return &Database{db: make(map[string][]byte)}
}

// NewWithCap returns an empty Database pre-allocated for roughly size
// entries.
func NewWithCap(size int) *Database {
	return &Database{db: make(map[string][]byte, size)}
}

// Close deallocates the internal map and ensures any consecutive data
// access op fails with an error.
func (db *Database) Close() error {
	db.lock.Lock()
	defer db.lock.Unlock()
	db.db = nil
	return nil
}

// Has reports whether key is present.
func (db *Database) Has(key []byte) (bool, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()
	if db.db == nil {
		return false, ErrMemorydbClosed
	}
	_, ok := db.db[string(key)]
	return ok, nil
}

// Get retrieves the value for key.
func (db *Database) Get(key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()
	if db.db == nil {
		return nil, ErrMemorydbClosed
	}
	if v, ok := db.db[string(key)]; ok {
		cp := make([]byte, len(v))
		copy(cp, v)
		return cp, nil
	}
	return nil, ErrMemorydbNotFound
}

// Put inserts the given value under key.
func (db *Database) Put(key []byte, value []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()
	if db.db == nil {
		return ErrMemorydbClosed
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	db.db[string(key)] = cp
	return nil
}

// Delete removes key from the database.
func (db *Database) Delete(key []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()
	if db.db == nil {
		return ErrMemorydbClosed
	}
	delete(db.db, string(key))
	return nil
}

// Len returns the number of entries currently present.
func (db *Database) Len() int {
	db.lock.RLock()
	defer db.lock.RUnlock()
	return len(db.db)
}

// Iterator walks a snapshot of a Database's keys in ascending order,
// optionally restricted to a prefix.
type Iterator struct {
	keys   []string
	values [][]byte
	index  int
}

// NewIterator returns an Iterator over the entire database.
func (db *Database) NewIterator() *Iterator {
	return db.NewIteratorWithPrefix(nil)
}

// NewIteratorWithPrefix returns an Iterator over keys starting with prefix.
func (db *Database) NewIteratorWithPrefix(prefix []byte) *Iterator {
	db.lock.RLock()
	defer db.lock.RUnlock()

	var keys []string
	for k := range db.db {
		if strings.HasPrefix(k, string(prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	values := make([][]byte, len(keys))
	for i, k := range keys {
		values[i] = db.db[k]
	}
	return &Iterator{keys: keys, values: values, index: -1}
}

// Next advances the iterator, returning false once exhausted.
func (it *Iterator) Next() bool {
	if it.index >= len(it.keys) {
		return false
	}
	it.index++
	return it.index < len(it.keys)
}

// Error returns any iteration error. Memory iteration never fails.
func (it *Iterator) Error() error {
	return nil
}

// Key returns the current item's key.
func (it *Iterator) Key() []byte {
	if it.index < 0 || it.index >= len(it.keys) {
		return nil
	}
	return []byte(it.keys[it.index])
}

// Value returns the current item's value.
func (it *Iterator) Value() []byte {
	if it.index < 0 || it.index >= len(it.values) {
		return nil
	}
	return it.values[it.index]
}

// Release is a no-op, present for interface parity with disk-backed
// iterators that hold OS resources.
func (it *Iterator) Release() {}

// batchOp represents a single queued operation in a Batch.
type batchOp struct {
	key    []byte
	value  []byte
	delete bool
}

// Batch accumulates writes for atomic application via Write.
type Batch struct {
	db   *Database
	ops  []batchOp
	size int
}

// NewBatch returns a write batch bound to db.
func (db *Database) NewBatch() *Batch {
	return &Batch{db: db}
}

func (b *Batch) Put(key, value []byte) error {
	k := append([]byte{}, key...)
	v := append([]byte{}, value...)
	b.ops = append(b.ops, batchOp{key: k, value: v})
	b.size += len(k) + len(v)
	return nil
}

func (b *Batch) Delete(key []byte) error {
	k := append([]byte{}, key...)
	b.ops = append(b.ops, batchOp{key: k, delete: true})
	b.size += len(k)
	return nil
}

func (b *Batch) ValueSize() int {
	return b.size
}

// Write applies all queued operations to the underlying database.
func (b *Batch) Write() error {
	b.db.lock.Lock()
	defer b.db.lock.Unlock()
	if b.db.db == nil {
		return ErrMemorydbClosed
	}
	for _, op := range b.ops {
		if op.delete {
			delete(b.db.db, string(op.key))
		} else {
			b.db.db[string(op.key)] = op.value
		}
	}
	return nil
}

// Reset empties the batch without touching the database.
func (b *Batch) Reset() {
	b.ops = b.ops[:0]
	b.size = 0
}
