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

// Package diskstore is a lightclient.Storage implementation backed by
// a pluggable key-value engine (syndtr/goleveldb, cockroachdb/pebble,
// or an in-memory ethdb/memorydb for ephemeral deployments), selected
// via Engine at Open time behind a common narrow key-value surface.
package diskstore

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"sync"

	"github.com/holiman/uint256"
	"github.com/subspacelabs/subspace-node/common"
	"github.com/subspacelabs/subspace-node/common/lru"
	"github.com/subspacelabs/subspace-node/lightclient"
	"github.com/subspacelabs/subspace-node/log"
)

const cacheSize = 4096

var (
	keyBest      = []byte("b")
	keyFinalized = []byte("f")
)

// HeaderCodec converts between a concrete lightclient.Header
// implementation and its on-disk byte encoding. diskstore is agnostic
// to the concrete header type; the host wires a codec for its own.
type HeaderCodec interface {
	EncodeHeader(h lightclient.Header) ([]byte, error)
	DecodeHeader(data []byte) (lightclient.Header, error)
}

// record is the on-disk envelope for a HeaderExt: the codec-encoded
// header plus the derived fields the store owns.
type record struct {
	HeaderBytes             []byte
	DerivedGlobalRandomness [common.HashLength]byte
	DerivedSolutionRange    uint64
	DerivedSalt             [common.HashLength]byte
	TotalWeight             [32]byte
}

// Store is a persistent, codec-driven Storage implementation.
type Store struct {
	mu sync.Mutex

	kv        kv
	codec     HeaderCodec
	constants lightclient.ChainConstants
	log       log.Logger

	cache *lru.Cache[common.Hash, *lightclient.HeaderExt]
}

// Open opens or creates a persistent store at path using engine,
// decoding headers through codec.
func Open(path string, engine Engine, codec HeaderCodec, constants lightclient.ChainConstants) (*Store, error) {
	db, err := open(path, engine)
	if err != nil {
		return nil, err
	}
	return &Store{
		kv:        db,
		codec:     codec,
		constants: constants,
		log:       log.New("module", "lightclient/diskstore"),
		cache:     lru.NewCache[common.Hash, *lightclient.HeaderExt](cacheSize),
	}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.kv.close()
}

func headerKey(hash common.Hash) []byte {
	return append([]byte("h"), hash.Bytes()...)
}

func numberPrefix(n uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], n)
	return append([]byte("n"), buf[:]...)
}

func numberKey(n uint64, hash common.Hash) []byte {
	return append(numberPrefix(n), hash.Bytes()...)
}

func (s *Store) encode(ext *lightclient.HeaderExt) ([]byte, error) {
	headerBytes, err := s.codec.EncodeHeader(ext.Header)
	if err != nil {
		return nil, fmt.Errorf("diskstore: encode header: %w", err)
	}
	rec := record{
		HeaderBytes:             headerBytes,
		DerivedGlobalRandomness: ext.DerivedGlobalRandomness,
		DerivedSolutionRange:    ext.DerivedSolutionRange,
		DerivedSalt:             ext.DerivedSalt,
		TotalWeight:             ext.TotalWeight.Bytes32(),
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		return nil, fmt.Errorf("diskstore: encode record: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Store) decode(data []byte) (*lightclient.HeaderExt, error) {
	var rec record
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&rec); err != nil {
		return nil, fmt.Errorf("diskstore: decode record: %w", err)
	}
	h, err := s.codec.DecodeHeader(rec.HeaderBytes)
	if err != nil {
		s.log.Error("corrupt header record", "err", err)
		return nil, fmt.Errorf("diskstore: decode header: %w", err)
	}
	weight := new(uint256.Int).SetBytes32(rec.TotalWeight[:])
	return &lightclient.HeaderExt{
		Header:                  h,
		DerivedGlobalRandomness: rec.DerivedGlobalRandomness,
		DerivedSolutionRange:    rec.DerivedSolutionRange,
		DerivedSalt:             rec.DerivedSalt,
		TotalWeight:             *weight,
	}, nil
}

func (s *Store) ChainConstants() lightclient.ChainConstants {
	return s.constants
}

func (s *Store) Header(hash common.Hash) (*lightclient.HeaderExt, bool) {
	if ext, ok := s.cache.Get(hash); ok {
		return ext, true
	}
	data, err := s.kv.get(headerKey(hash))
	if err != nil {
		return nil, false
	}
	ext, err := s.decode(data)
	if err != nil {
		return nil, false
	}
	s.cache.Add(hash, ext)
	return ext, true
}

func (s *Store) StoreHeader(ext *lightclient.HeaderExt, asBest bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash := ext.Header.Hash()
	data, err := s.encode(ext)
	if err != nil {
		return err
	}
	if err := s.kv.put(headerKey(hash), data); err != nil {
		return err
	}
	if err := s.kv.put(numberKey(ext.Header.Number(), hash), []byte{1}); err != nil {
		return err
	}
	s.cache.Add(hash, ext)

	if asBest {
		if err := s.kv.put(keyBest, hash.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) BestHeader() *lightclient.HeaderExt {
	hash, ok := s.readHashPointer(keyBest)
	if !ok {
		return nil
	}
	ext, _ := s.Header(hash)
	return ext
}

func (s *Store) FinalizedHeader() *lightclient.HeaderExt {
	hash, ok := s.readHashPointer(keyFinalized)
	if !ok {
		return nil
	}
	ext, _ := s.Header(hash)
	return ext
}

func (s *Store) FinalizeHeader(hash common.Hash) error {
	if _, ok := s.Header(hash); !ok {
		return lightclient.MissingParent{Hash: hash}
	}
	return s.kv.put(keyFinalized, hash.Bytes())
}

func (s *Store) readHashPointer(key []byte) (common.Hash, bool) {
	data, err := s.kv.get(key)
	if err != nil {
		return common.Hash{}, false
	}
	return common.BytesToHash(data), true
}

func (s *Store) HeadersAtNumber(n uint64) []*lightclient.HeaderExt {
	var out []*lightclient.HeaderExt
	prefix := numberPrefix(n)
	_ = s.kv.iteratePrefix(prefix, func(key, _ []byte) error {
		hash := common.BytesToHash(key[len(prefix):])
		if ext, ok := s.Header(hash); ok {
			out = append(out, ext)
		}
		return nil
	})
	return out
}

func (s *Store) PruneHeader(hash common.Hash) error {
	ext, ok := s.Header(hash)
	if !ok {
		return nil
	}
	s.cache.Remove(hash)
	if err := s.kv.delete(headerKey(hash)); err != nil {
		return err
	}
	return s.kv.delete(numberKey(ext.Header.Number(), hash))
}
