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

// Package memstore is a lightweight, typed in-memory lightclient.Storage
// implementation: no encoding, no byte-oriented key-value layer, just
// maps. It exists for unit tests that want the Storage contract without
// any of diskstore's (de)serialization overhead; deployments that want
// an in-memory store behind the same codec/record shape diskstore uses
// should select diskstore.EngineMemory instead.
package memstore

import (
	"sync"

	"github.com/subspacelabs/subspace-node/common"
	"github.com/subspacelabs/subspace-node/common/lru"
	"github.com/subspacelabs/subspace-node/lightclient"
)

// cacheSize bounds the in-memory recency cache layered in front of the
// authoritative map; memstore keeps every header anyway (it is
// unbounded), but routes lookups through the cache the same way the
// disk-backed store does, so both implementations exercise the same
// hot-path code shape.
const cacheSize = 2048

// Store is an in-memory, map-backed Storage.
type Store struct {
	mu sync.RWMutex

	constants lightclient.ChainConstants
	headers   map[common.Hash]*lightclient.HeaderExt
	byNumber  map[uint64][]common.Hash
	best      *lightclient.HeaderExt
	finalized *lightclient.HeaderExt

	cache *lru.Cache[common.Hash, *lightclient.HeaderExt]
}

// New returns an empty Store seeded with the given genesis HeaderExt.
func New(constants lightclient.ChainConstants, genesis *lightclient.HeaderExt) *Store {
	s := &Store{
		constants: constants,
		headers:   make(map[common.Hash]*lightclient.HeaderExt),
		byNumber:  make(map[uint64][]common.Hash),
		cache:     lru.NewCache[common.Hash, *lightclient.HeaderExt](cacheSize),
	}
	if genesis != nil {
		hash := genesis.Header.Hash()
		s.headers[hash] = genesis
		s.byNumber[genesis.Header.Number()] = []common.Hash{hash}
		s.best = genesis
		s.finalized = genesis
		s.cache.Add(hash, genesis)
	}
	return s
}

func (s *Store) ChainConstants() lightclient.ChainConstants {
	return s.constants
}

func (s *Store) Header(hash common.Hash) (*lightclient.HeaderExt, bool) {
	if ext, ok := s.cache.Get(hash); ok {
		return ext, true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	ext, ok := s.headers[hash]
	if ok {
		s.cache.Add(hash, ext)
	}
	return ext, ok
}

func (s *Store) StoreHeader(ext *lightclient.HeaderExt, asBest bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash := ext.Header.Hash()
	if _, exists := s.headers[hash]; !exists {
		s.headers[hash] = ext
		num := ext.Header.Number()
		s.byNumber[num] = append(s.byNumber[num], hash)
	}
	s.cache.Add(hash, ext)
	if asBest {
		s.best = ext
	}
	return nil
}

func (s *Store) BestHeader() *lightclient.HeaderExt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.best
}

func (s *Store) HeadersAtNumber(n uint64) []*lightclient.HeaderExt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hashes := s.byNumber[n]
	out := make([]*lightclient.HeaderExt, 0, len(hashes))
	for _, h := range hashes {
		if ext, ok := s.headers[h]; ok {
			out = append(out, ext)
		}
	}
	return out
}

func (s *Store) PruneHeader(hash common.Hash) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ext, ok := s.headers[hash]
	if !ok {
		return nil
	}
	num := ext.Header.Number()
	delete(s.headers, hash)
	s.cache.Remove(hash)
	hashes := s.byNumber[num]
	for i, h := range hashes {
		if h == hash {
			s.byNumber[num] = append(hashes[:i], hashes[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) FinalizeHeader(hash common.Hash) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ext, ok := s.headers[hash]
	if !ok {
		return lightclient.MissingParent{Hash: hash}
	}
	s.finalized = ext
	return nil
}

func (s *Store) FinalizedHeader() *lightclient.HeaderExt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.finalized
}
