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

package lightclient

import "github.com/subspacelabs/subspace-node/common"

// ChainConstants are the store's host-defined constants (spec §3.2).
type ChainConstants struct {
	// KDepth is the block-number depth behind best_header at which
	// finalization occurs.
	KDepth uint64
}

// Storage owns every persisted HeaderExt. Implementations must make
// import_header-visible mutations atomic from the perspective of any
// concurrent reader (spec §3.2, §5). The importer takes no lock of its
// own; callers serialize ImportHeader calls against a single Storage,
// so Storage need not be safe for concurrent StoreHeader calls, only
// for concurrent reads racing a single writer.
type Storage interface {
	ChainConstants() ChainConstants

	// Header returns the HeaderExt for hash, or ok=false if unknown.
	Header(hash common.Hash) (ext *HeaderExt, ok bool)

	// StoreHeader idempotently inserts ext. If asBest, it atomically
	// promotes ext to the chain tip.
	StoreHeader(ext *HeaderExt, asBest bool) error

	// BestHeader never fails post-genesis.
	BestHeader() *HeaderExt

	// HeadersAtNumber returns every known HeaderExt at height n, which
	// may contain more than one entry across competing forks.
	HeadersAtNumber(n uint64) []*HeaderExt

	PruneHeader(hash common.Hash) error
	FinalizeHeader(hash common.Hash) error
	FinalizedHeader() *HeaderExt
}
