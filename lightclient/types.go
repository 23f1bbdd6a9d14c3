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

// Package lightclient implements a stateless consensus header importer:
// digest verification, fork choice and a pruning-aware multi-tip header
// store, decoupled from a concrete header encoding via the Header and
// Storage interfaces (mirroring the relationship between go-ethereum's
// consensus.Engine and types.Header/core.HeaderChain).
package lightclient

import "github.com/subspacelabs/subspace-node/common"

// Solution is the (public key, tag, local challenge) triple a farmer
// submits as proof of eligibility for a slot.
type Solution struct {
	PublicKey      []byte
	Tag            [8]byte
	LocalChallenge common.Hash
}

// PreDigest is the per-block claim: the slot it claims and the solution
// submitted for it.
type PreDigest struct {
	Slot     uint64
	Solution Solution
}

// Digest is the structured bundle extracted from a header's consensus
// digest items (spec §4.2 step 3).
type Digest struct {
	PreDigest     PreDigest
	SealSignature []byte

	GlobalRandomness common.Hash
	SolutionRange    uint64
	Salt             common.Hash

	NextGlobalRandomness *common.Hash
	NextSolutionRange    *uint64
	NextSalt             *common.Hash

	RecordsRoots []common.Hash
}

// SolutionVerifyParams carries the parameters verify_solution needs
// from the importer. PieceCheckParams is intentionally absent: PoAS
// record-root verification is deferred, per spec.
type SolutionVerifyParams struct {
	GlobalRandomness common.Hash
	SolutionRange    uint64
	Salt             common.Hash
}

// Header decouples the importer from a concrete header encoding.
// Implementations are expected to be immutable value types.
type Header interface {
	Hash() common.Hash
	ParentHash() common.Hash
	Number() uint64

	// HashBeforeSeal is the hash computed over the header's encoding
	// with the seal digest omitted; it is what the reward signature is
	// computed over (spec §4.2 step 6, "pop the seal... push it back").
	HashBeforeSeal() common.Hash

	// Digest extracts the structured digest bundle. A malformed header
	// reports a non-nil error, propagated by the importer as
	// DigestExtractionError.
	Digest() (Digest, error)
}

// HeaderExt wraps a consensus Header with the derived, post-import
// fields the store persists (spec §3.2).
type HeaderExt struct {
	Header Header

	DerivedGlobalRandomness common.Hash
	DerivedSolutionRange    uint64
	DerivedSalt             common.Hash

	// TotalWeight is the cumulative chain weight up to and including
	// this header, conceptually 128 bits wide; represented with a
	// uint256.Int so overflow can be detected with AddOverflow rather
	// than silently wrapped.
	TotalWeight Weight
}
