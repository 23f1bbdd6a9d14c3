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

import (
	"encoding/binary"
	"math"

	"github.com/subspacelabs/subspace-node/common"
	"github.com/subspacelabs/subspace-node/log"
)

// Verifier is the set of digest and cryptography collaborators the
// importer treats as black boxes (spec §6.3): reward signature
// verification, PoAS solution verification and the challenge/target
// derivation functions it needs to compute block weight.
type Verifier interface {
	CheckRewardSignature(preHash common.Hash, sig []byte, pubkey []byte) error
	VerifySolution(sol Solution, slot uint64, params SolutionVerifyParams) error
	DeriveGlobalChallenge(randomness common.Hash, slot uint64) common.Hash
	DeriveTarget(pubkey []byte, challenge common.Hash, localChallenge common.Hash) uint64
	BidirectionalDistance(a, b uint64) uint64
}

// Importer validates externally supplied headers and maintains fork
// choice over a Storage. It holds no chain state of its own (the store
// does); the only state it carries is its cryptography collaborator and
// loggers, mirroring how consensus.Engine in the teacher is stateless
// with respect to chain data.
type Importer struct {
	verifier Verifier
	log      log.Logger
}

// New returns an Importer that validates digests and solutions using v.
func New(v Verifier) *Importer {
	return &Importer{verifier: v, log: log.New("module", "lightclient")}
}

// ImportHeader validates header against store and, if valid, inserts it
// (spec §4.2). Concurrent calls against the same Storage must be
// serialized by the caller; ImportHeader performs read-modify-write on
// best_header and the height index.
func (im *Importer) ImportHeader(store Storage, header Header) (*HeaderExt, error) {
	hash := header.Hash()
	if _, ok := store.Header(hash); ok {
		return nil, ErrHeaderAlreadyImported
	}

	parent, ok := store.Header(header.ParentHash())
	if !ok {
		rejectionsMeter.Inc(1)
		im.log.Warn("rejecting header with missing parent", "hash", hash, "parentHash", header.ParentHash())
		return nil, MissingParent{Hash: hash}
	}

	digest, err := header.Digest()
	if err != nil {
		rejectionsMeter.Inc(1)
		im.log.Warn("rejecting header with unextractable digest", "hash", hash, "err", err)
		return nil, DigestExtractionError{Err: err}
	}

	parentDigest, err := parent.Header.Digest()
	if err != nil {
		return nil, DigestExtractionError{Err: err}
	}

	if digest.GlobalRandomness != parent.DerivedGlobalRandomness {
		rejectionsMeter.Inc(1)
		im.log.Warn("rejecting header with mismatched global randomness", "hash", hash)
		return nil, InvalidDigest{Kind: "global_randomness"}
	}
	if digest.SolutionRange != parent.DerivedSolutionRange {
		rejectionsMeter.Inc(1)
		im.log.Warn("rejecting header with mismatched solution range", "hash", hash)
		return nil, InvalidDigest{Kind: "solution_range"}
	}
	if digest.Salt != parent.DerivedSalt {
		rejectionsMeter.Inc(1)
		im.log.Warn("rejecting header with mismatched salt", "hash", hash)
		return nil, InvalidDigest{Kind: "salt"}
	}

	if digest.PreDigest.Slot <= parentDigest.PreDigest.Slot {
		rejectionsMeter.Inc(1)
		im.log.Warn("rejecting header with non-monotonic slot", "hash", hash, "slot", digest.PreDigest.Slot, "parentSlot", parentDigest.PreDigest.Slot)
		return nil, ErrInvalidSlot
	}

	pubkey := digest.PreDigest.Solution.PublicKey
	if err := im.verifier.CheckRewardSignature(header.HashBeforeSeal(), digest.SealSignature, pubkey); err != nil {
		rejectionsMeter.Inc(1)
		im.log.Warn("rejecting header with invalid reward signature", "hash", hash, "err", err)
		return nil, err
	}

	params := SolutionVerifyParams{
		GlobalRandomness: digest.GlobalRandomness,
		SolutionRange:    digest.SolutionRange,
		Salt:             digest.Salt,
	}
	if err := im.verifier.VerifySolution(digest.PreDigest.Solution, digest.PreDigest.Slot, params); err != nil {
		rejectionsMeter.Inc(1)
		im.log.Warn("rejecting header with invalid solution", "hash", hash, "err", err)
		return nil, InvalidSolution{Err: err}
	}

	challenge := im.verifier.DeriveGlobalChallenge(digest.GlobalRandomness, digest.PreDigest.Slot)
	target := im.verifier.DeriveTarget(pubkey, challenge, digest.PreDigest.Solution.LocalChallenge)
	tag := binary.BigEndian.Uint64(digest.PreDigest.Solution.Tag[:])
	blockWeight := math.MaxUint64 - im.verifier.BidirectionalDistance(target, tag)

	totalWeight, err := addWeight(parent.TotalWeight, blockWeight)
	if err != nil {
		return nil, err
	}

	ext := &HeaderExt{
		Header:                  header,
		DerivedGlobalRandomness: parent.DerivedGlobalRandomness,
		DerivedSolutionRange:    parent.DerivedSolutionRange,
		DerivedSalt:             parent.DerivedSalt,
		TotalWeight:             totalWeight,
	}

	best := store.BestHeader()
	asBest := false
	switch {
	case best == nil:
		asBest = true
	case best.Header.Hash() == parent.Header.Hash():
		asBest = true
	default:
		switch totalWeight.Cmp(&best.TotalWeight) {
		case 1:
			asBest = true
		case 0:
			asBest = header.Number() > best.Header.Number()
		}
	}

	if err := store.StoreHeader(ext, asBest); err != nil {
		return nil, err
	}

	importsMeter.Inc(1)
	if asBest && best != nil && best.Header.Hash() != parent.Header.Hash() {
		reorgsMeter.Inc(1)
		im.log.Info("chain reorg", "newBest", hash, "oldBest", best.Header.Hash(), "number", header.Number())
	} else if asBest {
		im.log.Info("extended best chain", "hash", hash, "number", header.Number())
	}

	return ext, nil
}

// FindAncestorOfHeaderAtNumber returns the ancestor of header at height
// n, or ok=false if n >= header's own number or the ancestor cannot be
// located (spec §4.2). Below the finalized height, or whenever there is
// no competing fork at n, it takes the fast path of trusting the
// store's single known header at that height rather than walking
// parent pointers.
func FindAncestorOfHeaderAtNumber(store Storage, header *HeaderExt, n uint64) (*HeaderExt, bool) {
	if n >= header.Header.Number() {
		return nil, false
	}

	finalized := store.FinalizedHeader()
	atN := store.HeadersAtNumber(n)
	if (finalized != nil && n <= finalized.Header.Number()) || len(atN) == 1 {
		if len(atN) == 0 {
			return nil, false
		}
		return atN[0], true
	}

	cur := header
	for cur.Header.Number() > n {
		parent, ok := store.Header(cur.Header.ParentHash())
		if !ok {
			return nil, false
		}
		cur = parent
	}
	return cur, true
}

// PruneChainFromHeader prunes header and every descendant of it, via a
// breadth-first downward traversal by block number (spec §4.2).
func PruneChainFromHeader(store Storage, header *HeaderExt) error {
	frontier := []common.Hash{header.Header.Hash()}
	num := header.Header.Number()

	for len(frontier) > 0 {
		if num == math.MaxUint64 {
			return ArithmeticError{Kind: "Overflow"}
		}
		nextNum := num + 1

		frontierSet := make(map[common.Hash]bool, len(frontier))
		for _, h := range frontier {
			frontierSet[h] = true
		}

		var next []common.Hash
		for _, child := range store.HeadersAtNumber(nextNum) {
			if frontierSet[child.Header.ParentHash()] {
				next = append(next, child.Header.Hash())
			}
		}

		for _, h := range frontier {
			if err := store.PruneHeader(h); err != nil {
				return err
			}
		}

		frontier = next
		num = nextNum
	}
	return nil
}
