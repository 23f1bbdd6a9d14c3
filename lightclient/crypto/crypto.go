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

// Package crypto supplies concrete implementations of the digest and
// solution collaborators the header importer treats as black boxes:
// reward signature verification (ed25519), challenge/target derivation
// (blake2b) and solution-tag ring distance (XOR-then-min).
package crypto

import (
	"crypto/ed25519"
	"encoding/binary"
	"errors"

	"github.com/subspacelabs/subspace-node/common"
	"github.com/subspacelabs/subspace-node/lightclient"
	"golang.org/x/crypto/blake2b"
)

// ErrOutsideSolutionRange is returned by VerifySolution when the
// solution tag lies further from the derived target than the slot's
// solution range permits.
var ErrOutsideSolutionRange = errors.New("lightclient/crypto: solution outside of solution range")

// ErrBadSignatureLength is returned by CheckRewardSignature when the
// supplied signature is not a valid ed25519 signature length.
var ErrBadSignatureLength = errors.New("lightclient/crypto: malformed reward signature")

// ErrBadPublicKeyLength is returned when a solution's public key is not
// a valid ed25519 public key length.
var ErrBadPublicKeyLength = errors.New("lightclient/crypto: malformed solution public key")

// Verifier is the concrete, deterministic implementation of the §6.3
// digest and cryptography collaborators, wired into the importer.
type Verifier struct{}

// NewVerifier returns the concrete digest/cryptography collaborator.
func NewVerifier() Verifier { return Verifier{} }

// DeriveGlobalChallenge derives the per-slot global challenge from the
// chain's current global randomness and the slot number.
func (Verifier) DeriveGlobalChallenge(randomness common.Hash, slot uint64) common.Hash {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], slot)
	h := blake2b.Sum256(append(randomness.Bytes(), buf[:]...))
	return common.Hash(h)
}

// DeriveTarget derives the farmer's target tag from its public key, the
// global challenge and its local challenge, interpreted as a big-endian
// uint64 of the first 8 digest bytes.
func (Verifier) DeriveTarget(pubkey []byte, challenge common.Hash, localChallenge common.Hash) uint64 {
	buf := make([]byte, 0, len(pubkey)+common.HashLength*2)
	buf = append(buf, pubkey...)
	buf = append(buf, challenge.Bytes()...)
	buf = append(buf, localChallenge.Bytes()...)
	h := blake2b.Sum256(buf)
	return binary.BigEndian.Uint64(h[:8])
}

// BidirectionalDistance returns the ring distance between a and b: the
// XOR x of the two values, reduced to the smaller of x and its bitwise
// complement 2^64-1-x.
func (Verifier) BidirectionalDistance(a, b uint64) uint64 {
	x := a ^ b
	complement := ^uint64(0) - x
	if complement < x {
		return complement
	}
	return x
}

// CheckRewardSignature verifies sig over preHash under pubkey.
func (Verifier) CheckRewardSignature(preHash common.Hash, sig []byte, pubkey []byte) error {
	if len(pubkey) != ed25519.PublicKeySize {
		return ErrBadPublicKeyLength
	}
	if len(sig) != ed25519.SignatureSize {
		return ErrBadSignatureLength
	}
	if !ed25519.Verify(ed25519.PublicKey(pubkey), preHash.Bytes(), sig) {
		return lightclient.ErrInvalidBlockSignature
	}
	return nil
}

// VerifySolution checks that the solution's tag lies within the
// slot's solution range of the derived target. PoAS piece-audit
// verification (piece_check_params) is out of scope, per spec.
func (v Verifier) VerifySolution(sol lightclient.Solution, slot uint64, params lightclient.SolutionVerifyParams) error {
	if len(sol.Tag) != 8 {
		return errors.New("lightclient/crypto: malformed solution tag")
	}
	challenge := v.DeriveGlobalChallenge(params.GlobalRandomness, slot)
	target := v.DeriveTarget(sol.PublicKey, challenge, sol.LocalChallenge)
	tag := binary.BigEndian.Uint64(sol.Tag[:])
	dist := v.BidirectionalDistance(target, tag)
	if dist > params.SolutionRange/2 {
		return ErrOutsideSolutionRange
	}
	return nil
}

// Sign is a test/tooling helper producing a reward signature compatible
// with CheckRewardSignature; production signing happens in the farmer,
// out of scope here.
func Sign(priv ed25519.PrivateKey, preHash common.Hash) []byte {
	return ed25519.Sign(priv, preHash.Bytes())
}
