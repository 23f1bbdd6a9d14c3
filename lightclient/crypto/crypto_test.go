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

package crypto

import (
	"crypto/ed25519"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/subspacelabs/subspace-node/common"
	"github.com/subspacelabs/subspace-node/lightclient"
)

func TestBidirectionalDistanceIsSymmetricAndBounded(t *testing.T) {
	v := NewVerifier()
	require.Equal(t, uint64(0), v.BidirectionalDistance(42, 42))
	require.Equal(t, v.BidirectionalDistance(5, 9), v.BidirectionalDistance(9, 5))

	// The complement-of-XOR construction never exceeds half the ring.
	d := v.BidirectionalDistance(0, ^uint64(0))
	require.LessOrEqual(t, d, ^uint64(0)/2+1)
}

func TestCheckRewardSignature(t *testing.T) {
	v := NewVerifier()
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	preHash := common.HexToHash("0x01")
	sig := Sign(priv, preHash)
	require.NoError(t, v.CheckRewardSignature(preHash, sig, pub))

	badSig := append([]byte(nil), sig...)
	badSig[0] ^= 0xff
	require.ErrorIs(t, v.CheckRewardSignature(preHash, badSig, pub), lightclient.ErrInvalidBlockSignature)
}

func TestVerifySolutionWithinRange(t *testing.T) {
	v := NewVerifier()
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	randomness := common.HexToHash("0x02")
	slot := uint64(7)
	localChallenge := common.HexToHash("0x03")
	challenge := v.DeriveGlobalChallenge(randomness, slot)
	target := v.DeriveTarget(pub, challenge, localChallenge)

	var tag [8]byte
	binary.BigEndian.PutUint64(tag[:], target)
	sol := lightclient.Solution{PublicKey: pub, Tag: tag, LocalChallenge: localChallenge}

	params := lightclient.SolutionVerifyParams{GlobalRandomness: randomness, SolutionRange: 1 << 40}
	require.NoError(t, v.VerifySolution(sol, slot, params))

	// Perturbing the tag far outside the range must fail.
	binary.BigEndian.PutUint64(tag[:], target+(1<<50))
	sol.Tag = tag
	require.ErrorIs(t, v.VerifySolution(sol, slot, params), ErrOutsideSolutionRange)
}
