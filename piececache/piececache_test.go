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

package piececache_test

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/subspacelabs/subspace-node/piececache"
)

func randomPiece(t *testing.T) *piececache.Piece {
	t.Helper()
	var p piececache.Piece
	_, err := rand.New(rand.NewSource(1)).Read(p[:])
	require.NoError(t, err)
	return &p
}

func presentCount(t *testing.T, c *piececache.Cache) int {
	t.Helper()
	contents, err := c.Contents()
	require.NoError(t, err)
	n := 0
	for _, e := range contents {
		if e.Present {
			n++
		}
	}
	return n
}

// TestBasic ports the original disk piece cache's basic() fixture:
// open empty, write two pieces, overflow the third, override the
// first, reopen (contents survive), wipe, reopen (contents gone).
func TestBasic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "piece_cache.bin")

	func() {
		c, err := piececache.Open(path, 2)
		require.NoError(t, err)
		defer c.Close()

		require.Equal(t, 0, presentCount(t, c))

		offset0, index0 := uint64(0), piececache.PieceIndex(0)
		idx, ok, err := c.ReadPieceIndex(offset0)
		require.NoError(t, err)
		require.False(t, ok)
		require.Equal(t, piececache.PieceIndex(0), idx)
		_, ok, err = c.ReadPiece(offset0)
		require.NoError(t, err)
		require.False(t, ok)

		require.NoError(t, c.WritePiece(offset0, index0, randomPiece(t)))

		idx, ok, err = c.ReadPieceIndex(offset0)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, index0, idx)
		_, ok, err = c.ReadPiece(offset0)
		require.NoError(t, err)
		require.True(t, ok)

		require.Equal(t, 1, presentCount(t, c))

		offset1, index1 := uint64(1), piececache.PieceIndex(10)
		require.NoError(t, c.WritePiece(offset1, index1, randomPiece(t)))
		require.Equal(t, 2, presentCount(t, c))

		err = c.WritePiece(2, piececache.PieceIndex(0), randomPiece(t))
		var rangeErr piececache.OffsetOutsideOfRange
		require.ErrorAs(t, err, &rangeErr)
		require.Equal(t, uint64(2), rangeErr.Provided)
		require.Equal(t, uint64(2), rangeErr.Max)

		overrideIndex := piececache.PieceIndex(13)
		require.NoError(t, c.WritePiece(offset0, overrideIndex, randomPiece(t)))
		idx, ok, err = c.ReadPieceIndex(offset0)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, overrideIndex, idx)
	}()

	// Reopening preserves contents.
	func() {
		c, err := piececache.Open(path, 2)
		require.NoError(t, err)
		defer c.Close()
		require.Equal(t, 2, presentCount(t, c))
	}()

	// Wiping clears the file; reopening yields an empty cache.
	require.NoError(t, piececache.Wipe(path))

	c, err := piececache.Open(path, 2)
	require.NoError(t, err)
	defer c.Close()
	require.Equal(t, 0, presentCount(t, c))
}

// TestWritePieceOutsideRangeAtCapacityOne pins the exact error shape of
// the OffsetOutsideOfRange S7 scenario at a smaller capacity.
func TestWritePieceOutsideRangeAtCapacityOne(t *testing.T) {
	path := filepath.Join(t.TempDir(), "piece_cache.bin")
	c, err := piececache.Open(path, 1)
	require.NoError(t, err)
	defer c.Close()

	err = c.WritePiece(1, piececache.PieceIndex(0), randomPiece(t))
	require.Equal(t, piececache.OffsetOutsideOfRange{Provided: 1, Max: 1}, err)
	require.ErrorIs(t, err, piececache.ErrOffsetOutsideOfRange)
}

// TestReadPieceOutsideRange exercises the bounds check on the read
// path too, not just writes.
func TestReadPieceOutsideRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "piece_cache.bin")
	c, err := piececache.Open(path, 1)
	require.NoError(t, err)
	defer c.Close()

	_, _, err = c.ReadPiece(5)
	require.Equal(t, piececache.OffsetOutsideOfRange{Provided: 5, Max: 1}, err)

	_, _, err = c.ReadPieceIndex(5)
	require.Equal(t, piececache.OffsetOutsideOfRange{Provided: 5, Max: 1}, err)
}

// TestRoundTrip checks that a written piece's bytes come back
// unmodified via ReadPiece, and its index via ReadPieceIndex.
func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "piece_cache.bin")
	c, err := piececache.Open(path, 4)
	require.NoError(t, err)
	defer c.Close()

	want := randomPiece(t)
	require.NoError(t, c.WritePiece(3, piececache.PieceIndex(99), want))

	got, ok, err := c.ReadPiece(3)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, *want, *got)

	idx, ok, err := c.ReadPieceIndex(3)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, piececache.PieceIndex(99), idx)
}

// TestOpenRejectsSizeMismatch ports the original's corrupt-cache
// detection: an existing file whose size doesn't match the requested
// capacity is refused rather than silently reinterpreted.
func TestOpenRejectsSizeMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "piece_cache.bin")

	c, err := piececache.Open(path, 2)
	require.NoError(t, err)
	require.NoError(t, c.Close())

	_, err = piececache.Open(path, 3)
	require.ErrorIs(t, err, piececache.ErrCorrupt)
}
