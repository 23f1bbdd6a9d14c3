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

// Package piececache implements a fixed-capacity, offset-addressed
// on-disk cache of archived blockchain pieces, used by the farming
// subsystem. It is pure I/O: no consensus logic, no chain state.
package piececache

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/subspacelabs/subspace-node/log"
	"github.com/subspacelabs/subspace-node/metrics"
)

// PieceSize is the consensus piece size constant. The spec calls it
// "the consensus piece size constant" without pinning a value; 4096
// bytes is this implementation's concrete choice (see DESIGN.md).
const PieceSize = 4096

// indexSize is the width of the little-endian PieceIndex header that
// precedes every piece record.
const indexSize = 8

// recordSize is the total on-disk width of one slot.
const recordSize = indexSize + PieceSize

// emptySentinel is the PieceIndex value that marks an unallocated slot.
const emptySentinel = ^uint64(0)

// PieceIndex is a 64-bit content identifier for an archived piece.
type PieceIndex uint64

// Piece is a fixed-size erasure-coded chunk of archived blockchain
// history.
type Piece [PieceSize]byte

// ErrOffsetOutsideOfRange is wrapped by OffsetOutsideOfRange.
var ErrOffsetOutsideOfRange = errors.New("piececache: offset outside of range")

// OffsetOutsideOfRange is returned by WritePiece when offset >= capacity.
type OffsetOutsideOfRange struct {
	Provided uint64
	Max      uint64
}

func (e OffsetOutsideOfRange) Error() string {
	return fmt.Sprintf("piececache: offset %d outside of range [0, %d)", e.Provided, e.Max)
}

func (e OffsetOutsideOfRange) Unwrap() error { return ErrOffsetOutsideOfRange }

// ErrCorrupt is returned by Open when an existing, non-empty file's
// length is not exactly capacity times the record size.
var ErrCorrupt = errors.New("piececache: file size does not match capacity")

var (
	readsMeter     = metrics.NewRegisteredCounter("piececache/reads", nil)
	writesMeter    = metrics.NewRegisteredCounter("piececache/writes", nil)
	evictionsMeter = metrics.NewRegisteredCounter("piececache/evictions", nil)
)

// Cache is a single fixed-size file of `capacity` slots, each holding
// one (PieceIndex, Piece) record. Multiple concurrent readers are
// permitted; writes are serialized by a per-cache mutex, which is
// sufficient for a single-process writer (spec §5) — cross-process
// sharing requires external locking, same as the spec's shared
// resource policy.
type Cache struct {
	mu       sync.RWMutex
	file     *os.File
	capacity uint64
	log      log.Logger
}

// Open opens or creates the piece cache file at path, sized for
// capacity slots.
func Open(path string, capacity uint64) (*Cache, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	c := &Cache{file: f, capacity: capacity, log: log.New("module", "piececache")}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	wantSize := int64(capacity) * recordSize
	switch {
	case info.Size() == 0:
		if err := f.Truncate(wantSize); err != nil {
			f.Close()
			return nil, err
		}
		if err := c.initializeEmpty(); err != nil {
			f.Close()
			return nil, err
		}
	case info.Size() != wantSize:
		f.Close()
		c.log.Error("corrupt piece cache file", "path", path, "size", info.Size(), "want", wantSize)
		return nil, ErrCorrupt
	}

	c.log.Info("opened piece cache", "path", path, "capacity", capacity)
	return c, nil
}

// initializeEmpty writes the empty sentinel into every slot's index
// header of a freshly truncated file.
func (c *Cache) initializeEmpty() error {
	var header [indexSize]byte
	binary.LittleEndian.PutUint64(header[:], emptySentinel)
	for offset := uint64(0); offset < c.capacity; offset++ {
		if _, err := c.file.WriteAt(header[:], int64(offset*recordSize)); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the backing file handle.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.file.Close()
}

// Capacity returns the number of slots the cache was opened with.
func (c *Cache) Capacity() uint64 { return c.capacity }

// WritePiece stores piece under index at offset, overwriting whatever
// was previously there. Writes are atomic from a concurrent reader's
// perspective: this cache's chosen guarantee (spec §4.3) is a single
// in-process writer per cache serialized by mu, combined with WriteAt
// atomicity for the underlying block device — not temp-file-and-rename,
// since piece records are fixed-size and a rename-per-write would
// defeat the point of a fixed-capacity ring.
func (c *Cache) WritePiece(offset uint64, index PieceIndex, piece *Piece) error {
	if offset >= c.capacity {
		return OffsetOutsideOfRange{Provided: offset, Max: c.capacity}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var record [recordSize]byte
	binary.LittleEndian.PutUint64(record[:indexSize], uint64(index))
	copy(record[indexSize:], piece[:])

	if _, err := c.file.WriteAt(record[:], int64(offset*recordSize)); err != nil {
		return err
	}
	writesMeter.Inc(1)
	return nil
}

// ReadPiece returns the piece stored at offset, or ok=false for an
// empty slot.
func (c *Cache) ReadPiece(offset uint64) (piece *Piece, ok bool, err error) {
	if offset >= c.capacity {
		return nil, false, OffsetOutsideOfRange{Provided: offset, Max: c.capacity}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var record [recordSize]byte
	if _, err := c.file.ReadAt(record[:], int64(offset*recordSize)); err != nil {
		return nil, false, err
	}
	index := binary.LittleEndian.Uint64(record[:indexSize])
	if index == emptySentinel {
		return nil, false, nil
	}
	var p Piece
	copy(p[:], record[indexSize:])
	readsMeter.Inc(1)
	return &p, true, nil
}

// ReadPieceIndex returns the PieceIndex stored at offset, or ok=false
// for an empty slot.
func (c *Cache) ReadPieceIndex(offset uint64) (index PieceIndex, ok bool, err error) {
	if offset >= c.capacity {
		return 0, false, OffsetOutsideOfRange{Provided: offset, Max: c.capacity}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var header [indexSize]byte
	if _, err := c.file.ReadAt(header[:], int64(offset*recordSize)); err != nil {
		return 0, false, err
	}
	raw := binary.LittleEndian.Uint64(header[:])
	if raw == emptySentinel {
		return 0, false, nil
	}
	return PieceIndex(raw), true, nil
}

// Contents returns, for each offset in [0, capacity) in increasing
// order, the PieceIndex stored there (ok=false for an empty slot). The
// returned slice is a point-in-time snapshot; callers needing a live
// view re-invoke Contents.
func (c *Cache) Contents() ([]ContentEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]ContentEntry, c.capacity)
	var header [indexSize]byte
	for offset := uint64(0); offset < c.capacity; offset++ {
		if _, err := c.file.ReadAt(header[:], int64(offset*recordSize)); err != nil {
			return nil, err
		}
		raw := binary.LittleEndian.Uint64(header[:])
		out[offset] = ContentEntry{Offset: offset}
		if raw != emptySentinel {
			out[offset].Index = PieceIndex(raw)
			out[offset].Present = true
		}
	}
	return out, nil
}

// ContentEntry is one (offset, Option<PieceIndex>) pair as returned by
// Contents.
type ContentEntry struct {
	Offset  uint64
	Index   PieceIndex
	Present bool
}

// Wipe removes the backing file at path such that a subsequent Open
// with the same capacity observes all-empty contents.
func Wipe(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	evictionsMeter.Inc(1)
	return nil
}
