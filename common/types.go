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

package common

import "encoding/hex"

const (
	// HashLength is the expected length of a Hash, used as header and
	// freeze-identity hashes throughout the ledger and header importer.
	HashLength = 32
	// AddressLength is the expected length of an Address, used as the
	// staking ledger's AccountId.
	AddressLength = 20
)

// Hash is a fixed-size 32 byte array, used for block hashes and other
// content identifiers.
type Hash [HashLength]byte

// BytesToHash sets the last HashLength bytes of b (left-truncating or
// zero-padding on the left as needed) into a Hash.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

// HexToHash parses s (with or without 0x prefix) into a Hash.
func HexToHash(s string) Hash {
	return BytesToHash(FromHex(s))
}

// SetBytes sets the hash to the value of b, left-padding or truncating from
// the left if b is not exactly HashLength bytes.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > len(h) {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
}

// Bytes returns the hash as a byte slice.
func (h Hash) Bytes() []byte { return h[:] }

// Hex returns the 0x-prefixed hex encoding of h.
func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

func (h Hash) String() string { return h.Hex() }

// IsZero reports whether h is the zero hash, used to identify a missing
// parent reference on a genesis header.
func (h Hash) IsZero() bool { return h == Hash{} }

// Address is a fixed-size 20 byte array, used as the staking ledger's
// AccountId and OperatorIdOwner value.
type Address [AddressLength]byte

// BytesToAddress sets the last AddressLength bytes of b into an Address.
func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

// HexToAddress parses s (with or without 0x prefix) into an Address.
func HexToAddress(s string) Address {
	return BytesToAddress(FromHex(s))
}

func (a *Address) SetBytes(b []byte) {
	if len(b) > len(a) {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

func (a Address) Bytes() []byte { return a[:] }

func (a Address) Hex() string { return "0x" + hex.EncodeToString(a[:]) }

func (a Address) String() string { return a.Hex() }

// IsHexAddress reports whether s is a valid hex-encoded address, with or
// without the 0x prefix.
func IsHexAddress(s string) bool {
	if has0xPrefix(s) {
		s = s[2:]
	}
	return len(s) == 2*AddressLength && isHex(s)
}
