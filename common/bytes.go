// Copyright 2014 The go-ethereum Authors
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

// Package common holds small fixed-size identifier types (Hash, Address)
// and byte-slice helpers shared by the staking ledger and header importer,
// mirroring the role go-ethereum's common package plays for
// its own packages.
package common

import "encoding/hex"

// CopyBytes returns an exact copy of b.
func CopyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp
}

// LeftPadBytes zero-pads b on the left up to length l.
func LeftPadBytes(b []byte, l int) []byte {
	if l <= len(b) {
		return b
	}
	padded := make([]byte, l)
	copy(padded[l-len(b):], b)
	return padded
}

// RightPadBytes zero-pads b on the right up to length l.
func RightPadBytes(b []byte, l int) []byte {
	if l <= len(b) {
		return b
	}
	padded := make([]byte, l)
	copy(padded, b)
	return padded
}

// FromHex decodes a hex string, tolerating an optional "0x" prefix and an
// odd number of digits (treated as if zero-padded on the left by a nibble).
func FromHex(s string) []byte {
	if has0xPrefix(s) {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, _ := hex.DecodeString(s)
	return b
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// isHex reports whether s consists solely of hex digits (no 0x prefix, even
// length required, as used by IsHexAddress).
func isHex(s string) bool {
	if len(s)%2 != 0 {
		return false
	}
	for _, c := range []byte(s) {
		if !isHexCharacter(c) {
			return false
		}
	}
	return true
}

func isHexCharacter(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
