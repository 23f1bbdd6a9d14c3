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

import "github.com/holiman/uint256"

// Weight is the cumulative chain weight type. It is conceptually a
// 128-bit unsigned integer (spec §3.2, §9); uint256.Int is used purely
// for its checked AddOverflow, not because weight is expected to ever
// approach 256 bits.
type Weight = uint256.Int

// addWeight adds delta to w, returning ArithmeticError(Overflow) if the
// sum overflows uint256 (which would imply it has long since blown past
// the spec's assumed 128-bit ceiling).
func addWeight(w Weight, delta uint64) (Weight, error) {
	var sum uint256.Int
	overflow := sum.AddOverflow(&w, uint256.NewInt(delta))
	if overflow {
		return Weight{}, ArithmeticError{Kind: "Overflow"}
	}
	return sum, nil
}
