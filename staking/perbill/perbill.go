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

// Package perbill implements the proportional scaling contract the
// staking ledger's host runtime must supply (spec §6.1): a
// parts-per-billion fixed-point rational, used to convert a nominator's
// share of an operator pool into a balance.
//
// The unit is an implementation choice (the upstream host defines the
// rounding, per the spec's open question). This package pins the
// convention the original pallet-domains source actually exhibits:
// FromRational rounds the ratio itself to the nearest part-per-billion,
// but Mul (applying the ratio to a balance) truncates — the same
// split the original Rust Perbill type uses, and the split the
// withdrawal fixtures ported into this package's tests depend on.
package perbill

import "math/big"

// Denominator is the fixed-point base: one billion parts per unit.
const Denominator = 1_000_000_000

// Perbill is a proportional scaling factor in [0, 1], represented as
// parts per billion.
type Perbill struct {
	parts uint64
}

// FromRational returns the Perbill nearest to num/den, rounding half up.
// den must be non-zero; a zero denominator yields the zero Perbill.
func FromRational(num, den uint64) Perbill {
	if den == 0 {
		return Perbill{}
	}
	n := new(big.Int).SetUint64(num)
	n.Mul(n, big.NewInt(Denominator))
	d := new(big.Int).SetUint64(den)

	q, r := new(big.Int), new(big.Int)
	q.DivMod(n, d, r)

	// Round half up: r*2 >= d promotes to the next integer.
	r.Mul(r, big.NewInt(2))
	if r.Cmp(d) >= 0 {
		q.Add(q, big.NewInt(1))
	}
	if q.Cmp(new(big.Int).SetUint64(Denominator)) > 0 {
		q.SetUint64(Denominator)
	}
	return Perbill{parts: q.Uint64()}
}

// Mul scales x by the receiver, truncating any fractional remainder.
func (p Perbill) Mul(x uint64) uint64 {
	n := new(big.Int).SetUint64(x)
	n.Mul(n, new(big.Int).SetUint64(p.parts))
	d := big.NewInt(Denominator)
	q := new(big.Int).Div(n, d)
	return q.Uint64()
}

// Parts returns the underlying parts-per-billion value.
func (p Perbill) Parts() uint64 { return p.parts }
