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
	"errors"
	"fmt"

	"github.com/subspacelabs/subspace-node/common"
)

// ErrHeaderAlreadyImported is returned when a header with a hash
// already present in the store is submitted again.
var ErrHeaderAlreadyImported = errors.New("lightclient: header already imported")

// ErrInvalidSlot is returned when a header's claimed slot does not
// strictly exceed its parent's.
var ErrInvalidSlot = errors.New("lightclient: slot is not strictly increasing over parent")

// ErrInvalidBlockSignature is returned when a header's reward signature
// fails to verify against its solution public key.
var ErrInvalidBlockSignature = errors.New("lightclient: invalid block reward signature")

// MissingParent is returned when a header's parent cannot be found in
// the store.
type MissingParent struct {
	Hash common.Hash
}

func (e MissingParent) Error() string {
	return fmt.Sprintf("lightclient: missing parent for header %s", e.Hash)
}

// DigestExtractionError wraps a failure to extract the structured
// digest bundle from a header.
type DigestExtractionError struct {
	Err error
}

func (e DigestExtractionError) Error() string {
	return fmt.Sprintf("lightclient: digest extraction failed: %v", e.Err)
}

func (e DigestExtractionError) Unwrap() error { return e.Err }

// InvalidDigest is returned when a header's global randomness, solution
// range or salt digest disagrees with its parent's derived value.
type InvalidDigest struct {
	Kind string
}

func (e InvalidDigest) Error() string {
	return fmt.Sprintf("lightclient: invalid digest: %s does not match parent", e.Kind)
}

// InvalidSolution wraps a failure from the solution verification
// collaborator.
type InvalidSolution struct {
	Err error
}

func (e InvalidSolution) Error() string {
	return fmt.Sprintf("lightclient: invalid solution: %v", e.Err)
}

func (e InvalidSolution) Unwrap() error { return e.Err }

// ArithmeticError is returned when a checked arithmetic operation
// (block-number increment, weight addition) would overflow.
type ArithmeticError struct {
	Kind string
}

func (e ArithmeticError) Error() string {
	return fmt.Sprintf("lightclient: arithmetic error: %s", e.Kind)
}
