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

// Package staking implements the domain staking ledger: a deterministic
// state machine tracking operator pools, nominator deposits, domain
// assignment changes, deregistration and withdrawal intents for a
// sharded execution-layer ("domains") framework.
package staking

import "github.com/subspacelabs/subspace-node/common"

// OperatorId is a dense, monotonically assigned, never-reused operator
// identifier.
type OperatorId uint64

// DomainId identifies an execution shard.
type DomainId uint64

// EpochIndex is a monotonically increasing per-domain epoch counter.
type EpochIndex uint64

// AccountId identifies a staking participant (pool owner or nominator).
type AccountId = common.Address

// Balance is the ledger's native fixed-width balance unit.
type Balance uint64

// FreezeID is an opaque per-operator freeze identity, produced by the
// host's FreezeIdentifier collaborator.
type FreezeID []byte

// Shares is the scalar unit nominator stakes are tracked in, prior to
// their epoch-boundary conversion back into balance.
type Shares uint64

// OperatorConfig is the registration payload supplied to
// RegisterOperator, supplemented from the original source's
// OperatorConfig (dropped by the distillation, restored here).
type OperatorConfig struct {
	SigningKey            []byte
	MinimumNominatorStake Balance
	// NominationTax is a percentage in [0, 100].
	NominationTax uint8
}

// OperatorPool is the per-OperatorId staking pool record (spec §3.1).
type OperatorPool struct {
	SigningKey            []byte
	CurrentDomainId       DomainId
	NextDomainId          DomainId
	MinimumNominatorStake Balance
	NominationTax         uint8
	CurrentTotalStake     Balance
	CurrentEpochRewards   Balance
	TotalShares           Shares
	IsFrozen              bool
}

// nominatorKey indexes Nominators and PendingDeposit/PendingWithdrawal
// maps by (OperatorId, AccountId).
type nominatorKey struct {
	Operator OperatorId
	Account  AccountId
}

// WithdrawKind distinguishes a full-withdrawal intent from a partial
// one.
type WithdrawKind int

const (
	WithdrawSome WithdrawKind = iota
	WithdrawAll
)

// Withdraw is the Rust-style "All | Some(balance)" withdrawal intent.
type Withdraw struct {
	Kind   WithdrawKind
	Amount Balance // meaningful only when Kind == WithdrawSome
}

// All constructs a full-withdrawal intent.
func All() Withdraw { return Withdraw{Kind: WithdrawAll} }

// Some constructs a partial-withdrawal intent for amount.
func Some(amount Balance) Withdraw { return Withdraw{Kind: WithdrawSome, Amount: amount} }

// DomainStakingSummary is the per-domain epoch bookkeeping record (spec
// §3.1).
type DomainStakingSummary struct {
	CurrentEpochIndex EpochIndex
	CurrentTotalStake Balance
	CurrentOperators  []OperatorId
	NextOperators     []OperatorId
}
