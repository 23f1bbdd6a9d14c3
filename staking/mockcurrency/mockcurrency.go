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

// Package mockcurrency is an in-memory test double for staking.Currency
// and staking.FreezeIdentifier, grounded in the original source's
// new_test_ext()/pallet_balances mock pattern (a minimal balances
// ledger plus per-(account, freeze id) locks).
package mockcurrency

import (
	"encoding/binary"
	"sync"

	"github.com/subspacelabs/subspace-node/staking"
)

type freezeKey struct {
	account staking.AccountId
	freeze  string
}

// Mock is an in-memory Currency + FreezeIdentifier double.
type Mock struct {
	mu      sync.Mutex
	balance map[staking.AccountId]staking.Balance
	frozen  map[freezeKey]staking.Balance
}

// New returns an empty Mock.
func New() *Mock {
	return &Mock{
		balance: make(map[staking.AccountId]staking.Balance),
		frozen:  make(map[freezeKey]staking.Balance),
	}
}

// SetBalance sets who's free balance directly, mirroring the original
// test harness's Balances::set_balance.
func (m *Mock) SetBalance(who staking.AccountId, amount staking.Balance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balance[who] = amount
}

// UsableBalance returns who's free balance (the mock has no existential
// deposit or other reserve classes, so usable == free).
func (m *Mock) UsableBalance(who staking.AccountId) staking.Balance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balance[who]
}

// ReducibleBalance implements staking.Currency.
func (m *Mock) ReducibleBalance(who staking.AccountId) staking.Balance {
	return m.UsableBalance(who)
}

// BalanceFrozen implements staking.Currency.
func (m *Mock) BalanceFrozen(id staking.FreezeID, who staking.AccountId) staking.Balance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frozen[freezeKey{who, string(id)}]
}

// SetFreeze implements staking.Currency: it reduces who's free balance
// by the delta against the previous lock under this freeze id (and
// restores balance on a decreasing lock), mirroring pallet-balances'
// fungible::MutateFreeze::set_freeze semantics closely enough for
// testing the ledger's call shape.
func (m *Mock) SetFreeze(id staking.FreezeID, who staking.AccountId, amount staking.Balance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := freezeKey{who, string(id)}
	previous := m.frozen[key]
	if amount >= previous {
		delta := amount - previous
		m.balance[who] -= delta
	} else {
		delta := previous - amount
		m.balance[who] += delta
	}
	m.frozen[key] = amount
	return nil
}

// StakingFreezeID implements staking.FreezeIdentifier: a deterministic,
// distinct byte string per OperatorId.
func (m *Mock) StakingFreezeID(id staking.OperatorId) staking.FreezeID {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(id))
	return buf[:]
}
