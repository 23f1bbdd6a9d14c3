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

package staking

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/subspacelabs/subspace-node/log"
	"github.com/subspacelabs/subspace-node/metrics"
	"github.com/subspacelabs/subspace-node/staking/perbill"
)

var (
	registrationsMeter = metrics.NewRegisteredCounter("staking/registrations", nil)
	withdrawalsMeter   = metrics.NewRegisteredCounter("staking/withdrawals", nil)
)

// Config carries the host constants the ledger needs (spec §6.1).
type Config struct {
	// MinOperatorStake is the floor for a pool owner's residual stake.
	MinOperatorStake Balance
}

// Currency is the host-runtime balance collaborator the ledger
// mutates freezes through (spec §6.1).
type Currency interface {
	ReducibleBalance(who AccountId) Balance
	BalanceFrozen(id FreezeID, who AccountId) Balance
	SetFreeze(id FreezeID, who AccountId, amount Balance) error
}

// FreezeIdentifier derives an opaque, per-operator freeze identity.
// Distinct OperatorIds MUST yield distinct identities.
type FreezeIdentifier interface {
	StakingFreezeID(id OperatorId) FreezeID
}

// Ledger owns the staking maps described in spec §3.1 and exposes the
// operations of spec §4.1. Every method runs under a single mutex: the
// production call order is already serialized by the host runtime's
// single-threaded block execution (spec §5), but the mutex keeps the
// ledger safe to exercise from concurrent Go tests and benchmarks.
type Ledger struct {
	mu sync.Mutex

	config   Config
	currency Currency
	freezer  FreezeIdentifier
	log      log.Logger

	nextOperatorId OperatorId
	operatorOwner  map[OperatorId]AccountId
	operatorPools  map[OperatorId]*OperatorPool
	nominators     map[nominatorKey]Shares
	pendingDeposit map[nominatorKey]Balance
	pendingWithdraw map[nominatorKey]Withdraw

	domainSummaries map[DomainId]*DomainStakingSummary

	// pendingSwitches and pendingDeregister queue operators for the
	// epoch-boundary routine (out of scope here). A set, not a slice:
	// an operator switching or deregistering twice before the epoch
	// boundary fires must only be processed once.
	pendingSwitches   map[DomainId]mapset.Set[OperatorId]
	pendingDeregister mapset.Set[OperatorId]
}

// New constructs an empty Ledger over the given host collaborators.
func New(config Config, currency Currency, freezer FreezeIdentifier) *Ledger {
	return &Ledger{
		config:            config,
		currency:          currency,
		freezer:           freezer,
		log:               log.New("module", "staking"),
		operatorOwner:     make(map[OperatorId]AccountId),
		operatorPools:     make(map[OperatorId]*OperatorPool),
		nominators:        make(map[nominatorKey]Shares),
		pendingDeposit:    make(map[nominatorKey]Balance),
		pendingWithdraw:   make(map[nominatorKey]Withdraw),
		domainSummaries:   make(map[DomainId]*DomainStakingSummary),
		pendingSwitches:   make(map[DomainId]mapset.Set[OperatorId]),
		pendingDeregister: mapset.NewSet[OperatorId](),
	}
}

// InitializeDomain seeds an empty DomainStakingSummary for domainId.
// Epoch transition and summary promotion are out of scope (spec §3.1
// lifecycle note); this is the minimal bootstrap needed to exercise
// register_operator's DomainNotInitialized check.
func (l *Ledger) InitializeDomain(domainId DomainId) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.domainSummaries[domainId]; !ok {
		l.domainSummaries[domainId] = &DomainStakingSummary{}
	}
}

// DomainSummary returns a copy of domainId's current summary, for
// callers (and tests) that need to observe next_operators/current_operators.
func (l *Ledger) DomainSummary(domainId DomainId) (DomainStakingSummary, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.domainSummaries[domainId]
	if !ok {
		return DomainStakingSummary{}, false
	}
	return *s, true
}

// SetOperatorPool installs or replaces operatorId's pool record and
// owner directly, bypassing RegisterOperator's freeze and domain
// bookkeeping. This is the epoch-transition/bootstrap contract the
// ledger exposes but does not implement (spec §3.1 lifecycle note):
// a host epoch-transition routine converts pending deposits into
// shares and promotes pools; tests use the same entry point to seed
// pool state the way the original source's test harness inserts
// directly into OperatorPools/OperatorIdOwner.
func (l *Ledger) SetOperatorPool(operatorId OperatorId, owner AccountId, pool OperatorPool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.operatorOwner[operatorId] = owner
	p := pool
	l.operatorPools[operatorId] = &p
}

// SetNominatorShares installs nominator's share balance under
// operatorId directly, bypassing the epoch-boundary conversion from
// PendingDeposit (out of scope here; see SetOperatorPool).
func (l *Ledger) SetNominatorShares(operatorId OperatorId, nominator AccountId, shares Shares) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nominators[nominatorKey{operatorId, nominator}] = shares
}

// NominatorShares returns nominator's current share balance under
// operatorId.
func (l *Ledger) NominatorShares(operatorId OperatorId, nominator AccountId) Shares {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.nominators[nominatorKey{operatorId, nominator}]
}

// OperatorPool returns a copy of operatorId's pool record.
func (l *Ledger) OperatorPool(operatorId OperatorId) (OperatorPool, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.operatorPools[operatorId]
	if !ok {
		return OperatorPool{}, false
	}
	return *p, true
}

// PendingWithdrawal returns the stored withdrawal intent, if any, for
// (operatorId, nominatorId).
func (l *Ledger) PendingWithdrawal(operatorId OperatorId, nominatorId AccountId) (Withdraw, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	w, ok := l.pendingWithdraw[nominatorKey{operatorId, nominatorId}]
	return w, ok
}

// freezeAccountBalanceToOperator acquires additional frozen balance on
// who for operatorId (spec §4.1 freeze_account_balance_to_operator).
// Caller must hold l.mu.
func (l *Ledger) freezeAccountBalanceToOperator(who AccountId, operatorId OperatorId, amount Balance) error {
	if l.currency.ReducibleBalance(who) < amount {
		return ErrInsufficientBalance
	}
	freezeID := l.freezer.StakingFreezeID(operatorId)
	current := l.currency.BalanceFrozen(freezeID, who)
	newLock, overflow := addBalance(current, amount)
	if overflow {
		return ErrBalanceOverflow
	}
	if err := l.currency.SetFreeze(freezeID, who, newLock); err != nil {
		return ErrBalanceFreeze
	}
	return nil
}

// RegisterOperator registers a new operator pool (spec §4.1).
func (l *Ledger) RegisterOperator(owner AccountId, domainId DomainId, amount Balance, config OperatorConfig) (OperatorId, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	operatorId := l.nextOperatorId
	nextID, overflow := addOperatorId(operatorId, 1)
	if overflow {
		return 0, ErrMaximumOperatorId
	}

	if amount < l.config.MinOperatorStake {
		return 0, ErrMinimumOperatorStake
	}

	summary, ok := l.domainSummaries[domainId]
	if !ok {
		return 0, ErrDomainNotInitialized
	}

	// Freeze only after every other precondition has been checked: the
	// ledger call must be all-or-nothing, so nothing below this point
	// may observe a half-registered operator after a freeze succeeds.
	if err := l.freezeAccountBalanceToOperator(owner, operatorId, amount); err != nil {
		return 0, err
	}

	l.nextOperatorId = nextID
	l.operatorOwner[operatorId] = owner
	l.operatorPools[operatorId] = &OperatorPool{
		SigningKey:            config.SigningKey,
		CurrentDomainId:       domainId,
		NextDomainId:          domainId,
		MinimumNominatorStake: config.MinimumNominatorStake,
		NominationTax:         config.NominationTax,
	}
	summary.NextOperators = append(summary.NextOperators, operatorId)
	l.pendingDeposit[nominatorKey{operatorId, owner}] = amount

	registrationsMeter.Inc(1)
	l.log.Debug("registered operator", "operatorId", operatorId, "domainId", domainId, "owner", owner, "amount", amount)
	return operatorId, nil
}

// NominateOperator adds to a nominator's pending deposit for operatorId
// (spec §4.1).
func (l *Ledger) NominateOperator(nominator AccountId, operatorId OperatorId, amount Balance) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	pool, ok := l.operatorPools[operatorId]
	if !ok {
		return ErrUnknownOperator
	}
	if pool.IsFrozen {
		return ErrOperatorPoolFrozen
	}

	key := nominatorKey{operatorId, nominator}
	updated, overflow := addBalance(l.pendingDeposit[key], amount)
	if overflow {
		return ErrBalanceOverflow
	}
	if updated < pool.MinimumNominatorStake {
		return ErrMinimumNominatorStake
	}

	if err := l.freezeAccountBalanceToOperator(nominator, operatorId, amount); err != nil {
		return err
	}
	l.pendingDeposit[key] = updated

	l.log.Debug("nominated operator", "operatorId", operatorId, "nominator", nominator, "amount", amount)
	return nil
}

// FreezeAccountBalanceToOperator acquires additional frozen balance on
// who for operatorId, independent of any pending-deposit bookkeeping
// (spec §4.1 freeze_account_balance_to_operator, exposed as a direct
// contract per spec §6.1).
func (l *Ledger) FreezeAccountBalanceToOperator(who AccountId, operatorId OperatorId, amount Balance) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.freezeAccountBalanceToOperator(who, operatorId, amount)
}

// SwitchOperatorDomain requests operatorId move to newDomainId at the
// next epoch boundary, returning the operator's current domain (spec
// §4.1).
func (l *Ledger) SwitchOperatorDomain(owner AccountId, operatorId OperatorId, newDomainId DomainId) (DomainId, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.operatorOwner[operatorId] != owner {
		return 0, ErrNotOperatorOwner
	}
	if _, ok := l.domainSummaries[newDomainId]; !ok {
		return 0, ErrDomainNotInitialized
	}
	pool, ok := l.operatorPools[operatorId]
	if !ok {
		return 0, ErrUnknownOperator
	}
	if pool.IsFrozen {
		return 0, ErrOperatorPoolFrozen
	}

	oldDomainId := pool.CurrentDomainId
	pool.NextDomainId = newDomainId

	if summary, ok := l.domainSummaries[oldDomainId]; ok {
		summary.NextOperators = removeOperatorId(summary.NextOperators, operatorId)
	}
	if l.pendingSwitches[oldDomainId] == nil {
		l.pendingSwitches[oldDomainId] = mapset.NewSet[OperatorId]()
	}
	l.pendingSwitches[oldDomainId].Add(operatorId)

	l.log.Debug("switched operator domain", "operatorId", operatorId, "from", oldDomainId, "to", newDomainId)
	return oldDomainId, nil
}

// DeregisterOperator freezes operatorId's pool terminally and queues it
// for epoch-boundary teardown (spec §4.1).
func (l *Ledger) DeregisterOperator(owner AccountId, operatorId OperatorId) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.operatorOwner[operatorId] != owner {
		return ErrNotOperatorOwner
	}
	pool, ok := l.operatorPools[operatorId]
	if !ok {
		return ErrUnknownOperator
	}
	if pool.IsFrozen {
		return ErrOperatorPoolFrozen
	}

	pool.IsFrozen = true
	if summary, ok := l.domainSummaries[pool.CurrentDomainId]; ok {
		summary.NextOperators = removeOperatorId(summary.NextOperators, operatorId)
	}
	l.pendingDeregister.Add(operatorId)

	l.log.Debug("deregistered operator", "operatorId", operatorId, "owner", owner)
	return nil
}

// WithdrawStake combines withdraw with any existing pending withdrawal
// intent for (operatorId, nominatorId) and stores the result, enforcing
// stake-floor rules (spec §4.1).
func (l *Ledger) WithdrawStake(operatorId OperatorId, nominatorId AccountId, withdraw Withdraw) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	pool, ok := l.operatorPools[operatorId]
	if !ok {
		return ErrUnknownOperator
	}
	if pool.IsFrozen {
		return ErrOperatorPoolFrozen
	}

	key := nominatorKey{operatorId, nominatorId}
	shares, ok := l.nominators[key]
	if !ok {
		return ErrUnknownNominator
	}
	owner, ok := l.operatorOwner[operatorId]
	if !ok {
		return ErrUnknownOperator
	}

	combined, err := combineWithdraw(l.pendingWithdraw[key], withdraw)
	if err != nil {
		return err
	}

	stored, err := applyWithdraw(l.config, *pool, shares, owner, nominatorId, combined)
	if err != nil {
		return err
	}

	l.pendingWithdraw[key] = stored
	withdrawalsMeter.Inc(1)
	l.log.Debug("withdrew stake", "operatorId", operatorId, "nominator", nominatorId, "stored", stored)
	return nil
}

// combineWithdraw implements the Withdraw combination matrix of spec
// §4.1: (All, _) fails; (Some, All) promotes; (Some(a), Some(b)) sums;
// (None, x) passes x through unchanged.
func combineWithdraw(existing Withdraw, next Withdraw) (Withdraw, error) {
	if existing.Kind == WithdrawAll {
		return Withdraw{}, ErrExistingFullWithdraw
	}
	if next.Kind == WithdrawAll {
		return All(), nil
	}
	if existing.Amount == 0 {
		return next, nil
	}
	sum, overflow := addBalance(existing.Amount, next.Amount)
	if overflow {
		return Withdraw{}, ErrBalanceOverflow
	}
	return Some(sum), nil
}

// applyWithdraw implements the apply rules of spec §4.1 given the
// already-combined withdrawal intent.
func applyWithdraw(config Config, pool OperatorPool, shares Shares, owner, nominatorId AccountId, combined Withdraw) (Withdraw, error) {
	if combined.Kind == WithdrawAll {
		if nominatorId == owner {
			return Withdraw{}, ErrMinimumOperatorStake
		}
		return All(), nil
	}

	totalPool, overflow := addBalance(pool.CurrentTotalStake, pool.CurrentEpochRewards)
	if overflow {
		return Withdraw{}, ErrBalanceOverflow
	}
	share := perbill.FromRational(uint64(shares), uint64(pool.TotalShares))
	nominatorStake := Balance(share.Mul(uint64(totalPool)))

	if nominatorStake < combined.Amount {
		return Withdraw{}, ErrBalanceUnderflow
	}
	remaining := nominatorStake - combined.Amount

	if nominatorId == owner {
		if remaining < config.MinOperatorStake {
			return Withdraw{}, ErrMinimumOperatorStake
		}
		return combined, nil
	}
	if remaining < pool.MinimumNominatorStake {
		return All(), nil
	}
	return combined, nil
}

func addBalance(a, b Balance) (Balance, bool) {
	sum := a + b
	return sum, sum < a
}

func addOperatorId(a OperatorId, b OperatorId) (OperatorId, bool) {
	sum := a + b
	return sum, sum < a
}

func removeOperatorId(list []OperatorId, id OperatorId) []OperatorId {
	out := list[:0]
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
