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

import "errors"

var (
	ErrMaximumOperatorId     = errors.New("staking: operator id counter exhausted")
	ErrDomainNotInitialized  = errors.New("staking: domain not initialized")
	ErrInsufficientBalance   = errors.New("staking: insufficient reducible balance")
	ErrBalanceFreeze         = errors.New("staking: host failed to set freeze")
	ErrMinimumOperatorStake  = errors.New("staking: amount below minimum operator stake")
	ErrUnknownOperator       = errors.New("staking: unknown operator")
	ErrMinimumNominatorStake = errors.New("staking: amount below minimum nominator stake")
	ErrBalanceOverflow       = errors.New("staking: balance overflow")
	ErrBalanceUnderflow      = errors.New("staking: balance underflow")
	ErrNotOperatorOwner      = errors.New("staking: caller is not the operator pool owner")
	ErrOperatorPoolFrozen    = errors.New("staking: operator pool is frozen")
	ErrUnknownNominator      = errors.New("staking: unknown nominator")
	ErrExistingFullWithdraw  = errors.New("staking: existing pending withdrawal is already All")
)
