// Copyright 2023 The go-ethereum Authors
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

// Package metrics implements counters and gauges shaped after
// rcrowley/go-metrics, used by the staking ledger, header importer and
// piece cache to report operation counts without pulling in the full
// upstream dependency.
package metrics

// Enabled is a process-wide flag that Set toggles. No constructor,
// registry or exporter in this module reads it: metrics are created,
// registered and exported the same way whether it is true or false.
var Enabled = false

// Set enables or disables metrics collection for the process.
func Set(enabled bool) {
	Enabled = enabled
}
