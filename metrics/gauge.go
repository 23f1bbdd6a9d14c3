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

package metrics

import "sync/atomic"

// Gauge holds an int64 value that can be set directly, unlike Counter's
// delta-based Inc/Dec.
type Gauge interface {
	Snapshot() Gauge
	Update(int64)
	Value() int64
}

// NewGauge constructs a new standard Gauge.
func NewGauge() Gauge {
	return &StandardGauge{}
}

// NewRegisteredGauge constructs and registers a new standard Gauge.
func NewRegisteredGauge(name string, r Registry) Gauge {
	g := NewGauge()
	if r == nil {
		r = DefaultRegistry
	}
	r.Register(name, g)
	return g
}

// GetOrRegisterGauge returns an existing Gauge or constructs and registers
// a new one.
func GetOrRegisterGauge(name string, r Registry) Gauge {
	if r == nil {
		r = DefaultRegistry
	}
	return r.GetOrRegister(name, NewGauge).(Gauge)
}

// StandardGauge is the standard implementation of a Gauge.
type StandardGauge struct {
	value atomic.Int64
}

func (g *StandardGauge) Update(v int64) {
	g.value.Store(v)
}

func (g *StandardGauge) Value() int64 {
	return g.value.Load()
}

func (g *StandardGauge) Snapshot() Gauge {
	return GaugeSnapshot(g.value.Load())
}

// GaugeSnapshot is a read-only copy of a Gauge's value at a point in time.
type GaugeSnapshot int64

func (g GaugeSnapshot) Value() int64    { return int64(g) }
func (g GaugeSnapshot) Update(int64)    { panic("Update called on a GaugeSnapshot") }
func (g GaugeSnapshot) Snapshot() Gauge { return g }

// FunctionalGauge returns a value computed on demand via the supplied
// function, e.g. to expose a header store's current tip height without
// maintaining a separate counter.
type FunctionalGauge struct {
	value func() int64
}

// NewFunctionalGauge constructs a new FunctionalGauge.
func NewFunctionalGauge(f func() int64) Gauge {
	return &FunctionalGauge{value: f}
}

// NewRegisteredFunctionalGauge constructs and registers a new
// FunctionalGauge.
func NewRegisteredFunctionalGauge(name string, r Registry, f func() int64) Gauge {
	g := NewFunctionalGauge(f)
	if r == nil {
		r = DefaultRegistry
	}
	r.Register(name, g)
	return g
}

func (g FunctionalGauge) Value() int64 {
	return g.value()
}

func (g FunctionalGauge) Snapshot() Gauge {
	return GaugeSnapshot(g.Value())
}

func (g FunctionalGauge) Update(int64) {
	panic("Update called on a FunctionalGauge")
}
