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

import (
	"fmt"
	"strings"
	"sync"
)

// DuplicateMetric is the error returned by Registry.Register when the
// named metric already exists.
type DuplicateMetric string

func (err DuplicateMetric) Error() string {
	return fmt.Sprintf("duplicate metric: %s", string(err))
}

// Registry holds references to a set of named metrics, the shape exercised
// by the ledger, header importer and piece cache to publish their
// operation counters under a shared namespace.
type Registry interface {
	// Each calls f for every registered metric.
	Each(func(string, interface{}))
	// Get returns the metric registered under name, or nil.
	Get(name string) interface{}
	// GetOrRegister returns the metric under name, registering
	// metricOrConstructor (a metric value, or a func() <Metric> thunk) if
	// none exists yet.
	GetOrRegister(name string, metricOrConstructor interface{}) interface{}
	// Register registers a metric under name, failing if one already
	// exists there.
	Register(name string, metric interface{}) error
	// Unregister removes the metric registered under name.
	Unregister(name string)
}

// StandardRegistry is the standard implementation of a Registry, backed by
// a map guarded by a mutex.
type StandardRegistry struct {
	mu sync.Mutex
	m  map[string]interface{}
}

// NewRegistry constructs a new StandardRegistry.
func NewRegistry() Registry {
	return &StandardRegistry{m: make(map[string]interface{})}
}

func (r *StandardRegistry) Each(f func(string, interface{})) {
	r.mu.Lock()
	items := make(map[string]interface{}, len(r.m))
	for k, v := range r.m {
		items[k] = v
	}
	r.mu.Unlock()
	for name, metric := range items {
		f(name, metric)
	}
}

func (r *StandardRegistry) Get(name string) interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.m[name]
}

func (r *StandardRegistry) GetOrRegister(name string, i interface{}) interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if metric, ok := r.m[name]; ok {
		return metric
	}
	metric := resolve(i)
	r.m[name] = metric
	return metric
}

func (r *StandardRegistry) Register(name string, i interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[name]; ok {
		return DuplicateMetric(name)
	}
	r.m[name] = resolve(i)
	return nil
}

func (r *StandardRegistry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, name)
}

// resolve invokes i if it is a zero-argument metric constructor, otherwise
// returns it unchanged. This lets GetOrRegister be called with either a
// metric value or a lazily-evaluated constructor.
func resolve(i interface{}) interface{} {
	switch fn := i.(type) {
	case func() Counter:
		return fn()
	case func() Gauge:
		return fn()
	default:
		return i
	}
}

// DefaultRegistry is the registry used by the package-level Register,
// GetOrRegister and Each convenience functions.
var DefaultRegistry = NewRegistry()

// Register registers a metric under name in the DefaultRegistry.
func Register(name string, metric interface{}) error {
	return DefaultRegistry.Register(name, metric)
}

// GetOrRegister looks up or registers a metric in the DefaultRegistry.
func GetOrRegister(name string, metric interface{}) interface{} {
	return DefaultRegistry.GetOrRegister(name, metric)
}

// Each calls f for every metric in the DefaultRegistry.
func Each(f func(string, interface{})) {
	DefaultRegistry.Each(f)
}

// PrefixedRegistry wraps a StandardRegistry, prepending a fixed prefix to
// every metric name, so independently developed components (the ledger,
// the importer, the piece cache) can share one process-wide registry
// without name collisions.
type PrefixedRegistry struct {
	underlying Registry
	prefix     string
}

// NewPrefixedRegistry constructs a standalone PrefixedRegistry.
func NewPrefixedRegistry(prefix string) Registry {
	return &PrefixedRegistry{
		underlying: NewRegistry(),
		prefix:     prefix,
	}
}

// NewPrefixedChildRegistry constructs a PrefixedRegistry backed by an
// existing parent registry, so metrics registered on the child are visible
// (with the prefix applied) when the parent is walked.
func NewPrefixedChildRegistry(parent Registry, prefix string) Registry {
	return &PrefixedRegistry{
		underlying: parent,
		prefix:     prefix,
	}
}

func (r *PrefixedRegistry) Each(f func(string, interface{})) {
	baseRegistry, prefix := findPrefix(r, "")
	baseRegistry.Each(func(name string, iface interface{}) {
		if strings.HasPrefix(name, prefix) {
			f(name, iface)
		}
	})
}

func (r *PrefixedRegistry) Get(name string) interface{} {
	return r.underlying.Get(r.prefix + name)
}

func (r *PrefixedRegistry) GetOrRegister(name string, metric interface{}) interface{} {
	return r.underlying.GetOrRegister(r.prefix+name, metric)
}

func (r *PrefixedRegistry) Register(name string, metric interface{}) error {
	return r.underlying.Register(r.prefix+name, metric)
}

func (r *PrefixedRegistry) Unregister(name string) {
	r.underlying.Unregister(r.prefix + name)
}

// findPrefix walks a chain of PrefixedRegistry wrappers down to the base
// StandardRegistry, returning it along with the concatenation of every
// prefix seen along the way.
func findPrefix(registry Registry, prefix string) (Registry, string) {
	switch r := registry.(type) {
	case *PrefixedRegistry:
		return findPrefix(r.underlying, r.prefix+prefix)
	default:
		return registry, prefix
	}
}
