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

// Package prometheus adapts a metrics.Registry to
// github.com/prometheus/client_golang, so the staking ledger, header
// importer and piece cache counters can be scraped alongside the rest
// of a node's telemetry by a standard Prometheus client.
package prometheus

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/subspacelabs/subspace-node/metrics"
)

// collector bridges a metrics.Registry into prometheus.Collector. It
// has no fixed metric descriptors of its own: the registry's contents
// are only known at scrape time, so every Collect call walks it fresh
// rather than registering metrics ahead of time.
type collector struct {
	registry metrics.Registry
}

func newCollector(r metrics.Registry) *collector {
	return &collector{registry: r}
}

// Describe intentionally sends nothing, making this an "unchecked"
// collector: the registry's metric set can grow at runtime as new
// counters/gauges are registered.
func (c *collector) Describe(ch chan<- *prometheus.Desc) {}

// Collect implements prometheus.Collector by snapshotting every
// Counter and Gauge currently in the registry.
func (c *collector) Collect(ch chan<- prometheus.Metric) {
	c.registry.Each(func(name string, i interface{}) {
		name = normalizeName(name)
		switch m := i.(type) {
		case metrics.Counter:
			desc := prometheus.NewDesc(name, name, nil, nil)
			ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(m.Snapshot().Count()))
		case metrics.Gauge:
			desc := prometheus.NewDesc(name, name, nil, nil)
			ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, float64(m.Snapshot().Value()))
		}
	})
}

// normalizeName converts a dotted/slashed metric name into the
// underscore-delimited form Prometheus expects.
func normalizeName(name string) string {
	replacer := strings.NewReplacer(".", "_", "-", "_", "/", "_")
	return replacer.Replace(name)
}

// Handler returns an http.Handler that renders r in Prometheus
// exposition format on every request, via the standard client_golang
// registry and promhttp encoder.
func Handler(r metrics.Registry) http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(newCollector(r))
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
