// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mruprom exports the statistics of [mru.Cache] values as
// Prometheus metrics.
package mruprom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/botflow/collections/mru"
)

// A StatsSource reports cache statistics. Every [mru.Cache] is one.
type StatsSource interface {
	Stats() mru.Stats
}

// Collector is a [prometheus.Collector] that reads a cache's statistics
// at scrape time.
type Collector struct {
	src StatsSource

	hits      *prometheus.Desc
	misses    *prometheus.Desc
	evictions *prometheus.Desc
	entries   *prometheus.Desc
	capacity  *prometheus.Desc
}

// NewCollector returns a collector for src. Metric names start with
// namespace and carry the label cache=name.
func NewCollector(namespace, name string, src StatsSource) *Collector {
	labels := prometheus.Labels{"cache": name}
	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "cache", metric), help, nil, labels)
	}
	return &Collector{
		src:       src,
		hits:      desc("hits_total", "Lookups that found their key."),
		misses:    desc("misses_total", "Lookups that did not find their key."),
		evictions: desc("evictions_total", "Entries evicted to make room for new ones."),
		entries:   desc("entries", "Entries currently held."),
		capacity:  desc("capacity", "Maximum number of entries."),
	}
}

// Describe implements [prometheus.Collector].
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.entries
	ch <- c.capacity
}

// Collect implements [prometheus.Collector].
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Evictions))
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(s.Len))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(s.Cap))
}
