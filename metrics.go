package segtab

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordBuild is called after each table construction.
	// rows and cols describe the distributed data, duplicates is the
	// number of duplicate rows dropped, err is nil if successful.
	RecordBuild(rows, cols, duplicates int, duration time.Duration, err error)

	// RecordMaterialize is called after each unified-view assembly.
	RecordMaterialize(duration time.Duration, err error)

	// RecordMerge is called after each merge or join operation.
	RecordMerge(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordMaterialize(time.Duration, error)          {}
func (NoopMetricsCollector) RecordMerge(time.Duration, error)                {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount            atomic.Int64
	BuildErrors           atomic.Int64
	BuildTotalNanos       atomic.Int64
	DuplicatesDropped     atomic.Int64
	MaterializeCount      atomic.Int64
	MaterializeTotalNanos atomic.Int64
	MergeCount            atomic.Int64
	MergeErrors           atomic.Int64
	MergeTotalNanos       atomic.Int64
}

func (c *BasicMetricsCollector) RecordBuild(rows, cols, duplicates int, duration time.Duration, err error) {
	c.BuildCount.Add(1)
	c.BuildTotalNanos.Add(duration.Nanoseconds())
	c.DuplicatesDropped.Add(int64(duplicates))
	if err != nil {
		c.BuildErrors.Add(1)
	}
}

func (c *BasicMetricsCollector) RecordMaterialize(duration time.Duration, err error) {
	c.MaterializeCount.Add(1)
	c.MaterializeTotalNanos.Add(duration.Nanoseconds())
}

func (c *BasicMetricsCollector) RecordMerge(duration time.Duration, err error) {
	c.MergeCount.Add(1)
	c.MergeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		c.MergeErrors.Add(1)
	}
}
