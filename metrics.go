package handlestore

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/handlestore/soa"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    emplaceCounter   prometheus.Counter
//	    emplaceHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordEmplace(duration time.Duration, err error) {
//	    p.emplaceCounter.Inc()
//	    p.emplaceHistogram.Observe(duration.Seconds())
//	}
type MetricsCollector interface {
	// RecordEmplace is called after each insert.
	// duration is the total time taken, err is nil if successful.
	RecordEmplace(duration time.Duration, err error)

	// RecordErase is called after each erase. found is false when the handle
	// was stale.
	RecordErase(duration time.Duration, found bool)

	// RecordGrow is called after the columns were reallocated to a larger
	// capacity.
	RecordGrow(from, to int)

	// RecordShrink is called after the columns were reallocated to a smaller
	// capacity.
	RecordShrink(from, to int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordEmplace(time.Duration, error) {}
func (NoopMetricsCollector) RecordErase(time.Duration, bool)    {}
func (NoopMetricsCollector) RecordGrow(int, int)                {}
func (NoopMetricsCollector) RecordShrink(int, int)              {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	EmplaceCount      atomic.Int64
	EmplaceErrors     atomic.Int64
	EmplaceTotalNanos atomic.Int64
	EraseCount        atomic.Int64
	EraseMisses       atomic.Int64
	EraseTotalNanos   atomic.Int64
	GrowCount         atomic.Int64
	ShrinkCount       atomic.Int64
	Capacity          atomic.Int64
}

// RecordEmplace implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEmplace(duration time.Duration, err error) {
	b.EmplaceCount.Add(1)
	b.EmplaceTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.EmplaceErrors.Add(1)
	}
}

// RecordErase implements MetricsCollector.
func (b *BasicMetricsCollector) RecordErase(duration time.Duration, found bool) {
	b.EraseCount.Add(1)
	b.EraseTotalNanos.Add(duration.Nanoseconds())
	if !found {
		b.EraseMisses.Add(1)
	}
}

// RecordGrow implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGrow(_, to int) {
	b.GrowCount.Add(1)
	b.Capacity.Store(int64(to))
}

// RecordShrink implements MetricsCollector.
func (b *BasicMetricsCollector) RecordShrink(_, to int) {
	b.ShrinkCount.Add(1)
	b.Capacity.Store(int64(to))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		EmplaceCount:    b.EmplaceCount.Load(),
		EmplaceErrors:   b.EmplaceErrors.Load(),
		EmplaceAvgNanos: avg(b.EmplaceTotalNanos.Load(), b.EmplaceCount.Load()),
		EraseCount:      b.EraseCount.Load(),
		EraseMisses:     b.EraseMisses.Load(),
		EraseAvgNanos:   avg(b.EraseTotalNanos.Load(), b.EraseCount.Load()),
		GrowCount:       b.GrowCount.Load(),
		ShrinkCount:     b.ShrinkCount.Load(),
		Capacity:        b.Capacity.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	EmplaceCount    int64
	EmplaceErrors   int64
	EmplaceAvgNanos int64
	EraseCount      int64
	EraseMisses     int64
	EraseAvgNanos   int64
	GrowCount       int64
	ShrinkCount     int64
	Capacity        int64
}

// observer forwards store events to a MetricsCollector.
type observer struct {
	mc MetricsCollector
}

var _ soa.MetricsObserver = observer{}

func (o observer) OnEmplace(d time.Duration, err error) { o.mc.RecordEmplace(d, err) }
func (o observer) OnErase(d time.Duration, found bool)  { o.mc.RecordErase(d, found) }
func (o observer) OnGrow(from, to int)                  { o.mc.RecordGrow(from, to) }
func (o observer) OnShrink(from, to int)                { o.mc.RecordShrink(from, to) }
