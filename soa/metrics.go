package soa

import "time"

// MetricsObserver receives store events. Implementations must be cheap; they
// run inline with the operation.
type MetricsObserver interface {
	// OnEmplace is called after every Emplace. err is nil on success.
	OnEmplace(d time.Duration, err error)

	// OnErase is called after every Erase. found is false for stale handles.
	OnErase(d time.Duration, found bool)

	// OnGrow is called after the buffers were reallocated to a larger capacity.
	OnGrow(from, to int)

	// OnShrink is called after the buffers were reallocated to a smaller capacity.
	OnShrink(from, to int)
}

// NoopMetricsObserver discards all events.
type NoopMetricsObserver struct{}

func (NoopMetricsObserver) OnEmplace(time.Duration, error) {}
func (NoopMetricsObserver) OnErase(time.Duration, bool)    {}
func (NoopMetricsObserver) OnGrow(int, int)                {}
func (NoopMetricsObserver) OnShrink(int, int)              {}
