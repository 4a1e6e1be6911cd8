package soa

import "log/slog"

// MemoryBudget is consulted before the store allocates column memory.
//
// *resource.Controller satisfies it.
type MemoryBudget interface {
	TryAcquireMemory(bytes int64) bool
	ReleaseMemory(bytes int64)
}

type options struct {
	capacity int
	logger   *slog.Logger
	metrics  MetricsObserver
	budget   MemoryBudget
}

// Option configures a Store.
type Option func(*options)

// WithCapacity pre-allocates room for n rows.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithLogger sets the logger. Growth and shrink are logged at Debug, refused
// growth at Warn. Pass nil to disable logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetricsObserver sets the metrics observer. Pass nil to disable metrics.
func WithMetricsObserver(m MetricsObserver) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithMemoryBudget makes the store acquire column memory from b.
func WithMemoryBudget(b MemoryBudget) Option {
	return func(o *options) {
		o.budget = b
	}
}

func applyOptions(optFns []Option) options {
	o := options{}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.metrics == nil {
		o.metrics = NoopMetricsObserver{}
	}
	return o
}
