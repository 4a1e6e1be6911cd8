package handlestore

import (
	"log/slog"

	"github.com/hupe1980/handlestore/resource"
)

type options struct {
	capacity         int
	metricsCollector MetricsCollector
	logger           *Logger
	memoryLimit      int64
	controller       *resource.Controller
}

// Option configures New.
type Option func(*options)

// WithCapacity pre-allocates room for n rows.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &handlestore.BasicMetricsCollector{}
//	store, _ := handlestore.New[float32](3, handlestore.WithMetricsCollector(metrics))
//	// ... use store ...
//	stats := metrics.GetStats()
//	fmt.Printf("Emplaces: %d, Avg latency: %dns\n", stats.EmplaceCount, stats.EmplaceAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := handlestore.NewJSONLogger(slog.LevelDebug)
//	store, _ := handlestore.New[float32](3, handlestore.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMemoryLimit caps the column memory of the store at bytes. It creates a
// private resource.Controller; use WithResourceController to share a budget
// between stores. Ignored if a controller is also given.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithResourceController makes the store draw column memory from rc.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.controller == nil && o.memoryLimit > 0 {
		o.controller = resource.NewController(resource.Config{MemoryLimitBytes: o.memoryLimit})
	}
	return o
}
