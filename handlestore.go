package handlestore

import (
	"github.com/hupe1980/handlestore/handle"
	"github.com/hupe1980/handlestore/resource"
	"github.com/hupe1980/handlestore/soa"
	"github.com/hupe1980/handlestore/vec"
)

// Handle is a stable, generation-checked reference to a row.
type Handle = handle.Handle

// InvalidHandle is the null handle. It never resolves.
var InvalidHandle = handle.Invalid

// View is a borrowed accessor for one row.
type View[T vec.Number] = soa.View[T]

// Store is a columnar store with logging, metrics and a memory budget wired
// in. All soa.Store methods are available; the ones that can fail return
// errors matchable against this package's sentinels.
type Store[T vec.Number] struct {
	*soa.Store[T]

	logger *Logger
	rc     *resource.Controller
}

// New creates a store whose rows hold fields values of type T.
//
// Example:
//
//	store, err := handlestore.New[float32](3,
//	    handlestore.WithCapacity(1024),
//	    handlestore.WithLogLevel(slog.LevelDebug),
//	)
func New[T vec.Number](fields int, optFns ...Option) (*Store[T], error) {
	o := applyOptions(optFns)
	logger := o.logger.WithFields(fields)

	soaOpts := []soa.Option{
		soa.WithCapacity(o.capacity),
		soa.WithLogger(logger.Logger),
	}
	if _, noop := o.metricsCollector.(NoopMetricsCollector); !noop {
		soaOpts = append(soaOpts, soa.WithMetricsObserver(observer{mc: o.metricsCollector}))
	}
	if o.controller != nil {
		soaOpts = append(soaOpts, soa.WithMemoryBudget(o.controller))
	}

	s, err := soa.New[T](fields, soaOpts...)
	if err != nil {
		err = translateError(err)
		logger.Error("create failed", "error", err)
		return nil, err
	}

	return &Store[T]{
		Store:  s,
		logger: logger,
		rc:     o.controller,
	}, nil
}

// Emplace appends a row and returns its handle.
func (s *Store[T]) Emplace(values ...T) (Handle, error) {
	h, err := s.Store.Emplace(values...)
	err = translateError(err)
	s.logger.LogEmplace(h, err)
	return h, err
}

// Erase removes the row h refers to and reports whether h was live.
func (s *Store[T]) Erase(h Handle) bool {
	found := s.Store.Erase(h)
	s.logger.LogErase(h, found)
	return found
}

// Reserve grows the columns to hold at least capacity rows.
func (s *Store[T]) Reserve(capacity int) error {
	err := translateError(s.Store.Reserve(capacity))
	s.logger.LogResize("reserve", capacity, err)
	return err
}

// Resize sets the number of live rows.
func (s *Store[T]) Resize(size int) error {
	err := translateError(s.Store.Resize(size))
	s.logger.LogResize("resize", size, err)
	return err
}

// ShrinkToFit releases unused capacity.
func (s *Store[T]) ShrinkToFit() error {
	err := translateError(s.Store.ShrinkToFit())
	s.logger.LogResize("shrink", s.Len(), err)
	return err
}

// Close drops every row and returns the column memory to the budget.
func (s *Store[T]) Close() error {
	return translateError(s.Store.Close())
}

// Move transfers the contents of s to a new Store and leaves s empty.
func (s *Store[T]) Move() *Store[T] {
	return &Store[T]{
		Store:  s.Store.Move(),
		logger: s.logger,
		rc:     s.rc,
	}
}

// ResourceController returns the memory budget, or nil if unlimited.
func (s *Store[T]) ResourceController() *resource.Controller {
	return s.rc
}

// MemoryLimit returns the byte limit of the memory budget, 0 if unlimited.
func (s *Store[T]) MemoryLimit() int64 {
	return s.rc.MemoryLimit()
}
