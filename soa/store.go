package soa

import (
	"fmt"
	"iter"
	"math"
	"time"

	"github.com/hupe1980/handlestore/handle"
	"github.com/hupe1980/handlestore/internal/conv"
	"github.com/hupe1980/handlestore/internal/mem"
	"github.com/hupe1980/handlestore/vec"
)

// maxCapacity is the largest row count a uint32 index can address.
const maxCapacity = min(math.MaxUint32, math.MaxInt)

// Store is a columnar container of rows with a fixed number of fields of
// type T. Rows are addressed through generational handles.
//
// Every column has length Cap(). Rows [0, Len()) are live.
type Store[T vec.Number] struct {
	columns  [][]T
	registry *handle.Registry
	size     int
	capacity int
	held     int64 // bytes backing columns, acquired from the budget if set

	opts  options
	timed bool
}

// New creates an empty store with the given number of fields per row.
func New[T vec.Number](fields int, optFns ...Option) (*Store[T], error) {
	if fields < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFieldCount, fields)
	}

	o := applyOptions(optFns)
	_, noop := o.metrics.(NoopMetricsObserver)

	s := &Store[T]{
		columns:  make([][]T, fields),
		registry: &handle.Registry{},
		opts:     o,
		timed:    !noop,
	}
	if err := s.Reserve(o.capacity); err != nil {
		return nil, err
	}
	return s, nil
}

// Reserve grows every column to hold at least capacity rows. It is a no-op if
// capacity <= Cap().
func (s *Store[T]) Reserve(capacity int) error {
	if capacity <= s.capacity {
		return nil
	}
	if err := s.realloc(capacity); err != nil {
		return err
	}
	return s.registry.Reserve(capacity, capacity)
}

// Resize sets the number of live rows, growing the columns if needed.
//
// Rows exposed by growing are zeroed and unowned: no handle ever resolves to
// them, so they are reachable only by index through At, Column and All.
// Rows dropped by shrinking lose their handles.
func (s *Store[T]) Resize(size int) error {
	if !conv.Within(size, maxCapacity) {
		return fmt.Errorf("%w: size %d", ErrCapacityExceeded, size)
	}
	if err := s.Reserve(size); err != nil {
		return err
	}

	for index := size; index < s.size; index++ {
		s.registry.Erase(s.registry.HandleAt(toIndex(index)))
	}

	var zero T
	for _, col := range s.columns {
		for index := s.size; index < size; index++ {
			col[index] = zero
		}
	}

	s.size = size
	return nil
}

// ShrinkToFit reallocates every column down to Len() rows and trims the
// registry to match. Memory freed is returned to the budget.
func (s *Store[T]) ShrinkToFit() error {
	if s.size < s.capacity {
		if err := s.realloc(s.size); err != nil {
			return err
		}
	}
	return s.registry.ShrinkToFit(s.size)
}

// Emplace appends a row holding values, one per field, and returns its
// handle. Capacity doubles when the store is full.
func (s *Store[T]) Emplace(values ...T) (h handle.Handle, err error) {
	if s.timed {
		start := time.Now()
		defer func() { s.opts.metrics.OnEmplace(time.Since(start), err) }()
	}

	if len(values) != len(s.columns) {
		return handle.Invalid, &FieldCountError{Expected: len(s.columns), Actual: len(values)}
	}

	if s.size == s.capacity {
		if err := s.grow(); err != nil {
			return handle.Invalid, err
		}
	}

	h = s.registry.Insert(toIndex(s.size))
	if !h.IsValid() {
		return handle.Invalid, fmt.Errorf("%w: identifier space exhausted", ErrCapacityExceeded)
	}

	for f, v := range values {
		s.columns[f][s.size] = v
	}
	s.size++
	return h, nil
}

// Erase removes the row h refers to and reports whether h was live.
//
// The last row is moved into the hole and its handle retargeted, so every
// other handle keeps resolving to its own values.
func (s *Store[T]) Erase(h handle.Handle) (found bool) {
	if s.timed {
		start := time.Now()
		defer func() { s.opts.metrics.OnErase(time.Since(start), found) }()
	}

	index := s.registry.Index(h)
	if index == handle.InvalidIndex {
		return false
	}

	i, last := int(index), s.size-1
	if i == last {
		s.registry.Erase(h)
		s.size--
		return true
	}

	moved := s.registry.HandleAt(toIndex(last))
	for _, col := range s.columns {
		col[i] = col[last]
	}

	// h still owns index, so it must go before moved can take the slot.
	s.registry.Erase(h)
	if moved.IsValid() && !s.registry.Update(moved, index) {
		panic(fmt.Sprintf("soa: retarget of %v to row %d refused", moved, index))
	}

	s.size--
	return true
}

// At returns a view of row index. It panics if index is outside [0, Len()).
func (s *Store[T]) At(index int) View[T] {
	if index < 0 || index >= s.size {
		panic(fmt.Sprintf("soa: index %d out of range [0:%d]", index, s.size))
	}
	return View[T]{columns: s.columns, index: index}
}

// Get returns a view of the row h refers to.
func (s *Store[T]) Get(h handle.Handle) (View[T], bool) {
	i, ok := s.Index(h)
	if !ok {
		return View[T]{}, false
	}
	return View[T]{columns: s.columns, index: i}, true
}

// Contains reports whether h refers to a live row.
func (s *Store[T]) Contains(h handle.Handle) bool {
	return s.registry.IsValid(h)
}

// Index returns the current physical row of h.
func (s *Store[T]) Index(h handle.Handle) (int, bool) {
	index := s.registry.Index(h)
	if index == handle.InvalidIndex {
		return 0, false
	}
	i, err := conv.Uint32ToInt(index)
	if err != nil || i >= s.size {
		return 0, false
	}
	return i, true
}

// Handle returns the handle owning row index, or handle.Invalid.
func (s *Store[T]) Handle(index int) handle.Handle {
	if index < 0 || index >= s.size {
		return handle.Invalid
	}
	return s.registry.HandleAt(toIndex(index))
}

// Column returns the live part of a field's buffer. The slice aliases the
// store and is invalidated by reallocation.
func (s *Store[T]) Column(field int) []T {
	return s.columns[field][:s.size:s.size]
}

// All iterates live rows in physical order. Rows may be written through the
// view, but the store must not be mutated during iteration.
func (s *Store[T]) All() iter.Seq2[handle.Handle, View[T]] {
	return func(yield func(handle.Handle, View[T]) bool) {
		for i := range s.size {
			if !yield(s.registry.HandleAt(toIndex(i)), View[T]{columns: s.columns, index: i}) {
				return
			}
		}
	}
}

// Len returns the number of live rows.
func (s *Store[T]) Len() int { return s.size }

// Cap returns the number of rows the columns can hold without growing.
func (s *Store[T]) Cap() int { return s.capacity }

// Fields returns the number of fields per row.
func (s *Store[T]) Fields() int { return len(s.columns) }

// Empty reports whether the store has no live rows.
func (s *Store[T]) Empty() bool { return s.size == 0 }

// MemoryUsage returns the bytes held by the columns.
func (s *Store[T]) MemoryUsage() int64 { return s.held }

// Clear drops every row and invalidates every handle. Capacity is kept.
func (s *Store[T]) Clear() {
	s.registry.Reset()
	s.size = 0
}

// Move transfers the rows, handles and memory of s to a new Store and leaves
// s empty but usable. Handles issued by s resolve against the returned store.
func (s *Store[T]) Move() *Store[T] {
	dst := *s
	*s = Store[T]{
		columns:  make([][]T, len(dst.columns)),
		registry: &handle.Registry{},
		opts:     dst.opts,
		timed:    dst.timed,
	}
	return &dst
}

// Close drops every row and returns all column memory to the budget. The
// store remains usable.
func (s *Store[T]) Close() error {
	s.Clear()
	return s.ShrinkToFit()
}

func (s *Store[T]) grow() error {
	if s.capacity >= maxCapacity {
		s.opts.logger.Warn("soa: growth refused", "capacity", s.capacity, "reason", "index space exhausted")
		return fmt.Errorf("%w: capacity %d", ErrCapacityExceeded, s.capacity)
	}

	next := maxCapacity
	if s.capacity <= maxCapacity/2 {
		next = max(1, s.capacity*2)
	}
	return s.Reserve(next)
}

// realloc moves every column into a buffer of exactly capacity rows.
func (s *Store[T]) realloc(capacity int) error {
	if !conv.Within(capacity, maxCapacity) {
		s.opts.logger.Warn("soa: growth refused", "capacity", capacity, "reason", "index space exhausted")
		return fmt.Errorf("%w: capacity %d", ErrCapacityExceeded, capacity)
	}

	bytes := mem.SizeOf[T](capacity) * int64(len(s.columns))
	delta := bytes - s.held
	if delta > 0 && s.opts.budget != nil && !s.opts.budget.TryAcquireMemory(delta) {
		s.opts.logger.Warn("soa: growth refused", "capacity", capacity, "bytes", delta, "reason", "memory budget")
		return fmt.Errorf("%w: %d more bytes for capacity %d", ErrMemoryLimit, delta, capacity)
	}

	keep := min(s.size, capacity)
	for f, col := range s.columns {
		s.columns[f] = mem.Realloc(col[:keep], capacity)
	}

	from := s.capacity
	s.capacity = capacity
	s.held = bytes

	if delta < 0 && s.opts.budget != nil {
		s.opts.budget.ReleaseMemory(-delta)
	}

	if capacity > from {
		s.opts.logger.Debug("soa: grow", "from", from, "to", capacity, "bytes", bytes)
		s.opts.metrics.OnGrow(from, capacity)
	} else {
		s.opts.logger.Debug("soa: shrink", "from", from, "to", capacity, "bytes", bytes)
		s.opts.metrics.OnShrink(from, capacity)
	}
	return nil
}

// toIndex converts a row number known to be below maxCapacity.
func toIndex(i int) uint32 {
	return uint32(i) //nolint:gosec // callers keep i in [0, maxCapacity)
}
