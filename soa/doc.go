// Package soa implements a columnar (structure-of-arrays) store addressed by
// generational handles.
//
// A Store[T] owns one contiguous buffer per field. Row i of the store is the
// i-th element of every buffer. Callers never address rows by position:
// Emplace returns a handle.Handle that keeps resolving to the same logical
// row while the row moves.
//
// Rows move for two reasons:
//   - Erase compacts by swap-remove: the last row is copied into the hole and
//     the handle that owned it is retargeted. Erase is O(fields).
//   - Growth reallocates every buffer (capacity doubles) and copies the rows.
//
// # Views
//
// At and Get return a View, a borrowed row accessor spanning every field. A
// View reads and writes the store's buffers in place. It must not be kept
// across any call that may reallocate (Reserve, Resize, Emplace, ShrinkToFit,
// Move, Close); doing so yields unspecified results.
//
// # Memory budget
//
// WithMemoryBudget makes every growth ask a MemoryBudget (for example a
// *resource.Controller) for the extra bytes first. A refused growth returns
// ErrMemoryLimit and leaves the store untouched.
//
// # Concurrency
//
// A Store is not safe for concurrent use. Owners sharing a store across
// goroutines must synchronize externally.
package soa
