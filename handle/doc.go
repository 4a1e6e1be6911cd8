// Package handle provides generational handles and the registry that issues them.
//
// A Handle is a plain (id, generation) pair. The Registry maps each live id
// to a physical index and each occupied index back to its id, so storage that
// moves records around (swap-remove, compaction) can retarget an id without
// invalidating the callers holding its handle.
//
// # Lifecycle
//
// Identifiers cycle between two states, free and bound:
//
//	h := reg.Insert(7)      // free -> bound, index 7
//	reg.Update(h, 3)        // still bound, now index 3
//	reg.Erase(h)            // bound -> free, generation bumped
//	reg.IsValid(h)          // false, forever
//
// Erase increments the id's generation, which is how every copy of an old
// handle becomes permanently stale. An id whose generation counter would wrap
// is retired instead of being returned to the free pool.
//
// # Stale Handles
//
// Staleness is an expected condition, not an error: Update returns false,
// Erase is a no-op, Index returns InvalidIndex and IsValid returns false.
// The only error the registry returns is ErrCapacityExceeded, when a requested
// capacity does not fit the 32-bit id/index space.
//
// # Concurrency
//
// A Registry is not safe for concurrent use. Callers sharing one across
// goroutines must synchronize externally.
package handle
