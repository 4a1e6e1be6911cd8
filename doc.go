// Package handlestore provides stable references into compacting columnar
// storage.
//
// A Store holds rows of N numeric fields in structure-of-arrays layout. Each
// row is addressed by a generational Handle that keeps resolving to the same
// logical row while the row moves: erase compacts by swap-remove, insert grows
// the columns geometrically. A handle whose row was erased never resolves
// again, even after its identifier is reused.
//
// # Quick Start
//
//	store, _ := handlestore.New[float32](3,
//	    handlestore.WithCapacity(1024),
//	    handlestore.WithMemoryLimit(64<<20),
//	)
//
//	h, _ := store.Emplace(1, 2, 3)
//	if v, ok := store.Get(h); ok {
//	    v.AddAssign(vec.New[float32](1, 1, 1))
//	}
//	store.Erase(h)
//	store.Contains(h) // false, forever
//
// # Packages
//
//   - handle: the Handle type and the Registry that issues, validates,
//     retargets and reclaims handles.
//   - soa: the columnar Store and its row View.
//   - vec: the numeric vector type rows load into and store from.
//   - resource: a memory budget that can be shared by many stores.
//
// # Concurrency
//
// Stores are single-threaded. Share one behind a lock if needed. A
// resource.Controller may be shared freely.
package handlestore
