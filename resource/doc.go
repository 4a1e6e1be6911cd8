// Package resource provides a memory budget shared by columnar stores.
//
// A Controller tracks bytes held by column buffers and, when a limit is
// configured, refuses growth that would exceed it:
//
//	rc := resource.NewController(resource.Config{MemoryLimitBytes: 64 << 20})
//	store, _ := soa.New[float32](3, soa.WithMemoryBudget(rc))
//
// Stores only ever use the non-blocking TryAcquireMemory path. AcquireMemory
// blocks until memory is released or ctx is done and is meant for callers
// outside the single-threaded store core.
//
// A Controller is safe for concurrent use, so one budget can cap many stores.
package resource
