// Package testutil provides testing utilities for handlestore.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, goroutine-safe RNG for randomized model checks.
//
// # Random Operation Streams
//
//	rng := testutil.NewRNG(seed)
//	op := rng.Intn(3)              // pick insert / update / erase
//	idx := rng.Uint32n(100_000)    // random physical index
//	row := rng.UniformRow(4)       // one float32 value per field
package testutil
