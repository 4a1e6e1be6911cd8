// Package conv provides checked integer conversions into the 32-bit
// identifier and index space used by handles.
//
// Capacities and indices travel through the public API as int, but the
// registry stores them as uint32. Every int that crosses that boundary goes
// through IntToUint32 so an oversized request surfaces as an error wrapping
// ErrOverflow instead of silently truncating.
//
// For conversions that are provably safe by construction (values read back
// out of a uint32 slice, loop indices below a checked bound), use direct type
// casts instead.
package conv
