package mem

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// Alignment is the byte alignment of every buffer returned by this package:
// the CPU cache line size, or 64 where the platform reports none.
var Alignment = cacheLine()

func cacheLine() int {
	n := int(unsafe.Sizeof(cpu.CacheLinePad{}))
	if n < 8 {
		return 64
	}
	return n
}

// Scalar is the set of pointer-free element types that may live in an aligned
// buffer. Buffers are carved out of a []byte, so element types must not hold
// pointers the garbage collector would need to see.
type Scalar interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint |
		~float32 | ~float64
}

// AllocAligned allocates a byte slice of the given size aligned to Alignment.
// The returned slice is guaranteed to start at a memory address divisible by Alignment.
//
// Note: This function allocates slightly more memory than requested to ensure alignment.
// The underlying array is kept alive by the returned slice.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return nil
	}

	// We need enough space to shift the start pointer up to Alignment-1 bytes
	align := uintptr(Alignment)
	buf := make([]byte, size+Alignment)

	addr := uintptr(unsafe.Pointer(&buf[0])) //nolint:gosec // unsafe is required for memory alignment
	offset := (align - (addr & (align - 1))) & (align - 1)

	return buf[offset : offset+uintptr(size)]
}

// Alloc allocates a zeroed slice of n elements of T aligned to Alignment.
func Alloc[T Scalar](n int) []T {
	if n <= 0 {
		return nil
	}

	var zero T
	byteSlice := AllocAligned(n * int(unsafe.Sizeof(zero)))

	// Alignment is a multiple of every scalar's alignment, so the cast is safe.
	ptr := unsafe.Pointer(&byteSlice[0]) //nolint:gosec // unsafe is required for memory alignment
	return unsafe.Slice((*T)(ptr), n)   //nolint:gosec // unsafe is required for memory alignment
}

// Realloc returns an aligned buffer of n elements holding the first
// min(len(src), n) elements of src. The remainder is zeroed.
func Realloc[T Scalar](src []T, n int) []T {
	dst := Alloc[T](n)
	copy(dst, src)
	return dst
}

// SizeOf returns the number of bytes n elements of T occupy.
func SizeOf[T Scalar](n int) int64 {
	var zero T
	return int64(n) * int64(unsafe.Sizeof(zero))
}
