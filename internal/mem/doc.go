// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// Column buffers are allocated on a cache-line boundary (as reported by
// golang.org/x/sys/cpu) so that the first row of every column starts a fresh
// line and sequential scans never straddle a neighbour's data.
package mem
