// Package vec provides a small numeric vector type used as the row payload of
// columnar stores.
//
// A Vec is a plain slice, so it can be built with a literal, ranged over and
// passed to any []T API. Arithmetic never mutates the receiver:
//
//	a := vec.New[float32](1, 2, 3)
//	b := vec.Fill[float32](3, 1)
//	c := a.Add(b).Scale(2)      // [4 6 8]
//	d := a.Dot(b)               // 6
//
// Operations on vectors of different lengths panic, like out-of-range slice
// indexing. []float64 vectors take the gonum floats fast path.
package vec
