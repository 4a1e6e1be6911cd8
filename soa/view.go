package soa

import (
	"fmt"

	"github.com/hupe1980/handlestore/vec"
)

// View is a borrowed accessor for one row of a Store. Field i of the row is
// element index of column i. Writes go straight to the store.
//
// A View is invalidated by any call that may reallocate the store.
type View[T vec.Number] struct {
	columns [][]T
	index   int
}

// Len returns the number of fields in the row.
func (v View[T]) Len() int { return len(v.columns) }

// Index returns the physical row the view points at.
func (v View[T]) Index() int { return v.index }

// Get returns field i.
func (v View[T]) Get(i int) T { return v.columns[i][v.index] }

// Set writes field i.
func (v View[T]) Set(i int, value T) { v.columns[i][v.index] = value }

func (v View[T]) X() T { return v.Get(0) }
func (v View[T]) Y() T { return v.Get(1) }
func (v View[T]) Z() T { return v.Get(2) }
func (v View[T]) W() T { return v.Get(3) }

func (v View[T]) SetX(value T) { v.Set(0, value) }
func (v View[T]) SetY(value T) { v.Set(1, value) }
func (v View[T]) SetZ(value T) { v.Set(2, value) }
func (v View[T]) SetW(value T) { v.Set(3, value) }

// Load copies the row out into a vector.
func (v View[T]) Load() vec.Vec[T] {
	out := make(vec.Vec[T], len(v.columns))
	for i, col := range v.columns {
		out[i] = col[v.index]
	}
	return out
}

// Store copies x into the row. It panics if x has the wrong length.
func (v View[T]) Store(x vec.Vec[T]) {
	if len(x) != len(v.columns) {
		panic(fmt.Sprintf("soa: view store: length %d, row has %d fields", len(x), len(v.columns)))
	}
	for i, col := range v.columns {
		col[v.index] = x[i]
	}
}

// AddAssign adds x to the row in place.
func (v View[T]) AddAssign(x vec.Vec[T]) { v.Store(v.Load().Add(x)) }

// SubAssign subtracts x from the row in place.
func (v View[T]) SubAssign(x vec.Vec[T]) { v.Store(v.Load().Sub(x)) }

// ScaleAssign multiplies the row by s in place.
func (v View[T]) ScaleAssign(s T) {
	for _, col := range v.columns {
		col[v.index] *= s
	}
}

// Normalize scales the row to unit length in place.
func (v View[T]) Normalize() { v.Store(v.Load().Normalized()) }

// Dot returns the dot product of the row and x.
func (v View[T]) Dot(x vec.Vec[T]) T { return v.Load().Dot(x) }

// SquaredLength returns the squared Euclidean norm of the row.
func (v View[T]) SquaredLength() T { return v.Load().SquaredLength() }

// Length returns the Euclidean norm of the row.
func (v View[T]) Length() float64 { return v.Load().Length() }
