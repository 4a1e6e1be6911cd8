package vec

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Number is the set of scalar element types a Vec can hold.
type Number interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint |
		~float32 | ~float64
}

// Epsilon is the tolerance Equal uses for floating point elements.
const Epsilon = 1e-6

// Vec is a fixed-length numeric vector.
type Vec[T Number] []T

// New returns a vector holding values.
func New[T Number](values ...T) Vec[T] {
	return Vec[T](values)
}

// Zero returns an n-dimensional zero vector.
func Zero[T Number](n int) Vec[T] {
	return make(Vec[T], n)
}

// Fill returns an n-dimensional vector with every element set to value.
func Fill[T Number](n int, value T) Vec[T] {
	v := make(Vec[T], n)
	for i := range v {
		v[i] = value
	}
	return v
}

// Len returns the dimensionality of v.
func (v Vec[T]) Len() int {
	return len(v)
}

// X returns the first element.
func (v Vec[T]) X() T { return v[0] }

// Y returns the second element.
func (v Vec[T]) Y() T { return v[1] }

// Z returns the third element.
func (v Vec[T]) Z() T { return v[2] }

// W returns the fourth element.
func (v Vec[T]) W() T { return v[3] }

// Clone returns a copy of v.
func (v Vec[T]) Clone() Vec[T] {
	if v == nil {
		return nil
	}
	out := make(Vec[T], len(v))
	copy(out, v)
	return out
}

// Add returns v + o.
func (v Vec[T]) Add(o Vec[T]) Vec[T] {
	mustMatch(len(v), len(o))
	out := make(Vec[T], len(v))
	if a, b, ok := float64Pair(v, o); ok {
		floats.AddTo(any([]T(out)).([]float64), a, b)
		return out
	}
	for i := range v {
		out[i] = v[i] + o[i]
	}
	return out
}

// Sub returns v - o.
func (v Vec[T]) Sub(o Vec[T]) Vec[T] {
	mustMatch(len(v), len(o))
	out := make(Vec[T], len(v))
	if a, b, ok := float64Pair(v, o); ok {
		floats.SubTo(any([]T(out)).([]float64), a, b)
		return out
	}
	for i := range v {
		out[i] = v[i] - o[i]
	}
	return out
}

// Scale returns v * s.
func (v Vec[T]) Scale(s T) Vec[T] {
	out := make(Vec[T], len(v))
	if a, ok := any([]T(v)).([]float64); ok {
		floats.ScaleTo(any([]T(out)).([]float64), float64(s), a)
		return out
	}
	for i := range v {
		out[i] = v[i] * s
	}
	return out
}

// Div returns v / s. Integer division by zero panics.
func (v Vec[T]) Div(s T) Vec[T] {
	out := make(Vec[T], len(v))
	for i := range v {
		out[i] = v[i] / s
	}
	return out
}

// Neg returns -v.
func (v Vec[T]) Neg() Vec[T] {
	out := make(Vec[T], len(v))
	for i := range v {
		out[i] = -v[i]
	}
	return out
}

// Dot returns the dot product of v and o.
func (v Vec[T]) Dot(o Vec[T]) T {
	mustMatch(len(v), len(o))
	if a, b, ok := float64Pair(v, o); ok {
		return T(floats.Dot(a, b))
	}
	var sum T
	for i := range v {
		sum += v[i] * o[i]
	}
	return sum
}

// SquaredLength returns v·v.
func (v Vec[T]) SquaredLength() T {
	return v.Dot(v)
}

// Length returns the Euclidean norm of v.
func (v Vec[T]) Length() float64 {
	if a, ok := any([]T(v)).([]float64); ok {
		return floats.Norm(a, 2)
	}
	return math.Sqrt(float64(v.SquaredLength()))
}

// Normalized returns v scaled to unit length. A vector shorter than Epsilon
// is returned unchanged. Only meaningful for floating point elements.
func (v Vec[T]) Normalized() Vec[T] {
	l := v.Length()
	if l <= Epsilon {
		return v.Clone()
	}
	out := make(Vec[T], len(v))
	for i := range v {
		out[i] = T(float64(v[i]) / l)
	}
	return out
}

// Clamp returns v with every element limited to [lo, hi].
func (v Vec[T]) Clamp(lo, hi T) Vec[T] {
	out := make(Vec[T], len(v))
	for i, x := range v {
		out[i] = min(max(x, lo), hi)
	}
	return out
}

// Equal reports whether v and o have the same length and elements. Floating
// point elements compare within Epsilon.
func (v Vec[T]) Equal(o Vec[T]) bool {
	if len(v) != len(o) {
		return false
	}
	for i := range v {
		if v[i] == o[i] {
			continue
		}
		if math.Abs(float64(v[i])-float64(o[i])) >= Epsilon || !isFloat[T]() {
			return false
		}
	}
	return true
}

func isFloat[T Number]() bool {
	var one T = 1
	return one/2 != 0
}

func float64Pair[T Number](a, b Vec[T]) ([]float64, []float64, bool) {
	fa, ok := any([]T(a)).([]float64)
	if !ok {
		return nil, nil, false
	}
	return fa, any([]T(b)).([]float64), true
}

func mustMatch(a, b int) {
	if a != b {
		panic(fmt.Sprintf("vec: length mismatch: %d != %d", a, b))
	}
}
