package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRNG_Deterministic(t *testing.T) {
	a := NewRNG(4711)
	b := NewRNG(4711)

	for range 100 {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
	assert.Equal(t, int64(4711), a.Seed())
}

func TestRNG_Reset(t *testing.T) {
	rng := NewRNG(42)
	first := rng.Uint32n(1 << 20)
	rng.Reset()
	assert.Equal(t, first, rng.Uint32n(1<<20))
}

func TestUniformRow(t *testing.T) {
	rng := NewRNG(4711)

	row := rng.UniformRow(8)

	assert.Len(t, row, 8)
	for _, v := range row {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.Less(t, v, float32(1))
	}
}

func TestUint32n(t *testing.T) {
	rng := NewRNG(1)
	for range 1000 {
		assert.Less(t, rng.Uint32n(10), uint32(10))
	}
}
