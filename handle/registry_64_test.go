//go:build amd64 || arm64

package handle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CapacityExceeded(t *testing.T) {
	r := newTestRegistry(t)
	h := r.Insert(9)

	tooLarge := math.MaxUint32 + 1

	assert.ErrorIs(t, r.Reserve(tooLarge, 0), ErrCapacityExceeded)
	assert.ErrorIs(t, r.Reserve(0, tooLarge), ErrCapacityExceeded)
	assert.ErrorIs(t, r.Resize(tooLarge, 16), ErrCapacityExceeded)
	assert.ErrorIs(t, r.Resize(16, tooLarge), ErrCapacityExceeded)

	// state untouched
	require.True(t, r.IsValid(h))
	assert.Equal(t, uint32(9), r.Index(h))
	assert.Equal(t, 1, r.Len())
}
