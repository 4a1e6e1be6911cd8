package handle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/handlestore/testutil"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(1024, 1024)
	require.NoError(t, err)
	return r
}

func requireValid(t *testing.T, r *Registry, h Handle, index uint32) {
	t.Helper()
	require.True(t, h.IsValid(), "handle %v should be structurally valid", h)
	require.True(t, r.IsValid(h), "handle %v should resolve", h)
	require.Equal(t, index, r.Index(h))
}

func requireInvalid(t *testing.T, r *Registry, h Handle) {
	t.Helper()
	require.False(t, r.IsValid(h), "handle %v should not resolve", h)
	require.Equal(t, InvalidIndex, r.Index(h))
}

func TestHandle(t *testing.T) {
	assert.False(t, Invalid.IsValid())
	assert.Equal(t, InvalidID, Invalid.ID)
	assert.True(t, Handle{}.IsValid(), "id 0 is a legal identifier")

	assert.Equal(t, "Handle(invalid)", Invalid.String())
	assert.Equal(t, "Handle(3:7)", Handle{ID: 3, Generation: 7}.String())
}

func TestRegistry_ZeroValue(t *testing.T) {
	var r Registry

	h := r.Insert(3)
	requireValid(t, &r, h, 3)
	assert.Equal(t, 1, r.Len())

	r.Erase(h)
	requireInvalid(t, &r, h)
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 1, r.FreeLen())
}

func TestRegistry_Insert(t *testing.T) {
	t.Run("maps to index", func(t *testing.T) {
		r := newTestRegistry(t)
		h := r.Insert(42)
		requireValid(t, r, h, 42)
	})

	t.Run("independent ids", func(t *testing.T) {
		r := newTestRegistry(t)
		a := r.Insert(1)
		b := r.Insert(2)
		c := r.Insert(3)

		requireValid(t, r, a, 1)
		requireValid(t, r, b, 2)
		requireValid(t, r, c, 3)

		assert.NotEqual(t, a.ID, b.ID)
		assert.NotEqual(t, a.ID, c.ID)
		assert.NotEqual(t, b.ID, c.ID)
		assert.Equal(t, 3, r.Len())
	})

	t.Run("rejects owned index", func(t *testing.T) {
		r := newTestRegistry(t)
		first := r.Insert(5)
		second := r.Insert(5)

		requireValid(t, r, first, 5)
		assert.Equal(t, Invalid, second)
		assert.Equal(t, 1, r.Len())
	})

	t.Run("extends reverse table", func(t *testing.T) {
		r, err := NewRegistry(0, 0)
		require.NoError(t, err)

		h := r.Insert(100_000)
		requireValid(t, r, h, 100_000)
	})

	t.Run("rejects sentinel index", func(t *testing.T) {
		r := newTestRegistry(t)
		assert.Equal(t, Invalid, r.Insert(InvalidIndex))
		assert.Equal(t, 0, r.Len())
	})
}

func TestRegistry_Update(t *testing.T) {
	t.Run("retargets", func(t *testing.T) {
		r := newTestRegistry(t)
		h := r.Insert(10)

		require.True(t, r.Update(h, 99))
		requireValid(t, r, h, 99)
		assert.Equal(t, Invalid, r.HandleAt(10))
		assert.Equal(t, h, r.HandleAt(99))

		// the vacated index is free again
		other := r.Insert(10)
		requireValid(t, r, other, 10)
	})

	t.Run("same index", func(t *testing.T) {
		r := newTestRegistry(t)
		h := r.Insert(4)
		assert.True(t, r.Update(h, 4))
		requireValid(t, r, h, 4)
	})

	t.Run("invalid handle", func(t *testing.T) {
		r := newTestRegistry(t)
		assert.False(t, r.Update(Invalid, 123))
		requireInvalid(t, r, Invalid)
	})

	t.Run("stale handle", func(t *testing.T) {
		r := newTestRegistry(t)
		h := r.Insert(1)
		r.Erase(h)
		assert.False(t, r.Update(h, 2))
		assert.Equal(t, Invalid, r.HandleAt(2))
	})

	t.Run("owned target", func(t *testing.T) {
		r := newTestRegistry(t)
		a := r.Insert(1)
		b := r.Insert(2)

		assert.False(t, r.Update(a, 2))
		requireValid(t, r, a, 1)
		requireValid(t, r, b, 2)
	})

	t.Run("keeps id and generation", func(t *testing.T) {
		r := newTestRegistry(t)
		h := r.Insert(1)
		require.True(t, r.Update(h, 8))
		assert.Equal(t, h, r.HandleAt(8))
	})
}

func TestRegistry_Erase(t *testing.T) {
	t.Run("invalidates", func(t *testing.T) {
		r := newTestRegistry(t)
		h := r.Insert(5)
		copyOfH := h

		r.Erase(h)

		requireInvalid(t, r, h)
		requireInvalid(t, r, copyOfH)
		assert.Equal(t, Invalid, r.HandleAt(5))
	})

	t.Run("reinsert keeps old handle invalid", func(t *testing.T) {
		r := newTestRegistry(t)
		h1 := r.Insert(111)
		r.Erase(h1)

		h2 := r.Insert(222)
		requireValid(t, r, h2, 222)

		if h2.ID == h1.ID {
			assert.Greater(t, h2.Generation, h1.Generation)
		}
		requireInvalid(t, r, h1)
	})

	t.Run("invalid handle is no-op", func(t *testing.T) {
		r := newTestRegistry(t)
		h := r.Insert(1)

		r.Erase(Invalid)
		r.Erase(Handle{ID: 999})

		requireValid(t, r, h, 1)
		assert.Equal(t, 1, r.Len())
	})

	t.Run("double erase", func(t *testing.T) {
		r := newTestRegistry(t)
		h := r.Insert(1)
		r.Erase(h)
		r.Erase(h)

		assert.Equal(t, 0, r.Len())
		assert.Equal(t, 1, r.FreeLen())
	})
}

func TestRegistry_StaleGeneration(t *testing.T) {
	r := newTestRegistry(t)
	h := r.Insert(7)

	stale := h
	stale.Generation++

	requireInvalid(t, r, stale)
	requireValid(t, r, h, 7)
}

func TestRegistry_Scenario(t *testing.T) {
	var r Registry
	require.NoError(t, r.Reserve(4, 4))

	h0 := r.Insert(0)
	h1 := r.Insert(1)
	h2 := r.Insert(2)

	r.Erase(h0)

	requireInvalid(t, &r, h0)
	requireValid(t, &r, h1, 1)
	requireValid(t, &r, h2, 2)

	h3 := r.Insert(0)
	requireValid(t, &r, h3, 0)
	assert.Equal(t, h0.ID, h3.ID, "lowest free id is reused")
	assert.Equal(t, h0.Generation+1, h3.Generation)
	requireInvalid(t, &r, h0)
}

func TestRegistry_GenerationNeverRevives(t *testing.T) {
	r := newTestRegistry(t)

	issued := make([]Handle, 0, 64)
	for range 64 {
		h := r.Insert(0)
		require.True(t, r.IsValid(h))
		issued = append(issued, h)
		r.Erase(h)
	}

	for _, h := range issued {
		requireInvalid(t, r, h)
	}
	assert.Equal(t, uint32(0), issued[63].ID)
	assert.Equal(t, uint32(63), issued[63].Generation)
}

func TestRegistry_RetiredGeneration(t *testing.T) {
	t.Run("retired id is not pooled", func(t *testing.T) {
		var r Registry
		h := r.Insert(0)
		r.Erase(h)
		r.generations[0] = retired - 1

		last := r.Insert(0)
		require.Equal(t, uint32(retired-1), last.Generation)
		r.Erase(last)

		assert.Equal(t, 0, r.FreeLen())
		requireInvalid(t, &r, last)

		next := r.Insert(0)
		requireValid(t, &r, next, 0)
		assert.Equal(t, uint32(1), next.ID, "retired id is skipped")
	})

	t.Run("truncated retired id is never re-minted", func(t *testing.T) {
		var r Registry
		h := r.Insert(0)
		r.Erase(h)
		r.generations[0] = retired - 1

		last := r.Insert(0)
		r.Erase(last)

		require.NoError(t, r.Resize(0, 0))
		assert.Equal(t, Invalid, r.Insert(0), "no generation left to start a new slot at")
		requireInvalid(t, &r, h)
		requireInvalid(t, &r, last)

		require.NoError(t, r.Resize(4, 4))
		assert.Equal(t, 0, r.FreeLen(), "grown slots are born retired")
		assert.Equal(t, Invalid, r.Insert(1))
		requireInvalid(t, &r, h)
	})

	t.Run("truncated id near the limit", func(t *testing.T) {
		var r Registry
		h := r.Insert(0)
		r.Erase(h)
		r.generations[0] = retired - 2

		old := r.Insert(0)
		require.Equal(t, uint32(retired-2), old.Generation)

		require.NoError(t, r.Resize(0, 1))
		requireInvalid(t, &r, old)

		fresh := r.Insert(0)
		requireValid(t, &r, fresh, 0)
		assert.Equal(t, old.ID, fresh.ID)
		assert.Equal(t, uint32(retired-1), fresh.Generation)
		requireInvalid(t, &r, old)

		r.Erase(fresh)
		assert.Equal(t, 0, r.FreeLen())
	})
}

func TestRegistry_LargeIdentifiers(t *testing.T) {
	r := newTestRegistry(t)
	h := r.Insert(0)

	for _, id := range []uint32{1 << 31, 1<<31 + 1, InvalidID - 1} {
		big := Handle{ID: id}
		assert.False(t, r.IsValid(big))
		assert.Equal(t, InvalidIndex, r.Index(big))
		assert.False(t, r.Update(big, 1))
		r.Erase(big)
		assert.Equal(t, Invalid, r.HandleAt(id))
	}

	requireValid(t, r, h, 0)
	assert.False(t, r.Update(h, InvalidIndex))
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_HandleAt(t *testing.T) {
	r := newTestRegistry(t)
	h := r.Insert(3)

	assert.Equal(t, h, r.HandleAt(3))
	assert.Equal(t, Invalid, r.HandleAt(4))
	assert.Equal(t, Invalid, r.HandleAt(1<<30))
}

func TestRegistry_Reserve(t *testing.T) {
	r, err := NewRegistry(16, 32)
	require.NoError(t, err)

	handles, indices := r.Cap()
	assert.GreaterOrEqual(t, handles, 16)
	assert.GreaterOrEqual(t, indices, 32)
	assert.Equal(t, 0, r.Len())

	// reserving less is a no-op
	require.NoError(t, r.Reserve(1, 1))
	handles, indices = r.Cap()
	assert.GreaterOrEqual(t, handles, 16)
	assert.GreaterOrEqual(t, indices, 32)

	_, err = NewRegistry(-1, 0)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	_, err = NewRegistry(0, -1)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestRegistry_Resize(t *testing.T) {
	t.Run("grow", func(t *testing.T) {
		r := newTestRegistry(t)
		h := r.Insert(2)

		require.NoError(t, r.Resize(8, 8))
		requireValid(t, r, h, 2)
		assert.Equal(t, 1, r.Len())
		assert.Equal(t, 7, r.FreeLen(), "new id slots are pooled")

		next := r.Insert(3)
		assert.Equal(t, uint32(1), next.ID)
	})

	t.Run("shrink drops pooled ids", func(t *testing.T) {
		var r Registry
		hs := make([]Handle, 6)
		for i := range hs {
			hs[i] = r.Insert(uint32(i))
		}
		for _, h := range hs[2:] {
			r.Erase(h)
		}
		require.Equal(t, 4, r.FreeLen())

		require.NoError(t, r.Resize(3, 6))
		assert.Equal(t, 1, r.FreeLen(), "only id 2 survives in the pool")

		h := r.Insert(5)
		assert.Equal(t, uint32(2), h.ID)
		requireValid(t, &r, h, 5)
	})

	t.Run("shrink abandons bound ids", func(t *testing.T) {
		var r Registry
		a := r.Insert(0)
		b := r.Insert(1)
		require.Equal(t, uint32(1), b.ID)

		require.NoError(t, r.Resize(1, 2))
		requireValid(t, &r, a, 0)
		requireInvalid(t, &r, b)
		assert.Equal(t, 1, r.Len())

		// index 1 is free again and the re-minted id 1 must not revive b
		c := r.Insert(1)
		requireValid(t, &r, c, 1)
		assert.Equal(t, b.ID, c.ID)
		assert.NotEqual(t, b.Generation, c.Generation)
		requireInvalid(t, &r, b)
	})

	t.Run("shrink index space reclaims ids", func(t *testing.T) {
		var r Registry
		a := r.Insert(0)
		b := r.Insert(5)

		require.NoError(t, r.Resize(2, 3))
		requireValid(t, &r, a, 0)
		requireInvalid(t, &r, b)
		assert.Equal(t, 1, r.Len())
		assert.Equal(t, 1, r.FreeLen())
	})

	t.Run("negative", func(t *testing.T) {
		r := newTestRegistry(t)
		h := r.Insert(1)

		assert.ErrorIs(t, r.Resize(-1, 4), ErrCapacityExceeded)
		requireValid(t, r, h, 1)
	})
}

func TestRegistry_Reset(t *testing.T) {
	r := newTestRegistry(t)
	hs := []Handle{r.Insert(0), r.Insert(1), r.Insert(2)}

	r.Reset()

	assert.Equal(t, 0, r.Len())
	for _, h := range hs {
		requireInvalid(t, r, h)
	}

	h := r.Insert(1)
	requireValid(t, r, h, 1)
}

func TestRegistry_ShrinkToFit(t *testing.T) {
	r := newTestRegistry(t)
	hs := make([]Handle, 6)
	for i := range hs {
		hs[i] = r.Insert(uint32(i))
	}
	// free the low ids so the survivors carry ids above the new index length
	for _, h := range hs[:3] {
		r.Erase(h)
	}
	require.True(t, r.Update(hs[3], 0))
	require.True(t, r.Update(hs[4], 1))
	require.True(t, r.Update(hs[5], 2))

	require.NoError(t, r.ShrinkToFit(3))

	handles, indices := r.Cap()
	assert.Equal(t, 6, handles)
	assert.Equal(t, 3, indices)
	requireValid(t, r, hs[3], 0)
	requireValid(t, r, hs[4], 1)
	requireValid(t, r, hs[5], 2)
	assert.Equal(t, 3, r.FreeLen())

	require.NoError(t, r.ShrinkToFit(0))
	for _, h := range hs {
		requireInvalid(t, r, h)
	}
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_RandomizedOperations(t *testing.T) {
	type alive struct {
		index      uint32
		generation uint32
	}

	rng := testutil.NewRNG(0xC0FFEE)
	r := newTestRegistry(t)

	handles := make([]Handle, 0, 2000)
	aliveByID := make(map[uint32]alive)
	owners := make(map[uint32]uint32) // index -> id

	checkAll := func() {
		for _, h := range handles {
			info, ok := aliveByID[h.ID]
			shouldBeAlive := ok && info.generation == h.Generation

			require.Equal(t, shouldBeAlive, r.IsValid(h))
			if shouldBeAlive {
				require.Equal(t, info.index, r.Index(h))
				require.Equal(t, h, r.HandleAt(info.index))
			} else {
				require.Equal(t, InvalidIndex, r.Index(h))
			}
		}
		require.Equal(t, len(aliveByID), r.Len())
	}

	for step := range 5000 {
		op := rng.Intn(3)

		if op == 0 || len(handles) == 0 {
			idx := rng.Uint32n(100_001)
			h := r.Insert(idx)

			if _, taken := owners[idx]; taken {
				require.Equal(t, Invalid, h, "step %d", step)
				continue
			}
			requireValid(t, r, h, idx)
			aliveByID[h.ID] = alive{index: idx, generation: h.Generation}
			owners[idx] = h.ID
			handles = append(handles, h)
		} else {
			h := handles[rng.Intn(len(handles))]
			info, ok := aliveByID[h.ID]
			isAlive := ok && info.generation == h.Generation

			if op == 1 {
				newIdx := rng.Uint32n(100_001)
				owner, taken := owners[newIdx]
				want := isAlive && (!taken || owner == h.ID)

				require.Equal(t, want, r.Update(h, newIdx), "step %d", step)
				if want {
					delete(owners, info.index)
					owners[newIdx] = h.ID
					aliveByID[h.ID] = alive{index: newIdx, generation: h.Generation}
				}
			} else {
				r.Erase(h)
				requireInvalid(t, r, h)
				if isAlive {
					delete(owners, info.index)
					delete(aliveByID, h.ID)
				}
			}
		}

		if step%100 == 0 {
			checkAll()
		}
	}

	checkAll()
}

func BenchmarkRegistry_InsertErase(b *testing.B) {
	r, err := NewRegistry(1024, 1024)
	require.NoError(b, err)

	for b.Loop() {
		h := r.Insert(17)
		r.Erase(h)
	}
}

func BenchmarkRegistry_IsValid(b *testing.B) {
	r, err := NewRegistry(1024, 1024)
	require.NoError(b, err)
	h := r.Insert(17)

	for b.Loop() {
		_ = r.IsValid(h)
	}
}
