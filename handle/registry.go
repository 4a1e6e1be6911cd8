package handle

import (
	"fmt"
	"math"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/handlestore/internal/conv"
)

// retired marks an id whose generation can no longer advance. No handle is
// ever issued with this generation.
const retired = math.MaxUint32

// Registry issues, validates, retargets and reclaims generational handles.
//
// It keeps four structures in step:
//   - idToIndex: id -> physical index (InvalidIndex when unbound)
//   - indexToID: index -> owning id (InvalidID when unoccupied)
//   - generations: id -> current generation
//   - free: reclaimed ids available for reuse
//
// For every valid handle h, indexToID[idToIndex[h.ID]] == h.ID.
//
// The zero value is an empty registry ready for use.
type Registry struct {
	idToIndex   []uint32
	indexToID   []uint32
	generations []uint32
	free        *roaring.Bitmap

	// genFloor is the generation new id slots start at. It only moves when a
	// shrinking Resize truncates ids, so a later re-mint of a truncated id
	// cannot reproduce a handle that was handed out before. A floor of
	// retired means every new slot is born retired and nothing can be minted.
	genFloor uint32
	live     int
}

// NewRegistry creates a registry with storage reserved for handleCap ids and
// indexCap physical slots. Both may be zero.
func NewRegistry(handleCap, indexCap int) (*Registry, error) {
	r := &Registry{free: roaring.New()}
	if err := r.Reserve(handleCap, indexCap); err != nil {
		return nil, err
	}
	return r, nil
}

func checkCapacity(handleCap, indexCap int) error {
	// InvalidID and InvalidIndex are sentinels, but the full range is still
	// accepted as a capacity; the last slot simply never gets bound.
	if _, err := conv.IntToUint32(handleCap); err != nil {
		return fmt.Errorf("%w: handle capacity: %w", ErrCapacityExceeded, err)
	}
	if _, err := conv.IntToUint32(indexCap); err != nil {
		return fmt.Errorf("%w: index capacity: %w", ErrCapacityExceeded, err)
	}
	return nil
}

// Reserve pre-allocates backing storage for handleCap ids and indexCap
// physical slots without creating entries.
func (r *Registry) Reserve(handleCap, indexCap int) error {
	if err := checkCapacity(handleCap, indexCap); err != nil {
		return err
	}

	r.idToIndex = slices.Grow(r.idToIndex, max(0, handleCap-len(r.idToIndex)))
	r.generations = slices.Grow(r.generations, max(0, handleCap-len(r.generations)))
	r.indexToID = slices.Grow(r.indexToID, max(0, indexCap-len(r.indexToID)))
	return nil
}

// Resize grows or shrinks the id and index spaces.
//
// New id slots are unbound and join the free pool, new index slots are
// unoccupied. Shrinking the index space reclaims every id bound to a dropped
// index. Shrinking the id space abandons the dropped ids: pooled ones leave
// the free pool and bound ones stop resolving.
func (r *Registry) Resize(handleCap, indexCap int) error {
	if err := checkCapacity(handleCap, indexCap); err != nil {
		return err
	}
	r.pool()

	for index := indexCap; index < len(r.indexToID); index++ {
		if id, ok := r.owner(uint32(index)); ok {
			r.release(id)
		}
	}

	if handleCap < len(r.generations) {
		for _, gen := range r.generations[handleCap:] {
			if gen == retired {
				// every generation below retired may have been issued
				r.genFloor = retired
				continue
			}
			r.genFloor = max(r.genFloor, gen+1)
		}
		r.free.RemoveRange(uint64(handleCap), uint64(math.MaxUint32)+1)
	}

	if old := len(r.generations); handleCap > old && r.genFloor != retired {
		r.free.AddRange(uint64(old), uint64(handleCap))
	}
	r.idToIndex = resizeFill(r.idToIndex, handleCap, InvalidIndex)
	r.generations = resizeFill(r.generations, handleCap, r.genFloor)
	r.indexToID = resizeFill(r.indexToID, indexCap, InvalidID)

	r.live = 0
	for index := range r.indexToID {
		if _, ok := r.owner(uint32(index)); ok {
			r.live++
		}
	}
	return nil
}

// ShrinkToFit truncates the index space to indexLen and releases spare
// capacity in all three arrays. Ids bound to a dropped index are reclaimed as
// in Resize. The id space keeps its length.
func (r *Registry) ShrinkToFit(indexLen int) error {
	if err := r.Resize(len(r.generations), indexLen); err != nil {
		return err
	}
	r.idToIndex = clip(r.idToIndex)
	r.generations = clip(r.generations)
	r.indexToID = clip(r.indexToID)
	return nil
}

// Insert binds a fresh or recycled id to index and returns its handle.
//
// If index is already owned by a live id the call is rejected and Invalid is
// returned. This is idempotent-insert protection, not an error.
func (r *Registry) Insert(index uint32) Handle {
	if index == InvalidIndex {
		return Invalid
	}

	if !r.ensureIndex(index) {
		return Invalid
	}
	if _, owned := r.owner(index); owned {
		return Invalid
	}

	id, ok := r.popFree()
	if !ok {
		if uint64(len(r.generations)) >= uint64(InvalidID) || r.genFloor == retired {
			// id space exhausted
			return Invalid
		}
		id = uint32(len(r.generations))
		r.idToIndex = append(r.idToIndex, InvalidIndex)
		r.generations = append(r.generations, r.genFloor)
	}

	r.idToIndex[id] = index
	r.indexToID[index] = id
	r.live++

	return Handle{ID: id, Generation: r.generations[id]}
}

// Update retargets a live handle to a new physical index. It returns false,
// without mutating anything, if h is stale or index is owned by a different
// live id. The handle's id and generation are unchanged.
func (r *Registry) Update(h Handle, index uint32) bool {
	if !r.IsValid(h) || index == InvalidIndex {
		return false
	}

	oldIndex := r.idToIndex[h.ID]
	if oldIndex == index {
		return true
	}

	if !r.ensureIndex(index) {
		return false
	}
	if _, owned := r.owner(index); owned {
		return false
	}

	// only clear the reverse mapping if it still points back at us
	if r.indexToID[oldIndex] == h.ID {
		r.indexToID[oldIndex] = InvalidID
	}

	r.idToIndex[h.ID] = index
	r.indexToID[index] = h.ID
	return true
}

// Erase reclaims h's id and bumps its generation, invalidating every copy of
// h. Erasing a stale handle is a no-op.
func (r *Registry) Erase(h Handle) {
	if !r.IsValid(h) {
		return
	}
	r.release(h.ID)
}

// IsValid reports whether h resolves: its id is in range, its generation is
// current, its forward mapping is set and in range, and the reverse mapping
// at that index points back at its id.
func (r *Registry) IsValid(h Handle) bool {
	id := h.ID
	if id == InvalidID ||
		!inRange(id, len(r.idToIndex)) ||
		!inRange(id, len(r.generations)) ||
		r.generations[id] != h.Generation {
		return false
	}

	index := r.idToIndex[id]
	if index == InvalidIndex ||
		!inRange(index, len(r.indexToID)) ||
		r.indexToID[index] != id {
		return false
	}

	return true
}

// Index returns the physical index h resolves to, or InvalidIndex.
func (r *Registry) Index(h Handle) uint32 {
	if !r.IsValid(h) {
		return InvalidIndex
	}
	return r.idToIndex[h.ID]
}

// HandleAt returns the handle currently bound to index, or Invalid.
func (r *Registry) HandleAt(index uint32) Handle {
	id, ok := r.owner(index)
	if !ok {
		return Invalid
	}
	return Handle{ID: id, Generation: r.generations[id]}
}

// Len returns the number of bound ids.
func (r *Registry) Len() int {
	return r.live
}

// Cap returns the reserved id and index capacities.
func (r *Registry) Cap() (handles, indices int) {
	return cap(r.idToIndex), cap(r.indexToID)
}

// FreeLen returns the number of ids waiting in the free pool.
func (r *Registry) FreeLen() int {
	if r.free == nil {
		return 0
	}
	return int(r.free.GetCardinality())
}

// Reset unbinds every id, bumping generations so no handle issued before the
// reset resolves afterwards. Capacities are kept.
func (r *Registry) Reset() {
	for id, index := range r.idToIndex {
		if index != InvalidIndex {
			r.release(uint32(id))
		}
	}
	for i := range r.indexToID {
		r.indexToID[i] = InvalidID
	}
	r.live = 0
}

// release unbinds id unconditionally and returns it to the free pool.
func (r *Registry) release(id uint32) {
	index := r.idToIndex[id]
	if index != InvalidIndex && inRange(index, len(r.indexToID)) && r.indexToID[index] == id {
		r.indexToID[index] = InvalidID
	}

	r.idToIndex[id] = InvalidIndex
	r.generations[id]++
	r.live--

	// retire ids whose generation can no longer advance
	if r.generations[id] != retired {
		r.pool().Add(id)
	}
}

// owner returns the live id bound to index, ignoring stale reverse entries.
func (r *Registry) owner(index uint32) (uint32, bool) {
	if !inRange(index, len(r.indexToID)) {
		return InvalidID, false
	}
	id := r.indexToID[index]
	if id == InvalidID || !inRange(id, len(r.idToIndex)) || r.idToIndex[id] != index {
		return InvalidID, false
	}
	return id, true
}

// popFree takes the lowest pooled id still inside the id arrays. Ids that fell
// out of range are discarded.
func (r *Registry) popFree() (uint32, bool) {
	free := r.pool()
	for !free.IsEmpty() {
		id := free.Minimum()
		free.Remove(id)
		if inRange(id, len(r.generations)) && inRange(id, len(r.idToIndex)) {
			return id, true
		}
	}
	return InvalidID, false
}

// ensureIndex grows indexToID to cover index. It reports false when index
// cannot be addressed by an int slice on this platform.
func (r *Registry) ensureIndex(index uint32) bool {
	if uint64(index) >= uint64(math.MaxInt) {
		return false
	}
	r.indexToID = resizeFill(r.indexToID, max(len(r.indexToID), int(index)+1), InvalidID)
	return true
}

// inRange reports whether v indexes a slice of length n. The comparison is
// done in 64 bits so ids above MaxInt32 stay in range checks on 32-bit targets.
func inRange(v uint32, n int) bool {
	return uint64(v) < uint64(n)
}

func (r *Registry) pool() *roaring.Bitmap {
	if r.free == nil {
		r.free = roaring.New()
	}
	return r.free
}

// resizeFill sets len(s) to n, filling new slots with fill.
func resizeFill(s []uint32, n int, fill uint32) []uint32 {
	if n <= len(s) {
		return s[:n]
	}
	old := len(s)
	s = slices.Grow(s, n-old)[:n]
	for i := old; i < n; i++ {
		s[i] = fill
	}
	return s
}

// clip copies s into a buffer of exactly len(s).
func clip(s []uint32) []uint32 {
	if len(s) == 0 {
		return nil
	}
	out := make([]uint32, len(s))
	copy(out, s)
	return out
}
