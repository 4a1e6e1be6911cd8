package handle

import (
	"fmt"
	"math"
)

const (
	// InvalidID marks a handle that refers to nothing.
	InvalidID = uint32(math.MaxUint32)
	// InvalidIndex is returned by Index for handles that do not resolve.
	InvalidIndex = uint32(math.MaxUint32)
)

// Invalid is the null handle. Note that the zero Handle is NOT invalid:
// id 0 is a legal identifier.
var Invalid = Handle{ID: InvalidID}

// Handle is a stable, copyable reference to a record tracked by a Registry.
// Holding a handle never keeps storage alive; it may silently go stale.
type Handle struct {
	ID         uint32
	Generation uint32
}

// IsValid reports whether h is structurally non-null. Whether it still
// resolves is a question only the issuing Registry can answer.
func (h Handle) IsValid() bool {
	return h.ID != InvalidID
}

// String returns a string representation of the Handle.
func (h Handle) String() string {
	if !h.IsValid() {
		return "Handle(invalid)"
	}
	return fmt.Sprintf("Handle(%d:%d)", h.ID, h.Generation)
}
