package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Snapshot is the finalized result of one collection pass: an ordered list of
// facility statuses plus its canonical serialized form.
//
// A snapshot is immutable once built. The canonical serialization is the
// broadcast payload and the basis for change suppression: two snapshots are
// considered identical when their serialized forms match byte for byte.
type Snapshot struct {
	// Facilities is the ordered facility list for this pass.
	Facilities []FacilityStatus `json:"facilities"`

	// CollectedAt is the wall-clock time the pass finished.
	CollectedAt time.Time `json:"collectedAt"`

	raw []byte
}

// NewSnapshot builds a snapshot and its canonical serialization.
//
// The CollectedAt field is excluded from the canonical form; otherwise every
// pass would serialize differently and change suppression would never fire.
//
// Parameters:
//   - facilities: Ordered facility list (not copied; callers hand over ownership)
//   - collectedAt: Wall-clock completion time of the pass
//
// Returns:
//   - *Snapshot: Immutable snapshot
//   - error: Serialization failure
func NewSnapshot(facilities []FacilityStatus, collectedAt time.Time) (*Snapshot, error) {
	raw, err := json.Marshal(facilities)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	return &Snapshot{
		Facilities:  facilities,
		CollectedAt: collectedAt,
		raw:         raw,
	}, nil
}

// Canonical returns the canonical serialized form of the snapshot.
//
// Callers must not modify the returned slice.
func (s *Snapshot) Canonical() []byte {
	return s.raw
}

// Len returns the number of facilities in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.Facilities)
}
