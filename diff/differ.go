// Package diff compares each collection pass against the previous one and
// decides which record timestamps to refresh.
package diff

import (
	"sync"
	"time"

	"github.com/arloliu/bedwatch/types"
)

// StampFormat is the wall-clock layout written into LastUpdated when a record
// changed relative to the prior pass. It matches the compact form used by the
// upstream timestamps so downstream consumers parse one layout.
const StampFormat = "20060102150405"

// Differ holds the previous pass's facilityId map and applies the timestamp
// stamping policy to each new pass.
//
// Policy, per record:
//   - newly observed (no prior record with the same facilityId): keep the
//     upstream-supplied LastUpdated as-is
//   - unchanged (field-wise equal to the prior record, timestamp excluded):
//     keep the prior pass's LastUpdated, avoiding spurious "just changed"
//     signals downstream
//   - changed: stamp LastUpdated with the current wall-clock time of the pass
//
// The comparison map is owned exclusively by the differ and replaced
// wholesale each pass; it is never shared or exposed.
type Differ struct {
	mu   sync.Mutex
	prev map[string]types.FacilityStatus
}

// NewDiffer creates a differ with an empty comparison map, as on a cold start.
func NewDiffer() *Differ {
	return &Differ{prev: make(map[string]types.FacilityStatus)}
}

// Apply finalizes one pass's record list against the previous pass.
//
// Parameters:
//   - records: Enriched record list for the new pass
//   - now: Wall-clock time of this collection pass
//
// Returns:
//   - []types.FacilityStatus: Finalized record list for the pass
//   - int: Number of records stamped as new or changed
func (d *Differ) Apply(records []types.FacilityStatus, now time.Time) ([]types.FacilityStatus, int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	stamp := now.Format(StampFormat)
	next := make(map[string]types.FacilityStatus, len(records))
	out := make([]types.FacilityStatus, 0, len(records))
	changed := 0

	for _, rec := range records {
		if _, dup := next[rec.FacilityID]; dup {
			// facilityId values are unique within a snapshot; keep the first
			// occurrence and drop upstream duplicates.
			continue
		}

		prior, seen := d.prev[rec.FacilityID]
		switch {
		case !seen:
			// Newly observed: the upstream timestamp stands.
			changed++
		case rec.Equal(prior):
			rec.LastUpdated = prior.LastUpdated
		default:
			rec.LastUpdated = stamp
			changed++
		}

		next[rec.FacilityID] = rec
		out = append(out, rec)
	}

	d.prev = next

	return out, changed
}

// Reset discards the comparison state, so the next pass behaves as if from a
// cold cache. Called on force stop.
func (d *Differ) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.prev = make(map[string]types.FacilityStatus)
}
