package types

import "context"

// DirectoryEntry is one row of the facility directory: the canonical name and
// location of a known facility.
//
// Entries are keyed by normalized name (all whitespace stripped). The
// directory itself is an external collaborator; this library only reads it.
type DirectoryEntry struct {
	// Name is the canonical facility name.
	Name string `json:"name"`

	// NormalizedName is Name with all whitespace removed. Lookup key.
	NormalizedName string `json:"normalizedName"`

	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DirectoryLookup queries the facility directory for coordinate enrichment.
//
// Implementations must support a single batched query for a set of normalized
// names; the enricher issues exactly one call per pass, never one per record.
type DirectoryLookup interface {
	// LookupBatch returns all directory entries whose normalized name is in
	// the given set. A name matching zero entries simply produces no result;
	// a name matching multiple entries produces multiple results, which the
	// caller treats as ambiguous.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - normalizedNames: Distinct whitespace-stripped names to look up
	//
	// Returns:
	//   - []DirectoryEntry: Matching entries, in no particular order
	//   - error: Query failure
	LookupBatch(ctx context.Context, normalizedNames []string) ([]DirectoryEntry, error)
}
