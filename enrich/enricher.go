// Package enrich joins freshly collected facility records to the directory of
// known locations by normalized name.
package enrich

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/arloliu/bedwatch/types"
)

// Enricher attaches directory coordinates to collected records.
//
// The join key is the whitespace-stripped facility name. The directory is
// queried once per pass, batched over the distinct normalized names present
// in that pass; never once per record. Records whose normalized name matches
// zero or more than one directory entries are dropped from the output:
// ambiguous matches are excluded, never guessed.
type Enricher struct {
	directory types.DirectoryLookup
	logger    types.Logger
}

// NewEnricher creates an enricher over the given directory.
func NewEnricher(directory types.DirectoryLookup, logger types.Logger) *Enricher {
	return &Enricher{directory: directory, logger: logger}
}

// Enrich joins one pass's raw records to the directory.
//
// Parameters:
//   - ctx: Context for the directory query
//   - records: Raw record list from one collection pass
//
// Returns:
//   - []types.FacilityStatus: Enriched records (size <= input size)
//   - error: Directory query failure; no records are returned on error,
//     unenriched records are never passed through
func (e *Enricher) Enrich(ctx context.Context, records []types.FacilityStatus) ([]types.FacilityStatus, error) {
	if len(records) == 0 {
		return nil, nil
	}

	names := distinctNormalizedNames(records)

	entries, err := e.directory.LookupBatch(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("directory lookup failed: %w", err)
	}

	// Group entries by normalized name so ambiguity is visible.
	byName := make(map[string][]types.DirectoryEntry, len(entries))
	for _, entry := range entries {
		byName[entry.NormalizedName] = append(byName[entry.NormalizedName], entry)
	}

	out := make([]types.FacilityStatus, 0, len(records))
	dropped := 0
	for _, rec := range records {
		matches := byName[NormalizeName(rec.Name)]
		if len(matches) != 1 {
			dropped++

			continue
		}

		entry := matches[0]
		addr := entry.Address
		lat := entry.Latitude
		lon := entry.Longitude
		rec.Address = &addr
		rec.Latitude = &lat
		rec.Longitude = &lon
		out = append(out, rec)
	}

	if dropped > 0 {
		e.logger.Debug("dropped records without a unique directory match",
			"dropped", dropped, "kept", len(out))
	}

	return out, nil
}

// NormalizeName strips all whitespace from a facility name, producing the
// directory lookup key.
func NormalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

// distinctNormalizedNames returns the deduplicated normalized names present
// in the record list, preserving first-seen order.
func distinctNormalizedNames(records []types.FacilityStatus) []string {
	seen := make(map[string]struct{}, len(records))
	names := make([]string, 0, len(records))
	for _, rec := range records {
		name := NormalizeName(rec.Name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	return names
}
