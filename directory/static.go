// Package directory provides DirectoryLookup implementations.
//
// The real facility directory lives in an external relational store; this
// package holds the in-memory implementation used by tests and by
// deployments that ship the directory in configuration.
package directory

import (
	"context"
	"sync"

	"github.com/arloliu/bedwatch/enrich"
	"github.com/arloliu/bedwatch/types"
)

// Static implements a directory lookup over a fixed in-memory entry list.
type Static struct {
	mu      sync.RWMutex
	entries map[string][]types.DirectoryEntry
}

var _ types.DirectoryLookup = (*Static)(nil)

// NewStatic creates a static directory from the given entries.
//
// NormalizedName is derived from Name when empty, so callers can supply
// plain entries.
//
// Parameters:
//   - entries: Directory rows
//
// Returns:
//   - *Static: Initialized static directory
//
// Example:
//
//	dir := directory.NewStatic([]types.DirectoryEntry{
//	    {Name: "City General Hospital", Address: "Addr A", Latitude: 37.5, Longitude: 127.0},
//	})
func NewStatic(entries []types.DirectoryEntry) *Static {
	s := &Static{}
	s.Update(entries)

	return s
}

// LookupBatch returns all entries whose normalized name is in the given set.
func (s *Static) LookupBatch(_ context.Context, normalizedNames []string) ([]types.DirectoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []types.DirectoryEntry
	for _, name := range normalizedNames {
		out = append(out, s.entries[name]...)
	}

	return out, nil
}

// Update replaces the directory contents.
//
// This lets tests simulate directory changes between passes.
func (s *Static) Update(entries []types.DirectoryEntry) {
	indexed := make(map[string][]types.DirectoryEntry, len(entries))
	for _, entry := range entries {
		if entry.NormalizedName == "" {
			entry.NormalizedName = enrich.NormalizeName(entry.Name)
		}
		indexed[entry.NormalizedName] = append(indexed[entry.NormalizedName], entry)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = indexed
}
