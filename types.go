package bedwatch

import "github.com/arloliu/bedwatch/types"

// Re-export types from the types subpackage.
//
// This file provides a stable public API for the library's core types. Leaf
// packages depend on the types package directly, avoiding import cycles,
// while users get convenient bedwatch.FacilityStatus, bedwatch.Logger, etc.
type (
	FacilityStatus  = types.FacilityStatus
	Snapshot        = types.Snapshot
	CollectionStats = types.CollectionStats
	DirectoryEntry  = types.DirectoryEntry
	State           = types.State
)

// Re-export interfaces from the types subpackage for convenience.
type (
	PageFetcher      = types.PageFetcher
	DirectoryLookup  = types.DirectoryLookup
	Logger           = types.Logger
	MetricsCollector = types.MetricsCollector
)

// Re-export State constants from the types subpackage.
const (
	StateStopped = types.StateStopped
	StateRunning = types.StateRunning
)
