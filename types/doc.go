// Package types defines the core data types and interfaces shared across
// the bedwatch library.
//
// This package exists so that leaf packages (collect, enrich, diff, cache,
// broadcast) can depend on common definitions without importing the root
// bedwatch package, avoiding import cycles. The root package re-exports the
// public subset via type aliases.
package types
