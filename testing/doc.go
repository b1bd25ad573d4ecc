// Package testing provides helpers for testing bedwatch-based code: a
// testing.T-backed logger, an embedded NATS server for relay tests, and a
// scripted upstream page source.
package testing
