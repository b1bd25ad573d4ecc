// Package collect fetches facility-capacity data from the upstream source.
//
// A Collector pulls one partition (e.g. a city) page by page through a
// rate-limiting Gate; the Orchestrator drives a full pass across every
// partition, either sequentially or as a single nationwide call, and
// guarantees that a pass never raises past its caller.
package collect
