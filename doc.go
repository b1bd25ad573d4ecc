// Package bedwatch ingests near-real-time facility-capacity data for a fleet
// of external facilities, reconciles it against a directory of known
// locations, and fans the merged result out to live subscribers.
//
// # Quick Start
//
//	cfg := bedwatch.DefaultConfig()
//	cfg.Partitions = []string{"Seoul", "Busan"}
//
//	fetcher := collect.NewHTTPSource(upstreamURL, apiKey, 0)
//	dir := directory.NewStatic(entries)
//
//	p, err := bedwatch.NewPipeline(&cfg, fetcher, dir)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Subscribers drive the scheduler: the first join starts periodic
//	// passes, the last leave stops them.
//	id, _ := p.Join(ctx, subscriber)
//	defer p.Leave(id)
//
// # Architecture
//
// One pass flows through a fixed pipeline:
//
//	Orchestrator → Enricher → Differ → Cache → Broadcaster
//
// The orchestrator polls every partition of the upstream source through a
// permit gate, the enricher joins records to the directory by normalized
// name, the differ stamps timestamps against the previous pass, and the
// cache suppresses broadcasts when the canonical serialization is unchanged.
//
// Passes run on a single scheduler slot with fixed-delay semantics, so no
// two passes of one pipeline instance ever run concurrently. The scheduler
// is reference-counted by subscriber count with an atomic transition guard:
// concurrent joins and leaves start or stop it exactly once.
//
// # Key Properties
//
//   - The background poller never dies silently: every pass failure is
//     caught at the orchestrator boundary and the scheduler continues.
//   - Broadcast happens only when the snapshot actually changed.
//   - A subscriber joining a warm pipeline receives the cached snapshot
//     immediately, without waiting for the next pass.
//
// See the server package for the HTTP control surface and WebSocket
// transport, and cmd/bedwatchd for the runnable daemon.
package bedwatch
