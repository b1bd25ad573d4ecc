//go:build integration
// +build integration

package integration_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/bedwatch"
	"github.com/arloliu/bedwatch/broadcast"
	"github.com/arloliu/bedwatch/directory"
	"github.com/arloliu/bedwatch/server"
	bedtest "github.com/arloliu/bedwatch/testing"
	"github.com/arloliu/bedwatch/types"
)

// TestPipelineEndToEnd drives a full deployment shape: scripted upstream,
// embedded NATS relay, WebSocket subscriber, and the HTTP control surface,
// all against one pipeline.
func TestPipelineEndToEnd(t *testing.T) {
	_, nc := bedtest.StartEmbeddedNATS(t)

	records := bedtest.Facilities("seoul", 5)
	fetcher := bedtest.NewScriptedFetcher()
	fetcher.Script("seoul", bedtest.Page{Payload: bedtest.PagePayload(records...)})

	entries := make([]types.DirectoryEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, types.DirectoryEntry{
			Name: rec.Name, Address: "1 Main St", Latitude: 37.5, Longitude: 127.0,
		})
	}

	cfg := bedwatch.TestConfig()
	cfg.Partitions = []string{"seoul"}

	pipeline, err := bedwatch.NewPipeline(&cfg, fetcher, directory.NewStatic(entries),
		bedwatch.WithLogger(bedtest.NewTestLogger(t)),
		bedwatch.WithRelay(broadcast.NewRelay(nc, "bedwatch.snapshots")),
	)
	require.NoError(t, err)
	t.Cleanup(pipeline.ForceStop)

	srv := httptest.NewServer(server.New(pipeline, bedtest.NewTestLogger(t), nil))
	t.Cleanup(srv.Close)

	relayed := make(chan []byte, 8)
	natsSub, err := nc.Subscribe("bedwatch.snapshots", func(msg *nats.Msg) {
		relayed <- msg.Data
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = natsSub.Unsubscribe() })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	// A WebSocket client joins; the first pass fans out to it and mirrors to
	// the relay subject.
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "") //nolint:errcheck

	_, wsPayload, err := conn.Read(ctx)
	require.NoError(t, err)

	var facilities []types.FacilityStatus
	require.NoError(t, json.Unmarshal(wsPayload, &facilities))
	require.Len(t, facilities, 5)
	require.True(t, facilities[0].Enriched())

	select {
	case natsPayload := <-relayed:
		require.Equal(t, wsPayload, natsPayload)
	case <-time.After(5 * time.Second):
		t.Fatal("relayed snapshot not received")
	}

	// Unchanged upstream data: later passes are suppressed on both channels.
	time.Sleep(4 * cfg.PassInterval)
	require.Empty(t, relayed)

	// A change upstream reaches both channels again.
	records[0].ERBeds = 0
	fetcher.Script("seoul", bedtest.Page{Payload: bedtest.PagePayload(records...)})

	_, wsPayload, err = conn.Read(ctx)
	require.NoError(t, err)
	require.Contains(t, string(wsPayload), `"erBeds":0`)

	select {
	case natsPayload := <-relayed:
		require.Equal(t, wsPayload, natsPayload)
	case <-time.After(5 * time.Second):
		t.Fatal("relayed snapshot not received after change")
	}
}
