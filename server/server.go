// Package server exposes the pipeline over HTTP: a small REST control
// surface, the WebSocket subscriber transport, and Prometheus metrics.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arloliu/bedwatch"
	"github.com/arloliu/bedwatch/broadcast"
	"github.com/arloliu/bedwatch/types"
)

// Server wires a Pipeline to an http.Handler.
//
// Routes:
//
//	POST /scheduler/start  start the periodic scheduler (idempotent)
//	POST /scheduler/stop   force stop: closes all subscribers, clears state
//	POST /passes           trigger one manual pass
//	GET  /status           running flag, subscriber count, pass counters
//	GET  /ws               subscriber transport (WebSocket)
//	GET  /metrics          Prometheus metrics
type Server struct {
	pipeline *bedwatch.Pipeline
	logger   types.Logger
	mux      *http.ServeMux
}

// New creates a Server over the given pipeline.
//
// Parameters:
//   - pipeline: Pipeline to expose
//   - logger: Structured logger (must be non-nil; use logging.NewNop())
//   - gatherer: Prometheus gatherer for /metrics (prometheus.DefaultGatherer if nil)
//
// Returns:
//   - *Server: Initialized server; use it as an http.Handler
func New(pipeline *bedwatch.Pipeline, logger types.Logger, gatherer prometheus.Gatherer) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		pipeline: pipeline,
		logger:   logger,
		mux:      http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /scheduler/start", s.handleStart)
	s.mux.HandleFunc("POST /scheduler/stop", s.handleStop)
	s.mux.HandleFunc("POST /passes", s.handleTriggerPass)
	s.mux.HandleFunc("GET /status", s.handleStatus)
	s.mux.HandleFunc("GET /ws", s.handleSubscribe)
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleStart(w http.ResponseWriter, _ *http.Request) {
	s.pipeline.Start()
	s.writeJSON(w, http.StatusOK, map[string]string{"state": s.pipeline.State().String()})
}

func (s *Server) handleStop(w http.ResponseWriter, _ *http.Request) {
	s.pipeline.ForceStop()
	s.writeJSON(w, http.StatusOK, map[string]string{"state": s.pipeline.State().String()})
}

func (s *Server) handleTriggerPass(w http.ResponseWriter, _ *http.Request) {
	if err := s.pipeline.TriggerPass(); err != nil {
		if errors.Is(err, bedwatch.ErrPassInFlight) {
			s.writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})

			return
		}

		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})

		return
	}

	s.writeJSON(w, http.StatusOK, s.pipeline.Status())
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.pipeline.Status())
}

// handleSubscribe upgrades the connection and joins it to the pipeline. The
// subscriber receives the cached snapshot immediately (when warm) and every
// changed snapshot thereafter. The read loop exists only to detect the peer
// going away; inbound messages are discarded.
func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket accept failed", "error", err)

		return
	}

	sub := broadcast.NewWSSubscriber(conn, s.pipeline.SendTimeout())
	id, err := s.pipeline.Join(r.Context(), sub)
	if err != nil {
		// Join already closed the connection.
		s.logger.Warn("subscriber join failed", "error", err)

		return
	}
	defer s.pipeline.Leave(id)

	ctx := r.Context()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			return
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
