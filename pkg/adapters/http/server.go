package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/midiroute/internal/logging"
	"github.com/aretw0/midiroute/pkg/domain"
	"github.com/aretw0/midiroute/pkg/ports"
	"github.com/aretw0/midiroute/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server exposes the router status over HTTP.
type Server struct {
	Store    ports.StatusStore
	RouterID string
	Streams  *StreamManager

	version string
	metrics http.Handler
	logger  *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithVersion sets the version reported by GET /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// WithLogger configures the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer creates a Server reading snapshots of routerID from store.
func NewServer(store ports.StatusStore, routerID string, opts ...Option) *Server {
	s := &Server{
		Store:    store,
		RouterID: routerID,
		Streams:  NewStreamManager(),
		version:  "dev",
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.logger
	return s
}

//go:generate go tool oapi-codegen -package http -generate types,chi-server,spec -o api.gen.go ../../../api/openapi.yaml

// Ensure Server implements ServerInterface
var _ ServerInterface = (*Server)(nil)

// Handler builds the chi router: the generated status routes plus the
// hand-mounted OpenAPI document, SSE and metrics endpoints.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		spec, err := rawSpec()
		if err != nil {
			http.Error(w, "Failed to load spec", http.StatusInternalServerError)
			s.logger.Error("Failed to load OpenAPI spec", "err", err)
			return
		}
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(spec)
	})
	r.Get("/events", s.SubscribeEvents)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	return HandlerWithOptions(s, ChiServerOptions{
		BaseRouter: r,
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			s.writeError(w, http.StatusBadRequest, err.Error())
		},
	})
}

// Hooks returns supervisor callbacks that push state changes to /events subscribers.
func (s *Server) Hooks() runner.Hooks {
	return runner.Hooks{
		OnStateChange: func(_ context.Context, c domain.StateChange) {
			payload, err := json.Marshal(c)
			if err != nil {
				s.logger.Warn("Failed to encode state change", "err", err)
				return
			}
			s.Streams.Broadcast(string(payload))
		},
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealthz handles GET /healthz.
func (s *Server) GetHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, Health{Status: "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, Info{
		App:      "midiroute",
		Version:  s.version,
		RouterId: s.RouterID,
	})
}

// GetStatus handles GET /status with the latest session snapshot.
func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Store.Load(r.Context(), s.RouterID)
	if errors.Is(err, domain.ErrSnapshotNotFound) {
		s.writeError(w, http.StatusNotFound, "No session yet")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Status error: %v", err))
		s.logger.Error("Failed to load snapshot", "router_id", s.RouterID, "err", err)
		return
	}
	s.writeJSON(w, http.StatusOK, toSnapshot(snap))
}

// GetStatusHistory handles GET /status/history with recent session IDs, newest first.
func (s *Server) GetStatusHistory(w http.ResponseWriter, r *http.Request, params GetStatusHistoryParams) {
	if params.Limit != nil && *params.Limit < 1 {
		s.writeError(w, http.StatusBadRequest, "limit must be at least 1")
		return
	}
	ids, err := s.Store.History(r.Context(), s.RouterID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("History error: %v", err))
		s.logger.Error("Failed to load history", "router_id", s.RouterID, "err", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	if params.Limit != nil && *params.Limit < len(ids) {
		ids = ids[:*params.Limit]
	}
	s.writeJSON(w, http.StatusOK, StatusHistory{RouterId: s.RouterID, Sessions: ids})
}

func toSnapshot(snap domain.SessionSnapshot) SessionSnapshot {
	out := SessionSnapshot{
		SessionId:   snap.SessionID,
		State:       SessionState(snap.State),
		StartedAt:   snap.StartedAt,
		UpdatedAt:   snap.UpdatedAt,
		Inputs:      nonNilMap(snap.Inputs),
		Outputs:     nonNilMap(snap.Outputs),
		OpenInputs:  nonNilSlice(snap.OpenInputs),
		OpenOutputs: nonNilSlice(snap.OpenOutputs),
	}
	if snap.Reason != "" {
		out.Reason = &snap.Reason
	}
	return out
}

func nonNilMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func nonNilSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, Error{Message: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}

// StreamManager fans state changes out to SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan string]struct{}
	logger      *slog.Logger
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan string]struct{}),
		logger:      logging.NewNop(),
	}
}

// Subscribe registers a new listener. The returned func unregisters it and closes the channel.
func (sm *StreamManager) Subscribe() (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	sm.subscribers[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			delete(sm.subscribers, ch)
			close(ch)
		})
	}
}

// Subscribers returns the number of connected listeners.
func (sm *StreamManager) Subscribers() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			// Slow client, drop.
			sm.logger.Warn("SSE: Client buffer full, dropping message")
		}
	}
}

// SubscribeEvents handles GET /events (SSE) streaming state changes.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: state\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
