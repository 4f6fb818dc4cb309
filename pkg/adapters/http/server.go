// Package http exposes a runtime over a JSON API: module descriptions,
// instance lifecycle, state configuration and execution.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/dataflow/internal/logging"
	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/aretw0/dataflow/pkg/factory"
	"github.com/aretw0/dataflow/pkg/module"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Runtime is the part of the dataflow runtime served over HTTP.
type Runtime interface {
	Modules() []string
	Describe(name string) (factory.Description, error)
	Create(ctx context.Context, name string) (*module.Module, error)
	Instances() []string
	Instance(id string) (*module.Module, error)
	Remove(ctx context.Context, id string) error
	Execute(ctx context.Context, id string) (domain.Outcome, error)
	UpdateState(ctx context.Context, id string, values map[string]domain.Value) (*domain.StateDiff, error)
}

// Server holds the handlers.
type Server struct {
	Runtime Runtime
	Streams *StreamManager

	metrics http.Handler
	logger  *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates a new HTTP handler for the runtime.
func NewHandler(rt Runtime, opts ...Option) http.Handler {
	s := &Server{
		Runtime: rt,
		Streams: NewStreamManager(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/modules", func(r chi.Router) {
		r.Get("/", s.ListModules)
		r.Get("/{name}", s.DescribeModule)
	})

	r.Route("/instances", func(r chi.Router) {
		r.Get("/", s.ListInstances)
		r.Post("/", s.CreateInstance)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetInstance)
			r.Delete("/", s.DeleteInstance)
			r.Get("/state", s.GetState)
			r.Patch("/state", s.PatchState)
			r.Post("/execute", s.Execute)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListModules handles the GET /modules request.
func (s *Server) ListModules(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Runtime.Modules())
}

// DescribeModule handles the GET /modules/{name} request.
func (s *Server) DescribeModule(w http.ResponseWriter, r *http.Request) {
	desc, err := s.Runtime.Describe(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, desc)
}

// CreateRequest is the body of POST /instances.
type CreateRequest struct {
	Name   string                  `json:"name"`
	Values map[string]domain.Value `json:"values,omitempty"`
}

// CreateInstance handles the POST /instances request.
func (s *Server) CreateInstance(w http.ResponseWriter, r *http.Request) {
	var body CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeBadRequest(w, "invalid request body")
		s.logger.Warn("CreateInstance: Invalid request body", "err", err)
		return
	}
	if body.Name == "" {
		s.writeBadRequest(w, "missing module name")
		return
	}

	m, err := s.Runtime.Create(r.Context(), body.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if len(body.Values) > 0 {
		if _, err := s.Runtime.UpdateState(r.Context(), m.ID(), body.Values); err != nil {
			// The instance was never handed out; drop it.
			if rerr := s.Runtime.Remove(r.Context(), m.ID()); rerr != nil {
				s.logger.Warn("CreateInstance: rollback failed", "id", m.ID(), "err", rerr)
			}
			s.writeError(w, err)
			return
		}
	}
	s.writeJSON(w, http.StatusCreated, NewInstanceView(m))
}

// ListInstances handles the GET /instances request.
func (s *Server) ListInstances(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Runtime.Instances())
}

// GetInstance handles the GET /instances/{id} request.
func (s *Server) GetInstance(w http.ResponseWriter, r *http.Request) {
	m, err := s.Runtime.Instance(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, NewInstanceView(m))
}

// DeleteInstance handles the DELETE /instances/{id} request.
func (s *Server) DeleteInstance(w http.ResponseWriter, r *http.Request) {
	if err := s.Runtime.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetState handles the GET /instances/{id}/state request.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	m, err := s.Runtime.Instance(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, m.State().Snapshot())
}

// PatchStateRequest is the body of PATCH /instances/{id}/state.
type PatchStateRequest struct {
	Values map[string]domain.Value `json:"values"`
}

// PatchState handles the PATCH /instances/{id}/state request.
// The resulting diff is broadcast to event subscribers.
func (s *Server) PatchState(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body PatchStateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeBadRequest(w, "invalid request body")
		s.logger.Warn("PatchState: Invalid request body", "err", err)
		return
	}

	diff, err := s.Runtime.UpdateState(r.Context(), id, body.Values)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if diff != nil {
		if payload, err := json.Marshal(diff); err == nil {
			s.Streams.Broadcast(id, Message{Event: "state", Data: string(payload)})
		}
	} else {
		diff = &domain.StateDiff{ModuleID: id}
	}
	s.writeJSON(w, http.StatusOK, diff)
}

// Execute handles the POST /instances/{id}/execute request.
// A failed cycle still answers 200: the outcome carries the failure.
func (s *Server) Execute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	out, err := s.Runtime.Execute(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if payload, err := json.Marshal(out); err == nil {
		s.Streams.Broadcast(id, Message{Event: "outcome", Data: string(payload)})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// SubscribeEvents handles the GET /instances/{id}/events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming not supported"})
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := s.Runtime.Instance(id); err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, msg.Data)
			flusher.Flush()
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}

func (s *Server) writeBadRequest(w http.ResponseWriter, msg string) {
	s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrModuleNotFound), errors.Is(err, domain.ErrSnapshotNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrUnsupportedValue):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", "err", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
