package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/walkthrough"
	"github.com/aretw0/walkthrough/internal/logging"
	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/aretw0/walkthrough/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server exposes mounted modules as a JSON and SSE control surface.
type Server struct {
	Sessions *session.Manager
	Streams  *StreamManager

	metrics http.Handler
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithStreams shares a StreamManager whose Hooks were given to the session manager.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithMetricsHandler serves h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
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

// NewServer wires a server around mgr.
func NewServer(mgr *session.Manager, opts ...Option) *Server {
	s := &Server{
		Sessions: mgr,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.logger)
	}
	return s
}

// NewHandler creates a new HTTP handler for the session manager.
func NewHandler(mgr *session.Manager, opts ...Option) http.Handler {
	return NewServer(mgr, opts...).Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/modules", s.ListModules)

	r.Route("/mounts", func(r chi.Router) {
		r.Get("/", s.ListMounts)
		r.Post("/", s.CreateMount)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetMount)
			r.Delete("/", s.DeleteMount)
			r.Post("/goto/{index}", s.GoTo)
			r.Post("/{op}", s.Operate)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// MountResponse is returned when a module is mounted.
type MountResponse struct {
	ID       string          `json:"id"`
	Module   string          `json:"module"`
	Snapshot domain.Snapshot `json:"snapshot"`
}

// OperationResponse is returned by every playback operation.
type OperationResponse struct {
	Accepted bool            `json:"accepted"`
	Snapshot domain.Snapshot `json:"snapshot"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "walkthrough-http",
		"version": strings.TrimSpace(walkthrough.Version),
	})
}

// ListModules handles the GET /modules request.
func (s *Server) ListModules(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.Loader().ListModules()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// ListMounts handles the GET /mounts request.
func (s *Server) ListMounts(w http.ResponseWriter, r *http.Request) {
	mounts := s.Sessions.List()
	resp := make([]MountResponse, len(mounts))
	for i, mt := range mounts {
		resp[i] = MountResponse{ID: mt.ID, Module: mt.Module, Snapshot: mt.Player.Snapshot()}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// CreateMount handles the POST /mounts request.
func (s *Server) CreateMount(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Module string `json:"module"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Module == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid request body: expected {\"module\":\"id\"}"))
		return
	}

	mt, err := s.Sessions.Mount(body.Module)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, domain.ErrModuleNotFound) {
			status = http.StatusNotFound
		}
		s.writeError(w, status, err)
		return
	}

	snap := mt.Player.Snapshot()
	s.Streams.Publish(mt.ID, snap)
	s.writeJSON(w, http.StatusCreated, MountResponse{ID: mt.ID, Module: mt.Module, Snapshot: snap})
}

// GetMount handles the GET /mounts/{id} request.
func (s *Server) GetMount(w http.ResponseWriter, r *http.Request) {
	mt, ok := s.mount(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, mt.Player.Snapshot())
}

// DeleteMount handles the DELETE /mounts/{id} request.
func (s *Server) DeleteMount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.Unmount(id); err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	s.Streams.Close(id)
	w.WriteHeader(http.StatusNoContent)
}

// Operate handles POST /mounts/{id}/{play,reset,next,prev}.
func (s *Server) Operate(w http.ResponseWriter, r *http.Request) {
	mt, ok := s.mount(w, r)
	if !ok {
		return
	}

	var accepted bool
	switch op := chi.URLParam(r, "op"); op {
	case "play":
		accepted = mt.Player.Play()
	case "reset":
		accepted = mt.Player.Reset()
	case "next":
		accepted = mt.Player.Next()
	case "prev":
		accepted = mt.Player.Prev()
	default:
		s.writeError(w, http.StatusNotFound, fmt.Errorf("unknown operation %q", op))
		return
	}
	s.writeJSON(w, http.StatusOK, OperationResponse{Accepted: accepted, Snapshot: mt.Player.Snapshot()})
}

// GoTo handles POST /mounts/{id}/goto/{index}.
func (s *Server) GoTo(w http.ResponseWriter, r *http.Request) {
	mt, ok := s.mount(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid index: %w", err))
		return
	}
	accepted := mt.Player.GoTo(index)
	s.writeJSON(w, http.StatusOK, OperationResponse{Accepted: accepted, Snapshot: mt.Player.Snapshot()})
}

// SubscribeEvents handles the GET /mounts/{id}/events request (SSE).
// The optional watch query (e.g. ?watch=items,highlight) filters out events
// that do not change any listed field.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	mt, ok := s.mount(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, errors.New("streaming not supported"))
		return
	}

	var watchList []string
	if raw := r.URL.Query().Get("watch"); raw != "" {
		for _, f := range strings.Split(raw, ",") {
			watchList = append(watchList, strings.TrimSpace(f))
		}
	}

	ch, cancel := s.Streams.Subscribe(mt.ID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.logger.Info("SSE: subscribing to mount", "mount_id", mt.ID)

	// The current snapshot goes first so a client never starts blank.
	if initial, err := json.Marshal(mt.Player.Snapshot()); err == nil {
		fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", initial)
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE client disconnected", "mount_id", mt.ID)
			return
		case ev, ok := <-ch:
			if !ok {
				fmt.Fprint(w, "event: closed\ndata: {}\n\n")
				flusher.Flush()
				return
			}
			if !matches(ev.Diff, watchList) {
				continue
			}
			fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", ev.Snapshot)
			flusher.Flush()
		}
	}
}

func (s *Server) mount(w http.ResponseWriter, r *http.Request) (*session.Mount, bool) {
	mt, err := s.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return nil, false
	}
	return mt, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "err", err)
	} else {
		s.logger.Debug("request rejected", "status", status, "err", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
