// Package debugserver exposes a read-only HTTP introspection endpoint over
// the renderer's current state, for debugging a running session without
// disturbing its single-threaded render loop.
package debugserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// StateSnapshot is the renderer state exposed at /debug/state.
type StateSnapshot struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Zoom        int     `json:"zoom"`
	Subzoom     float64 `json:"subzoom"`
	Simplify    bool    `json:"simplify"`
	Tolerance   float64 `json:"tolerance"`
	HighQuality bool    `json:"high_quality"`
	CacheSize   int     `json:"cache_size"`
}

// StateProvider is implemented by the renderer; the server only ever reads
// through it, never mutates it.
type StateProvider interface {
	Snapshot() StateSnapshot
}

// Server is a chi-routed HTTP server serving /healthz and /debug/state.
// It is started on its own goroutine by the CLI when --debug-addr is set.
// provider.Snapshot() is responsible for its own locking against the
// render loop; this server never mutates renderer state, only reads it.
type Server struct {
	provider  StateProvider
	startTime time.Time
	router    chi.Router
}

// New builds a debug server around provider.
func New(provider StateProvider) *Server {
	s := &Server{
		provider:  provider,
		startTime: time.Now(),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Get("/healthz", s.handleHealthz)
	r.Get("/debug/state", s.handleState)
	s.router = r

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type healthResponse struct {
	Status string  `json:"status"`
	Uptime float64 `json:"uptime_seconds"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status: "ok",
		Uptime: time.Since(s.startTime).Seconds(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap := s.provider.Snapshot()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}
