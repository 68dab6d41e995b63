// Package httpapi exposes a facade.Facade over HTTP, mirroring the
// reference control surface: GET /status, POST /simulate_slot, POST
// /toggle_fault, GET /metrics, GET and POST /config, POST /simulate_attack,
// POST /reset.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Architecto0r/SlotZero/facade"
	"github.com/Architecto0r/SlotZero/observability/logging"
)

// Server wraps a facade.Facade with an http.Handler.
type Server struct {
	f      *facade.Facade
	router *mux.Router
	log    *slog.Logger
}

// NewServer builds a Server with every route registered.
func NewServer(f *facade.Facade) *Server {
	s := &Server{f: f, router: mux.NewRouter(), log: logging.NewComponentLogger(logging.CompHTTP)}
	s.router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	s.router.HandleFunc("/simulate_slot", s.handleSimulateSlot).Methods(http.MethodPost)
	s.router.HandleFunc("/toggle_fault", s.handleToggleFault).Methods(http.MethodPost)
	s.router.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet)
	s.router.HandleFunc("/config", s.handleConfigGet).Methods(http.MethodGet)
	s.router.HandleFunc("/config", s.handleConfigPost).Methods(http.MethodPost)
	s.router.HandleFunc("/simulate_attack", s.handleSimulateAttack).Methods(http.MethodPost)
	s.router.HandleFunc("/reset", s.handleReset).Methods(http.MethodPost)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
