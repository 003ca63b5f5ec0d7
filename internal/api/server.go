// Package api exposes the gateway's admin HTTP surface (queue depth,
// blacklist size, attack-mode state, verified-store size, and the lockdown
// toggle) and the websocket admin feed, in the teacher's gorilla/mux
// admin-server idiom.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ocx/limbo-gate/internal/admission"
	"github.com/ocx/limbo-gate/internal/observability"
)

// Server is the admin HTTP API: status, metrics, and the live event feed.
type Server struct {
	gate   *admission.Gate
	feed   *observability.Feed
	router *mux.Router
}

func NewServer(gate *admission.Gate, feed *observability.Feed) *Server {
	s := &Server{gate: gate, feed: feed, router: mux.NewRouter()}
	s.router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	s.router.HandleFunc("/lockdown", s.handleLockdown).Methods(http.MethodPost)
	s.router.Handle("/metrics", promhttp.Handler())
	if feed != nil {
		s.router.HandleFunc("/feed", feed.ServeHTTP)
	}
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.router.ServeHTTP(w, r) }

type statusResponse struct {
	QueueDepth     int  `json:"queue_depth"`
	BlacklistSize  int  `json:"blacklist_size"`
	VerifiedSize   int  `json:"verified_size"`
	AttackMode     bool `json:"attack_mode"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		QueueDepth:    s.gate.Queue.Len(),
		BlacklistSize: s.gate.Blacklist.EstimatedSize(),
		VerifiedSize:  s.gate.Verified.Size(),
		AttackMode:    s.gate.Attack.InAttackMode(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

type lockdownRequest struct {
	Enabled bool `json:"enabled"`
}

func (s *Server) handleLockdown(w http.ResponseWriter, r *http.Request) {
	var req lockdownRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	s.gate.SetLockdown(req.Enabled)
	w.WriteHeader(http.StatusNoContent)
}
