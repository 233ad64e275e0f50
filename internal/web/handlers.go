package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/grushad/flowtag/internal/aggregate"
	"github.com/grushad/flowtag/internal/logging"
)

// APIResponse is the standard JSON envelope for API responses.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ResultsResponse contains both aggregate tables.
type ResultsResponse struct {
	TagCounts  []aggregate.TagCount  `json:"tag_counts"`
	PairCounts []aggregate.PairCount `json:"pair_counts"`
}

// StatsResponse contains run statistics.
type StatsResponse struct {
	Version string          `json:"version"`
	Uptime  string          `json:"uptime"`
	Stats   aggregate.Stats `json:"stats"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error("failed to encode response", "error", err)
	}
}

// writeSuccess writes a successful JSON response.
func writeSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// writeError writes an error JSON response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   message,
	})
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]string{"status": "ok", "version": Version})
}

// handleResults returns both aggregate count tables.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	if s.result == nil {
		writeError(w, http.StatusServiceUnavailable, "no result available")
		return
	}

	writeSuccess(w, ResultsResponse{
		TagCounts:  s.result.TagCounts(),
		PairCounts: s.result.PairCounts(),
	})
}

// handleStats returns the run statistics.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.result == nil {
		writeError(w, http.StatusServiceUnavailable, "no result available")
		return
	}

	writeSuccess(w, StatsResponse{
		Version: Version,
		Uptime:  time.Since(s.startTime).Round(time.Second).String(),
		Stats:   s.result.Stats(),
	})
}
