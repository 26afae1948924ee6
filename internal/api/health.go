package api

import (
	"net/http"
	"time"

	"github.com/nerrad567/todo-api/internal/todo"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}

// handleHealth reports liveness. It never touches the store.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC().Format(todo.TimeFormat),
		Uptime:    s.uptime().Seconds(),
	})
}

// uptime is measured on the monotonic clock and never negative.
func (s *Server) uptime() time.Duration {
	if d := time.Since(s.startedAt); d > 0 {
		return d
	}
	return 0
}
