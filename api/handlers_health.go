package api

import (
	"net/http"
)

// handleHealth responds with 200 OK to indicate the service is running.
// The upstream is reported as "unknown" until one of its calls succeeds.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"success": true,
		"status":  "ok",
	}

	if s.health != nil {
		upstreamStatus := "unknown"
		if s.health.Healthy() {
			upstreamStatus = "up"
		}
		status["services"] = map[string]string{
			s.health.Name(): upstreamStatus,
		}
	}

	s.sendJSONResponse(w, status)
}
