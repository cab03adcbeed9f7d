package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/stockly/internal/status"
)

// ProbedEndpoints are checked over HTTP by the status report.
var ProbedEndpoints = []string{"/api/auth/session", "/api/products", "/api/categories", "/api/suppliers"}

// HealthHandler godoc
// @Summary Liveness check
// @Tags status
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// StatusHandler godoc
// @Summary Dependency and endpoint status report
// @Tags status
// @Produce json
// @Security BearerAuth
// @Success 200 {object} status.Report
// @Failure 401 {object} ErrorResponse
// @Router /api/status [get]
func (s *Server) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r); !ok {
		return
	}

	probes := append([]status.Probe(nil), s.Probes...)
	if s.StatusBaseURL != "" {
		authorization := r.Header.Get("Authorization")
		for _, path := range ProbedEndpoints {
			probes = append(probes, status.HTTPProbe(s.HTTPClient, s.StatusBaseURL, path, authorization))
		}
	}

	writeJSON(w, http.StatusOK, s.Status.Run(r.Context(), probes))
}
