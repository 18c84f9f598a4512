package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mfadhilr/typerace/internal/services"
)

// MetricsHandler serves a JSON snapshot of server metrics.
type MetricsHandler struct {
	metrics *services.Metrics
}

// NewMetricsHandler creates the /metrics endpoint handler.
func NewMetricsHandler(metrics *services.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.metrics.Snapshot())
}
