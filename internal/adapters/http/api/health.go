// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/reqbind/pkg/metrics"
)

// HealthDependencies reports the loaded sample list size.
type HealthDependencies interface {
	SampleCount(ctx context.Context) int
}

// HealthHandler handles liveness and metrics requests.
type HealthHandler struct {
	samples HealthDependencies
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(samples HealthDependencies) *HealthHandler {
	return &HealthHandler{samples: samples}
}

type healthResponse struct {
	Status  string `json:"status"`
	Samples int    `json:"samples"`
}

// HandleHealth handles GET /healthz requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Samples: h.samples.SampleCount(r.Context())})
}

// MetricsHandler serves the custom Prometheus registry.
func (h *HealthHandler) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}

// RootHandler answers the greeting route.
type RootHandler struct{}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

type messageResponse struct {
	Message string `json:"message"`
}

// HandleRoot handles GET / requests.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "Hello World"})
}
