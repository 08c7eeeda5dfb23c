package api

import (
	"delivery-assign-service/internal/api/handlers"
	"delivery-assign-service/internal/metrics"
	"delivery-assign-service/internal/ports"
	"delivery-assign-service/internal/services"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the collaborators the HTTP layer needs.
type Dependencies struct {
	Engine       *services.Orchestrator
	Runs         ports.RunRepository
	Events       ports.EventPublisher
	HealthChecks map[string]handlers.HealthCheck
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Dependencies) http.Handler {
	mux := http.NewServeMux()

	healthHandler := &handlers.HealthHandler{Checks: deps.HealthChecks}
	assignmentHandler := &handlers.AssignmentHandler{
		Engine: deps.Engine,
		Runs:   deps.Runs,
		Events: deps.Events,
	}
	runHandler := &handlers.RunHandler{Runs: deps.Runs}

	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/assignments", assignmentHandler.Create)
	mux.HandleFunc("/runs/{id}", runHandler.Get)
	mux.HandleFunc("/runs/{id}/export", runHandler.Export)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return loggingMiddleware(mux)
}
