package handlers

import (
	"context"
	"net/http"
	"time"
)

// HealthCheck probes one backing dependency.
type HealthCheck func(ctx context.Context) error

// HealthHandler reports liveness plus the state of optional dependencies.
// A failing check degrades the response to 503 so load balancers back off.
type HealthHandler struct {
	Checks map[string]HealthCheck
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	res := map[string]any{"status": "ok"}
	checks := map[string]string{}
	for name, check := range h.Checks {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			res["status"] = "degraded"
			continue
		}
		checks[name] = "ok"
	}
	if len(checks) > 0 {
		res["checks"] = checks
	}

	writeJSON(w, r, status, res)
}
