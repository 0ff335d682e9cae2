package httpx

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultHealthTimeout = 2 * time.Second

// HealthCheck pings one dependency.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandlers serves readiness checks for the database and session store.
type HealthHandlers struct {
	Checks  []HealthCheck
	Timeout time.Duration // Optional, defaults to 2s
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health runs all checks concurrently and answers 200 when every one passes, 503 otherwise.
func (h *HealthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = defaultHealthTimeout
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	results := make([]string, len(h.Checks))
	var g errgroup.Group
	for i, c := range h.Checks {
		g.Go(func() error {
			results[i] = "ok"
			if err := c.Check(ctx); err != nil {
				results[i] = "unavailable"
			}
			return nil
		})
	}
	_ = g.Wait()

	resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(h.Checks))}
	status := http.StatusOK
	for i, c := range h.Checks {
		resp.Checks[c.Name] = results[i]
		if results[i] != "ok" {
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
	}

	if r.Method == http.MethodHead {
		w.WriteHeader(status)
		return
	}
	WriteJSON(w, status, resp)
}
