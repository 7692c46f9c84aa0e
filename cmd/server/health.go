package main

import (
	"context"
	"log/slog"
	"net/http"

	"eventreg/pkg/platform/httputil"
)

type healthCheck struct {
	name  string
	check func(context.Context) error
}

// healthHandler reports each dependency as "ok" or "unavailable". Failure
// details go to the log only.
func healthHandler(log *slog.Logger, checks ...healthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		status := make(map[string]string, len(checks))
		healthy := true
		for _, c := range checks {
			if err := c.check(ctx); err != nil {
				log.ErrorContext(ctx, "health check failed", "dependency", c.name, "error", err)
				status[c.name] = "unavailable"
				healthy = false
				continue
			}
			status[c.name] = "ok"
		}
		code := http.StatusOK
		if !healthy {
			code = http.StatusServiceUnavailable
		}
		httputil.WriteJSON(w, code, map[string]any{"success": healthy, "data": status})
	}
}
