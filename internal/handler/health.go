package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports 200 while the database answers within timeout and 503
// otherwise. A nil db only checks that the process is serving.
func Health(db Pinger, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		checks := map[string]string{"http": "ok"}

		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			checks["database"] = "ok"
			if err := db.Ping(ctx); err != nil {
				LogError(r, err, http.StatusServiceUnavailable)
				checks["database"] = "unavailable"
				status = http.StatusServiceUnavailable
			}
		}

		state := "ok"
		if status != http.StatusOK {
			state = "degraded"
		}
		WriteJSON(w, status, map[string]any{
			"status": state,
			"checks": checks,
		})
	}
}
