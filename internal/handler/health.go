package handler

import (
	"net/http"

	"packrat/internal/httputil"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Health reports liveness and database reachability. Mounted outside the
// auth middleware.
// GET /health
func Health(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK
		if err := pool.Ping(r.Context()); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httputil.RespondJSON(w, code, map[string]string{
			"status": status,
		})
	}
}
