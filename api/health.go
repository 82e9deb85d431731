package api

import (
	"database/sql"
	"net/http"

	"github.com/platform-smith-labs/orgapi/core"
	"github.com/platform-smith-labs/orgapi/db"
)

// HealthHandler reports liveness of the service and its database. A failing
// database check degrades the status and flips the response to 503.
func HealthHandler(database *sql.DB) core.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		checks := map[string]bool{"database": true}
		status := "ok"

		if err := db.HealthCheck(r.Context(), database); err != nil {
			checks["database"] = false
			status = "degraded"
		}

		return core.Health(w, status, checks)
	}
}
