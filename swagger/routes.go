package swagger

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/platform-smith-labs/orgapi/handler"
)

// SetupSwaggerUI registers Swagger documentation routes on the provided router.
// It creates two endpoints:
//   - GET /swagger.json - Returns the OpenAPI specification as JSON
//   - GET /swagger/* - Serves the interactive Swagger UI
func SetupSwaggerUI(r chi.Router, registry *handler.Registry) {
	SetupSwaggerUIWithPath(r, "", registry)
}

// SetupSwaggerUIWithPath registers Swagger documentation routes under a custom
// base path prefix, e.g. SetupSwaggerUIWithPath(r, "/api/docs", registry)
// yields /api/docs/swagger.json and /api/docs/swagger/*.
func SetupSwaggerUIWithPath(r chi.Router, basePath string, registry *handler.Registry) {
	// Trailing slash would produce double slashes in the mounted paths
	basePath = strings.TrimSuffix(basePath, "/")

	r.Get(basePath+"/swagger.json", func(w http.ResponseWriter, r *http.Request) {
		specJSON, err := GenerateJSON(registry)
		if err != nil {
			http.Error(w, "Failed to generate API specification", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(specJSON)
	})

	r.Get(basePath+"/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(basePath+"/swagger.json"),
	))
}
