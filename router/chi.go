// Package router assembles the chi router with the standard middleware stack.
package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// New creates a chi router with standard middleware and CORS restricted to
// the given origins.
//
// CORS denies all origins when allowedOrigins is empty; cross-origin callers
// must be configured explicitly. Never use []string{"*"} in production.
//
// Example:
//
//	r := router.New([]string{"https://app.example.com"})
func New(allowedOrigins []string) chi.Router {
	r := chi.NewRouter()

	// Chi built-in middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	return r
}
