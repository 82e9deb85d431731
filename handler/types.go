package handler

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// HandlerContext contains application dependencies and request-scoped data.
// ParamTypeT represents the type of parameters (URL/query params).
// BodyTypeT represents the type of request body.
type HandlerContext[ParamTypeT any, BodyTypeT any] struct {
	// Request context (propagated from r.Context())
	// Used for cancellation, timeouts, and trace propagation
	Context context.Context

	// Application dependencies
	DB     *sql.DB
	Logger *slog.Logger

	// Request-scoped data
	Params  Nullable[ParamTypeT]  // Optional parameters from URL/query
	Body    Nullable[BodyTypeT]   // Optional request body
	BodyRaw Nullable[[]byte]      // Raw request body bytes
	Headers Nullable[http.Header] // HTTP request headers

	// Correlation id (set by WithRequestID middleware)
	RequestID Nullable[string]

	// Authentication data (set by RequireAuth middleware)
	UserUUID Nullable[uuid.UUID]
}

// Handler represents a generic handler function that receives typed context and returns response data
type Handler[ParamTypeT any, BodyTypeT any, ResponseBodyT any] func(ctx HandlerContext[ParamTypeT, BodyTypeT], w http.ResponseWriter, r *http.Request) (ResponseBodyT, error)

// Middleware represents a function that wraps a Handler and can enrich the context
type Middleware[ParamTypeT any, BodyTypeT any, ResponseBodyT any] func(Handler[ParamTypeT, BodyTypeT, ResponseBodyT]) Handler[ParamTypeT, BodyTypeT, ResponseBodyT]

// RouteInfo holds route metadata for registration and documentation
type RouteInfo struct {
	Method      string   // HTTP method (GET, POST, PUT, DELETE, etc.)
	Path        string   // Route path pattern
	Summary     string   // Optional: Brief description for the API docs
	Description string   // Optional: Detailed description for the API docs
	Tags        []string // Optional: Tags for grouping in the API docs
}

// AdaptableHandler interface knows how to create an adapted http.HandlerFunc
type AdaptableHandler interface {
	Adapt(database *sql.DB, logger *slog.Logger) http.HandlerFunc
}

// TypedHandler wraps any Handler type and implements AdaptableHandler
type TypedHandler[ParamTypeT any, BodyTypeT any, ResponseBodyT any] struct {
	handler Handler[ParamTypeT, BodyTypeT, ResponseBodyT]
}

// Adapt converts the typed handler to http.HandlerFunc using AdaptHandler
func (th TypedHandler[ParamTypeT, BodyTypeT, ResponseBodyT]) Adapt(database *sql.DB, logger *slog.Logger) http.HandlerFunc {
	return AdaptHandler(database, logger, th.handler)
}

// PendingRoute stores route information for handlers that are registered with
// the router later, once dependencies exist.
type PendingRoute struct {
	Method    string
	Path      string
	Handler   AdaptableHandler // Interface that knows how to adapt itself
	RouteInfo RouteInfo        // Complete route metadata for documentation
}

// Registry collects routes until they are registered with a chi router.
// Registries are independent; a test can use its own without interfering
// with the application's.
type Registry struct {
	mu     sync.RWMutex
	routes []PendingRoute
}

// NewRegistry creates an empty route registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// GetRoutes returns a copy of all collected routes for reflection/documentation
func (reg *Registry) GetRoutes() []PendingRoute {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	routes := make([]PendingRoute, len(reg.routes))
	copy(routes, reg.routes)
	return routes
}

// MakeHandler composes a handler with its middleware and records it in the
// registry. Middleware executes in list order: the first middleware listed
// wraps everything that follows, and the base handler runs last.
func MakeHandler[ParamTypeT any, BodyTypeT any, ResponseBodyT any](
	reg *Registry,
	routeInfo RouteInfo,
	baseHandler Handler[ParamTypeT, BodyTypeT, ResponseBodyT],
	middleware ...Middleware[ParamTypeT, BodyTypeT, ResponseBodyT],
) Handler[ParamTypeT, BodyTypeT, ResponseBodyT] {
	handler := baseHandler

	// Wrap back to front so the first middleware listed ends up outermost
	for i := len(middleware) - 1; i >= 0; i-- {
		handler = middleware[i](handler)
	}

	reg.mu.Lock()
	reg.routes = append(reg.routes, PendingRoute{
		Method:    routeInfo.Method,
		Path:      routeInfo.Path,
		Handler:   TypedHandler[ParamTypeT, BodyTypeT, ResponseBodyT]{handler: handler},
		RouteInfo: routeInfo,
	})
	reg.mu.Unlock()

	return handler
}

// Register adapts all collected routes and mounts them on the chi router.
func (reg *Registry) Register(r chi.Router, database *sql.DB, logger *slog.Logger) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	for _, route := range reg.routes {
		adaptedHandler := route.Handler.Adapt(database, logger)
		registerRoute(r, route.Method, route.Path, adaptedHandler)
	}
}

// registerRoute helper function to reduce code duplication
func registerRoute(r chi.Router, method, path string, handler http.HandlerFunc) {
	switch method {
	case "GET":
		r.Get(path, handler)
	case "POST":
		r.Post(path, handler)
	case "PUT":
		r.Put(path, handler)
	case "DELETE":
		r.Delete(path, handler)
	case "PATCH":
		r.Patch(path, handler)
	case "HEAD":
		r.Head(path, handler)
	case "OPTIONS":
		r.Options(path, handler)
	}
}
