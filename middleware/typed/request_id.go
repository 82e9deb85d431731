package typed

import (
	"log/slog"
	"net/http"

	"github.com/platform-smith-labs/orgapi/handler"
	httpMiddleware "github.com/platform-smith-labs/orgapi/middleware/http"
)

// WithRequestID enriches HandlerContext with the request ID for correlation.
//
// This middleware:
//   - Extracts the request ID from the request context (set by http.WithRequestID)
//   - Stores it in ctx.RequestID for handler access
//   - Enriches the logger with a request_id field for structured logging
//
// Requires http.WithRequestID to be applied on the router first.
func WithRequestID[ParamTypeT any, BodyTypeT any, ResponseBodyT any](
	next handler.Handler[ParamTypeT, BodyTypeT, ResponseBodyT],
) handler.Handler[ParamTypeT, BodyTypeT, ResponseBodyT] {
	return func(ctx handler.HandlerContext[ParamTypeT, BodyTypeT], w http.ResponseWriter, r *http.Request) (ResponseBodyT, error) {
		requestID := httpMiddleware.GetRequestID(r)

		if requestID != "" {
			ctx.RequestID = handler.NewNullable(requestID)
			ctx.Logger = ctx.Logger.With(slog.String("request_id", requestID))
		}

		return next(ctx, w, r)
	}
}
