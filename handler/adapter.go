package handler

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/platform-smith-labs/orgapi/core"
)

// AdaptHandler converts Handler[ParamTypeT, BodyTypeT, ResponseBodyT] to http.HandlerFunc.
//
// This adapter bridges the typed generic handler system and the standard
// http.HandlerFunc interface used by the chi router. It injects application
// dependencies (database, logger) into the handler context and writes error
// envelopes for failed handlers.
func AdaptHandler[ParamTypeT any, BodyTypeT any, ResponseBodyT any](
	db *sql.DB,
	logger *slog.Logger,
	handler Handler[ParamTypeT, BodyTypeT, ResponseBodyT],
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Extract request context for cancellation and timeout support
		requestCtx := r.Context()

		// Create handler context with application dependencies and request context
		ctx := HandlerContext[ParamTypeT, BodyTypeT]{
			Context: requestCtx,
			DB:      db,
			Logger:  logger,
		}

		// Execute the handler and handle response/errors
		_, err := handler(ctx, w, r)
		if err != nil {
			// Handle context-specific errors
			if errors.Is(err, context.Canceled) {
				// Client disconnected - don't write response
				logger.Info("Request cancelled by client", "path", r.URL.Path)
				return
			}
			if errors.Is(err, context.DeadlineExceeded) {
				logger.Error("Request timeout", "path", r.URL.Path)
				core.WriteAPIError(w, r, core.NewAPIError(core.CodeInternal, "Request timeout"))
				return
			}

			// Log the error for debugging
			logger.Error("Handler error", "error", err.Error(), "path", r.URL.Path)

			// Write appropriate error response based on error type
			var apiErr *core.APIError
			if errors.As(err, &apiErr) {
				core.WriteAPIError(w, r, apiErr)
			} else {
				// Fallback for unexpected errors
				core.Error(w, r, core.CodeInternal, "Internal server error")
			}
			return
		}

		// Success: response writing is delegated to middleware (e.g. ResponseJSON)
	}
}
