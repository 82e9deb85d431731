package typed

import (
	"net/http"
	"time"

	"github.com/platform-smith-labs/orgapi/handler"
)

// WithLogging creates structured logging middleware for typed handlers.
//
// It brackets each operation with a debug line for the attempt and an info
// line for the outcome. List it early (right after WithRequestID) so it
// wraps the parsing and response middleware.
//
// Example:
//
//	handler := MakeHandler(reg, info,
//	    myHandler,
//	    WithRequestID,
//	    WithLogging, // wraps everything that follows
//	    ParseBody,
//	    ResponseJSON,
//	)
func WithLogging[ParamTypeT any, BodyTypeT any, ResponseBodyT any](
	next handler.Handler[ParamTypeT, BodyTypeT, ResponseBodyT],
) handler.Handler[ParamTypeT, BodyTypeT, ResponseBodyT] {
	return func(ctx handler.HandlerContext[ParamTypeT, BodyTypeT], w http.ResponseWriter, r *http.Request) (ResponseBodyT, error) {
		startTime := time.Now()

		ctx.Logger.Debug("Handling request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)

		response, err := next(ctx, w, r)

		duration := time.Since(startTime)

		if err != nil {
			ctx.Logger.Error("Request failed",
				"method", r.Method,
				"path", r.URL.Path,
				"error", err.Error(),
				"duration_ms", duration.Milliseconds(),
			)
		} else {
			ctx.Logger.Info("Request succeeded",
				"method", r.Method,
				"path", r.URL.Path,
				"duration_ms", duration.Milliseconds(),
			)
		}

		return response, err
	}
}
