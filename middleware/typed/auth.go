package typed

import (
	"net/http"
	"strings"

	"github.com/platform-smith-labs/orgapi/core"
	"github.com/platform-smith-labs/orgapi/handler"
	"github.com/platform-smith-labs/orgapi/jwt"
)

// RequireAuth validates the JWT bearer token from the Authorization header
// and sets UserUUID in the context.
//
// When jwtSecret is empty, authentication is disabled and the middleware
// passes every request through unchanged.
//
// Returns 401 if the Authorization header is missing, malformed, or the
// token is invalid/expired.
func RequireAuth[ParamTypeT any, BodyTypeT any, ResponseBodyT any](
	jwtSecret string,
) handler.Middleware[ParamTypeT, BodyTypeT, ResponseBodyT] {
	return func(next handler.Handler[ParamTypeT, BodyTypeT, ResponseBodyT]) handler.Handler[ParamTypeT, BodyTypeT, ResponseBodyT] {
		return func(ctx handler.HandlerContext[ParamTypeT, BodyTypeT], w http.ResponseWriter, r *http.Request) (ResponseBodyT, error) {
			if jwtSecret == "" {
				// Auth disabled
				return next(ctx, w, r)
			}

			var zeroResponse ResponseBodyT

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				return zeroResponse, core.NewAPIError(core.CodeUnauthorized, "Authorization header required")
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				return zeroResponse, core.NewAPIError(core.CodeUnauthorized, "Authorization header must start with 'Bearer '")
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == "" {
				return zeroResponse, core.NewAPIError(core.CodeUnauthorized, "Bearer token is required")
			}

			claims, err := jwt.ValidateToken(token, jwtSecret)
			if err != nil {
				ctx.Logger.Warn("Invalid JWT token", "error", err.Error())
				return zeroResponse, core.NewAPIError(core.CodeUnauthorized, "Invalid or expired token")
			}

			ctx.UserUUID = handler.NewNullable(claims.UserUUID)

			return next(ctx, w, r)
		}
	}
}
