package typed

import (
	"net/http"

	"github.com/platform-smith-labs/orgapi/core"
	"github.com/platform-smith-labs/orgapi/handler"
)

// ResponseJSON handles writing successful responses as JSON.
//
// This middleware should be listed last (innermost) so it runs directly
// around the base handler. It determines the status code from the HTTP
// method (201 for POST, 200 for others) and writes the response as JSON.
// Handlers are expected to return an envelope built with core.OK or
// core.OKPaginated.
//
// Example:
//
//	handler := MakeHandler(reg, info, createOrganization, ParseBody, ResponseJSON)
func ResponseJSON[ParamTypeT any, BodyTypeT any, ResponseBodyT any](next handler.Handler[ParamTypeT, BodyTypeT, ResponseBodyT]) handler.Handler[ParamTypeT, BodyTypeT, ResponseBodyT] {
	return func(ctx handler.HandlerContext[ParamTypeT, BodyTypeT], w http.ResponseWriter, r *http.Request) (ResponseBodyT, error) {
		// Execute the handler
		responseData, err := next(ctx, w, r)
		if err != nil {
			// Don't handle errors here - let the adapter handle them
			return responseData, err
		}

		// Determine appropriate status code based on HTTP method
		var statusCode int
		switch r.Method {
		case "POST":
			statusCode = http.StatusCreated
		default:
			statusCode = http.StatusOK
		}

		// Write successful JSON response
		if err := core.JSON(w, statusCode, responseData); err != nil {
			ctx.Logger.Error("Failed to write JSON response", "error", err.Error(), "path", r.URL.Path)
			return responseData, core.NewAPIError(core.CodeInternal, "Failed to write response")
		}

		return responseData, nil
	}
}

// ResponseNoContent writes a 204 No Content response on success. The handler's
// return value is discarded; use it for delete-style operations.
func ResponseNoContent[ParamTypeT any, BodyTypeT any, ResponseBodyT any](next handler.Handler[ParamTypeT, BodyTypeT, ResponseBodyT]) handler.Handler[ParamTypeT, BodyTypeT, ResponseBodyT] {
	return func(ctx handler.HandlerContext[ParamTypeT, BodyTypeT], w http.ResponseWriter, r *http.Request) (ResponseBodyT, error) {
		responseData, err := next(ctx, w, r)
		if err != nil {
			return responseData, err
		}

		core.NoContent(w)
		return responseData, nil
	}
}
