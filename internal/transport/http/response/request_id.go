package response

import (
	"net/http"

	appCtx "github.com/baechuer/ewm-service/internal/pkg/context"
)

// RequestIDFromRequest prefers the id set by the request-id middleware and
// falls back to the inbound header.
func RequestIDFromRequest(r *http.Request) string {
	if r == nil {
		return ""
	}
	if v := appCtx.GetRequestID(r.Context()); v != "" {
		return v
	}
	if v := r.Header.Get("X-Request-Id"); v != "" {
		return v
	}
	return r.Header.Get("X-Request-ID")
}
