// Package requestid assigns a correlation ID to every request.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"pointsgate/pkg/requestcontext"
)

// HeaderName carries the request ID on both requests and responses.
const HeaderName = "X-Request-Id"

// Middleware reuses an inbound X-Request-Id when present, otherwise
// generates one. The ID is stored in the context and echoed on the
// response so clients can correlate logs.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderName)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		w.Header().Set(HeaderName, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
