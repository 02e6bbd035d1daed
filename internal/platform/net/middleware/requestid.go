// Package middleware holds adapters and in house middlewares
package middleware

import (
	"net/http"

	"petmis/internal/platform/logger"
	pnet "petmis/internal/platform/net"

	"github.com/google/uuid"
)

// RequestID assigns a uuid request id unless the client supplied one,
// mirrors it on the response header, and seeds the request-scoped logger
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)

		ctx := pnet.WithRequest(r.Context(), reqID)
		ctx = logger.WithRequest(ctx, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
