package httpmw

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"io"
	"net/http"
)

type requestIDKey struct{}

// WithRequestID attaches a request correlation ID to the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext gets the request ID from context, or "" if none.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestID middleware propagates an inbound correlation ID header when
// present, generates one otherwise, stores it in the context, and echoes it
// back on the response. Both the request and the response phases of the inner
// chain see the same ID, which is what ties response-side work back to the
// originating request.
func RequestID(headerName string) func(http.Handler) http.Handler {
	if headerName == "" {
		headerName = "X-Request-Id"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(headerName)
			if id == "" {
				id = newRequestID()
			}

			w.Header().Set(headerName, id)

			next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
		})
	}
}

func newRequestID() string {
	var b [16]byte
	if _, err := io.ReadFull(rand.Reader, b[:]); err != nil {
		// effectively impossible; an empty ID is tolerated downstream
		return ""
	}
	return hex.EncodeToString(b[:])
}
