package httpmw

import (
	"net/http"

	"github.com/ooyeku/httpkit/internal/log"
	"github.com/ooyeku/httpkit/internal/xerrors"
)

// Recover returns middleware that converts handler panics into a 500 response
// and a logged error. onPanic, if non-nil, is called after logging (used to
// increment the panic counter). A panic after the response has started cannot
// rewrite the status; the recovery still runs so the connection is not torn
// down with a goroutine crash.
func Recover(L log.Logger, onPanic func()) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if L != nil {
					err, ok := v.(error)
					if !ok {
						err = xerrors.Newf("panic: %v", v)
					}
					L.Error(r.Context(), err, "panic recovered in http handler",
						"http.request.method", r.Method,
						"url.path", r.URL.Path,
						"request_id", RequestIDFromContext(r.Context()),
					)
				}
				if onPanic != nil {
					onPanic()
				}
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
