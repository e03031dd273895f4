package httpmw

import "net/http"

// Chain wraps h with the given middlewares. The first middleware in the list
// becomes the outermost wrapper, the last the innermost. Nil entries are
// skipped so callers can pass conditionally-built middleware directly.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		if mw := mws[i]; mw != nil {
			h = mw(h)
		}
	}
	return h
}
