package httpmw

import "net/http"

// ResponseLog returns response-phase logging middleware. It consults the
// process-wide config after the handler runs; when the config is unset or
// response logging is off, nothing happens.
//
// Response detail logging (status, size, latency tied to the originating
// request) is intentionally not emitted yet. The request is available to
// this phase, so the plumbing is in place, but what a response entry should
// contain is still undecided upstream. The response always passes through
// unchanged either way.
func ResponseLog() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)

			cfg, ok := currentConfig()
			if !ok || !cfg.LogResponses {
				return
			}
			// Gated on, but no entry is produced yet.
		})
	}
}
