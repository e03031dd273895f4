package httpmw

import (
	"net/http"
	"strconv"
)

// SecurityHeaders is middleware that adds security headers to HTTP responses
// according to cfg. Each toggle writes a distinct header name, so application
// order is irrelevant and re-applying the middleware with the same config is
// idempotent (Set, never Add).
//
// Headers are set before the inner handler runs so they are present on every
// response, including error paths, and visible to downstream middleware.
func SecurityHeaders(cfg SecurityHeadersConfig) func(http.Handler) http.Handler {
	// cfg is immutable after construction, format the HSTS value once
	hsts := "max-age=" + strconv.FormatInt(cfg.HSTSMaxAge, 10)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()

			if cfg.EnableContentTypeOptions {
				// Disable MIME type sniffing
				h.Set("X-Content-Type-Options", "nosniff")
			}
			if cfg.EnableFrameOptions {
				// Clickjacking protection - dont allow embedding in frames
				h.Set("X-Frame-Options", "DENY")
			}
			if cfg.EnableXSSProtection {
				// Legacy browser XSS filter
				h.Set("X-XSS-Protection", "1; mode=block")
			}
			if cfg.EnableHSTS {
				h.Set("Strict-Transport-Security", hsts)
			}
			if cfg.EnableReferrerPolicy {
				// Control information sent in the Referer header
				h.Set("Referrer-Policy", cfg.ReferrerPolicy)
			}
			if cfg.EnableCSP {
				h.Set("Content-Security-Policy", cfg.CSPPolicy)
			}
			if cfg.EnablePermissionsPolicy && cfg.PermissionsPolicy != "" {
				h.Set("Permissions-Policy", cfg.PermissionsPolicy)
			}

			next.ServeHTTP(w, r)
		})
	}
}
