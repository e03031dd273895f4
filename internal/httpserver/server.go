// Package httpserver assembles the public handler: chi router plus the
// middleware chain. main() owns the *http.Server so it can drive graceful
// shutdown.
package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ooyeku/httpkit/internal/httpmw"
	"github.com/ooyeku/httpkit/internal/opshttp"
)

// NewHandler builds the HTTP handler with routes + middleware.
func NewHandler(opts *Options) http.Handler {
	r := chi.NewRouter()

	// Rename spans to the final chi route pattern
	r.Use(httpmw.AnnotateHTTPRoute)

	if opts.MaxBodyBytes > 0 {
		r.Use(httpmw.MaxBody(opts.MaxBodyBytes))
	}

	// Health routes on the public port too, so load balancers can probe it
	if opts.Health != nil {
		r.Get("/-/healthy", opshttp.HealthzHandler(opts.Health))
	}
	if opts.Readiness != nil {
		r.Get("/-/ready", opshttp.ReadyzHandler(opts.Readiness))
	}

	if opts.APIRoutes != nil {
		opts.APIRoutes(r)
	}

	// Middleware wrapping order, innermost listed first:
	var h http.Handler = r

	// Response-phase logging (sees the handler outcome)
	h = httpmw.ResponseLog()(h)

	// Pre-request logging reads the process-wide logger/config slots
	h = httpmw.RequestLog()(h)

	if opts.MetricsMW != nil {
		h = opts.MetricsMW(h)
	}

	// echo trace ids to clients when a trace is recording
	h = httpmw.TraceResponseHeaders("X-Trace-Id", "X-Span-Id")(h)

	h = otelhttp.NewHandler(h, "http.server",
		otelhttp.WithFilter(func(r *http.Request) bool {
			// health probes produce no useful spans
			return r.URL.Path != "/-/healthy" && r.URL.Path != "/-/ready"
		}),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			// AnnotateHTTPRoute renames the span to the route pattern later
			return r.Method + " " + r.URL.Path
		}),
		otelhttp.WithPublicEndpointFn(func(r *http.Request) bool { return true }),
	)

	// Rate limiting after client IP resolution so it keys on the real client
	if opts.RateLimitMW != nil {
		h = opts.RateLimitMW(h)
	}

	h = httpmw.ClientIPWithOptions(opts.ClientIPOpts)(h)

	// Request ID outermost-but-two so everything downstream sees it
	h = httpmw.RequestID("X-Request-Id")(h)

	if opts.UseRecoverMW {
		h = httpmw.Recover(opts.Logger, opts.OnPanic)(h)
	}

	// Security headers outermost so every response carries them
	h = httpmw.SecurityHeaders(opts.Security)(h)

	return h
}

// Server timeout defaults, shared with opshttp.
const (
	DefaultReadHeaderTimeout = 5 * time.Second
	DefaultReadTimeout       = 10 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 60 * time.Second
	DefaultMaxHeaderBytes    = 1 << 20 // 1 MB
)

func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		ReadTimeout:       DefaultReadTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		IdleTimeout:       DefaultIdleTimeout,
		MaxHeaderBytes:    DefaultMaxHeaderBytes,
	}
}
