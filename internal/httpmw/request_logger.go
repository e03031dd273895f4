package httpmw

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ooyeku/httpkit/internal/log"
)

type requestStartKey struct{}

// WithRequestStart attaches the request start timestamp (epoch milliseconds,
// decimal string) to the context. The value lives and dies with the request.
func WithRequestStart(ctx context.Context, ms string) context.Context {
	if ms == "" {
		return ctx
	}
	return context.WithValue(ctx, requestStartKey{}, ms)
}

// RequestStartFromContext returns the start timestamp attached by RequestLog,
// or "" if the request was not logged (disabled, excluded, or unset state).
// Downstream collaborators can use it for latency computation.
func RequestStartFromContext(ctx context.Context) string {
	s, _ := ctx.Value(requestStartKey{}).(string)
	return s
}

// RequestLog returns pre-request logging middleware. It reads the process-wide
// logger and config slots; if either is unset, the path is excluded, or
// request logging is off, the request passes through untouched. Otherwise it
// stamps the request start time into the context and emits one entry at the
// configured level.
//
// Logging here is strictly best-effort: no outcome of this middleware ever
// blocks or rejects a request.
func RequestLog() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cfg, ok := currentConfig()
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			L, ok := currentLogger()
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			if isExcluded(r.URL.Path, cfg.ExcludePaths) || !cfg.LogRequests {
				next.ServeHTTP(w, r)
				return
			}

			startMs := strconv.FormatInt(time.Now().UnixMilli(), 10)
			ctx := WithRequestStart(r.Context(), startMs)

			logAt(ctx, L, cfg.RequestLogLevel, "Request received",
				"http.request.method", r.Method,
				"url.path", r.URL.Path,
				"request_start_time", startMs,
			)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// logAt dispatches to the Logger method matching lvl.
func logAt(ctx context.Context, L log.Logger, lvl slog.Level, msg string, kv ...any) {
	switch {
	case lvl <= slog.LevelDebug:
		L.Debug(ctx, msg, kv...)
	case lvl >= slog.LevelError:
		L.Error(ctx, nil, msg, kv...)
	case lvl >= slog.LevelWarn:
		L.Warn(ctx, msg, kv...)
	default:
		L.Info(ctx, msg, kv...)
	}
}
