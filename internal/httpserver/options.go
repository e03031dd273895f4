package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ooyeku/httpkit/internal/httpmw"
	"github.com/ooyeku/httpkit/internal/log"
	"github.com/ooyeku/httpkit/internal/probe"
)

type Options struct {
	Logger       log.Logger
	Port         int
	Security     httpmw.SecurityHeadersConfig
	UseRecoverMW bool
	OnPanic      func() // called when a panic is recovered, e.g. to bump a counter
	MetricsMW    func(http.Handler) http.Handler
	RateLimitMW  func(http.Handler) http.Handler
	ClientIPOpts httpmw.ClientIPOptions
	Health       probe.Probe
	Readiness    probe.Probe
	MaxBodyBytes int64
	APIRoutes    func(chi.Router)
}
