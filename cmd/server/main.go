package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ooyeku/httpkit/internal/cfg"
	"github.com/ooyeku/httpkit/internal/httpmw"
	"github.com/ooyeku/httpkit/internal/httpserver"
	"github.com/ooyeku/httpkit/internal/log"
	"github.com/ooyeku/httpkit/internal/metrics"
	"github.com/ooyeku/httpkit/internal/opshttp"
	"github.com/ooyeku/httpkit/internal/otelx"
	"github.com/ooyeku/httpkit/internal/probe"
	"github.com/ooyeku/httpkit/internal/prof"
	"github.com/ooyeku/httpkit/internal/ratelimit"
	v "github.com/ooyeku/httpkit/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	vi := v.Get()

	var conf cfg.App
	var configFile string
	var showVersion bool

	cfg.Register(flag.CommandLine, &conf)
	flag.StringVar(&configFile, "config", "", "optional YAML config file (cli flags and env take precedence)")
	flag.BoolVar(&showVersion, "V", false, "Print version+build information and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("%s %s (commit=%s, build_date=%s, go=%s, dirty=%v)\n",
			v.AppName, vi.Version, vi.Commit, vi.BuildDate, vi.GoVersion,
			vi.VCSDirty != nil && *vi.VCSDirty,
		)
		os.Exit(0)
	}

	warn := func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}

	// Precedence: cli flag > env var > config file > default
	cfg.FillFromEnv(flag.CommandLine, "HTTPKIT_", warn)
	if configFile != "" {
		if err := cfg.FillFromFile(flag.CommandLine, configFile, warn); err != nil {
			fmt.Fprintln(os.Stderr, "config error:", err)
			os.Exit(1)
		}
	}

	if err := cfg.Validate(conf); err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	lvl, err := log.ParseLevel(conf.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %s: %v\n", conf.LogLevel, err)
		os.Exit(1)
	}

	// stdout by default, rotating file when -log-file is set
	var logWriter io.Writer
	if conf.LogFile != "" {
		logWriter = &lumberjack.Logger{
			Filename:   conf.LogFile,
			MaxSize:    conf.LogFileMaxSizeMB,
			MaxBackups: conf.LogFileMaxBackups,
			MaxAge:     conf.LogFileMaxAgeDays,
			Compress:   true,
		}
	}

	lg, err := log.New(log.Options{
		App:        v.AppName,
		Version:    vi.Version,
		Level:      lvl,
		JsonFormat: conf.LogJSON,
		Writer:     logWriter,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init error:", err)
		os.Exit(1)
	}
	// no-op for slog, here for when a buffered backend needs a flush on exit
	defer lg.Sync()
	L := lg.With("component", "server")
	ctx = log.WithContext(ctx, L)

	L.Info(ctx, "initializing application",
		"version", vi.Version,
		"commit", vi.Commit,
		"go_version", vi.GoVersion,
		"http_port", conf.HTTPPort,
		"admin_port", conf.AdminPort,
		"log_requests", conf.LogRequests,
		"log_responses", conf.LogResponses,
		"log_exclude_paths", conf.ExcludePaths,
		"enable_pprof", conf.EnablePprof,
		"enable_pyroscope", conf.EnablePyroscope,
		"enable_tracing", conf.EnableTracing,
	)

	// Publish the logging middleware state. Set once here, before the
	// listeners exist; the middleware treats unset slots as disabled.
	reqLvl, _ := log.ParseLevel(conf.RequestLogLevel)
	respLvl, _ := log.ParseLevel(conf.ResponseLogLevel)
	httpmw.SetLogger(lg.With("component", "http"))
	httpmw.SetLoggingConfig(httpmw.LoggingConfig{
		LogRequests:      conf.LogRequests,
		LogResponses:     conf.LogResponses,
		LogBody:          conf.LogBody,
		ExcludePaths:     conf.ExcludePathList(),
		RequestLogLevel:  reqLvl,
		ResponseLogLevel: respLvl,
	})

	stopProf, err := prof.Start(ctx, prof.Options{
		Enabled:       conf.EnablePyroscope,
		AppName:       v.AppName,
		ServerAddress: conf.PyroServer,
		TenantID:      conf.PyroTenantID,
		Tags: map[string]string{
			"app":       v.AppName,
			"component": "server",
			"version":   vi.Version,
		},
	})
	if err != nil {
		L.Error(ctx, err, "pyroscope start failed", "pyro_server", conf.PyroServer)
	}
	defer stopProf()

	// Insecure is fine: the collector is expected on localhost
	shutdownOTEL, err := otelx.Init(ctx, otelx.Options{
		Enabled:   conf.EnableTracing,
		Endpoint:  conf.OTLPEndpoint,
		Insecure:  true,
		Sample:    conf.TraceSample,
		Service:   v.AppName,
		Component: "server",
		Version:   vi.Version,
	})
	if err != nil {
		L.Error(ctx, err, "otel init failed")
	}
	defer func() { _ = shutdownOTEL(context.Background()) }()

	m := metrics.New()
	m.SetBuildInfoFromVersion(v.AppName, "server", &vi)

	var rateLimitMW func(http.Handler) http.Handler
	if conf.RateLimitPerSecond > 0 {
		limiter := ratelimit.New(ctx,
			ratelimit.WithRate(conf.RateLimitPerSecond, conf.RateLimitBurst),
			ratelimit.WithOnFirstDenied(func(ip string) {
				L.Warn(ctx, "rate limit exceeded", "client.address", ip)
			}),
			ratelimit.WithOnDenied(func(string) { m.IncRateLimitDenied() }),
			ratelimit.WithOnCapacity(func() {
				L.Warn(ctx, "rate limiter visitor map at capacity, rejecting new clients")
			}),
		)
		rateLimitMW = limiter.Middleware
	}

	health := probe.Static(true, "")
	gate := &probe.ShutdownGate{}
	readiness := probe.Multi(health, gate.Probe())

	stopOps, err := opshttp.Start(ctx, L, opshttp.Options{
		Port:        conf.AdminPort,
		Metrics:     m.Handler(),
		EnablePprof: conf.EnablePprof,
		Health:      health,
		Readiness:   readiness,
	})
	if err != nil {
		L.Error(ctx, err, "failed to start admin server")
		os.Exit(1)
	}

	security := httpmw.SecurityHeadersConfig{
		EnableContentTypeOptions: conf.EnableContentTypeOptions,
		EnableFrameOptions:       conf.EnableFrameOptions,
		EnableXSSProtection:      conf.EnableXSSProtection,
		EnableHSTS:               conf.EnableHSTS,
		HSTSMaxAge:               conf.HSTSMaxAge,
		EnableReferrerPolicy:     conf.EnableReferrerPolicy,
		ReferrerPolicy:           conf.ReferrerPolicy,
		EnableCSP:                conf.EnableCSP,
		CSPPolicy:                conf.CSPPolicy,
		EnablePermissionsPolicy:  conf.EnablePermissionsPolicy,
		PermissionsPolicy:        conf.PermissionsPolicy,
	}

	handler := httpserver.NewHandler(&httpserver.Options{
		Logger:       L,
		Port:         conf.HTTPPort,
		Security:     security,
		UseRecoverMW: true,
		OnPanic:      m.IncHttpPanic,
		MetricsMW:    m.Middleware,
		RateLimitMW:  rateLimitMW,
		ClientIPOpts: httpmw.ClientIPOptions{TrustedHops: conf.TrustedHops},
		Health:       health,
		Readiness:    readiness,
		MaxBodyBytes: 1 << 20,
		APIRoutes:    registerRoutes,
	})

	srv := httpserver.NewServer(fmt.Sprintf(":%d", conf.HTTPPort), handler)
	go func() {
		L.Info(ctx, "http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			L.Error(ctx, err, "http server error")
			stop()
		}
	}()

	<-ctx.Done()

	// Drain: fail readiness first so load balancers stop sending traffic,
	// then shut both servers down.
	gate.Set("shutting down")
	L.Info(context.Background(), "shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		L.Error(sctx, err, "http server shutdown error")
	}
	if err := stopOps(sctx); err != nil {
		L.Error(sctx, err, "admin server shutdown error")
	}
}

// registerRoutes mounts the reference endpoints the middleware chain wraps.
func registerRoutes(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(`{"status":"ok"}` + "\n"))
	})
	r.Get("/version", func(w http.ResponseWriter, req *http.Request) {
		vi := v.Get()
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		fmt.Fprintf(w, `{"version":%q,"commit":%q,"go_version":%q}`+"\n",
			vi.Version, vi.Commit, vi.GoVersion)
	})
}
