// Package cfg holds all runtime configuration for the server binary.
// Precedence: cli flag > env var > config file > default.
package cfg

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ooyeku/httpkit/internal/log"
)

type App struct {
	// logging backend
	LogJSON           bool
	LogLevel          string
	LogFile           string
	LogFileMaxSizeMB  int
	LogFileMaxBackups int
	LogFileMaxAgeDays int

	// listeners
	HTTPPort  int
	AdminPort int

	// observability
	EnablePprof     bool
	EnablePyroscope bool
	EnableTracing   bool
	PyroServer      string
	PyroTenantID    string
	OTLPEndpoint    string
	TraceSample     float64

	// request/response logging middleware
	LogRequests      bool
	LogResponses     bool
	LogBody          bool
	ExcludePaths     string
	RequestLogLevel  string
	ResponseLogLevel string

	// security headers middleware
	EnableContentTypeOptions bool
	EnableFrameOptions       bool
	EnableXSSProtection      bool
	EnableHSTS               bool
	HSTSMaxAge               int64
	EnableReferrerPolicy     bool
	ReferrerPolicy           string
	EnableCSP                bool
	CSPPolicy                string
	EnablePermissionsPolicy  bool
	PermissionsPolicy        string

	// abuse controls
	RateLimitPerSecond float64
	RateLimitBurst     int
	TrustedHops        int
}

// Register binds all config fields to the given FlagSet with defaults inline
func Register(fs *flag.FlagSet, c *App) {
	fs.BoolVar(&c.LogJSON, "log-json", true, "JSON logs (true) or logfmt (false)")
	fs.StringVar(&c.LogLevel, "log-level", "info", "debug|info|warn|error")
	fs.StringVar(&c.LogFile, "log-file", "", "log to this file with rotation instead of stdout")
	fs.IntVar(&c.LogFileMaxSizeMB, "log-file-max-size-mb", 100, "rotate the log file after this many megabytes")
	fs.IntVar(&c.LogFileMaxBackups, "log-file-max-backups", 5, "rotated files to keep")
	fs.IntVar(&c.LogFileMaxAgeDays, "log-file-max-age-days", 28, "days to keep rotated files")

	fs.IntVar(&c.HTTPPort, "http-port", 8080, "listen TCP port (1..65535)")
	fs.IntVar(&c.AdminPort, "admin-port", 9000, "admin listen TCP port (1..65535)")

	fs.BoolVar(&c.EnablePprof, "enable-pprof", true, "Enable pprof profiling (on admin port only)")
	fs.BoolVar(&c.EnablePyroscope, "enable-pyroscope", false, "Enable pushing Pyroscope data to server set in -pyro-server")
	fs.BoolVar(&c.EnableTracing, "enable-tracing", false, "Enable OTLP tracing and push to otlp-endpoint")
	fs.StringVar(&c.PyroServer, "pyro-server", "", "pyroscope server url to push to")
	fs.StringVar(&c.PyroTenantID, "pyro-tenant", "", "tenant (x-scope-orgid) to use for pyro-server")
	fs.StringVar(&c.OTLPEndpoint, "otlp-endpoint", "", "OTLP endpoint to push to (gRPC) (host:port)")
	fs.Float64Var(&c.TraceSample, "trace-sample", 0.0, "trace sampling ratio (0..1)")

	fs.BoolVar(&c.LogRequests, "log-requests", true, "emit a log entry for each inbound request")
	fs.BoolVar(&c.LogResponses, "log-responses", true, "enable the response-phase logging middleware")
	fs.BoolVar(&c.LogBody, "log-body", false, "reserved: capture request bodies in logs")
	fs.StringVar(&c.ExcludePaths, "log-exclude-paths", "/-/healthy,/-/ready", "comma-separated path prefixes to skip in request logs")
	fs.StringVar(&c.RequestLogLevel, "request-log-level", "info", "level for request entries (debug|info|warn|error)")
	fs.StringVar(&c.ResponseLogLevel, "response-log-level", "info", "level for response entries (debug|info|warn|error)")

	fs.BoolVar(&c.EnableContentTypeOptions, "sec-content-type-options", true, "set X-Content-Type-Options: nosniff")
	fs.BoolVar(&c.EnableFrameOptions, "sec-frame-options", true, "set X-Frame-Options: DENY")
	fs.BoolVar(&c.EnableXSSProtection, "sec-xss-protection", true, "set X-XSS-Protection: 1; mode=block")
	fs.BoolVar(&c.EnableHSTS, "sec-hsts", true, "set Strict-Transport-Security")
	fs.Int64Var(&c.HSTSMaxAge, "sec-hsts-max-age", 31536000, "HSTS max-age in seconds")
	fs.BoolVar(&c.EnableReferrerPolicy, "sec-referrer-policy", true, "set Referrer-Policy")
	fs.StringVar(&c.ReferrerPolicy, "sec-referrer-policy-value", "strict-origin-when-cross-origin", "Referrer-Policy value")
	fs.BoolVar(&c.EnableCSP, "sec-csp", true, "set Content-Security-Policy")
	fs.StringVar(&c.CSPPolicy, "sec-csp-value", "default-src 'self'; frame-ancestors 'none'; object-src 'none'; base-uri 'self'; form-action 'self'", "Content-Security-Policy value")
	fs.BoolVar(&c.EnablePermissionsPolicy, "sec-permissions-policy", true, "set Permissions-Policy")
	fs.StringVar(&c.PermissionsPolicy, "sec-permissions-policy-value", "accelerometer=(), camera=(), geolocation=(), gyroscope=(), magnetometer=(), microphone=(), payment=(), usb=()", "Permissions-Policy value")

	fs.Float64Var(&c.RateLimitPerSecond, "rate-limit-per-second", 10, "per-ip request refill rate (0 disables)")
	fs.IntVar(&c.RateLimitBurst, "rate-limit-burst", 30, "per-ip burst capacity")
	fs.IntVar(&c.TrustedHops, "trusted-hops", 0, "reverse proxies between clients and this server (0 = ignore X-Forwarded-For)")
}

// FillFromEnv sets any flag not explicitly passed on the CLI from
// environment variables. Flag "foo-bar" maps to PREFIX_FOO_BAR.
func FillFromEnv(fs *flag.FlagSet, prefix string, logf func(string, ...any)) {
	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	fs.VisitAll(func(f *flag.Flag) {
		key := prefix + strings.ReplaceAll(strings.ToUpper(f.Name), "-", "_")
		envVal, envSet := os.LookupEnv(key)
		if !envSet {
			return
		}
		if explicit[f.Name] {
			if logf != nil {
				logf("flag -%s: cli value %q overrides env %s=%q", f.Name, f.Value.String(), key, envVal)
			}
			return
		}
		prev := f.Value.String()
		if err := fs.Set(f.Name, envVal); err != nil {
			fs.Set(f.Name, prev)
			if logf != nil {
				logf("flag -%s: ignoring invalid env %s=%q: %v", f.Name, key, envVal, err)
			}
		}
	})
}

// ExcludePathList splits the comma-separated exclude prefixes, dropping
// empty segments.
func (c App) ExcludePathList() []string {
	var out []string
	for _, p := range strings.Split(c.ExcludePaths, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks that config values are within expected ranges and formats.
// Returns an error describing all invalid fields, or nil if all valid.
func Validate(c App) error {
	var errs []string

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Sprintf("invalid HTTP_PORT %d (must be 1..65535)", c.HTTPPort))
	}
	if c.AdminPort < 1 || c.AdminPort > 65535 {
		errs = append(errs, fmt.Sprintf("invalid ADMIN_PORT %d (must be 1..65535)", c.AdminPort))
	}
	if c.AdminPort == c.HTTPPort {
		errs = append(errs, fmt.Sprintf("ADMIN_PORT and HTTP_PORT must differ (both %d)", c.HTTPPort))
	}

	for name, lvl := range map[string]string{
		"LOG_LEVEL":          c.LogLevel,
		"REQUEST_LOG_LEVEL":  c.RequestLogLevel,
		"RESPONSE_LOG_LEVEL": c.ResponseLogLevel,
	} {
		if _, err := log.ParseLevel(lvl); err != nil {
			errs = append(errs, fmt.Sprintf("invalid %s %q: %v", name, lvl, err))
		}
	}

	if c.TraceSample < 0 || c.TraceSample > 1 {
		errs = append(errs, fmt.Sprintf("invalid TRACE_SAMPLE %.3f (must be 0..1)", c.TraceSample))
	}
	if c.EnableTracing && c.OTLPEndpoint == "" {
		errs = append(errs, "ENABLE_TRACING requires OTLP_ENDPOINT")
	}
	if c.EnablePyroscope && c.PyroServer == "" {
		errs = append(errs, "ENABLE_PYROSCOPE requires PYRO_SERVER")
	}

	if c.HSTSMaxAge < 0 {
		errs = append(errs, fmt.Sprintf("invalid SEC_HSTS_MAX_AGE %d (must be >= 0)", c.HSTSMaxAge))
	}
	if c.EnableReferrerPolicy && c.ReferrerPolicy == "" {
		errs = append(errs, "SEC_REFERRER_POLICY requires a SEC_REFERRER_POLICY_VALUE")
	}
	if c.EnableCSP && c.CSPPolicy == "" {
		errs = append(errs, "SEC_CSP requires a SEC_CSP_VALUE")
	}

	if c.RateLimitPerSecond < 0 {
		errs = append(errs, fmt.Sprintf("invalid RATE_LIMIT_PER_SECOND %.1f (must be >= 0)", c.RateLimitPerSecond))
	}
	if c.RateLimitPerSecond > 0 && c.RateLimitBurst < 1 {
		errs = append(errs, fmt.Sprintf("invalid RATE_LIMIT_BURST %d (must be >= 1 when rate limiting is on)", c.RateLimitBurst))
	}
	if c.TrustedHops < 0 {
		errs = append(errs, fmt.Sprintf("invalid TRUSTED_HOPS %d (must be >= 0)", c.TrustedHops))
	}

	if c.LogFileMaxSizeMB < 1 {
		errs = append(errs, fmt.Sprintf("invalid LOG_FILE_MAX_SIZE_MB %d (must be >= 1)", c.LogFileMaxSizeMB))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
