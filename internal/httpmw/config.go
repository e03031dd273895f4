package httpmw

import "log/slog"

// LoggingConfig controls the request/response logging middleware.
// Values are copied on publish (SetLoggingConfig) and treated as immutable
// afterwards; replacing the active config is a full overwrite, not a merge.
type LoggingConfig struct {
	// LogRequests emits one entry per inbound request.
	LogRequests bool
	// LogResponses gates the response-phase middleware. Response detail
	// logging is not wired yet, see ResponseLog.
	LogResponses bool
	// LogBody is reserved for body capture; nothing reads it today.
	LogBody bool

	// ExcludePaths suppresses logging for any request whose URL path starts
	// with one of these literal prefixes (health checks, probes, etc).
	// No normalization is applied: matching is case-sensitive and does not
	// handle trailing slashes.
	ExcludePaths []string

	RequestLogLevel  slog.Level
	ResponseLogLevel slog.Level
}

// DefaultLoggingConfig logs requests at info, skips the ops probe endpoints.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		LogRequests:      true,
		LogResponses:     true,
		ExcludePaths:     []string{"/-/healthy", "/-/ready"},
		RequestLogLevel:  slog.LevelInfo,
		ResponseLogLevel: slog.LevelInfo,
	}
}

// SecurityHeadersConfig controls which security headers SecurityHeaders adds.
// Each instance is self-contained and read-only after construction, so a
// single value can serve concurrent requests without locking.
type SecurityHeadersConfig struct {
	// EnableContentTypeOptions sets X-Content-Type-Options: nosniff.
	EnableContentTypeOptions bool
	// EnableFrameOptions sets X-Frame-Options: DENY.
	EnableFrameOptions bool
	// EnableXSSProtection sets X-XSS-Protection: 1; mode=block.
	EnableXSSProtection bool

	// EnableHSTS sets Strict-Transport-Security with HSTSMaxAge seconds.
	EnableHSTS bool
	HSTSMaxAge int64

	// EnableReferrerPolicy sets Referrer-Policy to ReferrerPolicy.
	EnableReferrerPolicy bool
	ReferrerPolicy       string

	// EnableCSP sets Content-Security-Policy to CSPPolicy.
	EnableCSP bool
	CSPPolicy string

	// EnablePermissionsPolicy sets Permissions-Policy to PermissionsPolicy.
	// Skipped when the policy string is empty.
	EnablePermissionsPolicy bool
	PermissionsPolicy       string
}

// DefaultSecurityHeadersConfig enables every header with hardened values:
// one-year HSTS, same-origin CSP, and the powerful browser features disabled.
func DefaultSecurityHeadersConfig() SecurityHeadersConfig {
	return SecurityHeadersConfig{
		EnableContentTypeOptions: true,
		EnableFrameOptions:       true,
		EnableXSSProtection:      true,
		EnableHSTS:               true,
		HSTSMaxAge:               31536000,
		EnableReferrerPolicy:     true,
		ReferrerPolicy:           "strict-origin-when-cross-origin",
		EnableCSP:                true,
		CSPPolicy:                "default-src 'self'; frame-ancestors 'none'; object-src 'none'; base-uri 'self'; form-action 'self'",
		EnablePermissionsPolicy:  true,
		PermissionsPolicy:        "accelerometer=(), camera=(), geolocation=(), gyroscope=(), magnetometer=(), microphone=(), payment=(), usb=()",
	}
}
