// Package httpmw provides the HTTP middleware this module is built around:
// request/response logging and security response headers, plus the supporting
// middleware a real chain needs (correlation IDs, client IP resolution, panic
// recovery, body limits, trace headers).
//
// The logging middleware reads a process-wide logger and config published via
// SetLogger and SetLoggingConfig; both are optional and an unset slot simply
// disables logging. SecurityHeaders instead carries its own immutable config
// per instance. Neither concern is ever allowed to fail a request: every
// fallible step degrades to a no-op.
package httpmw
