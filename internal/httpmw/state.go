package httpmw

import (
	"sync"

	"github.com/ooyeku/httpkit/internal/log"
)

// Process-wide slots for the logging middleware. RequestLog and ResponseLog
// are plain middleware constructors with no per-request closure over app
// state, so the active logger and config live here, each behind its own
// mutex. Both are published once during startup, before the server begins
// accepting traffic; replacing them while serving is unsupported.
//
// An unset slot is a valid state meaning "logging disabled": readers skip
// silently, never error.
var (
	loggerMu     sync.Mutex
	activeLogger log.Logger

	configMu     sync.Mutex
	activeConfig *LoggingConfig
)

// SetLogger publishes the logger used by the logging middleware.
// Call once during application initialization.
func SetLogger(l log.Logger) {
	loggerMu.Lock()
	activeLogger = l
	loggerMu.Unlock()
}

// SetLoggingConfig publishes the logging middleware config.
// The value is copied; later mutation of cfg by the caller has no effect.
func SetLoggingConfig(cfg LoggingConfig) {
	c := cfg
	configMu.Lock()
	activeConfig = &c
	configMu.Unlock()
}

// currentLogger fetches the active logger. The lock covers only the
// reference copy so logging I/O never runs under it.
func currentLogger() (log.Logger, bool) {
	loggerMu.Lock()
	l := activeLogger
	loggerMu.Unlock()
	return l, l != nil
}

// currentConfig fetches a copy of the active config under lock.
func currentConfig() (LoggingConfig, bool) {
	configMu.Lock()
	c := activeConfig
	configMu.Unlock()
	if c == nil {
		return LoggingConfig{}, false
	}
	return *c, true
}
