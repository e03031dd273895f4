package httpmw

import (
	"log/slog"
	"sync"
	"testing"
)

func TestState_UnsetSlots(t *testing.T) {
	resetState(t)

	if _, ok := currentLogger(); ok {
		t.Error("currentLogger() reported a logger before SetLogger")
	}
	if _, ok := currentConfig(); ok {
		t.Error("currentConfig() reported a config before SetLoggingConfig")
	}
}

func TestState_SetAndGet(t *testing.T) {
	resetState(t)

	spy := &spyLogger{}
	SetLogger(spy)
	SetLoggingConfig(LoggingConfig{LogRequests: true, RequestLogLevel: slog.LevelWarn})

	L, ok := currentLogger()
	if !ok || L != spy {
		t.Fatalf("currentLogger() = %v, %v; want spy, true", L, ok)
	}
	cfg, ok := currentConfig()
	if !ok {
		t.Fatal("currentConfig() not set after SetLoggingConfig")
	}
	if !cfg.LogRequests || cfg.RequestLogLevel != slog.LevelWarn {
		t.Fatalf("config = %+v, not what was published", cfg)
	}
}

func TestState_ReplaceIsFullOverwrite(t *testing.T) {
	resetState(t)

	SetLoggingConfig(LoggingConfig{LogRequests: true, ExcludePaths: []string{"/health"}})
	SetLoggingConfig(LoggingConfig{LogResponses: true})

	cfg, _ := currentConfig()
	if cfg.LogRequests || len(cfg.ExcludePaths) != 0 {
		t.Fatalf("replace merged instead of overwriting: %+v", cfg)
	}
	if !cfg.LogResponses {
		t.Fatal("new value not applied")
	}
}

func TestState_PublishedConfigIsCopied(t *testing.T) {
	resetState(t)

	in := LoggingConfig{LogRequests: true}
	SetLoggingConfig(in)
	in.LogRequests = false

	cfg, _ := currentConfig()
	if !cfg.LogRequests {
		t.Fatal("mutating the caller's value changed the published config")
	}
}

func TestState_ConcurrentReaders(t *testing.T) {
	resetState(t)

	SetLogger(&spyLogger{})
	SetLoggingConfig(DefaultLoggingConfig())

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, ok := currentLogger(); !ok {
					t.Error("logger vanished under concurrent reads")
					return
				}
				if _, ok := currentConfig(); !ok {
					t.Error("config vanished under concurrent reads")
					return
				}
			}
		}()
	}
	wg.Wait()
}
