package httpmw

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func resolveFor(t *testing.T, remoteAddr, xff string, hops int) string {
	t.Helper()
	var got string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ClientIPFromContext(r.Context())
	})

	req := httptest.NewRequest("GET", "/", http.NoBody)
	req.RemoteAddr = remoteAddr
	if xff != "" {
		req.Header.Set("X-Forwarded-For", xff)
	}

	ClientIPWithOptions(ClientIPOptions{TrustedHops: hops})(handler).
		ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestClientIP_DirectPeer(t *testing.T) {
	if got := resolveFor(t, "203.0.113.7:1234", "", 0); got != "203.0.113.7" {
		t.Fatalf("ip = %q, want 203.0.113.7", got)
	}
}

func TestClientIP_PublicPeerIgnoresForwarded(t *testing.T) {
	// public peer: header is untrusted even with hops configured
	if got := resolveFor(t, "203.0.113.7:1234", "10.0.0.9", 1); got != "203.0.113.7" {
		t.Fatalf("ip = %q, want peer address", got)
	}
}

func TestClientIP_PrivatePeerNoHops(t *testing.T) {
	if got := resolveFor(t, "10.0.0.1:1234", "203.0.113.50", 0); got != "10.0.0.1" {
		t.Fatalf("ip = %q, want 10.0.0.1", got)
	}
}

func TestClientIP_PrivatePeerOneHop(t *testing.T) {
	if got := resolveFor(t, "10.0.0.1:1234", "198.51.100.4, 203.0.113.50", 1); got != "203.0.113.50" {
		t.Fatalf("ip = %q, want rightmost XFF entry", got)
	}
}

func TestClientIP_TwoHops(t *testing.T) {
	if got := resolveFor(t, "10.0.0.1:1234", "198.51.100.4, 203.0.113.50", 2); got != "198.51.100.4" {
		t.Fatalf("ip = %q, want second-from-end XFF entry", got)
	}
}

func TestClientIP_FewerEntriesThanHops_FailsClosed(t *testing.T) {
	if got := resolveFor(t, "10.0.0.1:1234", "203.0.113.50", 3); got != "10.0.0.1" {
		t.Fatalf("ip = %q, want peer address when XFF is short", got)
	}
}

func TestClientIP_MalformedForwardedEntry(t *testing.T) {
	if got := resolveFor(t, "10.0.0.1:1234", "not-an-ip", 1); got != "10.0.0.1" {
		t.Fatalf("ip = %q, want peer address for garbage XFF", got)
	}
}

func TestClientIP_StripsHeadersWhenUntrusted(t *testing.T) {
	var sawXFF string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawXFF = r.Header.Get("X-Forwarded-For")
	})

	req := httptest.NewRequest("GET", "/", http.NoBody)
	req.RemoteAddr = "203.0.113.7:1234"
	req.Header.Set("X-Forwarded-For", "10.0.0.9")

	ClientIP(handler).ServeHTTP(httptest.NewRecorder(), req)

	if sawXFF != "" {
		t.Fatalf("X-Forwarded-For %q survived from an untrusted peer", sawXFF)
	}
}
