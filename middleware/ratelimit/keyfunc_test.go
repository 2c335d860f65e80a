package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDefaultKeyFunc_PrefersHeaderWhenSet(t *testing.T) {
	fn := DefaultKeyFunc(KeyOptions{Header: "X-Client", TrustXForwardedFor: true})

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.Header.Set("X-Client", " client-123 ")
	r.Header.Set("X-Forwarded-For", "1.2.3.4")

	if got := fn(r); got != "client-123" {
		t.Fatalf("expected header key, got %q", got)
	}
}

func TestDefaultKeyFunc_TrustXForwardedForUsesFirstIP(t *testing.T) {
	fn := DefaultKeyFunc(KeyOptions{TrustXForwardedFor: true})

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")

	if got := fn(r); got != "1.2.3.4" {
		t.Fatalf("expected first XFF ip, got %q", got)
	}
}

func TestDefaultKeyFunc_MissingHeadersFallsBackToUnknown(t *testing.T) {
	fn := DefaultKeyFunc(KeyOptions{TrustXForwardedFor: true})

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.RemoteAddr = "10.0.0.9:5555"

	if got := fn(r); got != "unknown" {
		t.Fatalf("expected unknown, got %q", got)
	}
}

func TestDefaultKeyFunc_UseRemoteAddrHost(t *testing.T) {
	fn := DefaultKeyFunc(KeyOptions{UseRemoteAddr: true})

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.RemoteAddr = "10.0.0.9:5555"

	if got := fn(r); got != "10.0.0.9" {
		t.Fatalf("expected remote host, got %q", got)
	}
}
