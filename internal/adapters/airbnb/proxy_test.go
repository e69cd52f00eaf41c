package airbnb

import (
	"errors"
	"testing"
	"time"

	"roomreviews/internal/domain"
)

func TestClientPool_RoundRobin(t *testing.T) {
	pool, err := newClientPool(ProxyPool, []string{
		"http://proxy-a.example:8080",
		"http://proxy-b.example:8080",
	}, time.Second)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if pool.size() != 2 {
		t.Fatalf("expected 2 clients, got %d", pool.size())
	}

	a, b := pool.pick(), pool.pick()
	if a == b {
		t.Fatalf("expected rotation between distinct clients")
	}
	if pool.pick() != a || pool.pick() != b {
		t.Fatalf("expected round-robin order to repeat")
	}
}

func TestNewClientPool_NoneIgnoresProxies(t *testing.T) {
	pool, err := newClientPool(ProxyNone, nil, time.Second)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if pool.size() != 1 {
		t.Fatalf("expected a single direct client, got %d", pool.size())
	}
	if pool.pick() != pool.pick() {
		t.Fatalf("direct pool must reuse one client")
	}
}

func TestNewClientPool_Validation(t *testing.T) {
	cases := []struct {
		name string
		mode ProxyMode
		urls []string
	}{
		{"static without url", ProxyStatic, nil},
		{"pool without urls", ProxyPool, nil},
		{"relative proxy url", ProxyStatic, []string{"not-a-proxy"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newClientPool(tc.mode, tc.urls, time.Second)
			var ce *domain.ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
		})
	}
}

func TestParseProxyMode(t *testing.T) {
	if m, err := ParseProxyMode(""); err != nil || m != ProxyNone {
		t.Fatalf("empty mode: %v %v", m, err)
	}
	if m, err := ParseProxyMode("pool"); err != nil || m != ProxyPool {
		t.Fatalf("pool mode: %v %v", m, err)
	}
	if _, err := ParseProxyMode("carousel"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
