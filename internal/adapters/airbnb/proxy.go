package airbnb

import (
	"net/http"
	"net/url"
	"sync"
	"time"

	"roomreviews/internal/domain"
)

// ProxyMode selects how outbound feed requests are routed.
type ProxyMode string

const (
	ProxyNone   ProxyMode = "none"   // direct connection
	ProxyStatic ProxyMode = "static" // one proxy for every request
	ProxyPool   ProxyMode = "pool"   // rotate across proxies per request
)

func ParseProxyMode(s string) (ProxyMode, error) {
	switch ProxyMode(s) {
	case "", ProxyNone:
		return ProxyNone, nil
	case ProxyStatic:
		return ProxyStatic, nil
	case ProxyPool:
		return ProxyPool, nil
	default:
		return "", &domain.ConfigError{Reason: "unknown proxy mode " + s}
	}
}

// clientPool hands out HTTP clients round-robin. Without proxies it
// holds a single direct client, so callers never branch on the mode.
type clientPool struct {
	mu      sync.Mutex
	next    int
	clients []*http.Client
}

func newClientPool(mode ProxyMode, proxyURLs []string, timeout time.Duration) (*clientPool, error) {
	switch mode {
	case "", ProxyNone:
		return &clientPool{clients: []*http.Client{{Timeout: timeout}}}, nil

	case ProxyStatic:
		if len(proxyURLs) == 0 {
			return nil, &domain.ConfigError{Reason: "static proxy mode needs one proxy url"}
		}
		c, err := proxiedClient(proxyURLs[0], timeout)
		if err != nil {
			return nil, err
		}
		return &clientPool{clients: []*http.Client{c}}, nil

	case ProxyPool:
		if len(proxyURLs) == 0 {
			return nil, &domain.ConfigError{Reason: "pool proxy mode needs at least one proxy url"}
		}
		cs := make([]*http.Client, 0, len(proxyURLs))
		for _, raw := range proxyURLs {
			c, err := proxiedClient(raw, timeout)
			if err != nil {
				return nil, err
			}
			cs = append(cs, c)
		}
		return &clientPool{clients: cs}, nil

	default:
		return nil, &domain.ConfigError{Reason: "unknown proxy mode " + string(mode)}
	}
}

func proxiedClient(raw string, timeout time.Duration) (*http.Client, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &domain.ConfigError{Reason: "proxy url " + raw + " is not absolute"}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &http.Transport{Proxy: http.ProxyURL(u)},
	}, nil
}

func (p *clientPool) pick() *http.Client {
	p.mu.Lock()
	defer p.mu.Unlock()
	c := p.clients[p.next%len(p.clients)]
	p.next++
	return c
}

func (p *clientPool) size() int { return len(p.clients) }
