package airbnb

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"roomreviews/internal/adapters/observability"
	"roomreviews/internal/domain"
)

// The reviews feed lives on the same host as the room page itself, so
// the client derives everything from the input URL and test servers
// need no extra wiring.
const feedPathFmt = "/api/v2/rooms/%s/reviews"

// maxBodyBytes caps how much of a feed response is read into memory.
const maxBodyBytes = 8 << 20

// Options configure the feed client. Zero values fall back to the
// defaults: 20s timeout, 4 attempts, 5 rps, 50 reviews per page.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	RetryMax  int
	RPS       int
	PageSize  int
	ProxyMode ProxyMode
	ProxyURLs []string
}

type Client struct {
	pool     *clientPool
	ua       string
	rl       *rate.Limiter
	retryMax int
	pageSize int
}

func New(opts Options) (*Client, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = "Mozilla/5.0 (compatible; RoomReviewsBot/1.0)"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.RetryMax <= 0 {
		opts.RetryMax = 4
	}
	if opts.RPS <= 0 {
		opts.RPS = 5
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 50
	}
	pool, err := newClientPool(opts.ProxyMode, opts.ProxyURLs, opts.Timeout)
	if err != nil {
		return nil, err
	}
	return &Client{
		pool:     pool,
		ua:       opts.UserAgent,
		rl:       rate.NewLimiter(rate.Limit(opts.RPS), opts.RPS),
		retryMax: opts.RetryMax,
		pageSize: opts.PageSize,
	}, nil
}

// FetchReviews gets one raw feed page for room. An empty cursor asks
// for the first page.
func (c *Client) FetchReviews(ctx context.Context, room domain.RoomRef, cursor string) ([]byte, error) {
	return c.get(ctx, room.Host(), c.feedURL(room, cursor))
}

func (c *Client) feedURL(room domain.RoomRef, cursor string) string {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(c.pageSize))
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	u := url.URL{
		Scheme:   room.URL.Scheme,
		Host:     room.URL.Host,
		Path:     fmt.Sprintf(feedPathFmt, room.ID),
		RawQuery: q.Encode(),
	}
	return u.String()
}

// get performs a GET with client-side rate limiting and retries.
// Retries cover network faults, 429 and transient 5xx, honoring
// Retry-After when provided. Every other status is terminal.
func (c *Client) get(ctx context.Context, host, u string) ([]byte, error) {
	// client-side rate limiting
	if err := c.rl.Wait(ctx); err != nil {
		return nil, &domain.TransportError{Kind: domain.TransportNetwork, Err: err}
	}

	var lastErr error
	for i := 0; i < c.retryMax; i++ {
		// build a fresh request each attempt
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, &domain.TransportError{Kind: domain.TransportNetwork, Err: err}
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.ua)

		start := time.Now()
		resp, err := c.pool.pick().Do(req)
		if err != nil {
			observability.ObserveFeed(host, 0, time.Since(start))
			if ctx.Err() != nil {
				return nil, &domain.TransportError{Kind: domain.TransportNetwork, Err: ctx.Err()}
			}
			lastErr = classifyNetErr(err)
			// context-aware sleep before retry
			if i < c.retryMax-1 {
				observability.CountRetry(retryReason(lastErr))
				if sleepCtx(ctx, backoff(i)) {
					continue
				}
			}
			if ctx.Err() != nil {
				return nil, &domain.TransportError{Kind: domain.TransportNetwork, Err: ctx.Err()}
			}
			return nil, lastErr
		}
		observability.ObserveFeed(host, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode == http.StatusOK:
			b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			resp.Body.Close()
			if err != nil {
				return nil, &domain.TransportError{Kind: domain.TransportNetwork, Err: err}
			}
			return b, nil

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = &domain.TransportError{Kind: domain.TransportStatus, Status: resp.StatusCode}
			if i < c.retryMax-1 {
				observability.CountRetry("status")
				if sleepCtx(ctx, wait) {
					continue
				}
			}
			if ctx.Err() != nil {
				return nil, &domain.TransportError{Kind: domain.TransportNetwork, Err: ctx.Err()}
			}
			return nil, lastErr

		default:
			// remaining 4xx (and anything else) fail the room outright
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil, &domain.TransportError{Kind: domain.TransportStatus, Status: resp.StatusCode}
		}
	}

	return nil, lastErr
}

func classifyNetErr(err error) error {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &domain.TransportError{Kind: domain.TransportTimeout, Err: err}
	}
	return &domain.TransportError{Kind: domain.TransportNetwork, Err: err}
}

func retryReason(err error) string {
	var te *domain.TransportError
	if errors.As(err, &te) && te.Kind == domain.TransportTimeout {
		return "timeout"
	}
	return "network"
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	// seconds form
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	// HTTP-date form
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential backoff delay with concurrency-safe jitter.
// i = retry attempt (0,1,2,...). Base doubles each attempt (200ms, 400ms, 800ms...),
// with up to +50% random jitter to avoid thundering herds.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0                  // 0..1
	j := time.Duration(0.5 * f * float64(base)) // up to +50%
	return base + j
}
