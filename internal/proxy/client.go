// Package proxy implements the version listing part of the Go module proxy protocol
package proxy

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ludo-technologies/rotron/internal/version"
	"golang.org/x/mod/module"
	"golang.org/x/time/rate"
)

// DefaultTimeout bounds a request when the caller's context has no deadline
const DefaultTimeout = 30 * time.Second

// maxListSize caps how much of a version list is read
const maxListSize = 1 << 20

// ErrNoVersions is returned when the proxy lists no released version
var ErrNoVersions = errors.New("no versions listed")

// StatusError is returned for a non-200 proxy response
type StatusError struct {
	Module     string
	StatusCode int
}

// Error implements the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("proxy returned %d %s for %s", e.StatusCode, http.StatusText(e.StatusCode), e.Module)
}

// Client queries a module proxy. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRateLimit limits the sustained request rate. A non-positive rate disables the limit.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a client for the proxy at baseURL, e.g. https://proxy.golang.org
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  "rotron/" + version.GetVersion(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Versions returns the versions the proxy lists for modulePath, in the order
// the proxy returned them.
func (c *Client) Versions(ctx context.Context, modulePath string) ([]string, error) {
	escaped, err := module.EscapePath(modulePath)
	if err != nil {
		return nil, fmt.Errorf("invalid module path %q: %w", modulePath, err)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+escaped+"/@v/list", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxListSize))
		return nil, &StatusError{Module: modulePath, StatusCode: resp.StatusCode}
	}

	versions, err := parseList(io.LimitReader(resp.Body, maxListSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read version list: %w", err)
	}
	if len(versions) == 0 {
		return nil, ErrNoVersions
	}
	return versions, nil
}

// parseList reads one version per line, ignoring blank lines
func parseList(r io.Reader) ([]string, error) {
	var versions []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		versions = append(versions, fields[0])
	}
	return versions, scanner.Err()
}
