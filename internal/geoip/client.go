package geoip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Default client settings.
const (
	// DefaultEndpoint is the geolocation provider's JSON endpoint.
	// The IP is appended as a path segment: <endpoint>/<ip>.
	DefaultEndpoint = "http://ip-api.com/json"

	// DefaultTimeout bounds a single lookup. The heuristic must always
	// produce a verdict, so a slow provider degrades to the fallback
	// score instead of stalling the check.
	DefaultTimeout = 5 * time.Second

	// maxResponseSize limits the response body read. Geolocation payloads
	// are a few hundred bytes; anything larger is malformed or hostile.
	maxResponseSize = 64 * 1024
)

// responseFields asks the provider for exactly the fields scoring uses.
// Field set 66842623 is the provider's encoding of status, message,
// country, countryCode, region, regionName, city, zip, lat, lon, timezone,
// isp, org, as, proxy, and hosting.
const responseFields = "66842623"

// ErrLookupFailed is returned when the provider responds but reports a
// failed lookup (unroutable address, reserved range, quota exceeded).
var ErrLookupFailed = errors.New("geoip: lookup failed")

// Location is the provider's geolocation record.
// All fields are optional: the provider is untrusted and absent fields
// must not crash scoring, so everything decodes to its zero value.
type Location struct {
	Status      string  `json:"status"`
	Message     string  `json:"message,omitempty"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"` //nolint:tagliatelle // provider field name
	City        string  `json:"city"`
	RegionName  string  `json:"regionName"` //nolint:tagliatelle // provider field name
	ISP         string  `json:"isp"`
	Org         string  `json:"org"`
	AS          string  `json:"as"`
	Timezone    string  `json:"timezone"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`

	// Proxy is true when the provider flags the address as a proxy,
	// VPN, or Tor exit.
	Proxy bool `json:"proxy"`

	// Hosting is true when the address belongs to a hosting provider
	// or data center range.
	Hosting bool `json:"hosting"`
}

// Client queries the geolocation provider.
//
// Design decision: We use a struct with the http.Client rather than
// passing the client on each call because:
//  1. Client configuration (timeouts, transport) should be consistent
//  2. Connection pooling works better with a shared client
//  3. Easier to test with a local httptest server
type Client struct {
	// httpClient performs the outbound request.
	httpClient *http.Client

	// endpoint is the provider base URL without a trailing slash.
	endpoint string

	// timeout is the per-lookup deadline.
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint sets a custom provider endpoint.
// Used in tests to point at a local httptest server.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithTimeout sets the per-lookup timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a geolocation client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		endpoint: DefaultEndpoint,
		timeout:  DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}

	return c
}

// Lookup queries the provider for the given IP address.
//
// The call is bounded by the client timeout in addition to any deadline
// already on ctx. Failures (timeout, transport error, non-2xx status,
// provider-reported failure) come back as errors; the caller is expected
// to substitute its fallback score rather than surface them. No retries
// are performed.
func (c *Client) Lookup(ctx context.Context, ip string) (*Location, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqURL := fmt.Sprintf("%s/%s?fields=%s", c.endpoint, url.PathEscape(ip), responseFields)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("geoip: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geoip: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrLookupFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("geoip: read response: %w", err)
	}

	var loc Location
	if err := json.Unmarshal(body, &loc); err != nil {
		return nil, fmt.Errorf("geoip: decode response: %w", err)
	}

	if loc.Status != "success" {
		if loc.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrLookupFailed, loc.Message)
		}
		return nil, ErrLookupFailed
	}

	return &loc, nil
}
