// internal/feed/client.go
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// Client fetches the captured-tag feed. The request is fixed at build
// time: the endpoint plus the three query parameters the feed service
// understands.
type Client struct {
	url  string
	http *http.Client
	buf  []byte
}

// Config is the minimal runtime config the client needs.
type Config struct {
	// BaseURL is the feed endpoint without query parameters.
	BaseURL string
	// Port overrides the URL's port when non-zero.
	Port int
	// ValidOnly asks the service for validated beacons only.
	ValidOnly bool
	// Capacity is sent as the maximum record count.
	Capacity int
	// Rotate hints the service to vary the served subset across polls,
	// so a backing population larger than Capacity is served fairly.
	Rotate bool
	// BufferSize bounds the response body. Anything past the bound is
	// read and dropped silently.
	BufferSize int
}

// NewClient builds the fixed request URL once.
func NewClient(cfg Config) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("feed: parse base url: %w", err)
	}
	if u.Host == "" {
		return nil, errors.New("feed: base url has no host")
	}
	if cfg.Port != 0 {
		u.Host = u.Hostname() + ":" + strconv.Itoa(cfg.Port)
	}

	q := u.Query()
	q.Set("valid", strconv.FormatBool(cfg.ValidOnly))
	q.Set("num", strconv.Itoa(cfg.Capacity))
	q.Set("offset", strconv.FormatBool(cfg.Rotate))
	u.RawQuery = q.Encode()

	return &Client{
		url:  u.String(),
		http: &http.Client{},
		buf:  make([]byte, cfg.BufferSize),
	}, nil
}

// URL returns the fixed request URL.
func (c *Client) URL() string {
	return c.url
}

// Fetch performs one request and accumulates the body into the fixed
// buffer. The returned slice aliases the buffer and is only valid until
// the next Fetch. The HTTP status is reported for logging; a non-2xx
// body is still returned and left to fail at the parsing stage.
func (c *Client) Fetch(ctx context.Context) (body []byte, status int, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("feed: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("feed: request: %w", err)
	}
	defer resp.Body.Close()

	total := 0
	for total < len(c.buf) {
		n, err := resp.Body.Read(c.buf[total:])
		total += n
		if errors.Is(err, io.EOF) {
			return c.buf[:total], resp.StatusCode, nil
		}
		if err != nil {
			return nil, resp.StatusCode, fmt.Errorf("feed: read body: %w", err)
		}
	}

	// Buffer full: drain and drop the rest.
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("feed: drain body: %w", err)
	}
	return c.buf[:total], resp.StatusCode, nil
}
