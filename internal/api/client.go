package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pders01/qtui/internal/debuglog"
)

const (
	DefaultGetTimeout    = 60 * time.Second
	DefaultDeleteTimeout = 30 * time.Second

	apiPath = "/api"
	// cap on bodies we are willing to buffer
	maxBodySize = 32 << 20
)

// Client talks to one Quasarr instance. It is safe to share; the
// configuration never changes after NewClient.
type Client struct {
	baseURL       string
	apiKey        string
	getTimeout    time.Duration
	deleteTimeout time.Duration
	http          *http.Client
}

type Option func(*Client)

// WithTimeouts overrides the per-request GET and DELETE timeouts.
func WithTimeouts(get, del time.Duration) Option {
	return func(c *Client) {
		if get > 0 {
			c.getTimeout = get
		}
		if del > 0 {
			c.deleteTimeout = del
		}
	}
}

// WithHTTPClient swaps the transport, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		apiKey:        apiKey,
		getTimeout:    DefaultGetTimeout,
		deleteTimeout: DefaultDeleteTimeout,
		http:          &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Response is a successful (2xx) reply with its body fully read.
type Response struct {
	StatusCode int
	Body       []byte
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decoding json: %w", err)
	}
	return nil
}

// Items parses the body as a Newznab RSS document.
func (r *Response) Items() ([]FeedItem, error) {
	return ParseItems(bytes.NewReader(r.Body))
}

func (c *Client) endpoint(path string, params url.Values) string {
	q := url.Values{}
	for k, vs := range params {
		q[k] = append([]string(nil), vs...)
	}
	q.Set("apikey", c.apiKey)
	return c.baseURL + path + "?" + q.Encode()
}

// Get issues GET <base>/api with params plus the API key. Non-2xx
// statuses are errors.
func (c *Client) Get(ctx context.Context, params url.Values, userAgent string) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.getTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(apiPath, params), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, application/rss+xml, application/xml, text/xml")

	return c.do(req)
}

// DeleteJSON issues DELETE <base><path> with body encoded as JSON and
// reports whether the server answered 2xx.
func (c *Client) DeleteJSON(ctx context.Context, path string, params url.Values, body any, userAgent string) bool {
	log := debuglog.WithFields(debuglog.Fields{"method": http.MethodDelete, "path": path})

	payload, err := json.Marshal(body)
	if err != nil {
		log.Errorf("encoding body: %v", err)
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, c.deleteTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.endpoint(path, params), bytes.NewReader(payload))
	if err != nil {
		log.Errorf("creating request: %v", err)
		return false
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")

	if _, err := c.do(req); err != nil {
		log.Warnf("%v", err)
		return false
	}
	return true
}

func (c *Client) do(req *http.Request) (*Response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	debuglog.Debugf("%s %s -> %d in %s", req.Method, req.URL.Path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// StatusError is returned for any non-2xx reply.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error: %d", e.StatusCode)
}

// GetJSON decodes a JSON reply into v. Failures are logged and reported
// as false.
func (c *Client) GetJSON(ctx context.Context, params url.Values, userAgent string, v any) bool {
	resp, err := c.Get(ctx, params, userAgent)
	if err == nil {
		err = resp.JSON(v)
	}
	if err != nil {
		logFailure(params, userAgent, err)
		return false
	}
	return true
}

// GetItems fetches one RSS page. ok is false when the request or the parse
// failed; an empty page with ok true means the server found nothing.
func (c *Client) GetItems(ctx context.Context, params url.Values, userAgent string) ([]FeedItem, bool) {
	resp, err := c.Get(ctx, params, userAgent)
	if err != nil {
		logFailure(params, userAgent, err)
		return nil, false
	}
	items, err := resp.Items()
	if err != nil {
		logFailure(params, userAgent, err)
		return nil, false
	}
	return items, true
}

func logFailure(params url.Values, userAgent string, err error) {
	fields := debuglog.Fields{"ua": userAgent}
	for _, k := range []string{"mode", "t", "offset"} {
		if v := params.Get(k); v != "" {
			fields[k] = v
		}
	}
	debuglog.WithFields(fields).Warnf("request failed: %v", err)
}
