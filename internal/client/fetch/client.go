// Package fetch wraps HTTP GETs of JSON resources with a deadline and converts
// every failure into a classified Outcome instead of an error. It never retries;
// recovery policy belongs to the caller.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tailscale/hujson"
	"github.com/tidwall/gjson"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "cached-catalog-client/1.0"
)

type Client struct {
	http      *http.Client
	baseURL   *url.URL
	timeout   time.Duration
	userAgent string
	logger    *logrus.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the default per-request timeout; non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func WithLogger(l *logrus.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host required", baseURL)
	}
	c := &Client{
		http:      http.DefaultClient,
		baseURL:   u,
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Client) Timeout() time.Duration { return c.timeout }

func (c *Client) BaseURL() string { return c.baseURL.String() }

// Fetch GETs endpoint and decodes the JSON body into T. The effective deadline is
// the earlier of ctx's and timeout from now; timeout <= 0 uses the client default.
// Once the deadline fires the request is abandoned and any late response dropped.
func Fetch[T any](ctx context.Context, c *Client, endpoint string, timeout time.Duration) Outcome[T] {
	if timeout <= 0 {
		timeout = c.timeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	requestID := uuid.New().String()
	out := fetch[T](ctx, reqCtx, c, endpoint, timeout, requestID)
	if c.logger != nil {
		fields := logrus.Fields{"endpoint": endpoint, "request_id": requestID}
		if f := out.Failure(); f != nil {
			fields["reason"] = f.Reason.String()
			if f.Status != 0 {
				fields["status"] = f.Status
			}
			c.logger.WithFields(fields).Debug(f.Message)
		} else {
			c.logger.WithFields(fields).Debug("fetch succeeded")
		}
	}
	return out
}

func fetch[T any](parent, ctx context.Context, c *Client, endpoint string, timeout time.Duration, requestID string) Outcome[T] {
	req, err := c.newReq(ctx, endpoint, requestID)
	if err != nil {
		return Failed[T](&Failure{Reason: ReasonUnknown, Message: err.Error(), Err: err})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Failed[T](classify(parent, ctx, err, timeout))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Failed[T](&Failure{
			Reason:  ReasonServerError,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("Server returned %d", resp.StatusCode),
		})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Failed[T](classify(parent, ctx, err, timeout))
	}
	v, f := decode[T](body)
	if f != nil {
		return Failed[T](f)
	}
	return Ok(v)
}

func (c *Client) newReq(ctx context.Context, endpoint, requestID string) (*http.Request, error) {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	u := *c.baseURL
	u.Path = path.Join("/", u.Path, ref.Path)
	u.RawQuery = ref.RawQuery

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	return req, nil
}

// decode tolerates trailing commas and matches field names case-insensitively.
// A JSON null document is a decode failure; an empty array is not.
func decode[T any](body []byte) (T, *Failure) {
	var v T
	if len(bytes.TrimSpace(body)) == 0 {
		return v, &Failure{Reason: ReasonDecode, Message: "Server returned empty response"}
	}
	std, err := hujson.Standardize(body)
	if err != nil {
		return v, &Failure{Reason: ReasonDecode, Message: fmt.Sprintf("Invalid JSON response: %v", err), Err: err}
	}
	if gjson.ParseBytes(std).Type == gjson.Null {
		return v, &Failure{Reason: ReasonDecode, Message: "Server returned null response"}
	}
	if err := json.Unmarshal(std, &v); err != nil {
		return v, &Failure{Reason: ReasonDecode, Message: fmt.Sprintf("Failed to decode response: %v", err), Err: err}
	}
	return v, nil
}

func classify(parent, ctx context.Context, err error, timeout time.Duration) *Failure {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return timeoutFailure(timeout, err)
	}
	if errors.Is(parent.Err(), context.Canceled) {
		return &Failure{Reason: ReasonUnknown, Message: "Request canceled", Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return timeoutFailure(timeout, err)
	}
	if errors.As(err, &netErr) {
		return &Failure{Reason: ReasonTransport, Message: transportMessage(err), Err: err}
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &Failure{Reason: ReasonTransport, Message: transportMessage(err), Err: err}
	}
	return &Failure{Reason: ReasonUnknown, Message: err.Error(), Err: err}
}

func timeoutFailure(timeout time.Duration, err error) *Failure {
	secs := strconv.FormatFloat(timeout.Seconds(), 'f', -1, 64)
	return &Failure{Reason: ReasonTimeout, Message: fmt.Sprintf("Request timed out after %s seconds", secs), Err: err}
}

func transportMessage(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Sprintf("Network error: %v", urlErr.Err)
	}
	return fmt.Sprintf("Network error: %v", err)
}
