// Package api provides the HTTP client kit for the LegalLink REST backend.
// Domain packages build their typed calls on top of it; this package owns
// authentication headers, rate limiting, status mapping, and logging.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"legallink_client/platform/apperr"
	"legallink_client/platform/logger"
)

// TokenSource supplies the bearer token for authenticated calls.
// An empty token means the call goes out anonymous.
type TokenSource interface {
	BearerToken(ctx context.Context) string
}

// Config provides the client kit settings.
type Config interface {
	GetAPIBaseURL() string
	GetHTTPTimeout() time.Duration
	GetRateLimitPerSecond() float64
	GetRateLimitBurst() int
}

// Client is the HTTP client for the LegalLink backend.
// Every call is attempted exactly once: recovery from failures is the
// caller's decision (usually a cache fallback), never a silent retry.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	limiter    *rate.Limiter
	log        *logger.Logger
}

// NewClient creates a client for the configured backend.
func NewClient(cfg Config, tokens TokenSource, log *logger.Logger) *Client {
	rps := cfg.GetRateLimitPerSecond()
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.GetRateLimitBurst()
	if burst < 1 {
		burst = 1
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.GetAPIBaseURL(), "/"),
		httpClient: &http.Client{Timeout: cfg.GetHTTPTimeout()},
		tokens:     tokens,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		log:        log,
	}
}

// Get issues a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body and decodes the response into out.
// out may be nil when the response body does not matter.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT with a JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE, ignoring any response body.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return apperr.Wrap(apperr.KindInternal, "rate limiter interrupted", err)
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "encode request body", err)
		}
		reader = bytes.NewReader(encoded)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "create request", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.BearerToken(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.log.WithRequestID(requestID)
	started := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.APIError(method, path, 0, err)
		return apperr.Wrap(apperr.KindUnavailable, "backend unreachable", err).WithOp(method + " " + path)
	}
	defer resp.Body.Close()

	latency := float64(time.Since(started).Microseconds()) / 1000.0

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := errorMessage(resp.Body)
		appErr := apperr.FromStatus(resp.StatusCode, message).WithOp(method + " " + path)
		log.APIError(method, path, resp.StatusCode, appErr)
		return appErr
	}

	log.APIRequest(method, path, resp.StatusCode, latency)

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Wrap(apperr.KindInternal, "decode response body", err).WithOp(method + " " + path)
	}
	return nil
}

// errorMessage extracts the backend's error wording from a non-2xx body.
// The backend is inconsistent about the envelope key, so both common
// spellings are accepted.
func errorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 8192))
	if err != nil || len(data) == 0 {
		return ""
	}

	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return ""
	}
	if envelope.Error != "" {
		return envelope.Error
	}
	return envelope.Message
}

// Path joins URL segments under the API prefix, escaping each one.
func Path(segments ...string) string {
	var b strings.Builder
	for _, segment := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(segment))
	}
	return b.String()
}
