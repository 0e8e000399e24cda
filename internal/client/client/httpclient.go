package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/agentmarket/internal/common"
	"github.com/dmitrijs2005/agentmarket/internal/logging"
	"github.com/google/uuid"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 8 << 20

// Config holds the settings of an HTTPClient.
type Config struct {
	// BaseURL is the backend root, e.g. "http://localhost:8000".
	BaseURL string
	// Timeout bounds every request. Zero means no timeout.
	Timeout time.Duration
	// HTTPClient overrides the transport. Defaults to a new http.Client.
	HTTPClient *http.Client
	// Logger defaults to a discarding logger.
	Logger logging.Logger
}

// HTTPClient talks to the marketplace backend over its REST API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	log        logging.Logger
	newID      func() string
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient validates cfg and returns a ready client.
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", cfg.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}

	var log logging.Logger = logging.Nop()
	if cfg.Logger != nil {
		log = cfg.Logger
	}

	return &HTTPClient{
		baseURL:    base,
		httpClient: hc,
		log:        log,
		newID:      func() string { return uuid.NewString() },
	}, nil
}

// request describes one backend call.
type request struct {
	method string
	path   string
	token  string
	// body is JSON-encoded unless form is set.
	body any
	form url.Values
	// fallback is the message used when the server gives no usable detail.
	fallback string
}

// errorBody is the FastAPI error shape. Detail is only used when it is a
// plain string.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// call executes req and decodes a 2xx body into T. Every failure mode is
// folded into the returned Result.
func call[T any](ctx context.Context, c *HTTPClient, req request) Result[T] {
	var zero T

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return Failure[T](req.fallback, 0, ErrMalformed)
	}

	requestID := httpReq.Header.Get(common.RequestIDHeaderName)
	log := c.log.With("method", req.method, "path", req.path, "request_id", requestID)
	started := time.Now()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isCanceled(err) {
			log.Debug(ctx, "request abandoned", "error", err)
		} else {
			log.Warn(ctx, "request failed", "error", err)
		}
		return Failure[T](req.fallback, 0, ErrUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	log.Debug(ctx, "response received", "status", resp.StatusCode, "elapsed", time.Since(started))
	if err != nil {
		log.Warn(ctx, "reading response body failed", "error", err)
		return Failure[T](req.fallback, resp.StatusCode, ErrUnavailable)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := detailMessage(body, req.fallback)
		log.Warn(ctx, "request rejected", "status", resp.StatusCode, "detail", msg)
		return Failure[T](msg, resp.StatusCode, causeForStatus(resp.StatusCode))
	}

	if _, discard := any(zero).(struct{}); discard {
		return Success(zero)
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		log.Warn(ctx, "empty response body", "status", resp.StatusCode)
		return Failure[T](req.fallback, resp.StatusCode, ErrMalformed)
	}

	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		log.Warn(ctx, "decoding response failed", "error", err)
		return Failure[T](req.fallback, resp.StatusCode, ErrMalformed)
	}
	return Success(out)
}

func (c *HTTPClient) newRequest(ctx context.Context, req request) (*http.Request, error) {
	var (
		reader      io.Reader
		contentType string
	)
	switch {
	case req.form != nil:
		reader = strings.NewReader(req.form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.body != nil:
		b, err := json.Marshal(req.body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, reader)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(common.RequestIDHeaderName, c.newID())
	if req.token != "" {
		httpReq.Header.Set(common.AuthorizationHeaderName, common.BearerToken(req.token))
	}
	return httpReq, nil
}

// detailMessage extracts a string "detail" from an error body, or returns
// fallback.
func detailMessage(body []byte, fallback string) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return fallback
	}
	var s string
	if err := json.Unmarshal(eb.Detail, &s); err != nil || s == "" {
		return fallback
	}
	return s
}

// isCanceled reports whether err stems from the caller giving up.
func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
