// Package tenantapi is a client for the upstream TroPay tenant API. It
// implements the read-side repository interfaces so the dashboard can be
// served from the upstream system of record.
package tenantapi

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

	internal_utils "github.com/tropay/tenant-service/internal/utils"
)

// errNotFound is mapped to a nil result by the repository methods.
var errNotFound = errors.New("upstream_not_found")

// errVersionConflict is a 409 on a conditional write.
var errVersionConflict = errors.New("upstream_version_conflict")

// Client manages communication with the upstream tenant API.
type Client struct {
	BaseURL      *url.URL
	Token        string
	HTTPClient   *http.Client
	MaxRetries   int           // how many times to retry on 429/503
	RetryInitial time.Duration // initial backoff
}

// NewClient builds a client for baseURL authenticated with a bearer token.
func NewClient(baseURL, token string, maxRetries int, retryInitial time.Duration) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid baseURL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid baseURL %q", baseURL)
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	if retryInitial <= 0 {
		retryInitial = 500 * time.Millisecond
	}
	return &Client{
		BaseURL:      parsed,
		Token:        token,
		HTTPClient:   &http.Client{Timeout: 10 * time.Second},
		MaxRetries:   maxRetries,
		RetryInitial: retryInitial,
	}, nil
}

// retryable is returned by doOnce for throttling and unavailable responses.
type retryable struct {
	err error
}

func (r *retryable) Error() string { return r.err.Error() }
func (r *retryable) Unwrap() error { return r.err }

// doRequest runs one request with exponential backoff on 429/503. Only GET
// requests are retried.
func (c *Client) doRequest(ctx context.Context, method, reqPath string, body any, out any) error {
	backoff := c.RetryInitial
	for attempt := 0; ; attempt++ {
		err := c.doOnce(ctx, method, reqPath, body, out)
		var rt *retryable
		if err == nil || !errors.As(err, &rt) || method != http.MethodGet || attempt >= c.MaxRetries {
			if rt != nil {
				return rt.err
			}
			return err
		}
		select {
		case <-ctx.Done():
			return &internal_utils.NetworkError{Op: method + " " + reqPath, Err: ctx.Err()}
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

// doOnce performs a single HTTP request attempt and unwraps the envelope
// into out.
func (c *Client) doOnce(ctx context.Context, method, reqPath string, body any, out any) error {
	op := method + " " + reqPath

	// reqPath is already escaped and may carry a query string.
	pathPart, query, _ := strings.Cut(reqPath, "?")
	u := c.BaseURL.JoinPath(pathPart)
	u.RawQuery = query

	var reqBody io.Reader
	if body != nil {
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &internal_utils.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleHTTPError(op, resp)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &internal_utils.NetworkError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if !env.Success {
		return &internal_utils.NetworkError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("upstream reported failure: %s", env.Message)}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &internal_utils.NetworkError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode data: %w", err)}
	}
	return nil
}

func (c *Client) handleHTTPError(op string, resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	msg := strings.TrimSpace(string(bodyBytes))
	var env envelope
	if err := json.Unmarshal(bodyBytes, &env); err == nil && env.Message != "" {
		msg = env.Message
	}
	netErr := &internal_utils.NetworkError{Op: op, StatusCode: resp.StatusCode, Err: errors.New(msg)}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return errNotFound
	case http.StatusConflict, http.StatusPreconditionFailed:
		return errVersionConflict
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return &retryable{err: netErr}
	default:
		return netErr
	}
}

// Ping checks that the upstream API answers.
func (c *Client) Ping(ctx context.Context) error {
	return c.doRequest(ctx, http.MethodGet, "health", nil, nil)
}
