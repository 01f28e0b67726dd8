package connector

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/pkg/log"
	"github.com/growzzy/growzzy-api/pkg/metrics"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxResponseBody = 10 << 20

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Request describes one outbound call. JSON and Form are mutually exclusive.
type Request struct {
	Method  string
	URL     string
	Query   url.Values
	Headers map[string]string
	JSON    any
	Form    url.Values
}

// Client wraps an HTTP client with status checking, decoding and metrics.
type Client struct {
	platform domain.Platform
	http     HTTPDoer
}

func NewClient(platform domain.Platform, httpClient HTTPDoer) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		platform: platform,
		http:     httpClient,
	}
}

// Do sends the request and decodes a 2xx body into out when out is not nil.
func (c *Client) Do(ctx context.Context, r Request, out any) error {
	body, err := c.Raw(ctx, r)
	if err != nil {
		return err
	}

	if out == nil || len(body) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return NewAPIError(c.platform, http.StatusOK, body)
	}
	return nil
}

// Raw sends the request and returns the body of a 2xx response.
func (c *Client) Raw(ctx context.Context, r Request) ([]byte, error) {
	req, err := c.newRequest(ctx, r)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.PlatformRequestDuration.WithLabelValues(string(c.platform)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PlatformRequestsTotal.WithLabelValues(string(c.platform), r.Method, "error").Inc()
		return nil, fmt.Errorf("%s request failed: %w", c.platform, err)
	}
	defer resp.Body.Close()

	metrics.PlatformRequestsTotal.WithLabelValues(string(c.platform), r.Method, strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("%s: reading response: %w", c.platform, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.L.WithFields(log.Fields{
			"platform":    c.platform,
			"method":      r.Method,
			"path":        req.URL.Path,
			"status_code": resp.StatusCode,
		}).Warn("platform request returned an error status")
		return nil, NewAPIError(c.platform, resp.StatusCode, body)
	}

	return body, nil
}

func (c *Client) newRequest(ctx context.Context, r Request) (*http.Request, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	target := r.URL
	if len(r.Query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + r.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case r.JSON != nil:
		payload, err := json.Marshal(r.JSON)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	case r.Form != nil:
		body = strings.NewReader(r.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	return req, nil
}
