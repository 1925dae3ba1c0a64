// Copyright 2025 Interlynk.io
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sw360

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/viveksahu26/sw360sync/pkg/logger"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const defaultTimeout = 30 * time.Second

// Config holds the connection settings of the catalog client.
type Config struct {
	RestURL string
	Token   string

	// Password grant settings, used by ResolveToken when Token is empty.
	AuthURL      string
	Username     string
	Password     string
	ClientID     string
	ClientSecret string

	Timeout time.Duration
	// RequestsPerSecond limits the request rate. Zero means unlimited.
	RequestsPerSecond int
}

// Client is the shared transport of the resource clients.
type Client struct {
	restURL string
	http    *http.Client
	limiter *rate.Limiter

	Projects   *ProjectClient
	Components *ComponentClient
	Releases   *ReleaseClient
}

// NewClient validates cfg and builds the catalog client. No request is made.
func NewClient(cfg Config) (*Client, error) {
	restURL := strings.TrimSuffix(strings.TrimSpace(cfg.RestURL), "/")
	if restURL == "" {
		return nil, &ConfigurationError{Setting: "rest url", Reason: "must not be empty"}
	}
	if cfg.Token == "" {
		return nil, &ConfigurationError{Setting: "token", Reason: "must not be empty"}
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Second/time.Duration(cfg.RequestsPerSecond)), cfg.RequestsPerSecond)
	}

	c := &Client{
		restURL: restURL,
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}),
				Base:   http.DefaultTransport,
			},
		},
		limiter: limiter,
	}
	c.Projects = &ProjectClient{c: c}
	c.Components = &ComponentClient{c: c}
	c.Releases = &ReleaseClient{c: c}
	return c, nil
}

// RestURL returns the normalized base URL.
func (c *Client) RestURL() string {
	return c.restURL
}

func (c *Client) url(segments ...string) string {
	return c.restURL + "/" + strings.Join(segments, "/")
}

// Validate checks that the API root is reachable with the configured token.
func (c *Client) Validate(ctx context.Context) error {
	logger.LogDebug(ctx, "Validating sw360 connection", "url", c.restURL)

	_, err := c.do(ctx, "validate connection", http.MethodGet, c.restURL+"/", nil, "")
	if err != nil {
		var remoteErr *RemoteOperationError
		if errors.As(err, &remoteErr) && (remoteErr.StatusCode == http.StatusUnauthorized || remoteErr.StatusCode == http.StatusForbidden) {
			return fmt.Errorf("invalid sw360 token: %w", err)
		}
		return err
	}
	return nil
}

func (c *Client) get(ctx context.Context, operation, url string) ([]byte, error) {
	return c.do(ctx, operation, http.MethodGet, url, nil, "")
}

func (c *Client) delete(ctx context.Context, operation, url string) ([]byte, error) {
	return c.do(ctx, operation, http.MethodDelete, url, nil, "")
}

func (c *Client) postJSON(ctx context.Context, operation, url string, payload interface{}) ([]byte, error) {
	body, err := encodeBody(payload)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, operation, http.MethodPost, url, body, MediaTypeJSON)
}

func (c *Client) patchJSON(ctx context.Context, operation, url string, payload interface{}) ([]byte, error) {
	body, err := encodeBody(payload)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, operation, http.MethodPatch, url, body, MediaTypeJSON)
}

func encodeBody(payload interface{}) ([]byte, error) {
	switch v := payload.(type) {
	case interface{ Bytes() []byte }:
		return v.Bytes(), nil
	case []byte:
		return v, nil
	default:
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		return body, nil
	}
}

// do executes one request. There are no retries: a transport failure or a
// non-2xx status is returned as a RemoteOperationError.
func (c *Client) do(ctx context.Context, operation, method, url string, body []byte, contentType string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &RemoteOperationError{Operation: operation, Err: err}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, &RemoteOperationError{Operation: operation, Err: fmt.Errorf("creating request: %w", err)}
	}

	req.Header.Set("Accept", mediaTypeHAL)
	req.Header.Set("User-Agent", "sw360sync/1.0")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if method == http.MethodPost || method == http.MethodPatch {
		req.Header.Set("Cookie", sessionCookie)
	}

	logger.LogDebug(ctx, "Sending sw360 request", "operation", operation, "method", method, "url", url)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &RemoteOperationError{Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RemoteOperationError{Operation: operation, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RemoteOperationError{Operation: operation, StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}
