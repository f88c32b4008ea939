package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// StatusFetcher is implemented by *Client and lets callers substitute fakes.
type StatusFetcher interface {
	Status(ctx context.Context) (*StatusResponse, error)
	Lines(ctx context.Context, n int) ([]string, error)
}

var _ StatusFetcher = (*Client)(nil)

// Client talks to the logwatch daemon HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	token     string
}

const (
	defaultUserAgent = "logwatch-cli"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client for the daemon listening on apiBind (host:port or
// a full URL). A non-empty token is sent as a bearer credential.
func NewClient(apiBind, token string) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: requestTimeout},
		userAgent: defaultUserAgent,
		token:     strings.TrimSpace(token),
	}, nil
}

// BaseURL returns the resolved daemon address.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// AuthHeader returns the headers a WebSocket dial needs to authenticate.
func (c *Client) AuthHeader() http.Header {
	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}
	return header
}

// StreamURL returns the WebSocket endpoint for live lines.
func (c *Client) StreamURL() string {
	u := *c.baseURL
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = "/ws"
	return u.String()
}

// Status retrieves the follower status.
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload StatusResponse
	if err := c.do(ctx, &url.URL{Path: "/api/status"}, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Lines retrieves up to n recent lines. n <= 0 asks for the daemon default.
func (c *Client) Lines(ctx context.Context, n int) ([]string, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	if n > 0 {
		values.Set("n", strconv.Itoa(n))
	}
	var payload LinesResponse
	if err := c.do(ctx, &url.URL{Path: "/api/lines", RawQuery: values.Encode()}, &payload); err != nil {
		return nil, err
	}
	return payload.Lines, nil
}

func (c *Client) do(ctx context.Context, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("api %s returned status %d: %s", rel.Path, resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		return nil, fmt.Errorf("api bind address is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_bind %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
