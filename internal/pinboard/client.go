// Package pinboard is a small client for the two Pinboard v1 endpoints the
// sync needs: posts/recent and posts/add.
package pinboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
)

// DefaultBaseURL is the Pinboard v1 API root.
const DefaultBaseURL = "https://api.pinboard.in/v1"

// ResultDone is the result code of a successful write.
const ResultDone = "done"

// Post is a bookmark as returned by posts/recent.
type Post struct {
	Href        string `json:"href"`
	Description string `json:"description"`
	Extended    string `json:"extended"`
	Tags        string `json:"tags"`
	Time        string `json:"time"`
}

// AddRequest holds the fields sent to posts/add.
type AddRequest struct {
	URL         string `url:"url"`
	Description string `url:"description"`
	Extended    string `url:"extended,omitempty"`
	Tags        string `url:"tags,omitempty"`
	Replace     bool   `url:"-"`
}

// AddResult is the outcome of a posts/add call. ResultCode is empty when the
// store answered 429 without a JSON body.
type AddResult struct {
	Status     int
	ResultCode string
}

// Done reports whether the store accepted the bookmark.
func (r AddResult) Done() bool {
	return strings.EqualFold(r.ResultCode, ResultDone)
}

// RateLimited reports whether the store asked us to slow down.
func (r AddResult) RateLimited() bool {
	return r.Status == http.StatusTooManyRequests
}

// StatusError is returned for unexpected HTTP statuses.
type StatusError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("Pinboard: %s: status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("Pinboard: %s: status %d: %s", e.Endpoint, e.Status, e.Body)
}

// Client talks to the Pinboard API with a single auth token.
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimSuffix(u, "/")
		}
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient creates a Pinboard client for the given API token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		token:      token,
		userAgent:  "gh-pinstars",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type recentParams struct {
	Tag   string `url:"tag,omitempty"`
	Count int    `url:"count,omitempty"`
}

type recentResponse struct {
	Posts []Post `json:"posts"`
}

// Recent returns up to count of the most recent bookmarks carrying tag,
// newest first.
func (c *Client) Recent(ctx context.Context, tag string, count int) ([]Post, error) {
	values, err := query.Values(recentParams{Tag: tag, Count: count})
	if err != nil {
		return nil, fmt.Errorf("encoding posts/recent params: %w", err)
	}

	status, body, err := c.get(ctx, "posts/recent", values)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &StatusError{Endpoint: "posts/recent", Status: status, Body: snippet(body)}
	}

	var resp recentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding posts/recent response: %w", err)
	}
	return resp.Posts, nil
}

type addResponse struct {
	ResultCode string `json:"result_code"`
}

// Add creates a bookmark. A 429 is reported through AddResult rather than as
// an error so the caller can back off.
func (c *Client) Add(ctx context.Context, req AddRequest) (AddResult, error) {
	values, err := query.Values(req)
	if err != nil {
		return AddResult{}, fmt.Errorf("encoding posts/add params: %w", err)
	}
	if req.Replace {
		values.Set("replace", "yes")
	} else {
		values.Set("replace", "no")
	}

	status, body, err := c.get(ctx, "posts/add", values)
	if err != nil {
		return AddResult{}, err
	}
	result := AddResult{Status: status}
	switch {
	case status == http.StatusTooManyRequests:
		var resp addResponse
		if json.Unmarshal(body, &resp) == nil {
			result.ResultCode = resp.ResultCode
		}
		return result, nil
	case status != http.StatusOK:
		return result, &StatusError{Endpoint: "posts/add", Status: status, Body: snippet(body)}
	}

	var resp addResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return result, fmt.Errorf("decoding posts/add response: %w", err)
	}
	result.ResultCode = resp.ResultCode
	return result, nil
}

func (c *Client) get(ctx context.Context, endpoint string, values url.Values) (int, []byte, error) {
	values.Set("auth_token", c.token)
	values.Set("format", "json")

	u := c.baseURL + "/" + endpoint + "?" + values.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("creating %s request: %w", endpoint, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The request URL carries the token; keep it out of the error.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return 0, nil, fmt.Errorf("Pinboard: %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading %s response: %w", endpoint, err)
	}
	return resp.StatusCode, body, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
