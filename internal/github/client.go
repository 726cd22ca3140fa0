package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

// Client defines the GitHub API methods used by this application.
type Client interface {
	ListStarred(ctx context.Context, opts *gh.ActivityListStarredOptions) ([]*gh.StarredRepository, *gh.Response, error)
}

// realClient wraps the go-github client to implement Client.
type realClient struct {
	inner *gh.Client
}

// NewClient creates a GitHub API client authenticated with the given token.
// The user name is sent as the User-Agent. An empty baseURL keeps the public
// API endpoint.
func NewClient(token, user, baseURL string) (Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), ts)
	inner := gh.NewClient(httpClient)
	if user != "" {
		inner.UserAgent = user
	}
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("parsing GitHub base URL: %w", err)
		}
		inner.BaseURL = u
	}
	return &realClient{inner: inner}, nil
}

// ListStarred lists the authenticated user's starred repositories.
func (c *realClient) ListStarred(ctx context.Context, opts *gh.ActivityListStarredOptions) ([]*gh.StarredRepository, *gh.Response, error) {
	return c.inner.Activity.ListStarred(ctx, "", opts)
}
