package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v68/github"
)

// DefaultPerPage matches the GitHub API default page size.
const DefaultPerPage = 30

// StatusError is returned when the starred listing answers with a
// non-success status.
type StatusError struct {
	Page   int
	Status int
	Err    error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GitHub: page %d: status %d: %v", e.Page, e.Status, e.Err)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// StarPager walks the starred listing one page at a time. Pages are fetched
// on demand by Next and never refetched; a StarPager cannot be restarted.
//
//	for pager.Next(ctx) {
//		page := pager.Page()
//		...
//	}
//	if err := pager.Err(); err != nil { ... }
type StarPager struct {
	client    Client
	direction Direction
	perPage   int

	page int
	last int
	done bool

	current Page
	err     error
}

// NewStarPager creates a pager over the starred listing in the given direction.
func NewStarPager(client Client, direction Direction, perPage int) *StarPager {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return &StarPager{
		client:    client,
		direction: direction,
		perPage:   perPage,
		page:      1,
		last:      1,
	}
}

// Next fetches the next page. It returns false once the listing is exhausted
// or a fetch failed; Err distinguishes the two.
func (p *StarPager) Next(ctx context.Context) bool {
	if p.done || p.page > p.last {
		p.done = true
		return false
	}

	opts := &gh.ActivityListStarredOptions{
		Sort:        "created",
		Direction:   string(p.direction),
		ListOptions: gh.ListOptions{Page: p.page, PerPage: p.perPage},
	}
	starred, resp, err := p.client.ListStarred(ctx, opts)
	if err != nil {
		p.done = true
		p.err = pageError(p.page, resp, err)
		return false
	}

	status := http.StatusOK
	if resp != nil && resp.Response != nil {
		status = resp.StatusCode
	}

	repos := make([]StarredRepo, 0, len(starred))
	for _, s := range starred {
		repos = append(repos, fromStarred(s))
	}
	p.current = Page{Number: p.page, Status: status, Repos: repos}

	next, last, ok := ParseContinuation(resp)
	if !ok || next <= p.page {
		p.done = true
	} else {
		p.page, p.last = next, last
	}
	return true
}

// Page returns the page fetched by the last successful call to Next.
func (p *StarPager) Page() Page {
	return p.current
}

// Err returns the error that ended the iteration, if any.
func (p *StarPager) Err() error {
	return p.err
}

func pageError(page int, resp *gh.Response, err error) error {
	var errResp *gh.ErrorResponse
	switch {
	case resp != nil && resp.Response != nil:
		return &StatusError{Page: page, Status: resp.StatusCode, Err: err}
	case errors.As(err, &errResp) && errResp.Response != nil:
		return &StatusError{Page: page, Status: errResp.Response.StatusCode, Err: err}
	}
	return fmt.Errorf("GitHub: fetching page %d: %w", page, err)
}
