package starsync

import (
	"context"
	"net/http"
	"strings"
	"time"

	gh "github.com/google/go-github/v68/github"
	"github.com/stahnma/gh-pinstars/internal/github"
	"github.com/stahnma/gh-pinstars/internal/pinboard"
)

// fakeStore is an in-memory bookmark store. posts is kept newest first.
type fakeStore struct {
	posts   []pinboard.Post
	added   []pinboard.AddRequest
	results []pinboard.AddResult // scripted posts/add answers, then "done"

	recentErr error
	addErr    error
}

func (f *fakeStore) Recent(_ context.Context, tag string, count int) ([]pinboard.Post, error) {
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	var out []pinboard.Post
	for _, p := range f.posts {
		if len(out) == count {
			break
		}
		if strings.Contains(" "+p.Tags+" ", " "+tag+" ") {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) Add(_ context.Context, req pinboard.AddRequest) (pinboard.AddResult, error) {
	if f.addErr != nil {
		return pinboard.AddResult{}, f.addErr
	}
	f.added = append(f.added, req)
	res := pinboard.AddResult{Status: http.StatusOK, ResultCode: pinboard.ResultDone}
	if len(f.results) > 0 {
		res, f.results = f.results[0], f.results[1:]
	} else if f.has(req.URL) && !req.Replace {
		res.ResultCode = "item already exists"
	}
	if res.Done() {
		f.posts = append([]pinboard.Post{{
			Href:        req.URL,
			Description: req.Description,
			Extended:    req.Extended,
			Tags:        req.Tags,
		}}, f.posts...)
	}
	return res, nil
}

func (f *fakeStore) has(url string) bool {
	for _, p := range f.posts {
		if p.Href == url {
			return true
		}
	}
	return false
}

func (f *fakeStore) addedNames() []string {
	names := make([]string, 0, len(f.added))
	for _, a := range f.added {
		names = append(names, a.Description)
	}
	return names
}

// fakeGitHub serves stars (oldest first) through the Client interface.
type fakeGitHub struct {
	stars    []string
	perPage  int
	requests []int
	failPage int
}

func (f *fakeGitHub) ListStarred(_ context.Context, opts *gh.ActivityListStarredOptions) ([]*gh.StarredRepository, *gh.Response, error) {
	page := opts.Page
	f.requests = append(f.requests, page)
	if page == f.failPage {
		resp := &http.Response{StatusCode: http.StatusBadGateway, Header: http.Header{}}
		return nil, &gh.Response{Response: resp}, &gh.ErrorResponse{Response: resp, Message: "bad gateway"}
	}

	ordered := append([]string(nil), f.stars...)
	if opts.Direction == string(github.Descending) {
		for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		}
	}

	last := (len(ordered) + f.perPage - 1) / f.perPage
	if last == 0 {
		last = 1
	}
	start := (page - 1) * f.perPage
	end := min(start+f.perPage, len(ordered))

	var repos []*gh.StarredRepository
	for _, name := range ordered[start:end] {
		repos = append(repos, &gh.StarredRepository{Repository: &gh.Repository{
			FullName: gh.Ptr(name),
			HTMLURL:  gh.Ptr("https://github.com/" + name),
			Language: gh.Ptr("Go"),
		}})
	}

	resp := &gh.Response{Response: &http.Response{StatusCode: http.StatusOK, Header: http.Header{}}}
	if page < last {
		resp.NextPage, resp.LastPage = page+1, last
	}
	return repos, resp, nil
}

// sleepRecorder stands in for Publisher.Sleep.
type sleepRecorder struct {
	waits []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return nil
}

func newTestSyncer(store *fakeStore, hub *fakeGitHub) *Syncer {
	pub := NewPublisher(store, PublisherConfig{Interval: time.Millisecond}, nil)
	pub.Sleep = (&sleepRecorder{}).sleep
	pagers := func(d github.Direction) Pager {
		return github.NewStarPager(hub, d, hub.perPage)
	}
	return NewSyncer(NewCursorResolver(store, DefaultMarkerTag), pagers, pub, nil)
}
