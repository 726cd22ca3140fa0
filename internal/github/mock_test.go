package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	gh "github.com/google/go-github/v68/github"
)

// mockClient implements Client for testing.
type mockClient struct {
	listStarredFn func(ctx context.Context, opts *gh.ActivityListStarredOptions) ([]*gh.StarredRepository, *gh.Response, error)
}

func (m *mockClient) ListStarred(ctx context.Context, opts *gh.ActivityListStarredOptions) ([]*gh.StarredRepository, *gh.Response, error) {
	return m.listStarredFn(ctx, opts)
}

// pageResponse returns a 200 response advertising next and last pages the
// way go-github fills them in. A zero next means no continuation.
func pageResponse(next, last int) *gh.Response {
	resp := &gh.Response{
		Response: &http.Response{StatusCode: http.StatusOK, Header: http.Header{}},
	}
	if next > 0 {
		resp.NextPage, resp.LastPage = next, last
	}
	return resp
}

// linkHeader renders a Link header with the given rel/page pairs.
func linkHeader(base string, rels ...any) string {
	parts := make([]string, 0, len(rels)/2)
	for i := 0; i+1 < len(rels); i += 2 {
		parts = append(parts, fmt.Sprintf(`<%s/user/starred?page=%d>; rel="%s"`, base, rels[i+1], rels[i]))
	}
	return strings.Join(parts, ", ")
}

// makeStarred builds a StarredRepository for the given full name.
func makeStarred(fullName string) *gh.StarredRepository {
	return &gh.StarredRepository{
		Repository: &gh.Repository{
			FullName: gh.Ptr(fullName),
			HTMLURL:  gh.Ptr("https://github.com/" + fullName),
		},
	}
}
