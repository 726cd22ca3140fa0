package github

import gh "github.com/google/go-github/v68/github"

// ParseContinuation reports the next and last page numbers go-github read
// from the response's Link header. ok is false unless both are present,
// which means the current page is the final one.
func ParseContinuation(resp *gh.Response) (next, last int, ok bool) {
	if resp == nil || resp.NextPage == 0 || resp.LastPage == 0 {
		return 0, 0, false
	}
	return resp.NextPage, resp.LastPage, true
}
