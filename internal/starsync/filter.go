package starsync

import "github.com/stahnma/gh-pinstars/internal/github"

// Filter cuts repos at the first entry matching target (ignoring case). It
// returns the entries before the match and true, or repos unchanged and
// false when target is absent.
func Filter(repos []github.StarredRepo, target string) ([]github.StarredRepo, bool) {
	for i, repo := range repos {
		if repo.Matches(target) {
			return repos[:i], true
		}
	}
	return repos, false
}
