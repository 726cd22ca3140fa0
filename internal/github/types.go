package github

import (
	"strings"

	gh "github.com/google/go-github/v68/github"
)

// Direction is the star-date ordering of the starred listing.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// StarredRepo is the subset of a starred repository that gets bookmarked.
type StarredRepo struct {
	FullName    string
	HTMLURL     string
	Description string
	Homepage    string
	Language    string
}

// Matches reports whether name identifies r, ignoring case.
func (r StarredRepo) Matches(name string) bool {
	return strings.EqualFold(r.FullName, name)
}

// Page is one batch of the starred listing.
type Page struct {
	Number int
	Status int
	Repos  []StarredRepo
}

func fromStarred(s *gh.StarredRepository) StarredRepo {
	repo := s.GetRepository()
	return StarredRepo{
		FullName:    repo.GetFullName(),
		HTMLURL:     repo.GetHTMLURL(),
		Description: repo.GetDescription(),
		Homepage:    repo.GetHomepage(),
		Language:    repo.GetLanguage(),
	}
}
