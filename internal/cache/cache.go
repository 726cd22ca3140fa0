package cache

import (
	"strings"

	gocache "github.com/patrickmn/go-cache"
)

// Seen records repository names handled during a single run. Entries never
// expire and nothing is written to disk; a new run starts from an empty set.
type Seen struct {
	inner *gocache.Cache
}

// NewSeen creates an empty set.
func NewSeen() *Seen {
	return &Seen{inner: gocache.New(gocache.NoExpiration, 0)}
}

// Add records name and reports whether it was new. Names compare
// case-insensitively.
func (s *Seen) Add(name string) bool {
	return s.inner.Add(key(name), struct{}{}, gocache.NoExpiration) == nil
}

func key(name string) string {
	return strings.ToLower(name)
}
