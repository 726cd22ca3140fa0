package starsync

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/stahnma/gh-pinstars/internal/cache"
	"github.com/stahnma/gh-pinstars/internal/github"
	"github.com/stahnma/gh-pinstars/internal/logging"
)

var errUnexpectedStatus = errors.New("unexpected status")

// Pager is a lazy sequence of starred-listing pages.
type Pager interface {
	Next(ctx context.Context) bool
	Page() github.Page
	Err() error
}

// PagerFactory opens a pager over the listing in the given direction.
type PagerFactory func(direction github.Direction) Pager

// BookmarkPublisher publishes a single repository. DryRun reports whether
// publishing only previews.
type BookmarkPublisher interface {
	Publish(ctx context.Context, repo github.StarredRepo) (Outcome, error)
	DryRun() bool
}

// Summary describes one run.
type Summary struct {
	Direction     github.Direction `json:"direction"`
	DryRun        bool             `json:"dry_run,omitempty"`
	Target        string           `json:"target,omitempty"`
	Pages         int              `json:"pages"`
	Published     int              `json:"published"`
	Warned        int              `json:"warned"`
	Previewed     int              `json:"previewed,omitempty"`
	Skipped       int              `json:"skipped"`
	BoundaryFound bool             `json:"boundary_found"`
	StartedAt     time.Time        `json:"started_at"`
	FinishedAt    time.Time        `json:"finished_at"`
	Error         string           `json:"error,omitempty"`
}

// Syncer runs the incremental import.
type Syncer struct {
	resolver  *CursorResolver
	pagers    PagerFactory
	publisher BookmarkPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewSyncer wires the run pipeline.
func NewSyncer(resolver *CursorResolver, pagers PagerFactory, publisher BookmarkPublisher, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Syncer{
		resolver:  resolver,
		pagers:    pagers,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Run performs one sync. On a fatal error it stops publishing and returns
// the error along with what was done so far.
func (s *Syncer) Run(ctx context.Context) (sum Summary, err error) {
	sum.StartedAt = s.now()
	sum.DryRun = s.publisher.DryRun()
	defer func() {
		sum.FinishedAt = s.now()
		if err != nil {
			sum.Error = err.Error()
		}
	}()

	cursor, err := s.resolver.Resolve(ctx)
	if err != nil {
		return sum, err
	}
	sum.Direction, sum.Target = cursor.Direction, cursor.Target
	if cursor.FirstRun() {
		s.logger.Info("Pinboard: no imported stars yet, importing all", slog.String("direction", string(cursor.Direction)))
	} else {
		s.logger.Info("Pinboard: resuming after most recent bookmark", slog.String("target", cursor.Target))
	}

	s.logger.Info("GitHub: getting starred repos")
	seen := cache.NewSeen()
	pager := s.pagers(cursor.Direction)
	for pager.Next(ctx) {
		page := pager.Page()
		sum.Pages++
		if page.Status < http.StatusOK || page.Status >= http.StatusMultipleChoices {
			return sum, &github.StatusError{Page: page.Number, Status: page.Status, Err: errUnexpectedStatus}
		}
		s.logger.Debug("GitHub: fetched page", slog.Int("page", page.Number), slog.Int("repos", len(page.Repos)))

		repos, found := page.Repos, false
		if cursor.Target != "" {
			repos, found = Filter(page.Repos, cursor.Target)
		}

		for _, repo := range repos {
			if !seen.Add(repo.FullName) {
				s.logger.Debug("skipping repo already handled this run", slog.String("repo", repo.FullName))
				sum.Skipped++
				continue
			}
			outcome, pubErr := s.publisher.Publish(ctx, repo)
			switch outcome {
			case Published:
				sum.Published++
			case Warned:
				sum.Warned++
			case Previewed:
				sum.Previewed++
			}
			if pubErr != nil {
				return sum, pubErr
			}
		}

		if found {
			sum.BoundaryFound = true
			s.logger.Debug("reached most recent bookmark", slog.Int("page", page.Number))
			return sum, nil
		}
	}
	return sum, pager.Err()
}
