package starsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/stahnma/gh-pinstars/internal/github"
	"github.com/stahnma/gh-pinstars/internal/logging"
	"github.com/stahnma/gh-pinstars/internal/pinboard"
)

const (
	// DefaultMarkerTag is applied to every imported bookmark.
	DefaultMarkerTag = "github-star"
	// DefaultInterval is the pause after each publish and the backoff unit.
	DefaultInterval = 3 * time.Second
	// DefaultMaxRetries bounds the retries of a rate-limited publish.
	DefaultMaxRetries = 10
)

// ErrRetriesExhausted is returned when the store keeps rate-limiting a
// publish past the retry limit.
var ErrRetriesExhausted = errors.New("rate-limit retries exhausted")

// ResultError is a non-"done" result code on a retried publish.
type ResultError struct {
	Repo     string
	Code     string
	Attempts int
}

func (e *ResultError) Error() string {
	return fmt.Sprintf("Pinboard: %s: %s (after %d retries)", e.Repo, e.Code, e.Attempts)
}

// Adder is the part of the bookmark store the publisher writes to.
type Adder interface {
	Add(ctx context.Context, req pinboard.AddRequest) (pinboard.AddResult, error)
}

// Outcome is what happened to one repository.
type Outcome int

const (
	Failed Outcome = iota
	Published
	Warned
	Previewed
)

func (o Outcome) String() string {
	switch o {
	case Published:
		return "published"
	case Warned:
		return "warned"
	case Previewed:
		return "previewed"
	}
	return "failed"
}

// PublisherConfig tunes a Publisher. Zero values take the defaults; a
// negative MaxRetries disables retrying.
type PublisherConfig struct {
	MarkerTag  string
	Interval   time.Duration
	MaxRetries int
	DryRun     bool
}

// Publisher turns starred repositories into bookmarks.
type Publisher struct {
	store      Adder
	tag        string
	interval   time.Duration
	maxRetries int
	dryRun     bool
	logger     *slog.Logger

	// Sleep waits between attempts. Replaced in tests.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewPublisher creates a Publisher writing to store.
func NewPublisher(store Adder, cfg PublisherConfig, logger *slog.Logger) *Publisher {
	if cfg.MarkerTag == "" {
		cfg.MarkerTag = DefaultMarkerTag
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	switch {
	case cfg.MaxRetries == 0:
		cfg.MaxRetries = DefaultMaxRetries
	case cfg.MaxRetries < 0:
		cfg.MaxRetries = 0
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Publisher{
		store:      store,
		tag:        cfg.MarkerTag,
		interval:   cfg.Interval,
		maxRetries: cfg.MaxRetries,
		dryRun:     cfg.DryRun,
		logger:     logger,
		Sleep:      sleepContext,
	}
}

// DryRun reports whether Publish only previews bookmarks.
func (p *Publisher) DryRun() bool {
	return p.dryRun
}

// BookmarkFor maps a starred repository to a posts/add request.
func BookmarkFor(repo github.StarredRepo, tag string) pinboard.AddRequest {
	extended := repo.Description
	if repo.Homepage != "" {
		if extended != "" {
			extended += "\n\n"
		}
		extended += "Project homepage: " + repo.Homepage
	}
	tags := tag
	if repo.Language != "" {
		tags += " " + strings.ToLower(repo.Language)
	}
	return pinboard.AddRequest{
		URL:         repo.HTMLURL,
		Description: repo.FullName,
		Extended:    extended,
		Tags:        tags,
		Replace:     false,
	}
}

// Publish creates the bookmark for repo. A rate-limited request is retried
// with a linearly growing wait; running out of retries, or a non-"done"
// result on a retry, is fatal. A non-"done" result on the first attempt is
// only logged. Every published or warned repository is followed by a pause.
func (p *Publisher) Publish(ctx context.Context, repo github.StarredRepo) (Outcome, error) {
	req := BookmarkFor(repo, p.tag)
	log := p.logger.With(slog.String("repo", repo.FullName))

	if p.dryRun {
		log.Info("Pinboard: would add bookmark", slog.String("url", req.URL), slog.String("tags", req.Tags))
		return Previewed, nil
	}

	log.Info("Pinboard: adding bookmark")
	step := retryStep{state: stateIdle}
	var res pinboard.AddResult
	for {
		switch step.state {
		case stateIdle, stateRetrying:
			if step.state == stateRetrying {
				log.Warn("Pinboard: rate-limited, retrying", slog.Int("attempt", step.attempt))
				if err := p.Sleep(ctx, p.interval*time.Duration(step.attempt)); err != nil {
					return Failed, err
				}
			}
			var err error
			res, err = p.store.Add(ctx, req)
			if err != nil {
				return Failed, fmt.Errorf("adding %s: %w", repo.FullName, err)
			}
			step = step.next(res, p.maxRetries)

		case stateSucceeded:
			return Published, p.Sleep(ctx, p.interval)

		case stateWarned:
			log.Warn("Pinboard: bookmark not added", slog.String("result_code", res.ResultCode))
			return Warned, p.Sleep(ctx, p.interval)

		case stateExhausted:
			return Failed, fmt.Errorf("Pinboard: %s: %w after %d retries", repo.FullName, ErrRetriesExhausted, step.attempt)

		case stateRejected:
			return Failed, &ResultError{Repo: repo.FullName, Code: res.ResultCode, Attempts: step.attempt}
		}
	}
}

type retryState int

const (
	stateIdle retryState = iota
	stateRetrying
	stateSucceeded
	stateWarned
	stateExhausted
	stateRejected
)

// retryStep is a position in the publish state machine. attempt counts the
// retries made so far.
type retryStep struct {
	state   retryState
	attempt int
}

// next folds the result of the call made in s into the following step.
func (s retryStep) next(res pinboard.AddResult, maxRetries int) retryStep {
	switch s.state {
	case stateIdle:
		switch {
		case res.RateLimited() && maxRetries == 0:
			return retryStep{state: stateExhausted}
		case res.RateLimited():
			return retryStep{state: stateRetrying, attempt: 1}
		case res.Done():
			return retryStep{state: stateSucceeded}
		}
		return retryStep{state: stateWarned}

	case stateRetrying:
		switch {
		case res.RateLimited() && s.attempt >= maxRetries:
			return retryStep{state: stateExhausted, attempt: s.attempt}
		case res.RateLimited():
			return retryStep{state: stateRetrying, attempt: s.attempt + 1}
		case res.Done():
			return retryStep{state: stateSucceeded, attempt: s.attempt}
		}
		return retryStep{state: stateRejected, attempt: s.attempt}
	}
	return s
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
