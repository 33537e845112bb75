package application

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/cistatus/internal/domain/model"
	"github.com/ericfisherdev/cistatus/internal/domain/port/driven"
)

// WaitForever disables the wait budget: polling continues until the overall
// state leaves pending or the context is canceled.
const WaitForever = time.Duration(math.MaxInt64)

const defaultPollInterval = 5 * time.Second

// FetchOptions controls one Fetch call.
type FetchOptions struct {
	// Wait is the polling budget. Zero means a single fetch; WaitForever
	// means no time limit.
	Wait time.Duration
	// Interval is the spacing between polls. Zero or negative selects the
	// default of 5s.
	Interval time.Duration
	// Debug, when non-nil, receives one human-readable progress line per
	// polling iteration.
	Debug io.Writer
}

// StatusService retrieves a commit's CI state from the two forge feeds,
// optionally re-polling while work is still pending.
type StatusService struct {
	source driven.StatusSource
}

// NewStatusService creates a StatusService backed by the given feeds.
func NewStatusService(source driven.StatusSource) *StatusService {
	return &StatusService{source: source}
}

// Fetch retrieves both feeds for the commit at least once, then, while the
// aggregate state is pending and the wait budget allows, keeps re-fetching at
// the polling interval. The budget is checked against the wall clock before
// each re-fetch, the sleep is capped at the remaining budget, and a poll
// scheduled past the budget is skipped, so the call terminates at or shortly
// after the budget elapses regardless of how slow individual fetches are,
// returning the most recently retrieved records. Feed errors propagate
// immediately with no retry here.
func (s *StatusService) Fetch(ctx context.Context, project model.Project, sha string, opts FetchOptions) ([]model.Status, error) {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	start := time.Now()
	for {
		statuses, err := s.fetchOnce(ctx, project, sha)
		if err != nil {
			return nil, err
		}

		state := model.Overall(statuses)
		if opts.Debug != nil {
			fmt.Fprintf(opts.Debug, "%s@%.7s: %s (%d records, %s elapsed)\n",
				project, sha, displayState(state), len(statuses),
				time.Since(start).Round(time.Millisecond))
		}

		if opts.Wait == 0 || state != model.StatePending {
			return statuses, nil
		}
		if budgetExceeded(start, opts.Wait) {
			return statuses, nil
		}

		delay := interval
		if opts.Wait != WaitForever {
			if remaining := opts.Wait - time.Since(start); remaining < delay {
				delay = remaining
			}
		}
		select {
		case <-ctx.Done():
			return statuses, ctx.Err()
		case <-time.After(delay):
		}
		if budgetExceeded(start, opts.Wait) {
			return statuses, nil
		}
	}
}

// budgetExceeded reports whether the wall-clock budget has run out. It is
// evaluated both before and after the polling sleep so a budget that expires
// mid-sleep skips the next poll instead of firing it.
func budgetExceeded(start time.Time, wait time.Duration) bool {
	return wait != WaitForever && time.Since(start) >= wait
}

// fetchOnce retrieves the commit-status feed and the check-run feed
// concurrently and merges them.
func (s *StatusService) fetchOnce(ctx context.Context, project model.Project, sha string) ([]model.Status, error) {
	var (
		statuses []model.CommitStatus
		runs     []model.CheckRun
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fetched, err := s.source.FetchCombinedStatus(gctx, project.Owner, project.Name, sha)
		statuses = fetched
		return err
	})
	g.Go(func() error {
		fetched, err := s.source.FetchCheckRuns(gctx, project.Owner, project.Name, sha)
		runs = fetched
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return MergeStatuses(statuses, runs), nil
}

func displayState(state model.State) string {
	if state == model.StateNone {
		return "no status"
	}
	return string(state)
}
