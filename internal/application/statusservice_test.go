package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/cistatus/internal/domain/model"
)

// fakeSource scripts the two feeds. Responses are consumed per call; the last
// one repeats once the script runs out.
type fakeSource struct {
	mu          sync.Mutex
	statusCalls int
	checkCalls  int
	statuses    [][]model.CommitStatus
	runs        [][]model.CheckRun
	statusErr   error
	checkErr    error
}

func (f *fakeSource) FetchCombinedStatus(context.Context, string, string, string) ([]model.CommitStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := f.statusCalls
	f.statusCalls++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	if len(f.statuses) == 0 {
		return nil, nil
	}
	if call >= len(f.statuses) {
		call = len(f.statuses) - 1
	}
	return f.statuses[call], nil
}

func (f *fakeSource) FetchCheckRuns(context.Context, string, string, string) ([]model.CheckRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := f.checkCalls
	f.checkCalls++
	if f.checkErr != nil {
		return nil, f.checkErr
	}
	if len(f.runs) == 0 {
		return nil, nil
	}
	if call >= len(f.runs) {
		call = len(f.runs) - 1
	}
	return f.runs[call], nil
}

func (f *fakeSource) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusCalls, f.checkCalls
}

var testProject = model.Project{Owner: "owner", Name: "repo"}

func TestFetch_NoWaitFetchesOnce(t *testing.T) {
	source := &fakeSource{
		statuses: [][]model.CommitStatus{{{Context: "ci/build", State: "pending"}}},
	}
	svc := NewStatusService(source)

	statuses, err := svc.Fetch(context.Background(), testProject, "abc123", FetchOptions{})

	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, model.StatePending, model.Overall(statuses))

	statusCalls, checkCalls := source.calls()
	assert.Equal(t, 1, statusCalls, "wait=0 performs exactly one status fetch even while pending")
	assert.Equal(t, 1, checkCalls, "wait=0 performs exactly one check-run fetch even while pending")
}

func TestFetch_StopsWhenNoLongerPending(t *testing.T) {
	source := &fakeSource{
		statuses: [][]model.CommitStatus{
			{{Context: "ci/build", State: "pending"}},
			{{Context: "ci/build", State: "success"}},
		},
	}
	svc := NewStatusService(source)

	statuses, err := svc.Fetch(context.Background(), testProject, "abc123", FetchOptions{
		Wait:     WaitForever,
		Interval: time.Millisecond,
	})

	require.NoError(t, err)
	assert.Equal(t, model.StateSuccess, model.Overall(statuses))

	statusCalls, _ := source.calls()
	assert.Equal(t, 2, statusCalls)
}

func TestFetch_BoundedWaitReturnsLastData(t *testing.T) {
	source := &fakeSource{
		statuses: [][]model.CommitStatus{{{Context: "ci/build", State: "pending"}}},
	}
	svc := NewStatusService(source)

	start := time.Now()
	statuses, err := svc.Fetch(context.Background(), testProject, "abc123", FetchOptions{
		Wait:     30 * time.Millisecond,
		Interval: 5 * time.Millisecond,
	})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, model.StatePending, model.Overall(statuses), "the last fetched data comes back once the budget elapses")
	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond, "the call terminates at or after the budget")

	statusCalls, _ := source.calls()
	assert.Greater(t, statusCalls, 1, "a bounded wait re-polls while pending")
}

func TestFetch_BudgetShorterThanInterval(t *testing.T) {
	source := &fakeSource{
		statuses: [][]model.CommitStatus{{{Context: "ci/build", State: "pending"}}},
	}
	svc := NewStatusService(source)

	start := time.Now()
	statuses, err := svc.Fetch(context.Background(), testProject, "abc123", FetchOptions{
		Wait:     20 * time.Millisecond,
		Interval: 200 * time.Millisecond,
	})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, model.StatePending, model.Overall(statuses))

	statusCalls, checkCalls := source.calls()
	assert.Equal(t, 1, statusCalls, "a poll scheduled past the budget is skipped")
	assert.Equal(t, 1, checkCalls)
	assert.Less(t, elapsed, 100*time.Millisecond, "the sleep is capped at the remaining budget, not a full interval")
}

func TestFetch_FeedErrorPropagates(t *testing.T) {
	source := &fakeSource{checkErr: errors.New("api: 401 Bad credentials")}
	svc := NewStatusService(source)

	_, err := svc.Fetch(context.Background(), testProject, "abc123", FetchOptions{})

	require.ErrorContains(t, err, "Bad credentials")
}

func TestFetch_DebugProgressLines(t *testing.T) {
	source := &fakeSource{
		statuses: [][]model.CommitStatus{
			{{Context: "ci/build", State: "pending"}},
			{{Context: "ci/build", State: "failure"}},
		},
	}
	svc := NewStatusService(source)

	var sink strings.Builder
	_, err := svc.Fetch(context.Background(), testProject, "abc123def456", FetchOptions{
		Wait:     WaitForever,
		Interval: time.Millisecond,
		Debug:    &sink,
	})

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(sink.String()), "\n")
	require.Len(t, lines, 2, "one progress line per polling iteration")
	assert.Contains(t, lines[0], "owner/repo@abc123d")
	assert.Contains(t, lines[0], "pending")
	assert.Contains(t, lines[1], "failure")
}

func TestFetch_ContextCancellation(t *testing.T) {
	source := &fakeSource{
		statuses: [][]model.CommitStatus{{{Context: "ci/build", State: "pending"}}},
	}
	svc := NewStatusService(source)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Fetch(ctx, testProject, "abc123", FetchOptions{
		Wait:     WaitForever,
		Interval: time.Hour,
	})

	require.ErrorIs(t, err, context.Canceled)
}

func TestFetch_MergesBothFeeds(t *testing.T) {
	source := &fakeSource{
		statuses: [][]model.CommitStatus{{{Context: "ci/legacy", State: "success", TargetURL: "https://ci.example.com/1"}}},
		runs: [][]model.CheckRun{{
			{Name: "build", Status: "completed", Conclusion: "failure", DetailsURL: "https://github.com/owner/repo/runs/1"},
		}},
	}
	svc := NewStatusService(source)

	statuses, err := svc.Fetch(context.Background(), testProject, "abc123", FetchOptions{})

	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, "ci/legacy", statuses[0].Context, "native statuses come first")
	assert.Equal(t, "build", statuses[1].Context)
	assert.Equal(t, model.StateFailure, model.Overall(statuses))
}
