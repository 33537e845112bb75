package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/cistatus/internal/domain/model"
)

func TestMergeStatuses_CheckRunSynthesis(t *testing.T) {
	runs := []model.CheckRun{
		{Name: "build", Status: "completed", Conclusion: "success", DetailsURL: "https://github.com/o/r/runs/1"},
		{Name: "lint", Status: "in_progress", DetailsURL: "https://github.com/o/r/runs/2"},
		{Name: "deploy", Status: "queued"},
	}

	merged := MergeStatuses(nil, runs)

	require.Len(t, merged, 3)
	assert.Equal(t, model.Status{State: "success", Context: "build", TargetURL: "https://github.com/o/r/runs/1"}, merged[0])
	assert.Equal(t, "pending", merged[1].State, "an incomplete run counts as pending")
	assert.Equal(t, "pending", merged[2].State)
}

func TestMergeStatuses_NativeStatusesPassThrough(t *testing.T) {
	statuses := []model.CommitStatus{
		{Context: "ci/circleci", State: "failure", TargetURL: "https://ci.example.com/42", Description: "tests failed"},
	}

	merged := MergeStatuses(statuses, nil)

	require.Len(t, merged, 1)
	assert.Equal(t, model.Status{State: "failure", Context: "ci/circleci", TargetURL: "https://ci.example.com/42"}, merged[0])
}

func TestMergeStatuses_Empty(t *testing.T) {
	assert.Empty(t, MergeStatuses(nil, nil))
}

func TestOverall_HighestSeverityWins(t *testing.T) {
	statuses := []model.Status{
		{State: "success"},
		{State: "pending"},
		{State: "failure"},
	}

	state := model.Overall(statuses)

	assert.Equal(t, model.StateFailure, state)
	assert.Equal(t, 1, state.ExitCode())
}

func TestOverall_SeverityScale(t *testing.T) {
	ordered := []model.State{
		model.StateNeutral,
		model.StateSuccess,
		model.StatePending,
		model.StateCancelled,
		model.StateTimedOut,
		model.StateActionRequired,
		model.StateFailure,
		model.StateError,
	}
	for i, lower := range ordered[:len(ordered)-1] {
		higher := ordered[i+1]
		got := model.Overall([]model.Status{{State: string(lower)}, {State: string(higher)}})
		assert.Equal(t, higher, got, "%s outranks %s", higher, lower)
	}
}

func TestOverall_Empty(t *testing.T) {
	state := model.Overall(nil)

	assert.Equal(t, model.StateNone, state)
	assert.Equal(t, 3, state.ExitCode())
}

func TestOverall_UnrecognizedStatesRankLowest(t *testing.T) {
	state := model.Overall([]model.Status{{State: "skipped"}, {State: "neutral"}})
	assert.Equal(t, model.StateNeutral, state)

	state = model.Overall([]model.Status{{State: "skipped"}})
	assert.Equal(t, model.State("skipped"), state)
	assert.Equal(t, 3, state.ExitCode(), "an unrecognized overall state maps to the no-status exit code")
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		state model.State
		code  int
	}{
		{model.StateNeutral, 0},
		{model.StateSuccess, 0},
		{model.StateCancelled, 1},
		{model.StateTimedOut, 1},
		{model.StateActionRequired, 1},
		{model.StateFailure, 1},
		{model.StateError, 1},
		{model.StatePending, 2},
		{model.StateNone, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.state.ExitCode(), "state %q", tt.state)
	}
}
