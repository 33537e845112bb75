package model

import "time"

// CheckRun represents an individual CI/CD check run from the GitHub Checks API.
type CheckRun struct {
	ID          int64     // GitHub check run ID.
	Name        string    // Check run name (e.g., "build", "lint").
	Status      string    // queued, in_progress, completed, waiting, requested, pending.
	Conclusion  string    // success, failure, neutral, cancelled, skipped, timed_out, action_required.
	DetailsURL  string    // URL to the check run details page.
	StartedAt   time.Time // When the check run started.
	CompletedAt time.Time // When the check run completed (zero if not yet completed).
}

// CommitStatus represents an individual status entry from the GitHub Status API.
type CommitStatus struct {
	Context     string // CI service identifier (e.g., "ci/circleci").
	State       string // success, failure, pending, error.
	Description string // Human-readable description of the status.
	TargetURL   string // URL for more details on the status.
}

// Status is the normalized shape both feeds reduce to: native commit statuses
// map field for field, check runs are synthesized (pending until completed,
// then the run's conclusion).
type Status struct {
	State     string
	Context   string
	TargetURL string
}
