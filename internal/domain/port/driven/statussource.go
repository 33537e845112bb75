package driven

import (
	"context"

	"github.com/ericfisherdev/cistatus/internal/domain/model"
)

// StatusSource defines the driven port for the forge's two CI feeds. Both
// methods fetch a point-in-time snapshot for one commit; neither retries on
// failure (rate-limit and caching policy live in the HTTP transport stack).
type StatusSource interface {
	// FetchCombinedStatus returns the individual commit statuses for the
	// given ref (commit SHA, branch, or tag).
	FetchCombinedStatus(ctx context.Context, owner, repo, ref string) ([]model.CommitStatus, error)
	// FetchCheckRuns returns all check runs for the given ref.
	FetchCheckRuns(ctx context.Context, owner, repo, ref string) ([]model.CheckRun, error)
}
