package driven

import "context"

// LocalRepository defines the driven port for the locally checked-out
// repository. Implementations take a read-only snapshot per call; nothing is
// cached between calls.
type LocalRepository interface {
	// ConfigSnapshot returns the local config as a flat multimap of
	// "section.subsection.key" to every value the key carries, preserving
	// duplicates so callers can detect corrupted config.
	ConfigSnapshot(ctx context.Context) (map[string][]string, error)
	// CurrentBranch returns the checked-out branch name. It fails on a
	// detached or unborn HEAD.
	CurrentBranch(ctx context.Context) (string, error)
	// ResolveCommit resolves any committish (branch, tag, SHA prefix) to a
	// full commit SHA.
	ResolveCommit(ctx context.Context, ref string) (string, error)
}
