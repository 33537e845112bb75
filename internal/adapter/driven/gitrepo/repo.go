// Package gitrepo implements the LocalRepository port using go-git, so no
// git binary is required at runtime.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/ericfisherdev/cistatus/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.LocalRepository = (*Repository)(nil)

// Repository reads config, HEAD, and revisions from a local checkout.
type Repository struct {
	repo *git.Repository
}

// Open opens the repository containing path, walking up parent directories
// the way git itself discovers a work tree.
func Open(path string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening git repository at %s: %w", path, err)
	}
	return &Repository{repo: repo}, nil
}

// ConfigSnapshot flattens the local config into "section.subsection.key"
// keys. Section and key names are lowercased (git treats them as
// case-insensitive); subsection names keep their case. Repeated keys keep
// every value, in file order, so callers can detect duplicated entries.
func (r *Repository) ConfigSnapshot(_ context.Context) (map[string][]string, error) {
	cfg, err := r.repo.Config()
	if err != nil {
		return nil, fmt.Errorf("reading repository config: %w", err)
	}

	snapshot := make(map[string][]string)
	for _, section := range cfg.Raw.Sections {
		sectionName := strings.ToLower(section.Name)
		for _, opt := range section.Options {
			key := sectionName + "." + strings.ToLower(opt.Key)
			snapshot[key] = append(snapshot[key], opt.Value)
		}
		for _, sub := range section.Subsections {
			for _, opt := range sub.Options {
				key := sectionName + "." + sub.Name + "." + strings.ToLower(opt.Key)
				snapshot[key] = append(snapshot[key], opt.Value)
			}
		}
	}
	return snapshot, nil
}

// CurrentBranch returns the checked-out branch's short name. Detached and
// unborn HEADs are errors; callers treat them as "no branch known".
func (r *Repository) CurrentBranch(_ context.Context) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("reading HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", errors.New("HEAD is detached")
	}
	return head.Name().Short(), nil
}

// ResolveCommit resolves any committish to its full SHA.
func (r *Repository) ResolveCommit(_ context.Context, ref string) (string, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return "", fmt.Errorf("resolving %q: %w", ref, err)
	}
	return hash.String(), nil
}
