package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/cistatus/internal/domain/model"
	"github.com/ericfisherdev/cistatus/internal/domain/port/driven"
)

// ErrUnknownProject is returned when no configured remote resolves to a
// hosted project on the recognized host.
var ErrUnknownProject = errors.New("no GitHub remote URLs found in git config")

// Identifier resolves which hosted project the local checkout belongs to.
type Identifier struct {
	repo    driven.LocalRepository
	altHost string
}

// NewIdentifier creates an Identifier. altHost is the optional alternate
// canonical host from the environment; empty means none.
func NewIdentifier(repo driven.LocalRepository, altHost string) *Identifier {
	return &Identifier{repo: repo, altHost: altHost}
}

// Project returns the hosted project the checkout belongs to. The branch
// lookup and the config read run concurrently; a failed branch lookup is
// treated as "no branch checked out" and only logged, while a failed config
// read is fatal. The first remote candidate in trial order wins.
func (i *Identifier) Project(ctx context.Context) (model.Project, error) {
	var (
		branch string
		cfg    map[string][]string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := i.repo.CurrentBranch(gctx)
		if err != nil {
			slog.Debug("current branch lookup failed", "error", err)
			return nil
		}
		branch = b
		return nil
	})
	g.Go(func() error {
		c, err := i.repo.ConfigSnapshot(gctx)
		if err != nil {
			return fmt.Errorf("reading git config: %w", err)
		}
		cfg = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.Project{}, err
	}

	branchRemote := ""
	if branch != "" {
		if values := cfg["branch."+branch+".remote"]; len(values) > 0 {
			branchRemote = values[len(values)-1]
		} else {
			slog.Debug("branch has no configured remote", "branch", branch)
		}
	}

	candidates, err := ResolveRemotes(cfg, branchRemote, i.altHost)
	if err != nil {
		return model.Project{}, err
	}
	if len(candidates) == 0 {
		return model.Project{}, ErrUnknownProject
	}
	return candidates[0], nil
}
