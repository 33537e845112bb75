// Package application contains use-case orchestration services.
package application

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/ericfisherdev/cistatus/internal/domain/model"
	"github.com/ericfisherdev/cistatus/internal/giturl"
)

// CanonicalHost is the hostname whose projects this tool resolves. Subdomains
// of it are accepted too, as is one alternate host supplied via GITHUB_HOST.
const CanonicalHost = "github.com"

// remotePreference orders well-known remote names ahead of everything else
// when the current branch doesn't pin a remote.
var remotePreference = []string{"upstream", "github", "origin"}

// DuplicateRemoteError reports two remote-url config entries colliding on the
// same remote name and URL kind. This is corrupted config input and is never
// silently resolved.
type DuplicateRemoteError struct {
	Name string
	Push bool
}

func (e *DuplicateRemoteError) Error() string {
	key := fmt.Sprintf("remote.%s.url", e.Name)
	if e.Push {
		key = fmt.Sprintf("remote.%s.pushurl", e.Name)
	}
	return fmt.Sprintf("git config contains multiple values for %s", key)
}

// ResolveRemotes turns a flat config snapshot into the ordered list of hosted
// projects to try. Trial order: the current branch's remote first, then the
// preference list, then remaining remotes by name, with a remote's push URL
// tried before its fetch URL. Remotes whose URL fails to parse, points at a
// foreign host, or doesn't carry an "/owner/repo" path are skipped and logged.
// Value-equal duplicates are preserved; resolution stops at the first success
// anyway.
func ResolveRemotes(cfg map[string][]string, branchRemote, altHost string) ([]model.Project, error) {
	entries, err := collectRemoteEntries(cfg)
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return remoteLess(entries[i], entries[j], branchRemote)
	})

	var projects []model.Project
	for _, e := range entries {
		u, err := giturl.Parse(e.URL)
		if err != nil {
			slog.Debug("skipping unparseable remote URL", "remote", e.Name, "url", e.URL, "error", err)
			continue
		}
		if !hostMatches(u.Hostname, altHost) {
			slog.Debug("skipping remote on foreign host", "remote", e.Name, "host", u.Hostname)
			continue
		}
		project, ok := projectFromPath(u.Path)
		if !ok {
			slog.Debug("skipping remote URL without owner/repo path", "remote", e.Name, "path", u.Path)
			continue
		}
		projects = append(projects, project)
	}
	return projects, nil
}

// collectRemoteEntries extracts every remote.<name>.url and
// remote.<name>.pushurl key from the snapshot, failing on duplicates.
func collectRemoteEntries(cfg map[string][]string) ([]model.RemoteEntry, error) {
	var entries []model.RemoteEntry
	for key, values := range cfg {
		name, push, ok := splitRemoteKey(key)
		if !ok {
			continue
		}
		if len(values) > 1 {
			return nil, &DuplicateRemoteError{Name: name, Push: push}
		}
		entries = append(entries, model.RemoteEntry{Name: name, Push: push, URL: values[0]})
	}
	return entries, nil
}

// splitRemoteKey parses "remote.<name>.url" or "remote.<name>.pushurl",
// tolerating dots inside the remote name.
func splitRemoteKey(key string) (name string, push bool, ok bool) {
	rest, found := strings.CutPrefix(key, "remote.")
	if !found {
		return "", false, false
	}
	if name, found = strings.CutSuffix(rest, ".pushurl"); found && name != "" {
		return name, true, true
	}
	if name, found = strings.CutSuffix(rest, ".url"); found && name != "" {
		return name, false, true
	}
	return "", false, false
}

// remoteLess is the single multi-key comparator over remote entries: branch
// remote, then preference list position, then name, then push before fetch.
func remoteLess(a, b model.RemoteEntry, branchRemote string) bool {
	if branchRemote != "" && a.Name != b.Name {
		if a.Name == branchRemote {
			return true
		}
		if b.Name == branchRemote {
			return false
		}
	}
	if pa, pb := preferenceIndex(a.Name), preferenceIndex(b.Name); pa != pb {
		return pa < pb
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.Push && !b.Push
}

func preferenceIndex(name string) int {
	for i, preferred := range remotePreference {
		if name == preferred {
			return i
		}
	}
	return len(remotePreference)
}

// hostMatches accepts the canonical host, the operator-supplied alternate
// host, and subdomains of the canonical host.
func hostMatches(hostname, altHost string) bool {
	if hostname == CanonicalHost {
		return true
	}
	if altHost != "" && hostname == altHost {
		return true
	}
	return strings.HasSuffix(hostname, "."+CanonicalHost)
}

// projectFromPath requires the path to be exactly "/owner/repo", with both
// segments non-empty once a trailing ".git" is stripped from the repo.
func projectFromPath(path string) (model.Project, bool) {
	segments := strings.Split(path, "/")
	if len(segments) != 3 || segments[0] != "" {
		return model.Project{}, false
	}
	owner := segments[1]
	repo := strings.TrimSuffix(segments[2], ".git")
	if owner == "" || repo == "" {
		return model.Project{}, false
	}
	return model.Project{Owner: owner, Name: repo}, true
}
