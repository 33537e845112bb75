// Package giturl extracts the hostname and path from the remote URL syntaxes
// git accepts (https, ssh, git, and scp-like forms).
package giturl

import (
	"strings"

	giturls "github.com/chainguard-dev/git-urls"
)

// Parsed is the hostname and slash-prefixed path of one remote URL.
type Parsed struct {
	Hostname string
	Path     string
}

// Parse parses a remote URL string. SCP-like URLs ("git@host:owner/repo")
// yield a relative path, which is normalized here so every Parsed carries a
// leading slash.
func Parse(raw string) (Parsed, error) {
	u, err := giturls.Parse(raw)
	if err != nil {
		return Parsed{}, err
	}
	path := u.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return Parsed{Hostname: u.Hostname(), Path: path}, nil
}
