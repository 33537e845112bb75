package model

// Project identifies a hosted repository by its owner and name, both
// non-empty, with any trailing ".git" already stripped from Name.
type Project struct {
	Owner string
	Name  string
}

// String renders the "owner/name" form used in API paths and log lines.
func (p Project) String() string {
	return p.Owner + "/" + p.Name
}

// RemoteEntry is one remote-url config line: the remote's name, whether the
// URL is the dedicated push target, and the URL itself. A remote contributes
// at most one entry per (Name, Push) pair; a second one is config corruption.
type RemoteEntry struct {
	Name string
	Push bool
	URL  string
}
