// Package vcs locates git repositories and answers the revision queries the
// rest of the program depends on.
//
// Two backends implement the query surface: the default shells out to the
// git executable, the native one uses go-git. Callers depend only on the
// Backend interface so tests can inject fakes.
package vcs

import (
	"fmt"
	"strings"
)

// RepositoryContext describes a discovered repository. Immutable once
// returned; every path inside the same working tree resolves to the same
// Toplevel.
type RepositoryContext struct {
	// Toplevel is the absolute path of the working tree root.
	Toplevel string
	// GitDir is the absolute path of the repository metadata directory.
	GitDir string
}

// NotARepoError reports that none of the candidate paths passed to
// FindRepositoryRoot lie inside a git repository.
type NotARepoError struct {
	// Attempted holds the normalized candidate directories, in the order
	// they were probed.
	Attempted []string
}

func (e *NotARepoError) Error() string {
	if len(e.Attempted) == 0 {
		return "not a git repository: no usable candidate paths"
	}
	return fmt.Sprintf("not a git repository (tried: %s)", strings.Join(e.Attempted, ", "))
}

// HistoryFilter is the subset of log options that decides whether a history
// query matches anything. It is built by the history package and consumed
// by backends.
type HistoryFilter struct {
	RevRange    string
	Base        string
	MaxCount    int
	Follow      bool
	FirstParent bool
	ShowPulls   bool
	Reflog      bool
	All         bool
	Merges      bool
	NoMerges    bool
	Reverse     bool
	DiffMerges  string
	Author      string
	Grep        string
	LineRanges  []string
	Paths       []string
}

// Backend abstracts access to repository data.
//
// The default implementation shells out to the git executable, but the
// interface allows alternative implementations (the native go-git one)
// without changing callers.
type Backend interface {
	RepoPath() string

	// HeadRevision returns the commit hash HEAD points at. ok is false in
	// a repository with no commits yet.
	HeadRevision() (hash string, ok bool, err error)

	// RevParse resolves the revision-only tokens of expr. status carries
	// the exit status of the underlying query and diagnostics its raw
	// error text; err is reserved for failures to run the query at all.
	RevParse(expr string) (tokens []string, status int, diagnostics string, err error)

	// SymmetricDiffRevisions resolves an A...B expression into the pair
	// (merge base of A and B, tip of B). Either side defaults to HEAD when
	// empty.
	SymmetricDiffRevisions(expr string) (left, right string, err error)

	// DryRunHistory reports whether a log restricted by filter would
	// return at least one entry.
	DryRunHistory(filter HistoryFilter) (bool, error)
}

// BackendKind selects how repository queries are executed.
type BackendKind uint8

const (
	// BackendGitCLI shells out to the git executable.
	BackendGitCLI BackendKind = iota
	// BackendNative uses go-git.
	BackendNative
)

// BackendKindFromString maps a configuration value to a BackendKind.
// Unrecognized values fall back to the git CLI.
func BackendKindFromString(s string) BackendKind {
	if strings.EqualFold(strings.TrimSpace(s), "native") {
		return BackendNative
	}
	return BackendGitCLI
}

// splitDotRange splits a two-dot range expression. The three-dot symmetric
// form must be handled before calling this.
func splitDotRange(expr string) (left, right string, ok bool) {
	idx := strings.Index(expr, "..")
	if idx < 0 {
		return "", "", false
	}
	return expr[:idx], expr[idx+2:], true
}
