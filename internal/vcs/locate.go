package vcs

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Open probes dir for an enclosing repository and returns a backend rooted
// at its toplevel together with the repository context.
func Open(kind BackendKind, gitPath, dir string) (Backend, *RepositoryContext, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, nil, err
	}
	switch kind {
	case BackendNative:
		return openNative(abs)
	default:
		return openGitCLI(gitPath, abs)
	}
}

// FindRepositoryRoot tries candidate paths in order and opens the first one
// that lies inside a git repository. Order encodes priority: an explicit
// override path beats a target-file path beats the working directory.
// Empty candidates are skipped, a file candidate is replaced by its parent
// directory, and unreadable directories are recorded but not fatal. When no
// candidate works the returned error is a *NotARepoError listing everything
// that was tried.
func FindRepositoryRoot(kind BackendKind, gitPath string, candidates ...string) (Backend, *RepositoryContext, error) {
	var attempted []string
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		dir, err := candidateDir(candidate)
		attempted = append(attempted, dir)
		if err != nil {
			slog.Debug("skipping repository candidate",
				slog.String("candidate", dir),
				slog.Any("error", err),
			)
			continue
		}
		backend, ctx, err := Open(kind, gitPath, dir)
		if err != nil {
			slog.Debug("candidate is not a repository",
				slog.String("dir", dir),
				slog.Any("error", err),
			)
			continue
		}
		slog.Debug("repository located",
			slog.String("candidate", dir),
			slog.String("toplevel", ctx.Toplevel),
			slog.String("git_dir", ctx.GitDir),
		)
		return backend, ctx, nil
	}
	return nil, nil, &NotARepoError{Attempted: attempted}
}

// candidateDir normalizes a candidate into an existing, readable directory.
// The normalized path is returned even on error so diagnostics can list it.
func candidateDir(candidate string) (string, error) {
	abs, err := filepath.Abs(candidate)
	if err != nil {
		return candidate, err
	}
	info, err := os.Stat(abs)
	if err == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
		info, err = os.Stat(abs)
	}
	if err != nil {
		return abs, err
	}
	if !info.IsDir() {
		return abs, fmt.Errorf("%s: not a directory", abs)
	}
	if _, err := os.ReadDir(abs); err != nil {
		return abs, err
	}
	return abs, nil
}
