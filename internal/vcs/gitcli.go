package vcs

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// gitRepo is the Backend implementation that shells out to the git
// executable, rooted at a working tree toplevel.
type gitRepo struct {
	path    string
	gitPath string
}

func (r gitRepo) RepoPath() string {
	return r.path
}

func openGitCLI(gitPath, dir string) (Backend, *RepositoryContext, error) {
	probe := gitRepo{path: dir, gitPath: gitPath}
	out, err := probe.runGitCommand(
		[]string{"rev-parse", "--show-toplevel", "--absolute-git-dir"},
		false,
		"git rev-parse",
	)
	if err != nil {
		return nil, nil, fmt.Errorf("open repository: %w", err)
	}
	lines := nonEmptyLines(out)
	if len(lines) < 2 {
		return nil, nil, fmt.Errorf("open repository: git rev-parse returned %d lines, want 2", len(lines))
	}
	ctx := &RepositoryContext{Toplevel: lines[0], GitDir: lines[1]}
	return gitRepo{path: ctx.Toplevel, gitPath: gitPath}, ctx, nil
}

// runGitRaw executes git and separates the process exit status from
// execution failures, so callers can surface non-zero statuses together
// with stderr diagnostics.
func (r gitRepo) runGitRaw(args []string) (stdout, stderr string, status int, err error) {
	if r.path == "" {
		return "", "", 0, fmt.Errorf("repository root not set")
	}
	gitPath := r.gitPath
	if gitPath == "" {
		gitPath = "git"
	}
	cmdArgs := append([]string{"-C", r.path}, args...)
	cmd := exec.Command(gitPath, cmdArgs...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	runErr := cmd.Run()
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return outBuf.String(), errBuf.String(), exitErr.ExitCode(), nil
		}
		return "", "", 0, runErr
	}
	return outBuf.String(), errBuf.String(), 0, nil
}

func (r gitRepo) runGitCommand(args []string, allowExit1 bool, context string) (string, error) {
	stdout, stderr, status, err := r.runGitRaw(args)
	if err != nil {
		return "", fmt.Errorf("%s: %w", context, err)
	}
	if status != 0 {
		if allowExit1 && status == 1 && strings.TrimSpace(stderr) == "" {
			// e.g. rev-parse -q --verify on an unborn HEAD
			return stdout, nil
		}
		if strings.TrimSpace(stderr) != "" {
			return "", fmt.Errorf("%s: exit status %d: %s", context, status, strings.TrimSpace(stderr))
		}
		return "", fmt.Errorf("%s: exit status %d", context, status)
	}
	return stdout, nil
}

func nonEmptyLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(strings.TrimRight(line, "\r"))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
