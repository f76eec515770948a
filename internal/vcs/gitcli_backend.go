package vcs

import (
	"fmt"
	"strconv"
	"strings"
)

func (r gitRepo) HeadRevision() (string, bool, error) {
	out, err := r.runGitCommand([]string{"rev-parse", "-q", "--verify", "HEAD"}, true, "git rev-parse")
	if err != nil {
		return "", false, err
	}
	hash := strings.TrimSpace(out)
	if hash == "" {
		return "", false, nil
	}
	return hash, true, nil
}

func (r gitRepo) RevParse(expr string) ([]string, int, string, error) {
	stdout, stderr, status, err := r.runGitRaw([]string{"rev-parse", "--revs-only", expr})
	if err != nil {
		return nil, 0, "", fmt.Errorf("git rev-parse: %w", err)
	}
	return nonEmptyLines(stdout), status, strings.TrimSpace(stderr), nil
}

func (r gitRepo) SymmetricDiffRevisions(expr string) (string, string, error) {
	leftArg, rightArg, ok := strings.Cut(expr, "...")
	if !ok {
		return "", "", fmt.Errorf("%q: not a symmetric difference expression", expr)
	}
	if leftArg == "" {
		leftArg = "HEAD"
	}
	if rightArg == "" {
		rightArg = "HEAD"
	}
	leftHash, err := r.resolveSingle(leftArg)
	if err != nil {
		return "", "", err
	}
	rightHash, err := r.resolveSingle(rightArg)
	if err != nil {
		return "", "", err
	}
	out, err := r.runGitCommand([]string{"merge-base", leftHash, rightHash}, false, "git merge-base")
	if err != nil {
		return "", "", err
	}
	base := strings.TrimSpace(out)
	if base == "" {
		return "", "", fmt.Errorf("no merge base between %q and %q", leftArg, rightArg)
	}
	return base, rightHash, nil
}

func (r gitRepo) resolveSingle(rev string) (string, error) {
	tokens, status, diag, err := r.RevParse(rev)
	if err != nil {
		return "", err
	}
	if status != 0 || len(tokens) == 0 {
		if diag != "" {
			return "", fmt.Errorf("%q: %s", rev, diag)
		}
		return "", fmt.Errorf("%q: unknown revision", rev)
	}
	return strings.TrimPrefix(tokens[0], "^"), nil
}

func (r gitRepo) DryRunHistory(filter HistoryFilter) (bool, error) {
	args := append([]string{"log", "--max-count=1", "--pretty=format:%H"}, filter.gitArgs()...)
	stdout, stderr, status, err := r.runGitRaw(args)
	if err != nil {
		return false, fmt.Errorf("git log: %w", err)
	}
	if status != 0 {
		return false, fmt.Errorf("git log: exit status %d: %s", status, strings.TrimSpace(stderr))
	}
	return strings.TrimSpace(stdout) != "", nil
}

// gitArgs renders the filter as git log arguments, path restrictions last.
func (f HistoryFilter) gitArgs() []string {
	var args []string
	appendSwitch := func(on bool, flag string) {
		if on {
			args = append(args, flag)
		}
	}
	appendSwitch(f.Follow, "--follow")
	appendSwitch(f.FirstParent, "--first-parent")
	appendSwitch(f.ShowPulls, "--show-pulls")
	appendSwitch(f.Reflog, "--reflog")
	appendSwitch(f.All, "--all")
	appendSwitch(f.Merges, "--merges")
	appendSwitch(f.NoMerges, "--no-merges")
	appendSwitch(f.Reverse, "--reverse")
	if f.MaxCount > 0 {
		args = append(args, "--max-count="+strconv.Itoa(f.MaxCount))
	}
	if f.DiffMerges != "" {
		args = append(args, "--diff-merges="+f.DiffMerges)
	}
	if f.Author != "" {
		args = append(args, "--author="+f.Author)
	}
	if f.Grep != "" {
		args = append(args, "--grep="+f.Grep)
	}
	for _, lr := range f.LineRanges {
		args = append(args, "-L"+lr)
	}
	if f.RevRange != "" {
		args = append(args, f.RevRange)
	} else if f.Base != "" {
		args = append(args, f.Base+"..HEAD")
	}
	if len(f.Paths) > 0 {
		args = append(args, "--")
		args = append(args, f.Paths...)
	}
	return args
}
