package vcs

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// nativeRepo is the pure-Go Backend implementation built on go-git.
//
// RevParse emulates `git rev-parse --revs-only` for the expression forms
// the resolver feeds it: a single revision, or a two-dot range.
type nativeRepo struct {
	path string
	repo *gitlib.Repository
}

func openNative(dir string) (Backend, *RepositoryContext, error) {
	repo, err := gitlib.PlainOpenWithOptions(dir, &gitlib.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, nil, fmt.Errorf("open repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, nil, fmt.Errorf("open repository: %w", err)
	}
	toplevel, err := filepath.Abs(wt.Filesystem.Root())
	if err != nil {
		return nil, nil, err
	}
	gitDir := filepath.Join(toplevel, ".git")
	if storage, ok := repo.Storer.(*filesystem.Storage); ok {
		gitDir = storage.Filesystem().Root()
	}
	ctx := &RepositoryContext{Toplevel: toplevel, GitDir: gitDir}
	return &nativeRepo{path: toplevel, repo: repo}, ctx, nil
}

func (n *nativeRepo) RepoPath() string {
	return n.path
}

func (n *nativeRepo) HeadRevision() (string, bool, error) {
	ref, err := n.repo.Head()
	if err != nil {
		if err == plumbing.ErrReferenceNotFound {
			return "", false, nil
		}
		return "", false, fmt.Errorf("resolve HEAD: %w", err)
	}
	return ref.Hash().String(), true, nil
}

func (n *nativeRepo) RevParse(expr string) ([]string, int, string, error) {
	if left, right, ok := splitDotRange(expr); ok {
		if right == "" {
			right = "HEAD"
		}
		if left == "" {
			left = "HEAD"
		}
		rightHash, err := n.resolveOne(right)
		if err != nil {
			return nil, 128, err.Error(), nil
		}
		leftHash, err := n.resolveOne(left)
		if err != nil {
			return nil, 128, err.Error(), nil
		}
		return []string{rightHash, "^" + leftHash}, 0, "", nil
	}
	hash, err := n.resolveOne(expr)
	if err != nil {
		return nil, 128, err.Error(), nil
	}
	return []string{hash}, 0, "", nil
}

func (n *nativeRepo) resolveOne(rev string) (string, error) {
	hash, err := n.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return "", fmt.Errorf("ambiguous argument %q: unknown revision", rev)
	}
	return hash.String(), nil
}

func (n *nativeRepo) SymmetricDiffRevisions(expr string) (string, string, error) {
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
	leftCommit, err := n.commitFor(leftArg)
	if err != nil {
		return "", "", err
	}
	rightCommit, err := n.commitFor(rightArg)
	if err != nil {
		return "", "", err
	}
	bases, err := leftCommit.MergeBase(rightCommit)
	if err != nil {
		return "", "", fmt.Errorf("merge base of %q and %q: %w", leftArg, rightArg, err)
	}
	if len(bases) == 0 {
		return "", "", fmt.Errorf("no merge base between %q and %q", leftArg, rightArg)
	}
	return bases[0].Hash.String(), rightCommit.Hash.String(), nil
}

func (n *nativeRepo) commitFor(rev string) (*object.Commit, error) {
	hash, err := n.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", rev, err)
	}
	commit, err := n.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", hash, err)
	}
	return commit, nil
}

// dryRunScanLimit bounds how many commits the native dry run inspects when
// author/grep filters force commit-by-commit matching.
const dryRunScanLimit = 10000

func (n *nativeRepo) DryRunHistory(filter HistoryFilter) (bool, error) {
	opts := &gitlib.LogOptions{Order: gitlib.LogOrderCommitterTime, All: filter.All}
	if !filter.All {
		from, ok, err := n.historyTip(filter)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		opts.From = from
	}
	if len(filter.Paths) > 0 {
		paths := filter.Paths
		opts.PathFilter = func(p string) bool {
			for _, want := range paths {
				if p == want || strings.HasPrefix(p, want+"/") {
					return true
				}
			}
			return false
		}
	}
	iter, err := n.repo.Log(opts)
	if err != nil {
		return false, fmt.Errorf("read commits: %w", err)
	}
	defer iter.Close()

	authorRe, err := compileFilterPattern(filter.Author)
	if err != nil {
		return false, err
	}
	grepRe, err := compileFilterPattern(filter.Grep)
	if err != nil {
		return false, err
	}
	for scanned := 0; scanned < dryRunScanLimit; scanned++ {
		commit, err := iter.Next()
		if err != nil {
			if err == io.EOF {
				return false, nil
			}
			return false, fmt.Errorf("iterate commits: %w", err)
		}
		if commitMatches(commit, filter, authorRe, grepRe) {
			return true, nil
		}
	}
	return false, nil
}

// historyTip picks the commit the dry-run traversal starts from.
func (n *nativeRepo) historyTip(filter HistoryFilter) (plumbing.Hash, bool, error) {
	rev := "HEAD"
	if filter.RevRange != "" {
		rev = filter.RevRange
		// For range forms only the reachable tip matters here.
		if _, right, ok := splitDotRange(strings.ReplaceAll(rev, "...", "..")); ok && right != "" {
			rev = right
		}
	}
	hash, err := n.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		if rev == "HEAD" {
			// unborn HEAD: no history at all
			return plumbing.ZeroHash, false, nil
		}
		return plumbing.ZeroHash, false, fmt.Errorf("resolve %q: %w", rev, err)
	}
	return *hash, true, nil
}

func commitMatches(c *object.Commit, filter HistoryFilter, authorRe, grepRe *regexp.Regexp) bool {
	parents := c.NumParents()
	if filter.Merges && parents < 2 {
		return false
	}
	if filter.NoMerges && parents >= 2 {
		return false
	}
	if authorRe != nil {
		author := fmt.Sprintf("%s <%s>", c.Author.Name, c.Author.Email)
		if !authorRe.MatchString(author) {
			return false
		}
	}
	if grepRe != nil && !grepRe.MatchString(c.Message) {
		return false
	}
	return true
}

func compileFilterPattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid filter pattern %q: %w", pattern, err)
	}
	return re, nil
}
