package vcs

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// createTestRepo creates a temporary git repository with count empty
// commits and returns its path together with the commit hashes, oldest
// first.
func createTestRepo(t *testing.T, count int) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	runGit(t, dir, "init", "--quiet", "-b", "main")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")
	var hashes []string
	for i := 0; i < count; i++ {
		runGit(t, dir, "commit", "--allow-empty", "--quiet", "--no-gpg-sign", "-m", "commit")
		hashes = append(hashes, runGit(t, dir, "rev-parse", "HEAD"))
	}
	return dir, hashes
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v: %v: %s", args, err, out)
	}
	return strings.TrimSpace(string(out))
}

func TestFindRepositoryRoot_SameToplevelForAnyCandidate(t *testing.T) {
	dir, _ := createTestRepo(t, 1)
	sub := filepath.Join(dir, "sub")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	file := filepath.Join(sub, "file.txt")
	if err := os.WriteFile(file, []byte("x\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var toplevels []string
	for _, candidates := range [][]string{
		{dir},
		{sub},
		{file}, // non-directory candidate falls back to its parent
		{"", sub},
		{filepath.Join(dir, "does-not-exist"), dir},
	} {
		_, ctx, err := FindRepositoryRoot(BackendGitCLI, "", candidates...)
		if err != nil {
			t.Fatalf("FindRepositoryRoot(%v): %v", candidates, err)
		}
		toplevels = append(toplevels, ctx.Toplevel)
	}
	for _, top := range toplevels[1:] {
		if top != toplevels[0] {
			t.Fatalf("toplevel mismatch: %q vs %q", top, toplevels[0])
		}
	}
}

func TestFindRepositoryRoot_NativeMatchesGitCLI(t *testing.T) {
	dir, _ := createTestRepo(t, 1)

	_, cliCtx, err := FindRepositoryRoot(BackendGitCLI, "", dir)
	if err != nil {
		t.Fatalf("git cli locate: %v", err)
	}
	_, nativeCtx, err := FindRepositoryRoot(BackendNative, "", dir)
	if err != nil {
		t.Fatalf("native locate: %v", err)
	}
	if cliCtx.Toplevel != nativeCtx.Toplevel {
		t.Fatalf("toplevel mismatch: cli=%q native=%q", cliCtx.Toplevel, nativeCtx.Toplevel)
	}
}

func TestFindRepositoryRoot_NotARepoListsAttempts(t *testing.T) {
	outside := t.TempDir()

	_, _, err := FindRepositoryRoot(BackendGitCLI, "", "", outside)
	if err == nil {
		t.Fatal("expected error outside a repository")
	}
	var notRepo *NotARepoError
	if !errors.As(err, &notRepo) {
		t.Fatalf("expected *NotARepoError, got %T: %v", err, err)
	}
	if len(notRepo.Attempted) != 1 {
		t.Fatalf("attempted = %v, want the single non-empty candidate", notRepo.Attempted)
	}
	if !strings.Contains(err.Error(), notRepo.Attempted[0]) {
		t.Fatalf("error %q does not list attempted path", err)
	}
}

func TestFindRepositoryRoot_FirstCandidateWins(t *testing.T) {
	repoA, _ := createTestRepo(t, 1)
	repoB, _ := createTestRepo(t, 1)

	_, ctx, err := FindRepositoryRoot(BackendGitCLI, "", repoA, repoB)
	if err != nil {
		t.Fatalf("FindRepositoryRoot: %v", err)
	}
	if !samePath(t, ctx.Toplevel, repoA) {
		t.Fatalf("toplevel = %q, want %q", ctx.Toplevel, repoA)
	}
}

// samePath compares paths after resolving symlinks; macOS tempdirs sit
// behind /private.
func samePath(t *testing.T, a, b string) bool {
	t.Helper()
	ra, err := filepath.EvalSymlinks(a)
	if err != nil {
		t.Fatalf("eval %q: %v", a, err)
	}
	rb, err := filepath.EvalSymlinks(b)
	if err != nil {
		t.Fatalf("eval %q: %v", b, err)
	}
	return ra == rb
}
