package vcs

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestHistoryFilterGitArgs(t *testing.T) {
	t.Parallel()

	f := HistoryFilter{
		Follow:     true,
		NoMerges:   true,
		MaxCount:   5,
		DiffMerges: "first-parent",
		Author:     "alice",
		LineRanges: []string{"1,10:main.go"},
		RevRange:   "v1..v2",
		Paths:      []string{"main.go"},
	}
	got := f.gitArgs()
	want := []string{
		"--follow", "--no-merges", "--max-count=5", "--diff-merges=first-parent",
		"--author=alice", "-L1,10:main.go", "v1..v2", "--", "main.go",
	}
	if !slices.Equal(got, want) {
		t.Fatalf("gitArgs() = %v, want %v", got, want)
	}
}

func TestHistoryFilterGitArgs_BaseFallsBackToRange(t *testing.T) {
	t.Parallel()

	got := HistoryFilter{Base: "develop"}.gitArgs()
	if !slices.Equal(got, []string{"develop..HEAD"}) {
		t.Fatalf("gitArgs() = %v", got)
	}
}

func TestNonEmptyLines(t *testing.T) {
	t.Parallel()

	got := nonEmptyLines("a\r\n\nb\n  \nc")
	if !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("nonEmptyLines() = %v", got)
	}
}

func TestRevParse_SingleAndRange(t *testing.T) {
	dir, hashes := createTestRepo(t, 2)
	backend, _, err := Open(BackendGitCLI, "", dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	tokens, status, diag, err := backend.RevParse("HEAD")
	if err != nil || status != 0 {
		t.Fatalf("RevParse(HEAD) = status %d, %q, %v", status, diag, err)
	}
	if len(tokens) != 1 || tokens[0] != hashes[1] {
		t.Fatalf("tokens = %v, want [%s]", tokens, hashes[1])
	}

	tokens, status, _, err = backend.RevParse("HEAD~1..HEAD")
	if err != nil || status != 0 {
		t.Fatalf("RevParse(range): status %d, %v", status, err)
	}
	if len(tokens) != 2 || tokens[0] != hashes[1] || tokens[1] != "^"+hashes[0] {
		t.Fatalf("range tokens = %v, want [%s ^%s]", tokens, hashes[1], hashes[0])
	}
}

func TestRevParse_BadRevisionReportsDiagnostics(t *testing.T) {
	dir, _ := createTestRepo(t, 1)
	backend, _, err := Open(BackendGitCLI, "", dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	tokens, status, diag, err := backend.RevParse("no-such-rev")
	if err != nil {
		t.Fatalf("RevParse: %v", err)
	}
	if status == 0 && len(tokens) > 0 {
		t.Fatalf("expected failure, got tokens=%v status=%d", tokens, status)
	}
	if status != 0 && diag == "" {
		t.Fatal("expected diagnostics text for a failed rev-parse")
	}
}

func TestSymmetricDiffRevisions(t *testing.T) {
	dir, hashes := createTestRepo(t, 2)
	runGit(t, dir, "checkout", "--quiet", "-b", "feature", hashes[0])
	runGit(t, dir, "commit", "--allow-empty", "--quiet", "--no-gpg-sign", "-m", "feature work")
	featureTip := runGit(t, dir, "rev-parse", "HEAD")
	runGit(t, dir, "checkout", "--quiet", "main")

	for _, kind := range []BackendKind{BackendGitCLI, BackendNative} {
		backend, _, err := Open(kind, "", dir)
		if err != nil {
			t.Fatalf("Open(%d): %v", kind, err)
		}
		left, right, err := backend.SymmetricDiffRevisions("main...feature")
		if err != nil {
			t.Fatalf("SymmetricDiffRevisions(%d): %v", kind, err)
		}
		if left != hashes[0] {
			t.Fatalf("left = %s, want merge base %s", left, hashes[0])
		}
		if right != featureTip {
			t.Fatalf("right = %s, want feature tip %s", right, featureTip)
		}
	}
}

func TestHeadRevision_UnbornHead(t *testing.T) {
	dir := t.TempDir()
	runGit(t, dir, "init", "--quiet", "-b", "main")

	backend, _, err := Open(BackendGitCLI, "", dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	hash, ok, err := backend.HeadRevision()
	if err != nil {
		t.Fatalf("HeadRevision: %v", err)
	}
	if ok || hash != "" {
		t.Fatalf("expected unborn HEAD, got hash=%q ok=%v", hash, ok)
	}
}

func TestDryRunHistory(t *testing.T) {
	dir, _ := createTestRepo(t, 1)
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	runGit(t, dir, "add", "a.txt")
	runGit(t, dir, "commit", "--quiet", "--no-gpg-sign", "-m", "add a.txt")

	for _, kind := range []BackendKind{BackendGitCLI, BackendNative} {
		backend, _, err := Open(kind, "", dir)
		if err != nil {
			t.Fatalf("Open(%d): %v", kind, err)
		}
		ok, err := backend.DryRunHistory(HistoryFilter{Paths: []string{"a.txt"}})
		if err != nil {
			t.Fatalf("DryRunHistory(%d): %v", kind, err)
		}
		if !ok {
			t.Fatalf("backend %d: expected history for a.txt", kind)
		}
		ok, err = backend.DryRunHistory(HistoryFilter{Author: "nobody@nowhere"})
		if err != nil {
			t.Fatalf("DryRunHistory(%d, author): %v", kind, err)
		}
		if ok {
			t.Fatalf("backend %d: expected no history for unknown author", kind)
		}
	}
}

func TestBackendKindFromString(t *testing.T) {
	t.Parallel()

	if BackendKindFromString("native") != BackendNative {
		t.Fatal("native should select the go-git backend")
	}
	if BackendKindFromString("") != BackendGitCLI {
		t.Fatal("empty value should fall back to the git CLI")
	}
	if BackendKindFromString("weird") != BackendGitCLI {
		t.Fatal("unknown value should fall back to the git CLI")
	}
}

func TestSplitDotRange(t *testing.T) {
	t.Parallel()

	left, right, ok := splitDotRange("a^..b")
	if !ok || left != "a^" || right != "b" {
		t.Fatalf("splitDotRange(a^..b) = %q, %q, %v", left, right, ok)
	}
	if _, _, ok := splitDotRange("plain"); ok {
		t.Fatal("plain revision should not split")
	}
}
