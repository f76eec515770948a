package revision

import (
	"log/slog"
	"strings"
)

// Querier is the repository query surface the resolver depends on. The vcs
// backends satisfy it.
type Querier interface {
	HeadRevision() (hash string, ok bool, err error)
	RevParse(expr string) (tokens []string, status int, diagnostics string, err error)
	SymmetricDiffRevisions(expr string) (left, right string, err error)
}

// Options alters how an expression is interpreted.
type Options struct {
	// Cached compares against the index instead of the working tree.
	Cached bool
	// ImplyLocal substitutes endpoints whose hash equals HEAD with the
	// live working tree, so comparing against "the current commit" shows
	// live edits instead of a frozen snapshot.
	ImplyLocal bool
}

// Resolve interprets a revision expression into a comparison pair. It is a
// pure function of the expression, the options, and the repository state at
// call time; nothing is cached because HEAD and the index can move between
// invocations.
func Resolve(q Querier, expr string, opts Options) (ComparisonSpec, error) {
	expr = strings.TrimSpace(expr)
	var (
		spec ComparisonSpec
		err  error
	)
	switch {
	case expr == "":
		spec, err = resolveImplicit(q, opts)
	case strings.Contains(expr, "..."):
		spec, err = resolveSymmetric(q, expr, opts)
	default:
		spec, err = resolveRevs(q, expr, opts)
	}
	if err != nil {
		return ComparisonSpec{}, err
	}
	if spec.Left.Kind() == KindNullTree && spec.Right.Kind() == KindNullTree {
		return ComparisonSpec{}, &BadRevisionError{Expr: expr, Diagnostics: "empty range"}
	}
	slog.Debug("resolved revision expression",
		slog.String("expr", expr),
		slog.Bool("cached", opts.Cached),
		slog.Bool("imply_local", opts.ImplyLocal),
		slog.String("left", spec.Left.String()),
		slog.String("right", spec.Right.String()),
	)
	return spec, nil
}

// resolveImplicit handles the empty expression: index against working tree,
// or HEAD against index with --cached.
func resolveImplicit(q Querier, opts Options) (ComparisonSpec, error) {
	if !opts.Cached {
		return ComparisonSpec{Left: Stage(0), Right: Local()}, nil
	}
	head, ok, err := q.HeadRevision()
	if err != nil {
		return ComparisonSpec{}, err
	}
	left := NullTree()
	if ok {
		left = Commit(head)
	}
	return ComparisonSpec{Left: left, Right: Stage(0)}, nil
}

func resolveSymmetric(q Querier, expr string, opts Options) (ComparisonSpec, error) {
	left, right, err := q.SymmetricDiffRevisions(expr)
	if err != nil {
		return ComparisonSpec{}, &AmbiguousRevisionError{Expr: expr, Cause: err}
	}
	if left == "" || right == "" {
		return ComparisonSpec{}, &AmbiguousRevisionError{Expr: expr}
	}
	spec := ComparisonSpec{Left: Commit(left), Right: Commit(right)}
	if opts.ImplyLocal {
		return substituteLocal(q, spec)
	}
	return spec, nil
}

func resolveRevs(q Querier, expr string, opts Options) (ComparisonSpec, error) {
	tokens, status, diag, err := q.RevParse(expr)
	if err != nil {
		return ComparisonSpec{}, err
	}
	if status != 0 || len(tokens) == 0 {
		return ComparisonSpec{}, &BadRevisionError{Expr: expr, Diagnostics: diag}
	}
	if len(tokens) > 1 || isRangeExpr(expr) {
		right := Commit(stripExclusion(tokens[0]))
		left := NullTree()
		if len(tokens) > 1 {
			left = Commit(stripExclusion(tokens[1]))
		}
		spec := ComparisonSpec{Left: left, Right: right}
		if opts.ImplyLocal {
			return substituteLocal(q, spec)
		}
		return spec, nil
	}
	right := Local()
	if opts.Cached {
		right = Stage(0)
	}
	return ComparisonSpec{Left: Commit(tokens[0]), Right: right}, nil
}

// substituteLocal replaces commit endpoints whose hash equals HEAD with the
// working tree. The comparison is literal hash equality: a detached HEAD or
// an alias ref naming the same commit substitutes all the same. The
// substitution is idempotent since a Local endpoint carries no hash.
func substituteLocal(q Querier, spec ComparisonSpec) (ComparisonSpec, error) {
	head, ok, err := q.HeadRevision()
	if err != nil {
		return ComparisonSpec{}, err
	}
	if !ok {
		return spec, nil
	}
	if spec.Left.Kind() == KindCommit && spec.Left.Hash() == head {
		spec.Left = Local()
	}
	if spec.Right.Kind() == KindCommit && spec.Right.Hash() == head {
		spec.Right = Local()
	}
	return spec, nil
}

// stripExclusion drops the uninteresting-commit marker rev-parse puts on
// the excluded side of a range.
func stripExclusion(token string) string {
	return strings.TrimPrefix(token, "^")
}

// isRangeExpr reports a two-dot range marker. The three-dot symmetric form
// is routed before this check.
func isRangeExpr(expr string) bool {
	return strings.Contains(expr, "..")
}
