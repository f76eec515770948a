package revision

import "fmt"

// BadRevisionError reports an expression that did not resolve to any
// revision token. Diagnostics carries the raw error text of the underlying
// query when there is any.
type BadRevisionError struct {
	Expr        string
	Diagnostics string
}

func (e *BadRevisionError) Error() string {
	if e.Diagnostics == "" {
		return fmt.Sprintf("bad revision %q", e.Expr)
	}
	return fmt.Sprintf("bad revision %q: %s", e.Expr, e.Diagnostics)
}

// AmbiguousRevisionError reports a symmetric-diff expression whose sides
// could not both be resolved.
type AmbiguousRevisionError struct {
	Expr  string
	Cause error
}

func (e *AmbiguousRevisionError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("failed to resolve either side of %q", e.Expr)
	}
	return fmt.Sprintf("failed to resolve either side of %q: %v", e.Expr, e.Cause)
}

func (e *AmbiguousRevisionError) Unwrap() error { return e.Cause }
