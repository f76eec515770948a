package history

import (
	"log/slog"

	"github.com/ofirgall/diffview/internal/vcs"
)

// Querier is the slice of the repository surface the dry run needs.
type Querier interface {
	DryRunHistory(filter vcs.HistoryFilter) (bool, error)
}

// CheckHistory reports whether the filtered history has at least one entry,
// together with a rendering of the effective option set. An empty history
// is not an error; the caller surfaces the description and opens nothing.
func CheckHistory(q Querier, opts *Options) (bool, string, error) {
	description := opts.Describe()
	hasResults, err := q.DryRunHistory(opts.Filter())
	if err != nil {
		return false, description, err
	}
	slog.Debug("history dry run",
		slog.Bool("has_results", hasResults),
		slog.String("options", description),
	)
	return hasResults, description, nil
}
