// Package view tracks open comparison sessions and binds each to a
// host-owned display surface.
package view

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ofirgall/diffview/internal/history"
	"github.com/ofirgall/diffview/internal/revision"
	"github.com/ofirgall/diffview/internal/vcs"
)

// SurfaceID identifies a host-owned display surface (a tabpage). The host
// allocates and destroys surfaces; the registry only observes them.
type SurfaceID int

// View is a live comparison session bound to a surface. Once registered it
// is owned exclusively by the Registry, which is the single source of truth
// for whether it is still alive.
type View interface {
	ID() string
	Surface() SurfaceID
	IsValid() bool
	Close()
}

// DiffView compares two resolved endpoints. The comparison is fixed for
// the view's lifetime.
type DiffView struct {
	id      string
	surface SurfaceID
	closed  bool

	Repo  *vcs.RepositoryContext
	Spec  revision.ComparisonSpec
	Paths []string
}

func NewDiffView(repo *vcs.RepositoryContext, spec revision.ComparisonSpec, paths []string, surface SurfaceID) *DiffView {
	return &DiffView{
		id:      uuid.NewString(),
		surface: surface,
		Repo:    repo,
		Spec:    spec,
		Paths:   paths,
	}
}

func (v *DiffView) ID() string         { return v.id }
func (v *DiffView) Surface() SurfaceID { return v.surface }

// IsValid reports whether the view is usable: construction can fail on a
// path restriction pointing outside the working tree.
func (v *DiffView) IsValid() bool {
	if v.closed || v.Repo == nil {
		return false
	}
	for _, p := range v.Paths {
		if !validRestriction(v.Repo.Toplevel, p) {
			return false
		}
	}
	return true
}

func (v *DiffView) Close() { v.closed = true }

// FileHistoryView browses filtered history. Its options are edited in place
// by the user; a snapshot taken at construction (and on every committed
// edit) backs the dirty check.
type FileHistoryView struct {
	id      string
	surface SurfaceID
	closed  bool

	Repo     *vcs.RepositoryContext
	Options  *history.Options
	snapshot *history.Options
}

func NewFileHistoryView(repo *vcs.RepositoryContext, opts *history.Options, surface SurfaceID) *FileHistoryView {
	return &FileHistoryView{
		id:       uuid.NewString(),
		surface:  surface,
		Repo:     repo,
		Options:  opts,
		snapshot: opts.Clone(),
	}
}

func (v *FileHistoryView) ID() string         { return v.id }
func (v *FileHistoryView) Surface() SurfaceID { return v.surface }

func (v *FileHistoryView) IsValid() bool {
	if v.closed || v.Repo == nil || v.Options == nil {
		return false
	}
	for _, p := range v.Options.Paths() {
		if !validRestriction(v.Repo.Toplevel, p) {
			return false
		}
	}
	return true
}

func (v *FileHistoryView) Close() { v.closed = true }

// OptionsChanged reports whether the filters were edited since the last
// committed snapshot.
func (v *FileHistoryView) OptionsChanged() bool {
	return !v.Options.Equal(v.snapshot)
}

// CommitOptions accepts the current filters as the new clean state.
func (v *FileHistoryView) CommitOptions() {
	v.snapshot = v.Options.Clone()
}

// validRestriction rejects path arguments that escape the working tree.
func validRestriction(toplevel, path string) bool {
	if filepath.IsAbs(path) {
		rel, err := filepath.Rel(toplevel, path)
		if err != nil {
			return false
		}
		path = rel
	}
	clean := filepath.ToSlash(filepath.Clean(path))
	return clean != ".." && !strings.HasPrefix(clean, "../")
}
