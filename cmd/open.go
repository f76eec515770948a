package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ofirgall/diffview/internal/config"
	"github.com/ofirgall/diffview/internal/revision"
	"github.com/ofirgall/diffview/internal/view"
	"github.com/ofirgall/diffview/internal/watch"
)

var openCmd = &cobra.Command{
	Use:   "open [REVISION] [-- path...]",
	Short: "Open a comparison view between two revisions",
	Long: "Open resolves a revision expression (a single revision, A..B, A...B,\n" +
		"or nothing for index against working tree) into a comparison pair and\n" +
		"registers a view session for it.",
	RunE: runOpen,
}

func init() {
	openCmd.Flags().Bool("cached", false, "compare against the index instead of the working tree")
	openCmd.Flags().Bool("staged", false, "synonym for --cached")
	openCmd.Flags().Bool("imply-local", false, "substitute HEAD-equal endpoints with the working tree")
	openCmd.Flags().Bool("watch", false, "keep running and report repository changes")
	rootCmd.AddCommand(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	revArg, paths := splitRevAndPaths(cmd, args)
	if len(revArg) > 1 {
		return fmt.Errorf("expected at most one revision expression, got %d", len(revArg))
	}
	expr := ""
	if len(revArg) == 1 {
		expr = revArg[0]
	}

	backend, repo, err := locateRepository(cfg, paths)
	if err != nil {
		return err
	}

	cached, _ := cmd.Flags().GetBool("cached")
	staged, _ := cmd.Flags().GetBool("staged")
	implyLocal, _ := cmd.Flags().GetBool("imply-local")
	spec, err := revision.Resolve(backend, expr, revision.Options{
		Cached:     cached || staged,
		ImplyLocal: implyLocal || cfg.ImplyLocal,
	})
	if err != nil {
		return err
	}

	sched := view.NewScheduler()
	registry := view.NewRegistry(sched)
	v := view.NewDiffView(repo, spec, paths, nextSurface(registry))
	if !v.IsValid() {
		return fmt.Errorf("invalid path restriction for %s: %v", repo.Toplevel, paths)
	}
	registry.Add(v)

	fmt.Fprintf(cmd.OutOrStdout(), "comparing %s against %s in %s\n", spec.Left, spec.Right, repo.Toplevel)

	watchFlag, _ := cmd.Flags().GetBool("watch")
	if watchFlag || cfg.Watch {
		return watchLoop(cmd, cfg, registry, v)
	}
	sched.Drain()
	return nil
}

// splitRevAndPaths separates the revision expression from the path
// restrictions after the "--" separator.
func splitRevAndPaths(cmd *cobra.Command, args []string) (revArgs, paths []string) {
	if dash := cmd.ArgsLenAtDash(); dash >= 0 {
		return args[:dash], args[dash:]
	}
	return args, nil
}

// nextSurface allocates the next free surface identifier. The process is
// the surface host here; in an editor the host would hand these out.
func nextSurface(registry *view.Registry) view.SurfaceID {
	next := view.SurfaceID(1)
	for registry.CurrentForSurface(next) != nil {
		next++
	}
	return next
}

// watchLoop keeps the command alive, reporting repository changes until
// interrupted. Each settled change burst is posted onto the scheduler so
// bookkeeping stays on one logical thread.
func watchLoop(cmd *cobra.Command, cfg config.Config, registry *view.Registry, v *view.DiffView) error {
	sched := registry.Scheduler()
	events := make(chan struct{}, 1)
	w, err := watch.New(v.Repo, time.Duration(cfg.WatchDebounceMS)*time.Millisecond, func() {
		sched.Post(func() {
			fmt.Fprintf(cmd.OutOrStdout(), "repository changed: %s\n", v.Repo.Toplevel)
		})
		select {
		case events <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return err
	}
	defer w.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	for {
		select {
		case <-events:
			sched.Drain()
		case <-interrupt:
			registry.Dispose(v)
			sched.Drain()
			return nil
		}
	}
}
