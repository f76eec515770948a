package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/ofirgall/diffview/internal/history"
	"github.com/ofirgall/diffview/internal/view"
)

var logCmd = &cobra.Command{
	Use:   "log [options] [range] [-- path...]",
	Short: "Open a file-history view",
	Long: "Log parses git-log style options (--follow, --author, -L, ... and a\n" +
		"trailing path list after --), checks that the filtered history is not\n" +
		"empty, and registers a file-history view session.\n\n" +
		"Options are parsed by the history option catalogue, not by this\n" +
		"command; run without arguments for the full history of the repository.",
	// the history catalogue owns the argument grammar, including flags
	// cobra would otherwise reject
	DisableFlagParsing: true,
	RunE:               runLog,
}

func init() {
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	if slices.Contains(args, "-h") || slices.Contains(args, "--help") {
		return cmd.Help()
	}
	args, globals := extractGlobalFlags(args)
	if err := rootCmd.PersistentFlags().Parse(globals); err != nil {
		return err
	}
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	opts, err := history.ParseArgs(args)
	if err != nil {
		return err
	}

	backend, repo, err := locateRepository(cfg, opts.Paths())
	if err != nil {
		return err
	}

	hasResults, description, err := history.CheckHistory(backend, opts)
	if err != nil {
		return err
	}
	if !hasResults {
		// informational: the command aborts without opening a session
		fmt.Fprintf(cmd.OutOrStdout(), "no history matches the given options: %s\n", description)
		return nil
	}

	sched := view.NewScheduler()
	registry := view.NewRegistry(sched)
	v := view.NewFileHistoryView(repo, opts, nextSurface(registry))
	if !v.IsValid() {
		return fmt.Errorf("invalid path restriction for %s: %v", repo.Toplevel, opts.Paths())
	}
	registry.Add(v)

	fmt.Fprintf(cmd.OutOrStdout(), "history view for %s: %s\n", repo.Toplevel, description)
	sched.Drain()
	return nil
}

// extractGlobalFlags pulls the root command's persistent flags out of an
// unparsed argument vector, since this command disables cobra's parsing.
func extractGlobalFlags(args []string) (rest, globals []string) {
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "--":
			rest = append(rest, args[i:]...)
			return rest, globals
		case "-C", "--directory", "--config":
			globals = append(globals, arg)
			if i+1 < len(args) {
				i++
				globals = append(globals, args[i])
			}
		case "-v", "--verbose":
			globals = append(globals, arg)
		default:
			rest = append(rest, arg)
		}
	}
	return rest, globals
}
