// Package cmd wires the command entry points: each subcommand parses its
// argument vector, locates the repository, resolves the comparison, and
// registers a view.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ofirgall/diffview/internal/config"
	"github.com/ofirgall/diffview/internal/vcs"
)

var rootCmd = &cobra.Command{
	Use:   "diffview",
	Short: "Resolve and track git comparison views",
	Long: "diffview turns git-style revision expressions into typed comparison\n" +
		"endpoints and tracks the view sessions opened on them.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .diffview.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().StringP("directory", "C", "", "run as if started in this directory")
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".diffview")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("DIFFVIEW")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// setup loads configuration and applies the logging level. Persistent
// flags are read from the root command's set, which also carries values
// parsed manually by subcommands that own their argument grammar.
func setup(*cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if verbose, _ := rootCmd.PersistentFlags().GetBool("verbose"); verbose || cfg.Verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	return cfg, nil
}

// locateRepository finds the enclosing repository. Candidate order encodes
// priority: the -C override, then the directory of the first path argument
// (the "current buffer" analog), then the working directory.
func locateRepository(cfg config.Config, pathArgs []string) (vcs.Backend, *vcs.RepositoryContext, error) {
	override, _ := rootCmd.PersistentFlags().GetString("directory")
	var firstPath string
	if len(pathArgs) > 0 {
		firstPath = pathArgs[0]
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, nil, err
	}
	kind := vcs.BackendKindFromString(cfg.Backend)
	return vcs.FindRepositoryRoot(kind, cfg.GitPath, override, firstPath, wd)
}
