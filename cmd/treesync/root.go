package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/treesync/pkg/treesync"
)

// Set at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	cfgFile  string
	logLevel string
	verbose  int
}

// logger builds the logger for a command run. An explicit --log-level
// wins over -v.
func (g *globalOptions) logger(cmd *cobra.Command) (zerolog.Logger, error) {
	level := treesync.LevelFromVerbosity(g.verbose)
	if g.logLevel != "" {
		parsed, err := treesync.LogLevelFromString(g.logLevel)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid --log-level %q: %w", g.logLevel, err)
		}
		level = parsed
	}
	return treesync.WithRunID(treesync.NewLogger(cmd.ErrOrStderr(), level)), nil
}

// newRootCommand builds the command tree.
func newRootCommand() *cobra.Command {
	g := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "treesync",
		Short: "Mirror one directory tree onto another",
		Long: `treesync mirrors a source directory tree onto a destination tree.
Missing directories are created and files that are absent or differ in size
are copied. A prune pass then deletes destination files that no longer exist
in the source. Failures on single entries are reported and the run goes on.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&g.cfgFile, "config", "", "config file (YAML, TOML or JSON)")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().CountVarP(&g.verbose, "verbose", "v", "increase log verbosity (repeatable)")

	rootCmd.AddCommand(newVersionCommand())
	rootCmd.AddCommand(newRunCommand(g))
	rootCmd.AddCommand(newMirrorCommand(g))
	rootCmd.AddCommand(newPruneCommand(g))

	return rootCmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  `Print the version number of treesync`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "treesync version %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}
