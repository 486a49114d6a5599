package main

import (
	"github.com/spf13/cobra"

	"github.com/arthur-debert/treesync/pkg/treesync"
	"github.com/arthur-debert/treesync/pkg/treesync/filesystem"
)

func newRunCommand(g *globalOptions) *cobra.Command {
	var flags syncFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Mirror the source onto the destination, then prune",
		Long: `Mirror the source tree onto the destination tree, then delete every
destination file whose counterpart no longer exists in the source.
Directories are never deleted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, g, nil)
		},
	}
	addSyncFlags(cmd, &flags, true)

	return cmd
}

func newMirrorCommand(g *globalOptions) *cobra.Command {
	var flags syncFlags

	cmd := &cobra.Command{
		Use:   "mirror",
		Short: "Copy missing or resized files from the source to the destination",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, g, []string{treesync.PassMirror})
		},
	}
	addSyncFlags(cmd, &flags, false)

	return cmd
}

func newPruneCommand(g *globalOptions) *cobra.Command {
	var flags syncFlags

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete destination files that do not exist in the source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, g, []string{treesync.PassPrune})
		},
	}
	addSyncFlags(cmd, &flags, false)

	return cmd
}

// runSync loads the configuration and runs the given passes, or the full
// sync when passes is nil. Diagnostics go to stderr, the summary to stdout.
func runSync(cmd *cobra.Command, g *globalOptions, passes []string) error {
	logger, err := g.logger(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, g.cfgFile)
	if err != nil {
		return err
	}

	opts := []treesync.Option{
		treesync.WithLogger(logger),
		treesync.WithReporter(treesync.NewWriterReporter(cmd.ErrOrStderr())),
	}
	fsys := filesystem.NewOSFileSystem()

	var result *treesync.Result
	if passes == nil {
		result, err = treesync.Sync(cmd.Context(), fsys, cfg, opts...)
	} else {
		result, err = treesync.RunPasses(cmd.Context(), fsys, cfg, passes, opts...)
	}
	if err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), result, cfg.DryRun)
	return nil
}
