package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arthur-debert/treesync/pkg/treesync"
)

const envPrefix = "TREESYNC"

// syncFlags are the per-command flags mapped onto treesync.Config.
type syncFlags struct {
	source      string
	destination string
	exclude     []string
	dryRun      bool
	noPrune     bool
}

func addSyncFlags(cmd *cobra.Command, f *syncFlags, withNoPrune bool) {
	cmd.Flags().StringVarP(&f.source, "source", "s", "", "source directory")
	cmd.Flags().StringVarP(&f.destination, "destination", "d", "", "destination directory")
	cmd.Flags().StringSliceVarP(&f.exclude, "exclude", "e", nil, "doublestar pattern to exclude, relative to the roots (repeatable)")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "report what would change without changing anything")
	if withNoPrune {
		cmd.Flags().BoolVar(&f.noPrune, "no-prune", false, "only mirror, never delete from the destination")
	}
}

// flagKeys maps config keys to flag names.
var flagKeys = map[string]string{
	"source":      "source",
	"destination": "destination",
	"exclude":     "exclude",
	"dry_run":     "dry-run",
	"no_prune":    "no-prune",
}

// loadConfig resolves the run configuration from, in order of
// precedence, flags, TREESYNC_* environment variables, the config file
// and flag defaults.
func loadConfig(cmd *cobra.Command, cfgFile string) (treesync.Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, flag := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return treesync.Config{}, fmt.Errorf("bind flag %s: %w", flag, err)
			}
		} else if err := v.BindEnv(key); err != nil {
			return treesync.Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return treesync.Config{}, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	}

	var cfg treesync.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return treesync.Config{}, fmt.Errorf("failed to decode configuration: %w", err)
	}

	for _, root := range []*string{&cfg.Source, &cfg.Destination} {
		if *root == "" {
			continue
		}
		abs, err := filepath.Abs(*root)
		if err != nil {
			return treesync.Config{}, fmt.Errorf("failed to resolve %s: %w", *root, err)
		}
		*root = abs
	}
	return cfg, nil
}
