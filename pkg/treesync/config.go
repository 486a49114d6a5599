package treesync

import (
	"errors"
	"io/fs"

	"github.com/arthur-debert/treesync/pkg/treesync/filesystem"
)

// Config describes one sync run.
type Config struct {
	// Source is the tree mirrored from. It must exist.
	Source string `mapstructure:"source"`
	// Destination is the tree mirrored to and pruned. It must exist.
	Destination string `mapstructure:"destination"`
	// Exclude holds doublestar patterns matched against paths relative
	// to the walked root.
	Exclude []string `mapstructure:"exclude"`
	// DryRun reports what would be done without making changes.
	DryRun bool `mapstructure:"dry_run"`
	// NoPrune skips the prune pass.
	NoPrune bool `mapstructure:"no_prune"`
}

// Roots returns the tree pair of the configuration. Relative roots are
// resolved against the current working directory.
func (c Config) Roots() Roots {
	return Roots{Source: absPath(c.Source), Destination: absPath(c.Destination)}
}

// Validate checks that both roots are set, exist as directories and are
// not nested inside one another.
func (c Config) Validate(fsys filesystem.ReadFS) error {
	if c.Source == "" {
		return &ConfigError{Field: "source", Reason: "required"}
	}
	if c.Destination == "" {
		return &ConfigError{Field: "destination", Reason: "required"}
	}

	roots := c.Roots()
	for _, root := range []struct{ field, path string }{
		{"source", roots.Source},
		{"destination", roots.Destination},
	} {
		info, err := fsys.Stat(root.path)
		if err != nil {
			reason := "cannot stat " + root.path
			if errors.Is(err, fs.ErrNotExist) {
				reason = root.path + " does not exist"
			}
			return &ConfigError{Field: root.field, Reason: reason, Cause: err}
		}
		if !info.IsDir() {
			return &ConfigError{Field: root.field, Reason: root.path + " is not a directory", Cause: filesystem.ErrNotDirectory}
		}
	}

	if contains(roots.Source, roots.Destination) || contains(roots.Destination, roots.Source) {
		return &ConfigError{Field: "destination", Reason: "source and destination must not be nested"}
	}

	if _, err := NewFilter(c.Exclude); err != nil {
		return err
	}
	return nil
}
