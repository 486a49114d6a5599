package treesync

import (
	"context"
	"fmt"

	"github.com/arthur-debert/treesync/pkg/treesync/filesystem"
)

// Sync mirrors cfg.Source onto cfg.Destination and then, unless
// cfg.NoPrune is set, deletes destination files that no longer exist in
// the source. Localized failures are collected in the Result and sent to
// the reporter; an error is returned only for an invalid configuration
// or a root that cannot be walked.
func Sync(ctx context.Context, fsys filesystem.FileSystem, cfg Config, opts ...Option) (*Result, error) {
	passes := []string{PassMirror}
	if !cfg.NoPrune {
		passes = append(passes, PassPrune)
	}
	return RunPasses(ctx, fsys, cfg, passes, opts...)
}

// RunPasses runs the named passes of a sync. Dependencies between the
// selected passes are honored; unselected passes are not run.
func RunPasses(ctx context.Context, fsys filesystem.FileSystem, cfg Config, names []string, opts ...Option) (*Result, error) {
	if err := cfg.Validate(fsys); err != nil {
		return nil, err
	}
	filter, err := NewFilter(cfg.Exclude)
	if err != nil {
		return nil, err
	}

	o := newOptions(opts)
	if cfg.DryRun {
		fsys = filesystem.NewDryRunFS(fsys)
		o.logger = o.logger.With().Bool("dry_run", true).Logger()
	}
	passOpts := []Option{
		WithLogger(o.logger),
		WithReporter(o.reporter),
		WithFilter(filter),
		WithResult(o.result),
	}
	roots := cfg.Roots()

	available := map[string]Pass{
		PassMirror: {
			Name: PassMirror,
			Run: func(context.Context) error {
				_, err := NewMirror(fsys, roots, passOpts...).Run()
				return err
			},
		},
		PassPrune: {
			Name:      PassPrune,
			DependsOn: []string{PassMirror},
			Run: func(context.Context) error {
				_, err := NewPruner(fsys, roots.Destination, roots.Source, passOpts...).Run()
				return err
			},
		},
	}

	selected := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := available[name]; !ok {
			return nil, &ConfigError{Field: "passes", Reason: fmt.Sprintf("unknown pass %q", name)}
		}
		selected[name] = true
	}

	pipeline := NewPipeline(o.logger)
	for _, name := range names {
		pass := available[name]
		var deps []string
		for _, dep := range pass.DependsOn {
			if selected[dep] {
				deps = append(deps, dep)
			}
		}
		pass.DependsOn = deps
		if err := pipeline.Add(pass); err != nil {
			return nil, err
		}
	}

	if err := pipeline.Run(ctx); err != nil {
		return o.result, err
	}
	return o.result, nil
}
