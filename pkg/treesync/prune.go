package treesync

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/treesync/pkg/treesync/filesystem"
	"github.com/arthur-debert/treesync/pkg/treesync/walk"
)

// Pruner deletes every file under a root whose counterpart under another
// root does not exist. Only files are removed; directories, even when
// left empty, are kept.
type Pruner struct {
	fsys        filesystem.FileSystem
	root        string
	counterpart string
	opts        options
}

// NewPruner creates a prune pass over root, checked against counterpart.
// To remove destination files that disappeared from the source, root is
// the destination and counterpart the source.
func NewPruner(fsys filesystem.FileSystem, root, counterpart string, opts ...Option) *Pruner {
	return &Pruner{
		fsys:        fsys,
		root:        filepath.Clean(root),
		counterpart: filepath.Clean(counterpart),
		opts:        newOptions(opts),
	}
}

// Run walks the pruned root. Per-entry failures end up in the Result
// diagnostics; the returned error is reserved for a root that cannot be
// walked at all.
func (p *Pruner) Run() (*Result, error) {
	p.opts.logger.Info().
		Str("root", p.root).
		Str("counterpart", p.counterpart).
		Msg("prune pass starting")

	if err := walk.Walk(p.fsys, p.root, p); err != nil {
		return p.opts.result, fmt.Errorf("prune pass: %w", err)
	}

	p.opts.logger.Info().
		Int("files_deleted", len(p.opts.result.FilesDeleted)).
		Int("diagnostics", len(p.opts.result.Diagnostics)).
		Msg("prune pass finished")
	return p.opts.result, nil
}

// PreVisitDirectory only applies exclusions.
func (p *Pruner) PreVisitDirectory(dir string, _ fs.FileInfo) walk.VisitResult {
	if rel, err := Relativize(p.root, dir); err == nil && p.opts.filter.Excluded(rel) {
		return walk.SkipSubtree
	}
	return walk.Continue
}

// VisitFile deletes file when its counterpart is missing. Both existence
// checks are made fresh, right before the removal.
func (p *Pruner) VisitFile(file string, _ fs.FileInfo) walk.VisitResult {
	rel, err := Relativize(p.root, file)
	if err != nil {
		p.opts.report(Diagnostic{Action: ActionDelete, Path: file, Err: err})
		return walk.Continue
	}
	if p.opts.filter.Excluded(rel) {
		return walk.Continue
	}
	counterpart := filepath.Join(p.counterpart, rel)

	if _, err := p.fsys.Stat(file); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			p.opts.report(Diagnostic{Action: ActionDelete, Path: file, Err: err})
		}
		return walk.Continue
	}

	_, err = p.fsys.Stat(counterpart)
	switch {
	case err == nil:
		return walk.Continue
	case !errors.Is(err, fs.ErrNotExist):
		// The counterpart may exist; keep the file.
		p.opts.report(Diagnostic{Action: ActionDelete, Path: file, Err: err})
		return walk.Continue
	}

	if err := p.fsys.Remove(file); err != nil {
		p.opts.report(Diagnostic{Action: ActionDelete, Path: file, Err: err})
		return walk.Continue
	}
	p.opts.result.FilesDeleted = append(p.opts.result.FilesDeleted, file)
	p.opts.logger.Debug().Str("path", file).Msg("deleted file")
	return walk.Continue
}

// PostVisitDirectory does nothing.
func (p *Pruner) PostVisitDirectory(string) walk.VisitResult {
	return walk.Continue
}

// VisitFailed reports an entry the walk could not read.
func (p *Pruner) VisitFailed(path string, err error) walk.VisitResult {
	p.opts.visitFailed(ActionDelete, path, err)
	return walk.Continue
}
