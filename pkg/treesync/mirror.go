package treesync

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/treesync/pkg/treesync/filesystem"
	"github.com/arthur-debert/treesync/pkg/treesync/walk"
)

const dirPerm fs.FileMode = 0o755

// Mirror copies a source tree onto a destination tree. Missing
// directories are created, and files are copied when absent from the
// destination or when their sizes differ. Nothing is removed from the
// destination.
//
// Size is the only comparison: a destination file with the same size as
// its source but different content is left alone.
type Mirror struct {
	fsys  filesystem.FileSystem
	roots Roots
	opts  options
}

// NewMirror creates a mirror pass from roots.Source onto roots.Destination.
func NewMirror(fsys filesystem.FileSystem, roots Roots, opts ...Option) *Mirror {
	return &Mirror{
		fsys:  fsys,
		roots: Roots{Source: filepath.Clean(roots.Source), Destination: filepath.Clean(roots.Destination)},
		opts:  newOptions(opts),
	}
}

// Run walks the source tree. Per-entry failures end up in the Result
// diagnostics; the returned error is reserved for a source root that
// cannot be walked at all.
func (m *Mirror) Run() (*Result, error) {
	m.opts.logger.Info().
		Str("source", m.roots.Source).
		Str("destination", m.roots.Destination).
		Msg("mirror pass starting")

	if err := walk.Walk(m.fsys, m.roots.Source, m); err != nil {
		return m.opts.result, fmt.Errorf("mirror pass: %w", err)
	}

	m.opts.logger.Info().
		Int("dirs_created", len(m.opts.result.DirsCreated)).
		Int("files_copied", m.opts.result.Copies()).
		Int("diagnostics", len(m.opts.result.Diagnostics)).
		Msg("mirror pass finished")
	return m.opts.result, nil
}

// PreVisitDirectory creates the mirrored directory before its children
// are visited. A directory that cannot be materialized has its whole
// subtree skipped.
func (m *Mirror) PreVisitDirectory(dir string, _ fs.FileInfo) walk.VisitResult {
	rel, err := Relativize(m.roots.Source, dir)
	if err != nil {
		m.opts.report(Diagnostic{Action: ActionCreate, Path: dir, Err: err})
		return walk.SkipSubtree
	}
	if m.opts.filter.Excluded(rel) {
		m.opts.logger.Debug().Str("path", dir).Msg("excluded directory")
		return walk.SkipSubtree
	}

	target := filepath.Join(m.roots.Destination, rel)
	info, err := m.fsys.Stat(target)
	switch {
	case err == nil && info.IsDir():
		return walk.Continue
	case err == nil:
		m.opts.report(Diagnostic{
			Action: ActionCreate,
			Path:   target,
			Err:    &fs.PathError{Op: "mkdir", Path: target, Err: filesystem.ErrNotDirectory},
		})
		return walk.SkipSubtree
	case !errors.Is(err, fs.ErrNotExist):
		m.opts.report(Diagnostic{Action: ActionCreate, Path: target, Err: err})
		return walk.SkipSubtree
	}

	if err := m.fsys.Mkdir(target, dirPerm); err != nil {
		m.opts.report(Diagnostic{Action: ActionCreate, Path: target, Err: err})
		return walk.SkipSubtree
	}
	m.opts.result.DirsCreated = append(m.opts.result.DirsCreated, target)
	m.opts.logger.Debug().Str("path", target).Msg("created directory")
	return walk.Continue
}

// VisitFile copies file when its mirror is absent or differs in size.
func (m *Mirror) VisitFile(file string, _ fs.FileInfo) walk.VisitResult {
	rel, err := Relativize(m.roots.Source, file)
	if err != nil {
		m.opts.report(Diagnostic{Action: ActionCopy, Path: file, Err: err})
		return walk.Continue
	}
	if m.opts.filter.Excluded(rel) {
		return walk.Continue
	}
	target := filepath.Join(m.roots.Destination, rel)

	srcInfo, err := m.fsys.Stat(file)
	if err != nil {
		m.opts.report(Diagnostic{Action: ActionCopy, Path: file, Err: err})
		return walk.Continue
	}

	created := false
	dstInfo, err := m.fsys.Stat(target)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		created = true
	case err != nil:
		m.opts.report(Diagnostic{Action: ActionCopy, Path: file, Err: err})
		return walk.Continue
	case !dstInfo.IsDir() && dstInfo.Size() == srcInfo.Size():
		m.opts.result.FilesUnchanged++
		return walk.Continue
	}

	n, err := m.fsys.CopyFile(file, target)
	if err != nil {
		m.opts.report(Diagnostic{Action: ActionCopy, Path: file, Err: err})
		return walk.Continue
	}

	m.opts.result.BytesCopied += n
	if created {
		m.opts.result.FilesCreated = append(m.opts.result.FilesCreated, target)
	} else {
		m.opts.result.FilesUpdated = append(m.opts.result.FilesUpdated, target)
	}
	m.opts.logger.Debug().
		Str("source", file).
		Str("target", target).
		Int64("bytes", n).
		Bool("overwrite", !created).
		Msg("copied file")
	return walk.Continue
}

// PostVisitDirectory does nothing: the mirror never touches a directory
// after its children.
func (m *Mirror) PostVisitDirectory(string) walk.VisitResult {
	return walk.Continue
}

// VisitFailed reports an entry the walk could not read.
func (m *Mirror) VisitFailed(path string, err error) walk.VisitResult {
	m.opts.visitFailed(ActionCopy, path, err)
	return walk.Continue
}
