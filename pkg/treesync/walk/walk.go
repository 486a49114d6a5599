// Package walk provides a depth-first directory tree walker driven by a
// Visitor, with per-directory control over whether children are traversed.
package walk

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/treesync/pkg/treesync/filesystem"
)

// VisitResult tells the walker how to proceed after a callback.
type VisitResult int

const (
	// Continue proceeds with the walk.
	Continue VisitResult = iota
	// SkipSubtree omits the children of the directory being pre-visited.
	// Returned from any other callback it behaves like Continue.
	SkipSubtree
)

func (r VisitResult) String() string {
	switch r {
	case Continue:
		return "continue"
	case SkipSubtree:
		return "skip-subtree"
	default:
		return fmt.Sprintf("VisitResult(%d)", int(r))
	}
}

// Visitor receives callbacks for each entry of a walked tree.
type Visitor interface {
	// PreVisitDirectory is called before the children of dir are visited.
	PreVisitDirectory(dir string, info fs.FileInfo) VisitResult
	// VisitFile is called for every non-directory entry.
	VisitFile(file string, info fs.FileInfo) VisitResult
	// PostVisitDirectory is called after all children of dir were visited.
	// It is not called for directories whose subtree was skipped.
	PostVisitDirectory(dir string) VisitResult
	// VisitFailed is called when an entry could not be read.
	VisitFailed(path string, err error) VisitResult
}

// RootError is returned by Walk when the root itself cannot be walked.
type RootError struct {
	Root string
	Err  error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("cannot walk %s: %v", e.Root, e.Err)
}

func (e *RootError) Unwrap() error {
	return e.Err
}

// Walk traverses the tree rooted at root depth-first, calling v for every
// entry. Children are visited in name order. Failures on individual
// entries are handed to v.VisitFailed and the walk continues; a root that
// cannot be stat'ed, is not a directory or cannot be listed makes Walk
// return a *RootError without calling v.
func Walk(fsys filesystem.ReadFS, root string, v Visitor) error {
	root = filepath.Clean(root)
	info, err := fsys.Stat(root)
	if err != nil {
		return &RootError{Root: root, Err: err}
	}
	if !info.IsDir() {
		return &RootError{Root: root, Err: filesystem.ErrNotDirectory}
	}
	entries, err := fsys.ReadDir(root)
	if err != nil {
		return &RootError{Root: root, Err: err}
	}

	visitDir(fsys, root, info, entries, v)
	return nil
}

func walkDir(fsys filesystem.ReadFS, dir string, info fs.FileInfo, v Visitor) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		v.VisitFailed(dir, err)
		return
	}
	visitDir(fsys, dir, info, entries, v)
}

func visitDir(fsys filesystem.ReadFS, dir string, info fs.FileInfo, entries []fs.FileInfo, v Visitor) {
	if v.PreVisitDirectory(dir, info) == SkipSubtree {
		return
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			walkDir(fsys, path, entry, v)
			continue
		}
		v.VisitFile(path, entry)
	}

	v.PostVisitDirectory(dir)
}

// Funcs adapts a set of optional functions to the Visitor interface.
// Nil callbacks return Continue.
type Funcs struct {
	OnPreVisitDirectory  func(dir string, info fs.FileInfo) VisitResult
	OnVisitFile          func(file string, info fs.FileInfo) VisitResult
	OnPostVisitDirectory func(dir string) VisitResult
	OnVisitFailed        func(path string, err error) VisitResult
}

// PreVisitDirectory implements Visitor.
func (f Funcs) PreVisitDirectory(dir string, info fs.FileInfo) VisitResult {
	if f.OnPreVisitDirectory == nil {
		return Continue
	}
	return f.OnPreVisitDirectory(dir, info)
}

// VisitFile implements Visitor.
func (f Funcs) VisitFile(file string, info fs.FileInfo) VisitResult {
	if f.OnVisitFile == nil {
		return Continue
	}
	return f.OnVisitFile(file, info)
}

// PostVisitDirectory implements Visitor.
func (f Funcs) PostVisitDirectory(dir string) VisitResult {
	if f.OnPostVisitDirectory == nil {
		return Continue
	}
	return f.OnPostVisitDirectory(dir)
}

// VisitFailed implements Visitor.
func (f Funcs) VisitFailed(path string, err error) VisitResult {
	if f.OnVisitFailed == nil {
		return Continue
	}
	return f.OnVisitFailed(path, err)
}
