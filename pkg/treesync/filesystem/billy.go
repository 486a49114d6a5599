package filesystem

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
)

// BillyFileSystem implements FileSystem on top of a go-billy filesystem.
type BillyFileSystem struct {
	fs billy.Filesystem
	// hostPaths resolves relative names against the working directory.
	hostPaths bool
}

// readDirAttempts bounds how often a listing is retried when an entry
// disappears while its metadata is being read.
const readDirAttempts = 3

// NewBillyFileSystem wraps the given go-billy filesystem.
func NewBillyFileSystem(fsys billy.Filesystem) *BillyFileSystem {
	return &BillyFileSystem{fs: fsys}
}

// NewOSFileSystem returns a FileSystem backed by the host filesystem.
// Relative paths are resolved against the current working directory.
func NewOSFileSystem() *BillyFileSystem {
	return &BillyFileSystem{
		fs:        osfs.New(string(filepath.Separator)),
		hostPaths: true,
	}
}

// NewMemoryFileSystem returns an empty in-memory FileSystem.
func NewMemoryFileSystem() *BillyFileSystem {
	return NewBillyFileSystem(memfs.New())
}

// Raw returns the underlying go-billy filesystem.
func (b *BillyFileSystem) Raw() billy.Filesystem {
	return b.fs
}

func (b *BillyFileSystem) path(name string) string {
	if !b.hostPaths || filepath.IsAbs(name) {
		return name
	}
	if abs, err := filepath.Abs(name); err == nil {
		return abs
	}
	return name
}

// Stat implements ReadFS.
func (b *BillyFileSystem) Stat(name string) (fs.FileInfo, error) {
	return b.fs.Stat(b.path(name))
}

// ReadDir implements ReadFS. Entries are sorted by name.
//
// The host backend fails a whole listing when one entry vanishes between
// listing and reading its metadata. Such a listing is retried while the
// directory itself still exists, so the remaining siblings are not lost.
func (b *BillyFileSystem) ReadDir(name string) ([]fs.FileInfo, error) {
	name = b.path(name)
	list, err := b.fs.ReadDir(name)
	for attempt := 1; attempt < readDirAttempts && errors.Is(err, fs.ErrNotExist); attempt++ {
		info, statErr := b.fs.Stat(name)
		if statErr != nil || !info.IsDir() {
			break
		}
		list, err = b.fs.ReadDir(name)
	}
	if err != nil {
		return nil, err
	}
	infos := make([]fs.FileInfo, 0, len(list))
	for _, info := range list {
		if info != nil {
			infos = append(infos, info)
		}
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name() < infos[j].Name()
	})
	return infos, nil
}

// Mkdir implements WriteFS. go-billy only exposes MkdirAll, so the
// single-level contract is checked here before delegating.
func (b *BillyFileSystem) Mkdir(name string, perm fs.FileMode) error {
	name = b.path(name)
	if _, err := b.fs.Stat(name); err == nil {
		return &fs.PathError{Op: "mkdir", Path: name, Err: fs.ErrExist}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return &fs.PathError{Op: "mkdir", Path: name, Err: err}
	}

	parent := filepath.Dir(name)
	if parent != name && parent != "." && parent != string(filepath.Separator) {
		info, err := b.fs.Stat(parent)
		if err != nil {
			return &fs.PathError{Op: "mkdir", Path: name, Err: err}
		}
		if !info.IsDir() {
			return &fs.PathError{Op: "mkdir", Path: name, Err: ErrNotDirectory}
		}
	}

	return b.fs.MkdirAll(name, perm)
}

// CopyFile implements WriteFS.
func (b *BillyFileSystem) CopyFile(src, dst string) (written int64, err error) {
	src, dst = b.path(src), b.path(dst)
	info, err := b.fs.Stat(src)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, &fs.PathError{Op: "copy", Path: src, Err: errors.New("is a directory")}
	}

	in, err := b.fs.Open(src)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = in.Close() // Best effort close
	}()

	out, err := b.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
	if err != nil {
		return 0, err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", dst, closeErr)
		}
	}()

	written, err = io.Copy(out, in)
	if err != nil {
		return written, fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return written, nil
}

// Remove implements WriteFS.
func (b *BillyFileSystem) Remove(name string) error {
	return b.fs.Remove(b.path(name))
}
