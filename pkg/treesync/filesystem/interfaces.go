package filesystem

import (
	"errors"
	"io/fs"
)

// ErrNotDirectory is returned when a path that must be a directory exists
// as something else.
var ErrNotDirectory = errors.New("not a directory")

// ReadFS is the read side consumed by the tree walker.
type ReadFS interface {
	Stat(name string) (fs.FileInfo, error)
	// ReadDir lists the entries of a directory. Entries carry lstat
	// information: symbolic links are reported as links, not followed.
	ReadDir(name string) ([]fs.FileInfo, error)
}

// WriteFS defines the mutating primitives used by the mirror and prune passes.
type WriteFS interface {
	// Mkdir creates a single directory. The parent must already exist and
	// name must not.
	Mkdir(name string, perm fs.FileMode) error
	// CopyFile copies src to dst, replacing any existing content at dst.
	// It returns the number of bytes written.
	CopyFile(src, dst string) (int64, error)
	Remove(name string) error
}

// FileSystem combines read and write operations.
type FileSystem interface {
	ReadFS
	WriteFS
}
