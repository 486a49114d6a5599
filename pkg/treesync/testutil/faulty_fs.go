package testutil

import (
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/arthur-debert/treesync/pkg/treesync/filesystem"
)

// Op names a FileSystem primitive.
type Op string

const (
	OpStat    Op = "stat"
	OpReadDir Op = "readdir"
	OpMkdir   Op = "mkdir"
	OpCopy    Op = "copy"
	OpRemove  Op = "remove"
)

// Hook runs before a primitive is forwarded to the wrapped filesystem.
type Hook func(op Op, path string)

// FaultyFS wraps a FileSystem, injecting errors for chosen (op, path)
// pairs and counting calls. It is intended for tests only.
type FaultyFS struct {
	filesystem.FileSystem

	mu     sync.Mutex
	faults map[Op]map[string]error
	calls  map[Op][]string
	hooks  []Hook
}

// NewFaultyFS wraps base.
func NewFaultyFS(base filesystem.FileSystem) *FaultyFS {
	return &FaultyFS{
		FileSystem: base,
		faults:     make(map[Op]map[string]error),
		calls:      make(map[Op][]string),
	}
}

// Fail makes op on path return err. For OpCopy the path is the source.
func (f *FaultyFS) Fail(op Op, path string, err error) *FaultyFS {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.faults[op] == nil {
		f.faults[op] = make(map[string]error)
	}
	f.faults[op][filepath.Clean(path)] = err
	return f
}

// OnCall registers a hook run before every primitive.
func (f *FaultyFS) OnCall(h Hook) *FaultyFS {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hooks = append(f.hooks, h)
	return f
}

// Calls returns the paths op was called with, in order.
func (f *FaultyFS) Calls(op Op) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls[op]...)
}

func (f *FaultyFS) before(op Op, path string) error {
	path = filepath.Clean(path)
	f.mu.Lock()
	f.calls[op] = append(f.calls[op], path)
	hooks := append([]Hook(nil), f.hooks...)
	err := f.faults[op][path]
	f.mu.Unlock()

	for _, h := range hooks {
		h(op, path)
	}
	if err != nil {
		return &fs.PathError{Op: string(op), Path: path, Err: err}
	}
	return nil
}

// Stat implements filesystem.ReadFS.
func (f *FaultyFS) Stat(name string) (fs.FileInfo, error) {
	if err := f.before(OpStat, name); err != nil {
		return nil, err
	}
	return f.FileSystem.Stat(name)
}

// ReadDir implements filesystem.ReadFS.
func (f *FaultyFS) ReadDir(name string) ([]fs.FileInfo, error) {
	if err := f.before(OpReadDir, name); err != nil {
		return nil, err
	}
	return f.FileSystem.ReadDir(name)
}

// Mkdir implements filesystem.WriteFS.
func (f *FaultyFS) Mkdir(name string, perm fs.FileMode) error {
	if err := f.before(OpMkdir, name); err != nil {
		return err
	}
	return f.FileSystem.Mkdir(name, perm)
}

// CopyFile implements filesystem.WriteFS.
func (f *FaultyFS) CopyFile(src, dst string) (int64, error) {
	if err := f.before(OpCopy, src); err != nil {
		return 0, err
	}
	return f.FileSystem.CopyFile(src, dst)
}

// Remove implements filesystem.WriteFS.
func (f *FaultyFS) Remove(name string) error {
	if err := f.before(OpRemove, name); err != nil {
		return err
	}
	return f.FileSystem.Remove(name)
}
