package filesystem

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"time"
)

// DryRunFS is a filesystem wrapper that simulates mutations without
// applying them to the underlying filesystem. Reads go to the wrapped
// filesystem, overlaid with the simulated state.
type DryRunFS struct {
	base    FileSystem
	dirs    map[string]bool
	files   map[string]int64
	removed map[string]bool
}

// NewDryRunFS creates a new DryRunFS over base.
func NewDryRunFS(base FileSystem) *DryRunFS {
	return &DryRunFS{
		base:    base,
		dirs:    make(map[string]bool),
		files:   make(map[string]int64),
		removed: make(map[string]bool),
	}
}

// Stat returns a FileInfo describing the named file, as it would look had
// the simulated mutations been applied.
func (d *DryRunFS) Stat(name string) (fs.FileInfo, error) {
	name = filepath.Clean(name)
	if d.removed[name] {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	if d.dirs[name] {
		return &simulatedInfo{name: filepath.Base(name), mode: fs.ModeDir | 0o755}, nil
	}
	if size, ok := d.files[name]; ok {
		return &simulatedInfo{name: filepath.Base(name), size: size, mode: 0o644}, nil
	}
	return d.base.Stat(name)
}

// ReadDir lists a directory, including simulated entries.
func (d *DryRunFS) ReadDir(name string) ([]fs.FileInfo, error) {
	name = filepath.Clean(name)
	var infos []fs.FileInfo
	if !d.dirs[name] {
		list, err := d.base.ReadDir(name)
		if err != nil {
			return nil, err
		}
		for _, info := range list {
			if !d.removed[filepath.Join(name, info.Name())] {
				infos = append(infos, info)
			}
		}
	}

	seen := make(map[string]bool, len(infos))
	for _, info := range infos {
		seen[info.Name()] = true
	}
	for dir := range d.dirs {
		if filepath.Dir(dir) == name && !seen[filepath.Base(dir)] {
			infos = append(infos, &simulatedInfo{name: filepath.Base(dir), mode: fs.ModeDir | 0o755})
		}
	}
	for file, size := range d.files {
		if filepath.Dir(file) == name && !seen[filepath.Base(file)] {
			infos = append(infos, &simulatedInfo{name: filepath.Base(file), size: size, mode: 0o644})
		}
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name() < infos[j].Name()
	})
	return infos, nil
}

// Mkdir records a directory creation.
func (d *DryRunFS) Mkdir(name string, perm fs.FileMode) error {
	name = filepath.Clean(name)
	if _, err := d.Stat(name); err == nil {
		return &fs.PathError{Op: "mkdir", Path: name, Err: fs.ErrExist}
	}
	parent, err := d.Stat(filepath.Dir(name))
	if err != nil {
		return &fs.PathError{Op: "mkdir", Path: name, Err: err}
	}
	if !parent.IsDir() {
		return &fs.PathError{Op: "mkdir", Path: name, Err: ErrNotDirectory}
	}
	delete(d.removed, name)
	d.dirs[name] = true
	return nil
}

// CopyFile records a copy. The simulated destination takes the size of
// the source.
func (d *DryRunFS) CopyFile(src, dst string) (int64, error) {
	dst = filepath.Clean(dst)
	info, err := d.Stat(src)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, &fs.PathError{Op: "copy", Path: src, Err: errors.New("is a directory")}
	}
	parent, err := d.Stat(filepath.Dir(dst))
	if err != nil {
		return 0, &fs.PathError{Op: "copy", Path: dst, Err: err}
	}
	if !parent.IsDir() {
		return 0, &fs.PathError{Op: "copy", Path: dst, Err: ErrNotDirectory}
	}
	delete(d.removed, dst)
	d.files[dst] = info.Size()
	return info.Size(), nil
}

// Remove records a removal.
func (d *DryRunFS) Remove(name string) error {
	name = filepath.Clean(name)
	if _, err := d.Stat(name); err != nil {
		return err
	}
	delete(d.files, name)
	delete(d.dirs, name)
	d.removed[name] = true
	return nil
}

type simulatedInfo struct {
	name string
	size int64
	mode fs.FileMode
}

func (i *simulatedInfo) Name() string       { return i.name }
func (i *simulatedInfo) Size() int64        { return i.size }
func (i *simulatedInfo) Mode() fs.FileMode  { return i.mode }
func (i *simulatedInfo) ModTime() time.Time { return time.Time{} }
func (i *simulatedInfo) IsDir() bool        { return i.mode.IsDir() }
func (i *simulatedInfo) Sys() any           { return nil }
