package filesystem_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/treesync/pkg/treesync/filesystem"
)

func newMemFS(t *testing.T) *filesystem.BillyFileSystem {
	t.Helper()
	fsys := filesystem.NewMemoryFileSystem()
	require.NoError(t, fsys.Raw().MkdirAll("/root", 0o755))
	return fsys
}

func TestBillyFileSystem_Mkdir(t *testing.T) {
	t.Run("creates a single level", func(t *testing.T) {
		fsys := newMemFS(t)

		require.NoError(t, fsys.Mkdir("/root/child", 0o755))

		info, err := fsys.Stat("/root/child")
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("fails when the parent is missing", func(t *testing.T) {
		fsys := newMemFS(t)

		err := fsys.Mkdir("/root/missing/child", 0o755)
		require.Error(t, err)
		assert.True(t, errors.Is(err, fs.ErrNotExist))

		_, err = fsys.Stat("/root/missing")
		assert.True(t, errors.Is(err, fs.ErrNotExist), "parent must not be created")
	})

	t.Run("fails when the target exists", func(t *testing.T) {
		fsys := newMemFS(t)
		require.NoError(t, util.WriteFile(fsys.Raw(), "/root/file", []byte("x"), 0o644))

		err := fsys.Mkdir("/root/file", 0o755)
		assert.True(t, errors.Is(err, fs.ErrExist))
	})

	t.Run("fails when the parent is a file", func(t *testing.T) {
		fsys := newMemFS(t)
		require.NoError(t, util.WriteFile(fsys.Raw(), "/root/file", []byte("x"), 0o644))

		err := fsys.Mkdir("/root/file/child", 0o755)
		assert.True(t, errors.Is(err, filesystem.ErrNotDirectory))
	})
}

func TestBillyFileSystem_CopyFile(t *testing.T) {
	fsys := newMemFS(t)
	require.NoError(t, util.WriteFile(fsys.Raw(), "/root/src.txt", []byte("hello"), 0o644))

	n, err := fsys.CopyFile("/root/src.txt", "/root/dst.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	data, err := util.ReadFile(fsys.Raw(), "/root/dst.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	t.Run("overwrites and truncates", func(t *testing.T) {
		require.NoError(t, util.WriteFile(fsys.Raw(), "/root/long.txt", []byte("a much longer body"), 0o644))

		_, err := fsys.CopyFile("/root/src.txt", "/root/long.txt")
		require.NoError(t, err)

		data, err := util.ReadFile(fsys.Raw(), "/root/long.txt")
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
	})

	t.Run("missing source", func(t *testing.T) {
		_, err := fsys.CopyFile("/root/nope.txt", "/root/out.txt")
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("directory source", func(t *testing.T) {
		_, err := fsys.CopyFile("/root", "/root/out.txt")
		assert.Error(t, err)
	})
}

func TestBillyFileSystem_ReadDirSorted(t *testing.T) {
	fsys := newMemFS(t)
	for _, name := range []string{"c.txt", "a.txt", "b.txt"} {
		require.NoError(t, util.WriteFile(fsys.Raw(), "/root/"+name, nil, 0o644))
	}

	infos, err := fsys.ReadDir("/root")
	require.NoError(t, err)

	var names []string
	for _, info := range infos {
		names = append(names, info.Name())
	}
	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, names)
}

// vanishingFS fails the first listings of a directory the way the host
// backend does when an entry is removed while it is being listed.
type vanishingFS struct {
	billy.Filesystem
	failures int
	listings int
}

func (v *vanishingFS) ReadDir(path string) ([]os.FileInfo, error) {
	v.listings++
	if v.listings <= v.failures {
		return nil, &fs.PathError{Op: "lstat", Path: path + "/gone.txt", Err: fs.ErrNotExist}
	}
	return v.Filesystem.ReadDir(path)
}

func TestBillyFileSystem_ReadDirVanishedEntry(t *testing.T) {
	t.Run("retries while the directory exists", func(t *testing.T) {
		raw := &vanishingFS{Filesystem: memfs.New(), failures: 1}
		require.NoError(t, raw.MkdirAll("/root", 0o755))
		require.NoError(t, util.WriteFile(raw, "/root/a.txt", nil, 0o644))
		require.NoError(t, util.WriteFile(raw, "/root/b.txt", nil, 0o644))

		infos, err := filesystem.NewBillyFileSystem(raw).ReadDir("/root")
		require.NoError(t, err)
		assert.Len(t, infos, 2)
		assert.Equal(t, 2, raw.listings)
	})

	t.Run("gives up after repeated failures", func(t *testing.T) {
		raw := &vanishingFS{Filesystem: memfs.New(), failures: 10}
		require.NoError(t, raw.MkdirAll("/root", 0o755))

		_, err := filesystem.NewBillyFileSystem(raw).ReadDir("/root")
		assert.ErrorIs(t, err, fs.ErrNotExist)
		assert.Equal(t, 3, raw.listings)
	})

	t.Run("directory itself is gone", func(t *testing.T) {
		raw := &vanishingFS{Filesystem: memfs.New(), failures: 10}

		_, err := filesystem.NewBillyFileSystem(raw).ReadDir("/root")
		assert.ErrorIs(t, err, fs.ErrNotExist)
		assert.Equal(t, 1, raw.listings)
	})
}

func TestOSFileSystem_RelativePaths(t *testing.T) {
	tempDir := t.TempDir()
	oldWD, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(tempDir))
	t.Cleanup(func() { _ = os.Chdir(oldWD) })
	fsys := filesystem.NewOSFileSystem()

	require.NoError(t, fsys.Mkdir("rel", 0o755))
	info, err := os.Stat(filepath.Join(tempDir, "rel"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "rel", "a.txt"), []byte("abc"), 0o644))
	n, err := fsys.CopyFile(filepath.Join("rel", "a.txt"), "b.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	infos, err := fsys.ReadDir(".")
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "b.txt", infos[0].Name())

	require.NoError(t, fsys.Remove("b.txt"))
	_, err = os.Stat(filepath.Join(tempDir, "b.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestOSFileSystem(t *testing.T) {
	tempDir := t.TempDir()
	fsys := filesystem.NewOSFileSystem()

	src := filepath.Join(tempDir, "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("Hello, World!"), 0o644))

	t.Run("Mkdir and Stat", func(t *testing.T) {
		dir := filepath.Join(tempDir, "dir")
		require.NoError(t, fsys.Mkdir(dir, 0o755))

		info, err := fsys.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())

		err = fsys.Mkdir(filepath.Join(tempDir, "a", "b"), 0o755)
		assert.Error(t, err, "Mkdir must not create parents")
	})

	t.Run("CopyFile and Remove", func(t *testing.T) {
		dst := filepath.Join(tempDir, "dst.txt")
		n, err := fsys.CopyFile(src, dst)
		require.NoError(t, err)
		assert.Equal(t, int64(13), n)

		data, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "Hello, World!", string(data))

		require.NoError(t, fsys.Remove(dst))
		_, err = os.Stat(dst)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("ReadDir", func(t *testing.T) {
		infos, err := fsys.ReadDir(tempDir)
		require.NoError(t, err)

		var names []string
		for _, info := range infos {
			names = append(names, info.Name())
		}
		assert.Contains(t, names, "src.txt")
		assert.Contains(t, names, "dir")
	})
}
