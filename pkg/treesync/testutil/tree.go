package testutil

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/treesync/pkg/treesync/filesystem"
)

// Tree describes file contents keyed by slash-separated relative path.
// A key ending in "/" denotes an (empty) directory.
type Tree map[string]string

// NewMemTree returns an in-memory filesystem with the given roots created
// and populated. Roots without an entry in trees are created empty.
func NewMemTree(t *testing.T, roots []string, trees map[string]Tree) *filesystem.BillyFileSystem {
	t.Helper()
	fsys := filesystem.NewMemoryFileSystem()
	for _, root := range roots {
		require.NoError(t, fsys.Raw().MkdirAll(root, 0o755))
	}
	for root, tree := range trees {
		WriteTree(t, fsys, root, tree)
	}
	return fsys
}

// WriteTree writes tree under root.
func WriteTree(t *testing.T, fsys *filesystem.BillyFileSystem, root string, tree Tree) {
	t.Helper()
	for rel, content := range tree {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if strings.HasSuffix(rel, "/") {
			require.NoError(t, fsys.Raw().MkdirAll(path, 0o755))
			continue
		}
		require.NoError(t, fsys.Raw().MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, util.WriteFile(fsys.Raw(), path, []byte(content), 0o644))
	}
}

// ReadTree returns every file under root with its content. Directories
// are listed with a trailing "/".
func ReadTree(t *testing.T, fsys filesystem.ReadFS, root string) Tree {
	t.Helper()
	tree := make(Tree)
	var visit func(dir, rel string)
	visit = func(dir, rel string) {
		infos, err := fsys.ReadDir(dir)
		require.NoError(t, err)
		for _, info := range infos {
			childRel := info.Name()
			if rel != "" {
				childRel = rel + "/" + info.Name()
			}
			child := filepath.Join(dir, info.Name())
			if info.IsDir() {
				tree[childRel+"/"] = ""
				visit(child, childRel)
				continue
			}
			tree[childRel] = readContent(t, fsys, child)
		}
	}
	visit(root, "")
	return tree
}

func readContent(t *testing.T, fsys filesystem.ReadFS, path string) string {
	t.Helper()
	if b, ok := fsys.(*filesystem.BillyFileSystem); ok {
		data, err := util.ReadFile(b.Raw(), path)
		require.NoError(t, err)
		return string(data)
	}
	if f, ok := fsys.(*FaultyFS); ok {
		return readContent(t, f.FileSystem, path)
	}
	info, err := fsys.Stat(path)
	require.NoError(t, err)
	return strings.Repeat("?", int(info.Size()))
}
