package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func makeTrees(t *testing.T) (src, dst string) {
	t.Helper()
	tempDir := t.TempDir()
	src = filepath.Join(tempDir, "src")
	dst = filepath.Join(tempDir, "dst")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0o755))
	require.NoError(t, os.MkdirAll(dst, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("12345"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "b.txt"), []byte("123"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "stale.txt"), []byte("old"), 0o644))
	return src, dst
}

func TestRootCmdSetup(t *testing.T) {
	rootCmd := newRootCommand()

	assert.Equal(t, "treesync", rootCmd.Use)

	var names []string
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Subset(t, names, []string{"version", "run", "mirror", "prune"})
}

func TestVersionCmd(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "treesync version dev"))
}

func TestRunCmd(t *testing.T) {
	src, dst := makeTrees(t)

	out, _, err := execute(t, "run", "--source", src, "--destination", dst)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dst, "sub", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "123", string(data))

	_, err = os.Stat(filepath.Join(dst, "stale.txt"))
	assert.True(t, os.IsNotExist(err))

	assert.Contains(t, out, "Files created")
	assert.Contains(t, out, "8 B copied")
}

func TestRunCmd_NoPruneAndDryRun(t *testing.T) {
	src, dst := makeTrees(t)

	out, _, err := execute(t, "run", "-s", src, "-d", dst, "--no-prune", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "DRY RUN")

	entries, err := os.ReadDir(dst)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "stale.txt", entries[0].Name())
}

func TestMirrorAndPruneCmds(t *testing.T) {
	src, dst := makeTrees(t)

	_, _, err := execute(t, "mirror", "--source", src, "--destination", dst)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dst, "stale.txt"))
	require.NoError(t, err, "mirror must not delete")
	_, err = os.Stat(filepath.Join(dst, "a.txt"))
	require.NoError(t, err)

	_, _, err = execute(t, "prune", "--source", src, "--destination", dst)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dst, "stale.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunCmd_ConfigFileAndEnv(t *testing.T) {
	src, dst := makeTrees(t)

	cfgFile := filepath.Join(t.TempDir(), "treesync.yaml")
	content := "source: " + src + "\nexclude:\n  - sub\n"
	require.NoError(t, os.WriteFile(cfgFile, []byte(content), 0o644))
	t.Setenv("TREESYNC_DESTINATION", dst)

	_, _, err := execute(t, "run", "--config", cfgFile)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dst, "a.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dst, "sub"))
	assert.True(t, os.IsNotExist(err), "excluded directory must not be mirrored")
}

func TestRunCmd_FatalErrors(t *testing.T) {
	t.Run("missing destination", func(t *testing.T) {
		src, _ := makeTrees(t)
		_, _, err := execute(t, "run", "--source", src, "--destination", filepath.Join(src, "..", "nope"))
		assert.ErrorContains(t, err, "invalid destination")
	})

	t.Run("bad log level", func(t *testing.T) {
		src, dst := makeTrees(t)
		_, _, err := execute(t, "run", "--log-level", "loud", "-s", src, "-d", dst)
		assert.ErrorContains(t, err, "invalid --log-level")
	})

	t.Run("unreadable config file", func(t *testing.T) {
		_, _, err := execute(t, "run", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorContains(t, err, "failed to read config file")
	})
}
