package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhelbig/rexsync/pkg/pattern"
)

func mustCompile(t *testing.T, patterns string) *pattern.Set {
	t.Helper()
	set, err := pattern.Compile(patterns)
	require.NoError(t, err)
	return set
}

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func relPaths(files []File) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, filepath.ToSlash(f.RelPath))
	}
	return out
}

func TestScan(t *testing.T) {
	t.Run("recurses and preserves relative paths", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "a.txt"), "a")
		writeFile(t, filepath.Join(root, "sub", "b.txt"), "b")
		writeFile(t, filepath.Join(root, "sub", "deep", "c.txt"), "c")
		writeFile(t, filepath.Join(root, "sub", "skip.bin"), "x")

		files, err := Scan(context.Background(), root, mustCompile(t, `\.txt$`))
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a.txt", "sub/b.txt", "sub/deep/c.txt"}, relPaths(files))

		for _, f := range files {
			assert.True(t, filepath.IsAbs(f.AbsPath) || f.AbsPath == filepath.Join(root, f.RelPath))
			assert.False(t, f.ModTime.IsZero())
		}
	})

	t.Run("matches base name only, not directory components", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "logs", "readme.md"), "x")
		writeFile(t, filepath.Join(root, "docs", "build.log"), "x")

		// "logs" appears only as a directory name; it must not cause a match.
		files, err := Scan(context.Background(), root, mustCompile(t, `logs`))
		require.NoError(t, err)
		assert.Empty(t, files)

		files, err = Scan(context.Background(), root, mustCompile(t, `\.log$`))
		require.NoError(t, err)
		assert.Equal(t, []string{"docs/build.log"}, relPaths(files))
	})

	t.Run("directories are never yielded", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "match.txt"), 0o755))
		writeFile(t, filepath.Join(root, "match.txt", "inner.txt"), "x")

		files, err := Scan(context.Background(), root, mustCompile(t, `\.txt$`))
		require.NoError(t, err)
		assert.Equal(t, []string{"match.txt/inner.txt"}, relPaths(files))
	})

	t.Run("a file matching only a later pattern appears exactly once", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "a.txt"), "x")

		files, err := Scan(context.Background(), root, mustCompile(t, `\.pdf$;\.txt$`))
		require.NoError(t, err)
		assert.Equal(t, []string{"a.txt"}, relPaths(files))
	})

	t.Run("empty source yields no files", func(t *testing.T) {
		files, err := Scan(context.Background(), t.TempDir(), mustCompile(t, `.*`))
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("cancellation surfaces ctx error, not a partial list", func(t *testing.T) {
		root := t.TempDir()
		for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
			writeFile(t, filepath.Join(root, name), "x")
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		files, err := Scan(ctx, root, mustCompile(t, `.*`))
		require.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, files)
	})

	t.Run("missing root aborts the scan", func(t *testing.T) {
		_, err := Scan(context.Background(), filepath.Join(t.TempDir(), "nope"), mustCompile(t, `.*`))
		require.Error(t, err)
	})
}
