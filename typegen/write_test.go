package typegen

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/contractgen/errors"
)

// =============================================================================
// WriteFiles
// =============================================================================

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	files := []File{
		{Language: "dart", Name: "Contracts.dart", Content: "class A {}\n"},
		{Language: "typescript", Name: "ts/Contracts.ts", Content: "export class A {}\n"},
	}

	written, err := WriteFiles(dir, files)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "Contracts.dart"),
		filepath.Join(dir, "ts", "Contracts.ts"),
	}, written)

	content, err := os.ReadFile(written[1])
	require.NoError(t, err)
	assert.Equal(t, "export class A {}\n", string(content))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp", "temporary file left behind")
	}
}

func TestWriteFiles_Overwrites(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Contracts.dart"), []byte("old"), 0644))

	_, err := WriteFiles(dir, []File{{Name: "Contracts.dart", Content: "new"}})
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "Contracts.dart"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))
}

func TestWriteFiles_FailedReplaceRestoresDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "A.ts"), []byte("old a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "C.ts"), []byte("old c"), 0644))

	orig := rename
	t.Cleanup(func() { rename = orig })
	rename = func(src, dst string) error {
		if strings.HasSuffix(src, ".tmp") && filepath.Base(dst) == "C.ts" {
			return errors.New("disk full")
		}
		return orig(src, dst)
	}

	_, err := WriteFiles(dir, []File{
		{Name: "A.ts", Content: "new a"},
		{Name: "B.ts", Content: "new b"},
		{Name: "C.ts", Content: "new c"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to move C.ts into place")

	for name, want := range map[string]string{"A.ts": "old a", "C.ts": "old c"} {
		content, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Equal(t, want, string(content), name)
	}
	assert.NoFileExists(t, filepath.Join(dir, "B.ts"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temporary or backup files left behind")
}

// =============================================================================
// Up-to-date checks
// =============================================================================

func TestCompareFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Same.dart"), []byte("same"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Stale.ts"), []byte("old"), 0644))

	result, err := CompareFiles(dir, []File{
		{Language: "dart", Name: "Same.dart", Content: "same"},
		{Language: "typescript", Name: "Stale.ts", Content: "new"},
		{Language: "typescript", Name: "New.ts", Content: "x"},
	})
	require.NoError(t, err)

	assert.False(t, result.UpToDate)
	assert.Equal(t, map[string][]string{"typescript": {"Stale.ts"}}, result.Differences)
	assert.Equal(t, []string{"New.ts"}, result.Missing)
}

func TestCompareFiles_UpToDate(t *testing.T) {
	dir := t.TempDir()
	files := []File{{Language: "dart", Name: "Contracts.dart", Content: "class A {}\n"}}
	_, err := WriteFiles(dir, files)
	require.NoError(t, err)

	result, err := CompareFiles(dir, files)
	require.NoError(t, err)
	assert.True(t, result.UpToDate)
	assert.Empty(t, result.Missing)
}

func TestCompareDirectories(t *testing.T) {
	generated, existing := t.TempDir(), t.TempDir()
	_, err := WriteFiles(generated, []File{{Name: "a.ts", Content: "a"}, {Name: "b.ts", Content: "b"}})
	require.NoError(t, err)
	_, err = WriteFiles(existing, []File{{Name: "a.ts", Content: "a"}, {Name: "b.ts", Content: "B"}})
	require.NoError(t, err)

	result, err := CompareDirectories(generated, existing)
	require.NoError(t, err)
	assert.False(t, result.UpToDate)
	assert.Equal(t, []string{"b.ts"}, result.Differences["files"])
}

// =============================================================================
// FormatFiles
// =============================================================================

func TestFormatFiles(t *testing.T) {
	t.Run("empty command is a no-op", func(t *testing.T) {
		assert.NoError(t, FormatFiles(context.Background(), "", []string{"x"}))
	})

	t.Run("unbalanced quotes", func(t *testing.T) {
		err := FormatFiles(context.Background(), `fmt "--flag`, []string{"x"})
		require.Error(t, err)
		assert.True(t, errors.IsInvalidConfig(err))
	})

	t.Run("missing binary", func(t *testing.T) {
		err := FormatFiles(context.Background(), "contractgen-no-such-formatter --check", []string{"x"})
		assert.Error(t, err)
	})
}
