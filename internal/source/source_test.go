package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/contractgen/errors"
)

func TestResolve_Local(t *testing.T) {
	dir := t.TempDir()
	ir := filepath.Join(dir, "ir.yaml")
	require.NoError(t, os.WriteFile(ir, []byte("name: A\n"), 0644))

	tests := []struct {
		name  string
		input string
	}{
		{"absolute path", ir},
		{"file URL", "file://" + ir},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := Resolve(context.Background(), tt.input)
			require.NoError(t, err)
			defer src.Close()
			assert.Equal(t, ir, src.Path)
			assert.False(t, src.Remote)
			assert.Equal(t, tt.input, src.Input)
		})
	}
}

func TestResolve_Relative(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ir.yaml"), []byte("name: A\n"), 0644))
	t.Chdir(dir)

	src, err := Resolve(context.Background(), "ir.yaml")
	require.NoError(t, err)
	wd, _ := os.Getwd()
	assert.Equal(t, filepath.Join(wd, "ir.yaml"), src.Path)
}

func TestResolve_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Resolve(context.Background(), "")
	assert.True(t, errors.IsInvalidConfig(err))

	_, err = Resolve(context.Background(), filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = Resolve(context.Background(), dir)
	assert.True(t, errors.IsInvalidConfig(err))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "ir.json", fileName("https://example.com/contracts/ir.json"))
	assert.Equal(t, "contracts.yaml", fileName("s3::https://s3.amazonaws.com/bucket/contracts.yaml"))
	assert.Equal(t, "ir.yaml", fileName("https://example.com/"))
}
