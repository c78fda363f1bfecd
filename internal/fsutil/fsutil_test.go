// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic_CreatesParentDirs(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "a", "b", "out.bin")

	require.NoError(t, WriteFileAtomic(dest, []byte("hello")))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestWriteFileAtomic_Overwrites(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.bin")
	require.NoError(t, os.WriteFile(dest, []byte("old contents that are longer"), 0o644))

	require.NoError(t, WriteFileAtomic(dest, []byte("new")))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestWriteFileAtomic_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteFileAtomic(filepath.Join(dir, "out.bin"), []byte("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.bin", entries[0].Name())
}

func TestWriteFileAtomic_ParentIsFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := WriteFileAtomic(filepath.Join(blocker, "out.bin"), []byte("x"))
	assert.Error(t, err)
}
