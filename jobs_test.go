package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextRun(t *testing.T) {
	loc := time.UTC
	before := time.Date(2025, 5, 4, 1, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2025, 5, 4, 2, 0, 0, 0, loc), nextRun(before, 2, 0))

	after := time.Date(2025, 5, 4, 2, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2025, 5, 5, 2, 0, 0, 0, loc), nextRun(after, 2, 0))
}

func TestCopyDir(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "banners"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.png"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "banners", "b.png"), []byte("b"), 0644))

	dest := filepath.Join(t.TempDir(), "copy")
	require.NoError(t, copyDir(src, dest))

	data, err := os.ReadFile(filepath.Join(dest, "banners", "b.png"))
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))
}

func TestCleanupOldBackups(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "2025-05-01_02-00-00")
	fresh := filepath.Join(dir, "2025-05-04_02-00-00")
	require.NoError(t, os.Mkdir(old, 0755))
	require.NoError(t, os.Mkdir(fresh, 0755))

	now := time.Now()
	require.NoError(t, os.Chtimes(old, now.Add(-5*24*time.Hour), now.Add(-5*24*time.Hour)))

	assert.Equal(t, 1, cleanupOldBackups(dir, 4*24*time.Hour, now))
	_, err := os.Stat(old)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(fresh)
	assert.NoError(t, err)
}
