package utils

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.json")

	require.NoError(t, WriteFileAtomic(path, []byte("first")))
	require.NoError(t, WriteFileAtomic(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no staging files should remain")
}

func TestWriteFileAtomicFrom_ErrorKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "receipt.pdf")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0644))

	err := WriteFileAtomicFrom(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return errors.New("render failed")
	})
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStagingPath(t *testing.T) {
	target := filepath.Join("/data", "history.json")
	a, b := StagingPath(target), StagingPath(target)

	assert.NotEqual(t, a, b)
	assert.Equal(t, "/data", filepath.Dir(a))
	assert.True(t, strings.HasPrefix(filepath.Base(a), ".history.json."))
	assert.True(t, strings.HasSuffix(a, ".tmp"))
}

func TestBackupFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")
	now := time.Date(2025, 7, 14, 9, 30, 0, 0, time.UTC)

	t.Run("missing source", func(t *testing.T) {
		backup, err := BackupFile(path, now)
		require.NoError(t, err)
		assert.Empty(t, backup)
	})

	require.NoError(t, os.WriteFile(path, []byte(`{"00001":{}}`), 0644))

	t.Run("copies bytes", func(t *testing.T) {
		backup, err := BackupFile(path, now)
		require.NoError(t, err)
		assert.Equal(t, path+".bak.20250714T093000", backup)

		data, err := os.ReadFile(backup)
		require.NoError(t, err)
		assert.Equal(t, `{"00001":{}}`, string(data))
	})

	t.Run("collision gets counter", func(t *testing.T) {
		backup, err := BackupFile(path, now)
		require.NoError(t, err)
		assert.Equal(t, path+".bak.20250714T093000-2", backup)
	})
}

func TestCleanOldBackups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "customers_data.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := BackupFile(path, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
	}
	// Same second as the last one.
	_, err := BackupFile(path, base.Add(4*time.Hour))
	require.NoError(t, err)

	removed, err := CleanOldBackups(path, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, removed)

	backups, err := ListBackups(path)
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Equal(t, path+".bak.20250101T040000", backups[0])
	assert.Equal(t, path+".bak.20250101T040000-2", backups[1])

	removed, err = CleanOldBackups(path, 0)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestListBackups_LiteralDirectoryName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), `db [old]\*?`)
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := BackupFile(path, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "history.json.other"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".history.json.bak.x.tmp"), nil, 0644))

	backups, err := ListBackups(path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		path + ".bak.20250101T000000",
		path + ".bak.20250101T010000",
		path + ".bak.20250101T020000",
	}, backups)

	removed, err := CleanOldBackups(path, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
}

func TestListBackups_MissingDirectory(t *testing.T) {
	backups, err := ListBackups(filepath.Join(t.TempDir(), "absent", "history.json"))
	require.NoError(t, err)
	assert.Empty(t, backups)
}
