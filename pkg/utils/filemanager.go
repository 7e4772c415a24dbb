// =============================================================================
// Receipts - File Manager Utility
// =============================================================================
//
// This module provides the file operations the stores and the composer rely
// on:
//   - Staged writes (temporary file in the target directory, fsync, rename)
//   - Timestamped backups of files about to be replaced
//   - Backup retention
//
// BACKUP NAMING:
//   <file>.bak.20060102T150405
//   If that name already exists (two saves within one second) a counter is
//   appended: <file>.bak.20060102T150405-2, -3, ...
//
// STAGING:
//   Staged files live next to their target so the final rename never crosses
//   a filesystem boundary. Their names carry a UUID and a ".tmp" suffix.
//
// =============================================================================

package utils

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BackupTimeFormat is the timestamp layout used in backup file names.
const BackupTimeFormat = "20060102T150405"

// backupInfix separates the original file name from the timestamp.
const backupInfix = ".bak."

// =============================================================================
// STAGED WRITES
// =============================================================================

// StagingPath returns a unique temporary path next to target.
func StagingPath(target string) string {
	dir, base := filepath.Split(target)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", base, uuid.New().String()))
}

// WriteStaged writes data to a new staging file next to target and syncs it.
//
// PARAMETERS:
//   - target: The file the staged data will eventually replace.
//   - data: The complete new content.
//
// RETURNS:
//   - The path of the staging file. The caller renames or removes it.
//   - An error if the file cannot be written. No staging file is left behind
//     on error.
func WriteStaged(target string, data []byte) (string, error) {
	return WriteStagedFrom(target, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// WriteStagedFrom is WriteStaged for content produced by a writer function.
func WriteStagedFrom(target string, write func(io.Writer) error) (string, error) {
	staged := StagingPath(target)

	file, err := os.OpenFile(staged, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create staging file: %w", err)
	}

	if err := write(file); err != nil {
		file.Close()
		os.Remove(staged)
		return "", fmt.Errorf("failed to write staging file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(staged)
		return "", fmt.Errorf("failed to sync staging file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(staged)
		return "", fmt.Errorf("failed to close staging file: %w", err)
	}

	return staged, nil
}

// WriteFileAtomic replaces path with data so that readers see either the old
// or the new content. The parent directory is created when missing.
func WriteFileAtomic(path string, data []byte) error {
	return WriteFileAtomicFrom(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// WriteFileAtomicFrom is WriteFileAtomic for content produced by a writer
// function.
func WriteFileAtomicFrom(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	staged, err := WriteStagedFrom(path, write)
	if err != nil {
		return err
	}

	if err := os.Rename(staged, path); err != nil {
		os.Remove(staged)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}

// =============================================================================
// BACKUPS
// =============================================================================

// BackupFile copies path to a timestamped backup next to it.
//
// PARAMETERS:
//   - path: The file to back up.
//   - now: The timestamp used in the backup name.
//
// RETURNS:
//   - The backup path, or "" when path does not exist.
//   - An error if the copy fails.
func BackupFile(path string, now time.Time) (string, error) {
	if !FileExists(path) {
		return "", nil
	}

	base := path + backupInfix + now.Format(BackupTimeFormat)
	backup := base
	for i := 2; FileExists(backup); i++ {
		backup = fmt.Sprintf("%s-%d", base, i)
	}

	if err := copyFile(path, backup); err != nil {
		os.Remove(backup)
		return "", fmt.Errorf("failed to back up %s: %w", path, err)
	}

	return backup, nil
}

// ListBackups returns the backups of path, oldest first. Staging files are
// skipped. A missing directory yields no backups.
func ListBackups(path string) ([]string, error) {
	dir := filepath.Dir(path)
	prefix := filepath.Base(path) + backupInfix

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	var backups []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || strings.HasSuffix(name, ".tmp") {
			continue
		}
		backups = append(backups, filepath.Join(dir, name))
	}
	sort.Slice(backups, func(i, j int) bool {
		return backupOrderKey(backups[i]) < backupOrderKey(backups[j])
	})

	return backups, nil
}

// CleanOldBackups removes the oldest backups of path so that at most keep
// remain. A keep of zero or less keeps everything.
//
// RETURNS:
//   - The number of files removed.
//   - An error if listing or removal fails.
func CleanOldBackups(path string, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}

	backups, err := ListBackups(path)
	if err != nil {
		return 0, err
	}

	removed := 0
	for len(backups)-removed > keep {
		if err := os.Remove(backups[removed]); err != nil {
			return removed, fmt.Errorf("failed to clean backups: %w", err)
		}
		removed++
	}

	return removed, nil
}

// backupOrderKey makes "-N" collision suffixes sort after the plain name and
// numerically among themselves.
func backupOrderKey(name string) string {
	idx := strings.LastIndex(name, backupInfix)
	stamp := name[idx+len(backupInfix):]
	ts, suffix, found := strings.Cut(stamp, "-")
	n := 1
	if found {
		if v, err := strconv.Atoi(suffix); err == nil {
			n = v
		}
	}
	return fmt.Sprintf("%s-%06d", ts, n)
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	if err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
