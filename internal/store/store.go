// Package store persists customers, receipt history and the receipt
// sequence counter as JSON and text files in one directory.
//
// Every write happens under an exclusive file lock, backs up the file it is
// about to replace, stages the new content next to it and renames it into
// place after checking that nobody changed the file since it was read.
package store

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ginjaninja78/receipts/internal/config"
)

// LoadStatus says what a loader found on disk
type LoadStatus int

const (
	// StatusLoaded means the file was read and parsed
	StatusLoaded LoadStatus = iota
	// StatusMissing means the file does not exist yet
	StatusMissing
	// StatusCorrupt means the file exists but could not be read or parsed
	StatusCorrupt
)

func (s LoadStatus) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusMissing:
		return "missing"
	case StatusCorrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// Options configures a Store
type Options struct {
	// Dir holds the store files
	Dir string
	// LockTimeout bounds lock acquisition
	LockTimeout time.Duration
	// RetryDelay is the pause between lock attempts
	RetryDelay time.Duration
	// BackupRetention is the number of backups kept per file; zero keeps all
	BackupRetention int
	// Now is the clock used for backup names
	Now func() time.Time
	// Logger receives warnings; nil disables logging
	Logger *zap.Logger
}

// OptionsFromConfig builds Options from the application configuration
func OptionsFromConfig(cfg *config.Config, logger *zap.Logger) Options {
	return Options{
		Dir:             cfg.DBDir,
		LockTimeout:     cfg.Lock.Timeout,
		RetryDelay:      cfg.Lock.RetryDelay,
		BackupRetention: cfg.Backup.Retention,
		Logger:          logger,
	}
}

// Store reads and writes the files in one DB directory
type Store struct {
	opts   Options
	logger *zap.Logger

	// rename is swapped in tests to simulate failures
	rename func(oldpath, newpath string) error
}

// New creates a Store. Missing options get defaults
func New(opts Options) *Store {
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = 10 * time.Second
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 100 * time.Millisecond
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		opts:   opts,
		logger: logger.Named("store"),
		rename: os.Rename,
	}
}

// HistoryPath returns the history file path
func (s *Store) HistoryPath() string {
	return filepath.Join(s.opts.Dir, "history.json")
}

// CounterPath returns the counter file path
func (s *Store) CounterPath() string {
	return filepath.Join(s.opts.Dir, "receipt_number.txt")
}

// CustomersPath returns the customer file path
func (s *Store) CustomersPath() string {
	return filepath.Join(s.opts.Dir, "customers_data.json")
}

// revision identifies the content of a file as read. The zero value stands
// for a file that did not exist
type revision struct {
	exists bool
	sum    [sha256.Size]byte
}

func revisionOf(data []byte, exists bool) revision {
	if !exists {
		return revision{}
	}
	return revision{exists: true, sum: sha256.Sum256(data)}
}

// readRevision reads path and returns its bytes and revision. A missing
// file is not an error
func readRevision(path string) ([]byte, revision, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, revision{}, nil
	}
	if err != nil {
		return nil, revision{}, err
	}
	return data, revisionOf(data, true), nil
}

// checkRevision fails with ErrConcurrentModification when path no longer
// matches want
func checkRevision(path string, want revision) error {
	_, got, err := readRevision(path)
	if err != nil {
		return err
	}
	if got != want {
		return ErrConcurrentModification
	}
	return nil
}

// isBlank reports whether data has no content besides whitespace
func isBlank(data []byte) bool {
	return len(bytes.TrimSpace(data)) == 0
}
