package store

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/ginjaninja78/receipts/internal/record"
	"github.com/ginjaninja78/receipts/pkg/utils"
)

// CommitResult describes a committed receipt
type CommitResult struct {
	// Key is the history key the receipt was stored under
	Key string
	// Customer is the customer name it was grouped under
	Customer string
	// NextNumber is the counter value after the commit
	NextNumber string
	// Backup is the history backup written first, "" on the first commit
	Backup string
	// Artifact is the composed document the receipt belongs to
	Artifact string
}

// Commit records rec in history and advances the counter. It must only be
// called after the artifact at artifactPath was written.
//
// The history and the counter are staged and validated before either is
// replaced. The history is renamed first; if the counter rename then fails
// the previous history is put back and a *SequenceInconsistencyError is
// returned. A failed commit never advances the counter.
func (s *Store) Commit(ctx context.Context, rec *record.Receipt, artifactPath string) (*CommitResult, error) {
	key := rec.Key()
	if strings.TrimSpace(key) == "" {
		return nil, ErrMissingNumber
	}

	stored := rec.Clone()
	stored.RecipeNum = key
	customer := rec.CustomerName()

	var result *CommitResult
	err := s.withLock(ctx, s.HistoryPath(), func() error {
		var err error
		result, err = s.commitLocked(key, customer, stored)
		return err
	})
	if err != nil {
		s.logger.Error("commit failed", zap.String("receipt", key), zap.Error(err))
		return nil, err
	}

	result.Artifact = artifactPath
	s.logger.Info("receipt committed",
		zap.String("receipt", key),
		zap.String("customer", customer),
		zap.String("next", result.NextNumber),
		zap.String("artifact", artifactPath))
	return result, nil
}

func (s *Store) commitLocked(key, customer string, stored *record.Receipt) (*CommitResult, error) {
	historyPath := s.HistoryPath()
	counterPath := s.CounterPath()

	// Load
	history, rev, status, err := s.loadHistory()
	if status == StatusCorrupt {
		// The backup below keeps the unreadable bytes.
		s.logger.Warn("history unreadable, starting from empty", zap.Error(err))
	}
	if _, exists := history[key]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, key)
	}

	current, err := s.readCounter()
	if err != nil {
		return nil, err
	}
	next := record.FormatNumber(advance(current, key))

	history[key] = map[string]*record.Receipt{customer: stored}

	// Backup
	backup, err := utils.BackupFile(historyPath, s.opts.Now())
	if err != nil {
		return nil, err
	}

	// Stage
	data, err := record.EncodeIndent(history)
	if err != nil {
		return nil, fmt.Errorf("failed to encode history: %w", err)
	}
	stagedHistory, err := utils.WriteStaged(historyPath, data)
	if err != nil {
		return nil, err
	}
	defer os.Remove(stagedHistory)

	stagedCounter, err := utils.WriteStaged(counterPath, []byte(next))
	if err != nil {
		return nil, err
	}
	defer os.Remove(stagedCounter)

	// Validate
	if err := validateStagedHistory(stagedHistory, key); err != nil {
		return nil, err
	}
	if err := checkRevision(historyPath, rev); err != nil {
		return nil, fmt.Errorf("history %s: %w", historyPath, err)
	}

	// Swap
	if err := s.rename(stagedHistory, historyPath); err != nil {
		return nil, fmt.Errorf("failed to replace history: %w", err)
	}
	if err := s.rename(stagedCounter, counterPath); err != nil {
		return nil, s.restoreHistory(key, backup, rev, err)
	}

	s.pruneBackups(historyPath)

	return &CommitResult{
		Key:        key,
		Customer:   customer,
		NextNumber: next,
		Backup:     backup,
	}, nil
}

// validateStagedHistory re-reads the staged file and checks it holds key
func validateStagedHistory(path, key string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read staged history: %w", err)
	}
	h, err := parseHistory(data)
	if err != nil {
		return fmt.Errorf("staged history is invalid: %w", err)
	}
	if _, ok := h[key]; !ok {
		return fmt.Errorf("staged history is missing %s", key)
	}
	return nil
}

// restoreHistory undoes the history rename after the counter could not be
// replaced
func (s *Store) restoreHistory(key, backup string, before revision, cause error) error {
	incErr := &SequenceInconsistencyError{Key: key, Cause: cause}
	historyPath := s.HistoryPath()

	var restoreErr error
	if before.exists {
		restoreErr = utils.WriteFileAtomicFrom(historyPath, copyFrom(backup))
	} else {
		restoreErr = os.Remove(historyPath)
	}

	if restoreErr != nil {
		incErr.RestoreErr = restoreErr
	} else {
		incErr.Restored = true
	}
	return incErr
}

func (s *Store) pruneBackups(path string) {
	removed, err := utils.CleanOldBackups(path, s.opts.BackupRetention)
	if err != nil {
		s.logger.Warn("backup cleanup failed", zap.String("path", path), zap.Error(err))
		return
	}
	if removed > 0 {
		s.logger.Debug("old backups removed", zap.String("path", path), zap.Int("count", removed))
	}
}
