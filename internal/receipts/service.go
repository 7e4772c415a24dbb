// =============================================================================
// Receipts - Service
// =============================================================================
//
// This module ties the composer and the store together and fixes their
// ordering: a receipt is committed to history only after its document was
// written, and a failed commit leaves the counter where it was.
//
// OPERATIONS:
//   - Prepare:    build a record from a customer template plus overrides
//   - Generate:   compose a new receipt, then commit it
//   - Regenerate: compose an existing history entry again; never commits
//
// =============================================================================

package receipts

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ginjaninja78/receipts/internal/composer"
	"github.com/ginjaninja78/receipts/internal/config"
	"github.com/ginjaninja78/receipts/internal/record"
	"github.com/ginjaninja78/receipts/internal/store"
)

// =============================================================================
// RESULT STRUCTURES
// =============================================================================

// GenerateResult is the outcome of Generate.
type GenerateResult struct {
	// Receipt is the record that was composed and committed.
	Receipt *record.Receipt

	// Artifact describes the written document.
	Artifact *composer.Artifact

	// Commit describes the history update.
	Commit *store.CommitResult

	// Validation holds the format warnings raised for the record.
	Validation *record.Result
}

// =============================================================================
// SERVICE STRUCTURE
// =============================================================================

// Service generates and regenerates receipts.
type Service struct {
	cfg      *config.Config
	composer *composer.Composer
	store    *store.Store
	logger   *zap.Logger
}

// NewService creates a Service.
//
// PARAMETERS:
//   - cfg: The application configuration; DBDir is the fallback output folder.
//   - c: The composer used to draw receipts.
//   - s: The store holding customers, history and the counter.
//   - logger: The logger. nil disables logging.
func NewService(cfg *config.Config, c *composer.Composer, s *store.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:      cfg,
		composer: c,
		store:    s,
		logger:   logger.Named("receipts"),
	}
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Prepare builds a record from the named customer's template and applies
// overrides on top. An empty customer name starts from a blank record.
// When the record has no receipt number the next suggested number is used.
func (s *Service) Prepare(customer string, overrides map[string]string) (*record.Receipt, error) {
	rec := &record.Receipt{}
	if customer != "" {
		tmpl, err := s.store.GetCustomer(customer)
		if err != nil {
			return nil, err
		}
		rec = tmpl
		if strings.TrimSpace(rec.Customer) == "" {
			rec.Customer = customer
		}
	}

	for key, value := range overrides {
		rec.Set(key, value)
	}

	if strings.TrimSpace(rec.RecipeNum) == "" {
		next, err := s.store.NextNumber()
		if err != nil {
			s.logger.Warn("counter unreadable, using default", zap.Error(err))
		}
		rec.RecipeNum = next
	}

	return rec, nil
}

// Generate composes rec and, once the document is written, commits it to
// history and advances the counter.
//
// PARAMETERS:
//   - rec: The record to generate. It is not modified.
//   - outputPath: Where to write the document; "" uses the default name in
//     SaveFolder or DBDir.
//
// RETURNS:
//   - The GenerateResult.
//   - An error from validation of the number, the composer or the store.
//     A composer error means nothing was committed.
func (s *Service) Generate(ctx context.Context, rec *record.Receipt, outputPath string) (*GenerateResult, error) {
	rec = rec.Clone()
	rec.RecipeNum = rec.Key()
	if strings.TrimSpace(rec.RecipeNum) == "" {
		return nil, store.ErrMissingNumber
	}

	// =========================================================================
	// STEP 1: VALIDATE
	// =========================================================================
	// Format problems are warnings only.

	validation := record.Validate(rec)
	for _, issue := range validation.Issues {
		s.logger.Warn("record check", zap.String("receipt", rec.RecipeNum), zap.String("issue", issue.Error()))
	}

	// =========================================================================
	// STEP 2: CHECK NUMBER
	// =========================================================================
	// Refuse a used number before writing any document. Commit checks
	// again under the lock.

	if _, err := s.store.Lookup(rec.RecipeNum); err == nil {
		return nil, fmt.Errorf("%w: %s", store.ErrDuplicateKey, rec.RecipeNum)
	}

	// =========================================================================
	// STEP 3: COMPOSE
	// =========================================================================

	if outputPath == "" {
		outputPath = record.DefaultPath(rec, rec.CustomerName(), rec.RecipeNum, s.cfg.DBDir)
	}

	artifact, err := s.composer.Compose(ctx, rec, outputPath)
	if err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 4: COMMIT
	// =========================================================================

	commit, err := s.store.Commit(ctx, rec, artifact.Path)
	if err != nil {
		return nil, fmt.Errorf("receipt written to %s but not recorded: %w", artifact.Path, err)
	}

	return &GenerateResult{
		Receipt:    rec,
		Artifact:   artifact,
		Commit:     commit,
		Validation: validation,
	}, nil
}

// Regenerate composes the history entry stored under key again. The default
// output path is the entry's default name with the "_recreate" suffix.
// History and the counter are never touched.
func (s *Service) Regenerate(ctx context.Context, key, outputPath string) (*composer.Artifact, error) {
	entry, err := s.store.Lookup(key)
	if err != nil {
		return nil, err
	}

	if outputPath == "" {
		outputPath = record.RecreatePath(record.DefaultPath(entry.Receipt, entry.Customer, entry.Key, s.cfg.DBDir))
	}

	return s.composer.Compose(ctx, entry.Receipt.Clone(), outputPath)
}
