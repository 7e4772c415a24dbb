// =============================================================================
// Receipts - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (receipts)
//   ├── generateCmd   (receipts generate)
//   ├── regenerateCmd (receipts regenerate <number>)
//   ├── historyCmd    (receipts history)
//   ├── customersCmd  (receipts customers list|show|set|delete)
//   ├── exportCmd     (receipts export)
//   ├── nextCmd       (receipts next)
//   ├── validateCmd   (receipts validate)
//   └── versionCmd    (receipts version)
//
// CONFIGURATION:
//   Before any subcommand runs the root command:
//   1. Loads the YAML configuration file (--config)
//   2. Applies RECEIPTS_* environment overrides through Viper
//   3. Validates the result and creates the DB directory
//   4. Builds the logger
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ginjaninja78/receipts/internal/composer"
	"github.com/ginjaninja78/receipts/internal/config"
	"github.com/ginjaninja78/receipts/internal/logger"
	"github.com/ginjaninja78/receipts/internal/receipts"
	"github.com/ginjaninja78/receipts/internal/render"
	"github.com/ginjaninja78/receipts/internal/shaper"
	"github.com/ginjaninja78/receipts/internal/store"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose switches logging to debug level.
var verbose bool

// v carries environment and flag overrides.
var v = viper.New()

// cfg and log are set by the root command before a subcommand runs.
var (
	cfg *config.Config
	log *zap.Logger
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "receipts",
	Short: "Receipts - compose numbered single-page receipt PDFs",
	Long: `Receipts composes single-page PDF receipts over a fixed template, keeps a
numbered history of every receipt issued and exports monthly income reports.

Key Features:
  - Hebrew and mixed-direction text laid out right to left
  - Customer templates with per-receipt overrides
  - Sequential receipt numbers with crash-safe history updates
  - Regeneration of any past receipt from history
  - Monthly TSV and XLSX income exports

Example Usage:
  receipts generate --customer Dalya --set Date=1/7/2025
  receipts regenerate 00007
  receipts history --customer Dalya --date 7/2025
  receipts export --month 7 --year 2025 --xlsx july.xlsx`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if log != nil {
		_ = log.Sync()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)

	rootCmd.PersistentFlags().String("db-dir", "", "Directory holding customers, history and the counter")
	rootCmd.PersistentFlags().String("resource-dir", "", "Directory holding the template, fonts and signature")

	// ==========================================================================
	// VIPER BINDINGS
	// ==========================================================================
	// RECEIPTS_DB_DIR, RECEIPTS_LOG_LEVEL and so on override the file.

	v.SetEnvPrefix("RECEIPTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlag("db_dir", rootCmd.PersistentFlags().Lookup("db-dir"))
	_ = v.BindPFlag("resource_dir", rootCmd.PersistentFlags().Lookup("resource-dir"))
}

// initConfig loads the configuration and builds the logger.
func initConfig() error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	config.ApplyOverrides(loaded, v)
	if verbose {
		loaded.Log.Level = "debug"
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	l, err := logger.New(&logger.Config{
		Level:  loaded.Log.Level,
		Format: loaded.Log.Format,
		Output: loaded.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	cfg = loaded
	log = l.With(zap.String("run_id", uuid.NewString()))
	log.Debug("configuration loaded",
		zap.String("config", cfgFile),
		zap.String("db_dir", cfg.DBDir),
		zap.String("resource_dir", cfg.ResourceDir),
	)
	return nil
}

// =============================================================================
// COMPONENT CONSTRUCTION
// =============================================================================

// newStore opens the store in the configured DB directory.
func newStore() *store.Store {
	return store.New(store.OptionsFromConfig(cfg, log))
}

// newComposer builds a composer drawing through backend.
func newComposer(backend render.Backend) *composer.Composer {
	s := shaper.New(shaper.Options{
		Direction:    shaper.ParseDirection(cfg.Shaping.Direction),
		WrapNumbers:  cfg.Shaping.WrapNumbers,
		NumberMarker: shaper.NumberMarker(cfg.Shaping.NumberMarker),
	})
	return composer.New(cfg, backend, s, log)
}

// newService wires the PDF composer and the store together.
func newService() (*receipts.Service, *store.Store) {
	st := newStore()
	return receipts.NewService(cfg, newComposer(render.NewFPDF()), st, log), st
}
