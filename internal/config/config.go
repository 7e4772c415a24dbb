// =============================================================================
// Receipts - Configuration Module
// =============================================================================
//
// This module loads the application configuration. Every component receives
// its settings from a Config value; nothing reads paths from globals.
//
// SOURCES (lowest to highest priority):
//   1. Built-in defaults (applyDefaults)
//   2. The YAML file (config.yaml by default, optional)
//   3. Environment variables with the RECEIPTS_ prefix and command-line flags,
//      applied through viper by ApplyOverrides
//
// DIRECTORIES:
//   - DBDir holds customers_data.json, history.json, receipt_number.txt and
//     their backups. It is created on load when missing.
//   - ResourceDir holds the template, fonts and signature image.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file used when --config is not set.
const DefaultConfigFile = "config.yaml"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// DBDir is the directory holding the JSON stores and the counter file.
	// Receipts without an absolute SaveFolder are written here as well.
	// Default: "./receipts_db"
	DBDir string `yaml:"db_dir"`

	// ResourceDir is the directory holding the template, fonts and signature.
	// Default: "./resources"
	ResourceDir string `yaml:"resource_dir"`

	// =========================================================================
	// RESOURCE SETTINGS
	// =========================================================================

	// Template is the background drawn on every page. SVG files are drawn
	// through the basic SVG path renderer; PNG and JPEG are drawn as images.
	// Default: "receipt_template_TP.svg"
	Template string `yaml:"template"`

	// Signature is an optional image placed in the signature box.
	// Default: "HoniSigneture.jpg"
	Signature string `yaml:"signature"`

	// Fonts configures the TrueType font used for script text.
	Fonts FontConfig `yaml:"fonts"`

	// Page configures the physical page and the authoring coordinate space.
	Page PageConfig `yaml:"page"`

	// =========================================================================
	// TEXT SETTINGS
	// =========================================================================

	// Shaping configures bidirectional reordering.
	Shaping ShapingConfig `yaml:"shaping"`

	// =========================================================================
	// STORE SETTINGS
	// =========================================================================

	// Backup configures backups written before a store file is replaced.
	Backup BackupConfig `yaml:"backup"`

	// Lock configures the exclusive lock taken for store writes.
	Lock LockConfig `yaml:"lock"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// Log configures the zap logger.
	Log LogConfig `yaml:"log"`
}

// FontConfig names the font files inside ResourceDir.
type FontConfig struct {
	// Family is the name the regular font is registered under.
	// Default: "Alef"
	Family string `yaml:"family"`

	// Regular is required. Rendering fails when it is missing.
	// Default: "Alef-Regular.ttf"
	Regular string `yaml:"regular"`

	// Bold is registered as "<Family>-Bold" when present.
	// Default: "Alef-Bold.ttf"
	Bold string `yaml:"bold"`
}

// PageConfig describes the output page in millimetres.
type PageConfig struct {
	// Width of the output page. Default: 125
	Width float64 `yaml:"width"`

	// Height of the output page. Default: 160
	Height float64 `yaml:"height"`

	// AuthoringHeight is the page height of the design tool the field boxes
	// were measured in. Default: 161
	AuthoringHeight float64 `yaml:"authoring_height"`
}

// ShapingConfig configures the text shaper.
type ShapingConfig struct {
	// Direction is "auto", "rtl" or "ltr". Default: "auto"
	Direction string `yaml:"direction"`

	// WrapNumbers protects digit runs with markers before reordering.
	WrapNumbers bool `yaml:"wrap_numbers"`

	// NumberMarker is "mark" or "override". Default: "override"
	NumberMarker string `yaml:"number_marker"`
}

// BackupConfig controls backup retention.
type BackupConfig struct {
	// Retention is the number of backups kept per store file. Zero keeps all.
	// Default: 20
	Retention int `yaml:"retention"`
}

// LockConfig controls lock acquisition.
type LockConfig struct {
	// Timeout bounds how long a write waits for the lock. Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// RetryDelay is the pause between lock attempts. Default: 100ms
	RetryDelay time.Duration `yaml:"retry_delay"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is "debug", "info", "warn" or "error". Default: "info"
	Level string `yaml:"level"`

	// Format is "console" or "json". Default: "console"
	Format string `yaml:"format"`

	// Output is "stdout", "stderr" or a file path. Default: "stderr"
	Output string `yaml:"output"`
}

// =============================================================================
// PATH HELPERS
// =============================================================================

// CustomersPath returns the path of the customer store.
func (c *Config) CustomersPath() string {
	return filepath.Join(c.DBDir, "customers_data.json")
}

// HistoryPath returns the path of the receipt history.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.DBDir, "history.json")
}

// CounterPath returns the path of the sequence counter file.
func (c *Config) CounterPath() string {
	return filepath.Join(c.DBDir, "receipt_number.txt")
}

// Resource resolves name inside ResourceDir. Absolute names are returned as is.
func (c *Config) Resource(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.ResourceDir, name)
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file. A missing file is not
//     an error; the defaults are used instead.
//
// RETURNS:
//   - A pointer to the Config struct with defaults applied.
//   - An error if the file cannot be parsed.
//
// Load does not validate. Callers apply overrides first and then call
// Validate.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(cfg)
	return cfg, nil
}

// ApplyOverrides copies values set in v over cfg. Keys use the YAML names
// with "." between sections, e.g. "db_dir" or "log.level"; with an env
// prefix of RECEIPTS those map to RECEIPTS_DB_DIR and RECEIPTS_LOG_LEVEL.
func ApplyOverrides(cfg *Config, v *viper.Viper) {
	setString := func(key string, dst *string) {
		if v.IsSet(key) {
			if s := strings.TrimSpace(v.GetString(key)); s != "" {
				*dst = s
			}
		}
	}

	setString("db_dir", &cfg.DBDir)
	setString("resource_dir", &cfg.ResourceDir)
	setString("template", &cfg.Template)
	setString("signature", &cfg.Signature)
	setString("fonts.regular", &cfg.Fonts.Regular)
	setString("fonts.bold", &cfg.Fonts.Bold)
	setString("shaping.direction", &cfg.Shaping.Direction)
	setString("shaping.number_marker", &cfg.Shaping.NumberMarker)
	setString("log.level", &cfg.Log.Level)
	setString("log.format", &cfg.Log.Format)
	setString("log.output", &cfg.Log.Output)

	if v.IsSet("shaping.wrap_numbers") {
		cfg.Shaping.WrapNumbers = v.GetBool("shaping.wrap_numbers")
	}
	if v.IsSet("backup.retention") {
		cfg.Backup.Retention = v.GetInt("backup.retention")
	}
	if v.IsSet("lock.timeout") {
		cfg.Lock.Timeout = v.GetDuration("lock.timeout")
	}
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.DBDir == "" {
		cfg.DBDir = "./receipts_db"
	}
	if cfg.ResourceDir == "" {
		cfg.ResourceDir = "./resources"
	}
	if cfg.Template == "" {
		cfg.Template = "receipt_template_TP.svg"
	}
	if cfg.Signature == "" {
		cfg.Signature = "HoniSigneture.jpg"
	}
	if cfg.Fonts.Family == "" {
		cfg.Fonts.Family = "Alef"
	}
	if cfg.Fonts.Regular == "" {
		cfg.Fonts.Regular = "Alef-Regular.ttf"
	}
	if cfg.Fonts.Bold == "" {
		cfg.Fonts.Bold = "Alef-Bold.ttf"
	}
	if cfg.Page.Width == 0 {
		cfg.Page.Width = 125
	}
	if cfg.Page.Height == 0 {
		cfg.Page.Height = 160
	}
	if cfg.Page.AuthoringHeight == 0 {
		cfg.Page.AuthoringHeight = 161
	}
	if cfg.Shaping.Direction == "" {
		cfg.Shaping.Direction = "auto"
	}
	if cfg.Shaping.NumberMarker == "" {
		cfg.Shaping.NumberMarker = "override"
	}
	if cfg.Backup.Retention == 0 {
		cfg.Backup.Retention = 20
	}
	if cfg.Lock.Timeout == 0 {
		cfg.Lock.Timeout = 10 * time.Second
	}
	if cfg.Lock.RetryDelay == 0 {
		cfg.Lock.RetryDelay = 100 * time.Millisecond
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stderr"
	}
}

// Validate checks the configuration and creates DBDir when it is missing.
func (c *Config) Validate() error {
	if c.Page.Width <= 0 || c.Page.Height <= 0 || c.Page.AuthoringHeight <= 0 {
		return fmt.Errorf("invalid page size %.2fx%.2f (authoring height %.2f)",
			c.Page.Width, c.Page.Height, c.Page.AuthoringHeight)
	}

	switch strings.ToLower(c.Shaping.Direction) {
	case "auto", "ltr", "rtl":
	default:
		return fmt.Errorf("invalid shaping direction %q", c.Shaping.Direction)
	}

	switch c.Shaping.NumberMarker {
	case "mark", "override":
	default:
		return fmt.Errorf("invalid number marker %q", c.Shaping.NumberMarker)
	}

	if c.Backup.Retention < 0 {
		return fmt.Errorf("backup retention must not be negative")
	}

	if _, err := os.Stat(c.DBDir); os.IsNotExist(err) {
		if err := os.MkdirAll(c.DBDir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", c.DBDir, err)
		}
	}

	return nil
}
