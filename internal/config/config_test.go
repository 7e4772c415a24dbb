package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "./receipts_db", cfg.DBDir)
	assert.Equal(t, "Alef-Regular.ttf", cfg.Fonts.Regular)
	assert.Equal(t, 125.0, cfg.Page.Width)
	assert.Equal(t, 160.0, cfg.Page.Height)
	assert.Equal(t, 161.0, cfg.Page.AuthoringHeight)
	assert.Equal(t, "override", cfg.Shaping.NumberMarker)
	assert.Equal(t, 10*time.Second, cfg.Lock.Timeout)
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
db_dir: /srv/receipts
resource_dir: /srv/res
template: template.png
shaping:
  direction: rtl
  wrap_numbers: true
backup:
  retention: 3
lock:
  timeout: 2s
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/receipts", cfg.DBDir)
	assert.Equal(t, "/srv/res/template.png", cfg.Resource(cfg.Template))
	assert.Equal(t, "rtl", cfg.Shaping.Direction)
	assert.True(t, cfg.Shaping.WrapNumbers)
	assert.Equal(t, 3, cfg.Backup.Retention)
	assert.Equal(t, 2*time.Second, cfg.Lock.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_dir: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyOverrides(t *testing.T) {
	t.Setenv("RECEIPTS_DB_DIR", "/env/db")
	t.Setenv("RECEIPTS_LOG_LEVEL", "warn")

	v := viper.New()
	v.SetEnvPrefix("RECEIPTS")
	v.AutomaticEnv()
	require.NoError(t, v.BindEnv("db_dir"))
	require.NoError(t, v.BindEnv("log.level", "RECEIPTS_LOG_LEVEL"))
	v.Set("backup.retention", 5)

	cfg := Default()
	ApplyOverrides(cfg, v)

	assert.Equal(t, "/env/db", cfg.DBDir)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 5, cfg.Backup.Retention)
	assert.Equal(t, "./resources", cfg.ResourceDir)
}

func TestValidate(t *testing.T) {
	t.Run("creates db dir", func(t *testing.T) {
		cfg := Default()
		cfg.DBDir = filepath.Join(t.TempDir(), "nested", "db")
		require.NoError(t, cfg.Validate())
		assert.DirExists(t, cfg.DBDir)
	})

	t.Run("rejects unknown direction", func(t *testing.T) {
		cfg := Default()
		cfg.DBDir = t.TempDir()
		cfg.Shaping.Direction = "sideways"
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects unknown marker", func(t *testing.T) {
		cfg := Default()
		cfg.DBDir = t.TempDir()
		cfg.Shaping.NumberMarker = "brackets"
		assert.Error(t, cfg.Validate())
	})
}

func TestStorePaths(t *testing.T) {
	cfg := Default()
	cfg.DBDir = "/data"
	assert.Equal(t, filepath.Join("/data", "history.json"), cfg.HistoryPath())
	assert.Equal(t, filepath.Join("/data", "receipt_number.txt"), cfg.CounterPath())
	assert.Equal(t, filepath.Join("/data", "customers_data.json"), cfg.CustomersPath())
	assert.Equal(t, "/abs/sig.png", cfg.Resource("/abs/sig.png"))
}
