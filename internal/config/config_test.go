package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("should fall back to defaults without a file", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

		require.NoError(t, err)
		assert.Equal(t, Defaults(), cfg)
	})

	t.Run("should read values from the yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "application.yaml")
		content := "storage:\n  driver: memory\nreport:\n  window: plan\n  days: 7\ntemplates:\n  language: es\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, DriverMemory, cfg.Storage.Driver)
		assert.Equal(t, "monny-budgets", cfg.Storage.Key)
		assert.Equal(t, "plan", cfg.Report.Window)
		assert.Equal(t, 7, cfg.Report.Days)
		assert.Equal(t, "es", cfg.Templates.Language)
	})

	t.Run("should let environment variables override the file", func(t *testing.T) {
		t.Setenv("MONNY_SERVER_ADDR", ":9090")
		t.Setenv("MONNY_DB_HOST", "db.internal")

		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.Server.Addr)
		assert.Equal(t, "db.internal", cfg.Database.Host)
	})

	t.Run("should reject an unknown reporting window", func(t *testing.T) {
		t.Setenv("MONNY_REPORT_WINDOW", "weekly")

		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

		assert.Error(t, err)
	})
}

func TestApplication_Validate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	cfg.Storage.Driver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.Report.Days = 0
	assert.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.Storage.Key = ""
	assert.Error(t, cfg.Validate())
}
