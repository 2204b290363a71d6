package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"ADDR", "PORT", "DATA_DIR", "UPLOAD_DIR", "STORE_DRIVER", "APP_ENV", "TZ_NAME", "REMINDER_WINDOW_DAYS", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, 30, cfg.ReminderWindowDays)
	assert.Equal(t, filepath.Join("data", "uploads"), filepath.Clean(cfg.UploadDir))
	assert.Equal(t, filepath.Join("data", AppName+".db"), filepath.Clean(cfg.DatabasePath()))
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "UTC", cfg.Location.String())
}

func TestLoadFlagsOverrideEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ADDR", ":9000")
	t.Setenv("STORE_DRIVER", DriverSQLite)
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example, http://b.example ,")
	t.Setenv("TZ_NAME", "Asia/Kolkata")

	cfg, err := Load([]string{"-addr", ":7000", "-store", DriverBolt, "-data", "/tmp/pm", "-seed"})
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, DriverBolt, cfg.StoreDriver)
	assert.True(t, cfg.Seed)
	assert.Equal(t, "/tmp/pm/"+AppName+".bolt", cfg.DatabasePath())
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "Asia/Kolkata", cfg.Location.String())
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("driver", func(t *testing.T) {
		_, err := Load([]string{"-store", "mongo"})
		assert.Error(t, err)
	})

	t.Run("window", func(t *testing.T) {
		t.Setenv("REMINDER_WINDOW_DAYS", "0")
		_, err := Load(nil)
		assert.Error(t, err)
	})

	t.Run("integer", func(t *testing.T) {
		t.Setenv("MAX_UPLOAD_BYTES", "lots")
		_, err := Load(nil)
		assert.Error(t, err)
	})

	t.Run("timezone", func(t *testing.T) {
		t.Setenv("TZ_NAME", "Mars/Olympus")
		_, err := Load(nil)
		assert.Error(t, err)
	})
}
