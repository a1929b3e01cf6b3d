package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"GOOGLE_API_KEY", "GEMINI_API_KEY", "VNFORGE_LIBRARY", "VNFORGE_CONFIG"} {
		t.Setenv(name, "")
	}
}

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_DATA_HOME", "/data")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.TextModel)
	assert.Equal(t, "3:4", cfg.AI.AspectRatio)
	assert.Equal(t, filepath.Join("/data", "vnforge", "library.db"), cfg.Paths.Library)
	assert.Equal(t, 4*time.Second, cfg.Pipeline.Spacing)
	assert.Equal(t, slog.LevelInfo, cfg.Level())

	_, err = cfg.APIKey()
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestLoadFileOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ai:
  api_key: from-file
  image_model: custom-image
  aspect_ratio: "16:9"
paths:
  library: /tmp/lib.db
pipeline:
  spacing: 500ms
  max_portrait_height: 1024
log_level: debug
`), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "custom-image", cfg.AI.ImageModel)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.TextModel, "unset fields keep defaults")
	assert.Equal(t, "16:9", cfg.AI.AspectRatio)
	assert.Equal(t, "/tmp/lib.db", cfg.Paths.Library)
	assert.Equal(t, 500*time.Millisecond, cfg.Pipeline.Spacing)
	assert.Equal(t, 1024, cfg.Pipeline.MaxPortraitHeight)
	assert.Equal(t, slog.LevelDebug, cfg.Level())

	key, err := cfg.APIKey()
	require.NoError(t, err)
	assert.Equal(t, "from-file", key)
}

func TestEnvironmentWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("VNFORGE_LIBRARY", "/elsewhere.db")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	key, _ := cfg.APIKey()
	assert.Equal(t, "gemini-key", key)
	assert.Equal(t, "/elsewhere.db", cfg.Paths.Library)

	t.Setenv("GOOGLE_API_KEY", "google-key")
	cfg, err = LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	key, _ = cfg.APIKey()
	assert.Equal(t, "google-key", key)
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "ai: [unterminated"},
		{"bad aspect ratio", "ai:\n  aspect_ratio: \"2:1\""},
		{"bad log level", "log_level: loud"},
		{"negative spacing", "pipeline:\n  spacing: -1s"},
		{"empty model", "ai:\n  text_model: \"\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0644))
			_, err := LoadFile(path)
			assert.Error(t, err)
		})
	}
}

func TestPath(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "vnforge", "config.yaml"), Path())

	t.Setenv("VNFORGE_CONFIG", "/explicit.yaml")
	assert.Equal(t, "/explicit.yaml", Path())
}

func TestSaveKeepsKeyOutOfTheFile(t *testing.T) {
	clearEnv(t)
	cfg := Default()
	cfg.AI.APIKey = "secret"
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")

	t.Setenv("GOOGLE_API_KEY", "")
	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Paths.Library, loaded.Paths.Library)
	assert.Equal(t, cfg.Pipeline.Spacing, loaded.Pipeline.Spacing)
}
