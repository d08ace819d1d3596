package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("MARKNOTE_ENV_FILE", filepath.Join(dir, "missing.env"))
	for _, key := range []string{
		"MARKNOTE_CONFIG_PATH", "MARKNOTE_TRANSPORT", "MARKNOTE_SERVER_HOST",
		"MARKNOTE_SERVER_PORT", "MARKNOTE_DB_PATH", "MARKNOTE_LOG_LEVEL",
		"MARKNOTE_LOG_PATH", "MARKNOTE_AUTOSAVE_DELAY", "MARKNOTE_HIGHLIGHT_STYLE",
		"MARKNOTE_HARD_WRAPS",
	} {
		t.Setenv(key, "")
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.Equal(t, 500*time.Millisecond, cfg.Autosave.Delay)
	require.True(t, cfg.Render.HardWraps)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "marknote.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
transport:
  mode: http
server:
  port: 9000
db:
  path: /data/notes.db
autosave:
  delay: 2s
render:
  highlight_style: monokai
`), 0o644))
	t.Setenv("MARKNOTE_CONFIG_PATH", path)
	t.Setenv("MARKNOTE_SERVER_PORT", "9100")
	t.Setenv("MARKNOTE_HARD_WRAPS", "false")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.Equal(t, 9100, cfg.Server.Port)
	require.Equal(t, "/data/notes.db", cfg.DB.Path)
	require.Equal(t, 2*time.Second, cfg.Autosave.Delay)
	require.Equal(t, "monokai", cfg.Render.HighlightStyle)
	require.False(t, cfg.Render.HardWraps)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := isolate(t)

	envPath := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("MARKNOTE_DB_PATH=from-dotenv.db\n"), 0o644))
	t.Setenv("MARKNOTE_ENV_FILE", envPath)
	// godotenv never overrides variables that are already set.
	os.Unsetenv("MARKNOTE_DB_PATH")
	t.Cleanup(func() { os.Unsetenv("MARKNOTE_DB_PATH") })

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "from-dotenv.db", cfg.DB.Path)
}

func TestLoad_InvalidValues(t *testing.T) {
	isolate(t)

	t.Setenv("MARKNOTE_SERVER_PORT", "eighty")
	_, err := Load()
	require.ErrorContains(t, err, "MARKNOTE_SERVER_PORT")

	t.Setenv("MARKNOTE_SERVER_PORT", "")
	t.Setenv("MARKNOTE_TRANSPORT", "carrier-pigeon")
	_, err = Load()
	require.ErrorContains(t, err, "transport mode")

	t.Setenv("MARKNOTE_TRANSPORT", "")
	t.Setenv("MARKNOTE_AUTOSAVE_DELAY", "soon")
	_, err = Load()
	require.ErrorContains(t, err, "MARKNOTE_AUTOSAVE_DELAY")
}
