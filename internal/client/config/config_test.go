package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"bocado"}, args...)
	t.Cleanup(func() { os.Args = old })
}

func TestLoadDefaults(t *testing.T) {
	withArgs(t)

	cfg := LoadConfig()
	assert.Equal(t, "http://localhost:8000/api", cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "bocado.db", cfg.DatabaseFile)
	assert.Equal(t, "downloads", cfg.DownloadDir)
}

func TestFlagsOverrideDefaults(t *testing.T) {
	withArgs(t, "-a", "https://api.example.com/api", "-t", "30", "-f", "/tmp/b.db", "-d", "/tmp/dl")

	cfg := LoadConfig()
	assert.Equal(t, "https://api.example.com/api", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "/tmp/b.db", cfg.DatabaseFile)
	assert.Equal(t, "/tmp/dl", cfg.DownloadDir)
}

func TestJsonConfigOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"api_base_url": "https://json.example.com/api",
		"request_timeout": "45s"
	}`), 0o600))

	withArgs(t, "-config", path)

	cfg := LoadConfig()
	assert.Equal(t, "https://json.example.com/api", cfg.APIBaseURL)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
	// Fields absent from JSON keep their defaults.
	assert.Equal(t, "bocado.db", cfg.DatabaseFile)
	assert.Equal(t, "downloads", cfg.DownloadDir)
}

func TestFlagsBeatJson(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api_base_url": "https://json.example.com/api"}`), 0o600))

	withArgs(t, "-config", path, "-a", "https://flag.example.com/api")

	cfg := LoadConfig()
	assert.Equal(t, "https://flag.example.com/api", cfg.APIBaseURL)
}

func TestMissingJsonFilePanics(t *testing.T) {
	withArgs(t, "-config", filepath.Join(t.TempDir(), "absent.json"))

	require.Panics(t, func() { LoadConfig() })
}
