package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "DB_PATH", "LOG_LEVEL", "LOG_FORMAT", "MASTERDATA_PATH", "BANDS_IMPORT_PATH",
	"SEED_DEMO_DATA", "DEFAULT_AGRONOMIST", "LAB_ALLOWED_DOMAINS", "LAB_MAX_BYTES",
}

// clearEnv registers cleanup through t.Setenv and then unsets the keys so
// godotenv does not skip them as already present.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err, "missing .env is reported")

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogJSON)
	assert.True(t, cfg.SeedDemoData)
	assert.Equal(t, "a1", cfg.DefaultAgronomist)
	assert.Empty(t, cfg.LabAllowedDomains)
	assert.EqualValues(t, 1500000, cfg.LabMaxBytes)
}

func TestLoadFromDotEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(
		"PORT=9090\nDB_PATH=agronomy.db\nLOG_FORMAT=json\nSEED_DEMO_DATA=false\n"+
			"LAB_ALLOWED_DOMAINS=Lab.Example.com,soil.example.org\nLAB_MAX_BYTES=2048\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "agronomy.db", cfg.DBPath)
	assert.True(t, cfg.LogJSON)
	assert.False(t, cfg.SeedDemoData)
	assert.Equal(t, []string{"lab.example.com", "soil.example.org"}, cfg.LabAllowedDomains)
	assert.EqualValues(t, 2048, cfg.LabMaxBytes)
}

func TestLoadProcessEnvWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7070")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=9090\nLAB_MAX_BYTES=-4\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.EqualValues(t, 1500000, cfg.LabMaxBytes, "non-positive limit falls back to the default")
}
