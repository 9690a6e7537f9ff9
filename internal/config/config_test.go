package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pathfix/internal/foundation/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pathfix.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoad_AllFields(t *testing.T) {
	path := writeConfig(t, `
home: /home/alice
dry_run: true
jobs: 4
metrics_textfile: /var/lib/node_exporter/pathfix.prom
skip:
  - node_modules
  - vendor
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/home/alice", cfg.Home)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, 4, cfg.Jobs)
	assert.Equal(t, "/var/lib/node_exporter/pathfix.prom", cfg.MetricsTextfile)
	assert.Equal(t, []string{"node_modules", "vendor"}, cfg.Skip)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("PATHFIX_TEST_HOME", "/home/bob")
	path := writeConfig(t, "home: ${PATHFIX_TEST_HOME}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/home/bob", cfg.Home)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "colour: blue\n"},
		{"malformed", "skip: [unterminated\n"},
		{"negative jobs", "jobs: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	loaded, err := LoadEnv()
	require.NoError(t, err)
	assert.Empty(t, loaded)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PATHFIX_TEST_JOBS=3\n"), 0o600))
	t.Setenv("PATHFIX_TEST_JOBS", "")
	require.NoError(t, os.Unsetenv("PATHFIX_TEST_JOBS"))

	loaded, err = LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{".env"}, loaded)
	assert.Equal(t, "3", os.Getenv("PATHFIX_TEST_JOBS"))
}

func TestLoadEnv_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("PATHFIX_TEST_HOME", "/from/process")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PATHFIX_TEST_HOME=/from/file\n"), 0o600))

	_, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "/from/process", os.Getenv("PATHFIX_TEST_HOME"))
}
