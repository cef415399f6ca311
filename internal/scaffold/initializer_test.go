package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/easel/internal/config"
)

func TestInitialize(t *testing.T) {
	t.Run("fresh directory", func(t *testing.T) {
		dir := t.TempDir()

		created, err := Initialize(dir, false)
		require.NoError(t, err)
		assert.Equal(t, []string{ConfigFile, EnvFile}, created)

		info, err := os.Stat(filepath.Join(dir, EnvFile))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("existing files without force", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte("old"), 0644))

		_, err := Initialize(dir, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "project already initialized")
		assert.Contains(t, err.Error(), "--force")

		content, _ := os.ReadFile(filepath.Join(dir, ConfigFile))
		assert.Equal(t, "old", string(content))
	})

	t.Run("force overwrites", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte("old"), 0644))

		_, err := Initialize(dir, true)
		require.NoError(t, err)

		content, _ := os.ReadFile(filepath.Join(dir, ConfigFile))
		assert.Contains(t, string(content), `version: "1.0"`)
	})
}

func TestCheckExisting(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, CheckExisting(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, EnvFile), nil, 0600))

	err := CheckExisting(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "  - easel.yml\n")
	assert.Contains(t, err.Error(), "  - .env.example\n")
}

// The template becomes a valid config once the board id and secrets are supplied.
func TestTemplateLoadsAsConfig(t *testing.T) {
	for _, key := range []string{"MIRO_API_URL", "INTERVAL_SECONDS", "EASEL_TAG_BACKEND", "EASEL_TAG_DB", "REDIS_URL", "LLM_PROVIDER", "LLM_MODEL", "GOOGLE_API_KEY", "EASEL_HEALTH_ADDR"} {
		t.Setenv(key, "")
	}
	t.Setenv("MIRO_BOARD_ID", "b1")
	t.Setenv("MIRO_API_TOKEN", "tok")
	t.Setenv("GEMINI_API_KEY", "key")

	dir := t.TempDir()
	_, err := Initialize(dir, false)
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(dir, ConfigFile))
	require.NoError(t, err)
	assert.Equal(t, "b1", cfg.Board.ID)
	assert.Equal(t, "sqlite", cfg.Tags.Backend)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
}
