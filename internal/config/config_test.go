package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/lessonsmith/internal/assembler"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvConfig, EnvDB, EnvContentRoot, EnvLibrary, EnvUser, EnvLogLevel} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, assembler.DefaultPolicy(), cfg.Assembly)
	assert.Equal(t, "skip", cfg.Content.MissingDomain)
	assert.Equal(t, 1, cfg.Content.Jobs)
	assert.Equal(t, "local", cfg.Notes.UserID)
	assert.Equal(t, "new_lessons.txt", cfg.Content.ListFile)
}

func TestLoad_FileOverridesDefaultsPartially(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
content:
  root: /srv/lessons
  missing_domain: strict
  jobs: 4
assembly:
  explanation_min: 700
  shuffle_answers: false
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/lessons", cfg.Content.Root)
	assert.Equal(t, "strict", cfg.Content.MissingDomain)
	assert.Equal(t, 4, cfg.Content.Jobs)
	assert.Equal(t, 700, cfg.Assembly.ExplanationMin)
	assert.Equal(t, 1200, cfg.Assembly.ExplanationMax, "unset keys keep defaults")
	assert.False(t, cfg.Assembly.ShuffleAnswers)
	assert.Equal(t, "new_lessons.txt", cfg.Content.ListFile)
}

func TestLoad_EnvOverridesApplyWithoutFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvDB, "/tmp/test.db")
	t.Setenv(EnvContentRoot, "/content")
	t.Setenv(EnvLibrary, "/lib.yaml")
	t.Setenv(EnvUser, "learner-7")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, "/content", cfg.Content.Root)
	assert.Equal(t, "/lib.yaml", cfg.Library.Path)
	assert.Equal(t, "learner-7", cfg.Notes.UserID)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, filepath.Join("/content", "lesson_ideas.csv"), cfg.CatalogPath())
}

func TestLoad_InvalidValuesReported(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("content:\n  missing_domain: ignore\n  jobs: 0\nassembly:\n  document_min: 9000\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `content.missing_domain: invalid value "ignore"`)
	assert.Contains(t, err.Error(), "content.jobs must be at least 1")
	assert.Contains(t, err.Error(), "document band")
}

func TestLoad_MalformedYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("content: [unclosed"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Content.Jobs = 3
	cfg.Notes.UserID = "someone"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv(EnvConfig, "/etc/lessonsmith.yaml")
	assert.Equal(t, "/etc/lessonsmith.yaml", DefaultPath())

	t.Setenv(EnvConfig, "")
	assert.Equal(t, "config.yaml", filepath.Base(DefaultPath()))
}

func TestContentPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Content.Root = "/root/lessons"
	assert.Equal(t, "/root/lessons/new_lessons.txt", cfg.ContentPath("new_lessons.txt"))
	assert.Equal(t, "/abs/x.csv", cfg.ContentPath("/abs/x.csv"))
	assert.Equal(t, "", cfg.ContentPath(""))
}
