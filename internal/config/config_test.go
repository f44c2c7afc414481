package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, name := range []string{
		"APP_ENV", "PORT", "CV_PROJECT_NAME", "CV_MAIN_TEX_PATH", "CV_SECTIONS_FILE",
		"RESUME_STORE_BACKEND", "LLM_PROVIDER", "LLM_MODEL", "LLM_MAX_TOKENS",
		"AUTH_ENABLED", "OVERLEAF_BASE_URL", "OVERLEAF_SESSION_COOKIE",
	} {
		t.Setenv(name, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, ":8081", cfg.Addr)
	assert.Equal(t, "cv-xelatex", cfg.ProjectName)
	assert.Equal(t, "main.tex", cfg.Registry.MasterPath)
	assert.Len(t, cfg.Registry.Sections, 5)
	assert.Equal(t, "sections/experience.tex", cfg.Registry.Sections["experience"])
	assert.Equal(t, "overleaf", cfg.Store.Backend)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 8192, cfg.LLM.MaxTokens)
	assert.False(t, cfg.Auth.Enabled)
	assert.Equal(t, "resume-mcp-server", cfg.Auth.Audience)
	assert.Equal(t, "public_key.pem", cfg.Auth.PublicKeyPath)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("PORT", "9090")
	t.Setenv("CV_PROJECT_NAME", "cv-2026")
	t.Setenv("CV_MAIN_TEX_PATH", "cv.tex")
	t.Setenv("RESUME_STORE_BACKEND", "S3")
	t.Setenv("RESUME_S3_ENDPOINT", "s3.example.com")
	t.Setenv("LLM_MAX_TOKENS", "4096")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("OVERLEAF_SESSION_COOKIE", "abc")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "cv-2026", cfg.ProjectName)
	assert.Equal(t, "cv.tex", cfg.Registry.MasterPath)
	assert.Equal(t, "s3", cfg.Store.Backend)
	assert.Equal(t, "s3.example.com", cfg.Store.S3.Endpoint)
	assert.True(t, cfg.Store.S3.UseSSL, "non-local env defaults to TLS")
	assert.Equal(t, 4096, cfg.LLM.MaxTokens)
	assert.True(t, cfg.Auth.Enabled)
	assert.Equal(t, "abc", cfg.Overleaf.SessionCookie)
}

func TestLoadRegistryFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sections.yaml")
	content := `master: resume.tex
sections:
  summary: parts/summary.tex
  work: parts/work.tex
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	registry, err := LoadRegistryFile(path)
	require.NoError(t, err)
	assert.Equal(t, "resume.tex", registry.MasterPath)
	assert.Equal(t, map[string]string{
		"summary": "parts/summary.tex",
		"work":    "parts/work.tex",
	}, registry.Sections)

	t.Setenv("CV_SECTIONS_FILE", path)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "resume.tex", cfg.Registry.MasterPath)
	assert.Len(t, cfg.Registry.Sections, 2)
}

func TestLoadRegistryFileErrors(t *testing.T) {
	_, err := LoadRegistryFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("master: x.tex\n"), 0o644))
	_, err = LoadRegistryFile(empty)
	assert.Error(t, err, "a registry without sections is rejected")
}
