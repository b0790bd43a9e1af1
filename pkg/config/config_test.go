package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shouni/gemini-image-editor/pkg/generator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvAPIKey, EnvAPIKeyFallback, EnvModel, EnvRequestTimeout, EnvMaxInlineBytes, EnvJPEGQuality, EnvSystemPrompt, EnvAspectRatio, EnvSeed} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, generator.DefaultModel, cfg.Model)
	assert.Equal(t, 120*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 15<<20, cfg.MaxInlineBytes)
	assert.Equal(t, 85, cfg.JPEGQuality)
	assert.Empty(t, cfg.SystemPrompt)
	assert.Empty(t, cfg.AspectRatio)
	assert.Nil(t, cfg.Seed)
	assert.ErrorIs(t, cfg.RequireAPIKey(), ErrMissingAPIKey)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIKeyFallback, "fallback-key")
	t.Setenv(EnvModel, "gemini-test-image")
	t.Setenv(EnvRequestTimeout, "45s")
	t.Setenv(EnvMaxInlineBytes, "1024")
	t.Setenv(EnvJPEGQuality, "70")
	t.Setenv(EnvSystemPrompt, "keep the composition")
	t.Setenv(EnvAspectRatio, "16:9")
	t.Setenv(EnvSeed, "-12")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "fallback-key", cfg.APIKey)
	assert.NoError(t, cfg.RequireAPIKey())
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout)

	opts := cfg.GeneratorOptions()
	assert.Equal(t, "gemini-test-image", opts.Model)
	assert.Equal(t, 1024, opts.MaxInlineBytes)
	assert.Equal(t, 70, opts.CompressionQuality)
	assert.Equal(t, "keep the composition", opts.SystemPrompt)
	assert.Equal(t, "16:9", opts.AspectRatio)
	require.NotNil(t, opts.Seed)
	assert.Equal(t, int64(-12), *opts.Seed)

	t.Setenv(EnvAPIKey, "primary-key")
	cfg, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "primary-key", cfg.APIKey, "GEMINI_API_KEY を優先する")
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv(EnvAPIKey)
	os.Unsetenv(EnvModel)

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GEMINI_API_KEY=from-dotenv\nGEMINI_IMAGE_MODEL=dotenv-model\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv(EnvAPIKey)
		os.Unsetenv(EnvModel)
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.APIKey)
	assert.Equal(t, "dotenv-model", cfg.Model)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"タイムアウトが不正", EnvRequestTimeout, "soon"},
		{"タイムアウトが負", EnvRequestTimeout, "-5s"},
		{"サイズが数値でない", EnvMaxInlineBytes, "big"},
		{"サイズが0", EnvMaxInlineBytes, "0"},
		{"品質が範囲外", EnvJPEGQuality, "101"},
		{"縦横比の形式が不正", EnvAspectRatio, "wide"},
		{"縦横比が0", EnvAspectRatio, "0:1"},
		{"シードが数値でない", EnvSeed, "lucky"},
		{"シードが int32 を超える", EnvSeed, "4294967296"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestValidateAspectRatio(t *testing.T) {
	for _, ok := range []string{"", "1:1", "16:9", "21:9"} {
		assert.NoError(t, ValidateAspectRatio(ok), ok)
	}
	for _, bad := range []string{"16x9", "16:", ":9", "-1:1", "a:b"} {
		assert.Error(t, ValidateAspectRatio(bad), bad)
	}
}
