// Package config は .env と環境変数から実行時設定を読み込みます。
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/shouni/gemini-image-editor/pkg/editor"
	"github.com/shouni/gemini-image-editor/pkg/generator"
)

const (
	EnvAPIKey         = "GEMINI_API_KEY"
	EnvAPIKeyFallback = "GOOGLE_API_KEY"
	EnvModel          = "GEMINI_IMAGE_MODEL"
	EnvRequestTimeout = "EDITOR_REQUEST_TIMEOUT"
	EnvMaxInlineBytes = "EDITOR_MAX_INLINE_BYTES"
	EnvJPEGQuality    = "EDITOR_JPEG_QUALITY"
	EnvSystemPrompt   = "GEMINI_SYSTEM_PROMPT"
	EnvAspectRatio    = "GEMINI_ASPECT_RATIO"
	EnvSeed           = "GEMINI_SEED"
)

// ErrMissingAPIKey はリモート編集に必要な API キーが無い場合に返されます。
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is required")

// Config は CLI とライブラリの組み立てに使う設定値です。
type Config struct {
	APIKey         string
	Model          string
	RequestTimeout time.Duration
	MaxInlineBytes int
	JPEGQuality    int
	SystemPrompt   string
	AspectRatio    string
	Seed           *int64 // 未設定なら nil
}

// Load は .env（存在しなくてもよい）を読み込んだ後、環境変数から設定を組み立てます。
// 既に設定されている環境変数は .env で上書きしません。
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	cfg := Config{
		APIKey:       getEnv(EnvAPIKey, getEnv(EnvAPIKeyFallback, "")),
		Model:        getEnv(EnvModel, generator.DefaultModel),
		SystemPrompt: getEnv(EnvSystemPrompt, ""),
		AspectRatio:  getEnv(EnvAspectRatio, ""),
	}

	var err error
	if cfg.RequestTimeout, err = getEnvDuration(EnvRequestTimeout, editor.DefaultRequestTimeout); err != nil {
		return Config{}, err
	}
	if cfg.MaxInlineBytes, err = getEnvInt(EnvMaxInlineBytes, generator.DefaultMaxInlineBytes); err != nil {
		return Config{}, err
	}
	if cfg.JPEGQuality, err = getEnvInt(EnvJPEGQuality, generator.DefaultCompressionQuality); err != nil {
		return Config{}, err
	}
	if cfg.Seed, err = getEnvSeed(EnvSeed); err != nil {
		return Config{}, err
	}

	if cfg.RequestTimeout <= 0 {
		return Config{}, fmt.Errorf("%s must be positive, got %s", EnvRequestTimeout, cfg.RequestTimeout)
	}
	if cfg.MaxInlineBytes <= 0 {
		return Config{}, fmt.Errorf("%s must be positive, got %d", EnvMaxInlineBytes, cfg.MaxInlineBytes)
	}
	if cfg.JPEGQuality < 1 || cfg.JPEGQuality > 100 {
		return Config{}, fmt.Errorf("%s must be between 1 and 100, got %d", EnvJPEGQuality, cfg.JPEGQuality)
	}
	if err := ValidateAspectRatio(cfg.AspectRatio); err != nil {
		return Config{}, fmt.Errorf("%s: %w", EnvAspectRatio, err)
	}
	return cfg, nil
}

// ValidateAspectRatio は "W:H" 形式 (W, H は正の整数) かを検証します。空文字は未指定として許可します。
func ValidateAspectRatio(ratio string) error {
	if ratio == "" {
		return nil
	}
	w, h, ok := strings.Cut(ratio, ":")
	if !ok {
		return fmt.Errorf("invalid aspect ratio %q: want W:H such as 16:9", ratio)
	}
	for _, n := range []string{w, h} {
		if v, err := strconv.Atoi(n); err != nil || v <= 0 {
			return fmt.Errorf("invalid aspect ratio %q: want W:H such as 16:9", ratio)
		}
	}
	return nil
}

// RequireAPIKey はリモート編集を行うコマンドの前提条件を検証します。
func (c Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// GeneratorOptions は generator.GeminiEditor 用の設定に変換します。
func (c Config) GeneratorOptions() generator.Options {
	return generator.Options{
		Model:              c.Model,
		SystemPrompt:       c.SystemPrompt,
		MaxInlineBytes:     c.MaxInlineBytes,
		CompressionQuality: c.JPEGQuality,
		AspectRatio:        c.AspectRatio,
		Seed:               c.Seed,
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q: %w", key, v, err)
	}
	return i, nil
}

// getEnvSeed は SDK が int32 で受け取るため、その範囲に収まる値だけを受け付けます。
func getEnvSeed(key string) (*int64, error) {
	v := getEnv(key, "")
	if v == "" {
		return nil, nil
	}
	seed, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid seed %q: %w", key, v, err)
	}
	return &seed, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, v, err)
	}
	return d, nil
}
