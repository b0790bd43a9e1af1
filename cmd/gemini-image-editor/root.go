package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shouni/gemini-image-editor/pkg/compositor"
	"github.com/shouni/gemini-image-editor/pkg/config"
	"github.com/shouni/gemini-image-editor/pkg/editor"
	"github.com/shouni/gemini-image-editor/pkg/generator"
	"github.com/shouni/gemini-image-editor/pkg/textures"
)

// globalFlags はすべてのサブコマンドで共有するフラグです。
type globalFlags struct {
	verbose      bool
	envFile      string
	model        string
	timeout      time.Duration
	systemPrompt string
	aspectRatio  string
	seed         int32
	seedSet      bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "gemini-image-editor",
		Short: "Adjust an image locally and edit it with Gemini",
		Long: `gemini-image-editor flattens brightness, contrast and a tiled texture overlay
onto an image, then sends the result with a natural-language prompt to a Gemini
image model and writes the returned image.

Examples:
  gemini-image-editor flatten -i photo.jpg -o out.png --brightness 120 --texture paper
  gemini-image-editor edit -i photo.png -o sunset.png -p "make it a sunset"
  gemini-image-editor shell -i photo.png`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger(g.verbose)
			g.seedSet = cmd.Flags().Changed("seed")
		},
	}

	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&g.envFile, "env-file", ".env", "Path to a .env file (ignored if missing)")
	cmd.PersistentFlags().StringVarP(&g.model, "model", "m", "", "Gemini image model (overrides "+config.EnvModel+")")
	cmd.PersistentFlags().DurationVar(&g.timeout, "timeout", 0, "Remote edit timeout (overrides "+config.EnvRequestTimeout+")")
	cmd.PersistentFlags().StringVar(&g.systemPrompt, "system-prompt", "", "System instruction sent with every edit (overrides "+config.EnvSystemPrompt+")")
	cmd.PersistentFlags().StringVar(&g.aspectRatio, "aspect-ratio", "", "Output aspect ratio such as 16:9 (overrides "+config.EnvAspectRatio+")")
	cmd.PersistentFlags().Int32Var(&g.seed, "seed", 0, "Sampling seed for reproducible edits (overrides "+config.EnvSeed+")")

	cmd.AddCommand(newFlattenCmd(), newEditCmd(g), newShellCmd(g))
	return cmd
}

func setupLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadConfig は設定を読み込み、フラグによる上書きを適用します。
func (g *globalFlags) loadConfig() (config.Config, error) {
	cfg, err := config.Load(g.envFile)
	if err != nil {
		return config.Config{}, fmt.Errorf("設定の読み込みに失敗しました: %w", err)
	}
	if g.model != "" {
		cfg.Model = g.model
	}
	if g.timeout > 0 {
		cfg.RequestTimeout = g.timeout
	}
	if g.systemPrompt != "" {
		cfg.SystemPrompt = g.systemPrompt
	}
	if g.aspectRatio != "" {
		if err := config.ValidateAspectRatio(g.aspectRatio); err != nil {
			return config.Config{}, fmt.Errorf("--aspect-ratio: %w", err)
		}
		cfg.AspectRatio = g.aspectRatio
	}
	if g.seedSet {
		seed := int64(g.seed)
		cfg.Seed = &seed
	}
	return cfg, nil
}

func newCompositor() (*compositor.Compositor, error) {
	return compositor.New(textures.Bundled())
}

// newEditor は Gemini クライアントを含むオーケストレーターを組み立てます。
func newEditor(ctx context.Context, cfg config.Config, comp editor.Flattener) (*editor.Editor, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	model, err := generator.NewGenAIModel(ctx, cfg.APIKey)
	if err != nil {
		return nil, err
	}
	remote, err := generator.NewGeminiEditor(model, cfg.GeneratorOptions())
	if err != nil {
		return nil, err
	}
	return editor.New(comp, remote, cfg.RequestTimeout)
}
