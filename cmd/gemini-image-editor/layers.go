package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/shouni/go-remote-io/pkg/remoteio"
	"github.com/spf13/cobra"

	"github.com/shouni/gemini-image-editor/pkg/domain"
	"github.com/shouni/gemini-image-editor/pkg/imgutil"
	"github.com/shouni/gemini-image-editor/pkg/session"
)

// layerFlags は flatten と edit で共通の入力・調整フラグです。
type layerFlags struct {
	input      string
	output     string
	brightness int
	contrast   int
	texture    string
	opacity    int
	blend      string
}

func (f *layerFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Input image: file path, data URL, http(s) URL, gs:// or s3:// URI")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output image file, gs:// or s3:// URI, or - to print a data URL")
	cmd.Flags().IntVar(&f.brightness, "brightness", domain.DefaultBrightness, "Brightness percent (0-200)")
	cmd.Flags().IntVar(&f.contrast, "contrast", domain.DefaultContrast, "Contrast percent (0-200)")
	cmd.Flags().StringVar(&f.texture, "texture", "", "Texture overlay (dusty, paper, canvas)")
	cmd.Flags().IntVar(&f.opacity, "opacity", domain.DefaultOpacity, "Texture opacity percent (0-100)")
	cmd.Flags().StringVar(&f.blend, "blend", domain.BlendOverlay.String(), "Texture blend mode (overlay, multiply, screen)")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
}

// loadSession は入力画像を読み込み、フラグの調整値を適用したセッションを返します。
func (f *layerFlags) loadSession(ctx context.Context, loader *imgutil.Loader) (*session.Session, error) {
	img, err := loader.Load(ctx, f.input)
	if err != nil {
		return nil, err
	}

	s := session.New()
	if err := s.Load(img); err != nil {
		return nil, err
	}
	if err := s.SetBrightness(f.brightness); err != nil {
		return nil, err
	}
	if err := s.SetContrast(f.contrast); err != nil {
		return nil, err
	}
	if f.texture == "" {
		return s, nil
	}

	tex, err := domain.ParseTexture(f.texture)
	if err != nil {
		return nil, err
	}
	mode, err := domain.ParseBlendMode(f.blend)
	if err != nil {
		return nil, err
	}
	if err := s.SetTexture(&tex); err != nil {
		return nil, err
	}
	if err := s.SetOpacity(f.opacity); err != nil {
		return nil, err
	}
	if err := s.SetBlendMode(mode); err != nil {
		return nil, err
	}
	return s, nil
}

// writeImage は画像をファイルに書き出します。path が "-" なら data URL を w に出力し、
// gs:// と s3:// は remote に書き込みます。
func writeImage(ctx context.Context, w io.Writer, remote remoteio.OutputWriter, path string, img domain.Image) error {
	if path == "-" {
		_, err := fmt.Fprintln(w, img.DataURL())
		return err
	}
	if remoteio.IsRemoteURI(path) {
		if err := remote.Write(ctx, path, bytes.NewReader(img.Data), img.MimeType); err != nil {
			return fmt.Errorf("画像のアップロードに失敗しました: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(path, img.Data, 0o644); err != nil {
		return fmt.Errorf("画像の書き込みに失敗しました: %w", err)
	}
	return nil
}
