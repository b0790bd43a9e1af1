package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/gemini-image-editor/pkg/domain"
	"github.com/shouni/gemini-image-editor/pkg/imgutil"
	"github.com/shouni/go-gemini-client/pkg/gemini"
)

// prepareImage は送信用のペイロードと MIME タイプを決定します。
// 上限を超えるペイロードは JPEG に再圧縮します。
func (e *GeminiEditor) prepareImage(ctx context.Context, img domain.Image) ([]byte, string, error) {
	if len(img.Data) == 0 {
		return nil, "", fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}

	mimeType := img.MimeType
	if mimeType == "" {
		mimeType = imgutil.DetectMimeType(img.Data)
	}
	if !imgutil.IsImageMimeType(mimeType) {
		return nil, "", fmt.Errorf("%w: unsupported MIME type %q", ErrInvalidImage, mimeType)
	}

	if len(img.Data) <= e.opts.MaxInlineBytes {
		return img.Data, mimeType, nil
	}

	compressed, err := imgutil.CompressToJPEG(img.Data, e.opts.CompressionQuality)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	slog.InfoContext(ctx, "送信サイズ上限を超えたためJPEGに再圧縮しました",
		"before", len(img.Data),
		"after", len(compressed),
		"limit", e.opts.MaxInlineBytes,
	)
	return compressed, imgutil.MimeJPEG, nil
}

// parseToOutput は最初の候補からテキストと最初の画像を取り出します。
// 2 枚目以降の画像は無視するのだ。
func (e *GeminiEditor) parseToOutput(resp *gemini.Response) (*editOutput, error) {
	if resp == nil || resp.RawResponse == nil {
		return nil, fmt.Errorf("invalid response: empty body")
	}

	out := &editOutput{}
	if len(resp.RawResponse.Candidates) == 0 {
		return out, nil
	}
	candidate := resp.RawResponse.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return out, nil
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		if part.Text != "" {
			text.WriteString(part.Text)
		}
		if out.Data == nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			out.Data = part.InlineData.Data
			out.MimeType = part.InlineData.MIMEType
			if out.MimeType == "" {
				out.MimeType = imgutil.DetectMimeType(out.Data)
			}
		}
	}
	out.Text = text.String()
	return out, nil
}
